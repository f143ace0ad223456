package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"

	"github.com/coursekit/coverage-agent/pkg/logger"
)

// Pages are rasterized at twice the native 72 DPI page size; the upscale
// measurably improves OCR accuracy on slide and exam scans.
const renderDPI = 144

// pageRenderer produces PNG-encoded raster images of document pages,
// 0-indexed. It lets the OCR fan-out run against fakes in tests.
type pageRenderer interface {
	NumPages() int
	RenderPNG(index int) ([]byte, error)
}

type fitzRenderer struct {
	doc *fitz.Document
}

func openFitzRenderer(path string) (*fitzRenderer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzRenderer{doc: doc}, nil
}

func (r *fitzRenderer) NumPages() int {
	return r.doc.NumPage()
}

func (r *fitzRenderer) RenderPNG(index int) ([]byte, error) {
	img, err := r.doc.ImageDPI(index, renderDPI)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *fitzRenderer) Close() error {
	return r.doc.Close()
}

// convertPDFOCR renders every page of the PDF and runs the injected OCR
// function over them concurrently.
func (c *Converter) convertPDFOCR(ctx context.Context, path string, ocrFunc OCRFunc) (string, error) {
	if ocrFunc == nil {
		return "", newError(ErrMissingOCRFunc, path, nil)
	}

	renderer, err := openFitzRenderer(path)
	if err != nil {
		return "", newError(ErrBackendUnavailable, path, err)
	}
	defer renderer.Close()

	if renderer.NumPages() == 0 {
		return "", newError(ErrNoExtractableText, path, fmt.Errorf("PDF has no pages"))
	}

	pages, err := c.ocrPages(ctx, renderer, ocrFunc)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}

	markdown := mergePages(pages)
	if markdown == "" {
		return "", newError(ErrNoExtractableText, path, nil)
	}
	return markdown, nil
}

// ocrPages fans one render+OCR round trip per page out to a bounded worker
// pool and collects results into an index-keyed map. Completion order is
// arbitrary; mergePages restores page order. Any page error fails the lot.
func (c *Converter) ocrPages(ctx context.Context, renderer pageRenderer, ocrFunc OCRFunc) (map[int]string, error) {
	total := renderer.NumPages()
	results := make(map[int]string, total)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, c.workers)

	for i := 0; i < total; i++ {
		idx := i
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return ctx.Err()
			}

			pngBytes, err := renderer.RenderPNG(idx)
			if err != nil {
				return fmt.Errorf("render page %d: %w", idx+1, err)
			}

			c.log.Debug("running OCR", logger.Int("page", idx+1))
			text, err := ocrFunc(ctx, pngBytes)
			if err != nil {
				return fmt.Errorf("OCR page %d: %w", idx+1, err)
			}

			clean := strings.TrimSpace(text)
			if clean == "" {
				return nil
			}

			mu.Lock()
			results[idx] = clean
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
