// Package convert normalizes course documents into Markdown artifacts.
//
// Three cases are handled:
//  1. Text files (.md, .txt): .md is returned as-is; .txt is normalized
//     into a sibling .md file.
//  2. Text PDFs: the embedded text layer is extracted page by page.
//  3. Image-only PDFs: pages are rendered to images and OCR'd through an
//     injected OCR function, concurrently across pages.
//
// A derived .md sibling, once written, acts as a cache entry: later calls
// reuse it by a plain existence probe unless the caller forces a refresh.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/coursekit/coverage-agent/pkg/logger"
)

// OCRFunc turns a PNG-encoded page image into Markdown text. It must be
// safe to call from concurrent page workers; any error it returns fails
// the whole document conversion.
type OCRFunc func(ctx context.Context, png []byte) (string, error)

// Converter turns source documents into Markdown artifacts.
type Converter struct {
	log     logger.Logger
	workers int
}

func NewConverter(log logger.Logger) *Converter {
	return &Converter{
		log:     log,
		workers: runtime.NumCPU(),
	}
}

type options struct {
	gate         QualityGate
	ocrFunc      OCRFunc
	useOCR       bool
	forceRefresh bool
}

// Option configures a single Convert call.
type Option func(*options)

// WithQualityGate sets the gate applied to extracted text before it is
// persisted.
func WithQualityGate(g QualityGate) Option {
	return func(o *options) {
		o.gate = g
	}
}

// WithOCRFunc injects the OCR backend used by the OCR strategy.
func WithOCRFunc(fn OCRFunc) Option {
	return func(o *options) {
		o.ocrFunc = fn
	}
}

// WithOCR selects the OCR strategy for PDF sources instead of text-layer
// extraction.
func WithOCR(use bool) Option {
	return func(o *options) {
		o.useOCR = use
	}
}

// ForceRefresh bypasses derived-file reuse and re-runs extraction even when
// a sibling .md already exists. The fresh artifact overwrites the sibling.
func ForceRefresh() Option {
	return func(o *options) {
		o.forceRefresh = true
	}
}

// Convert normalizes the document at path into Markdown and returns the
// path of the .md file holding the result. Failures are *ConversionError
// values; no partial artifact is ever left on disk.
func (c *Converter) Convert(ctx context.Context, path string, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		return "", newError(ErrSourceNotFound, path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	// Plain Markdown needs no conversion and no artifact.
	if ext == ".md" {
		return path, nil
	}

	mdPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".md"

	if ext == ".txt" {
		if !o.forceRefresh && fileExists(mdPath) {
			return mdPath, nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("convert %s: %w", path, err)
		}
		markdown := strings.TrimSpace(decodeLossy(raw)) + "\n"
		if o.gate != nil && !o.gate(markdown) {
			return "", newError(ErrQualityCheckFailed, path, nil)
		}
		if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
			return "", fmt.Errorf("convert %s: %w", path, err)
		}
		return mdPath, nil
	}

	// For non-text inputs an existing sibling wins outright; the quality
	// gate is not re-run on reuse.
	if !o.forceRefresh && fileExists(mdPath) {
		return mdPath, nil
	}

	if ext != ".pdf" {
		return "", newError(ErrUnsupportedType, path, fmt.Errorf("extension %q", ext))
	}

	var markdown string
	var err error
	if o.useOCR {
		markdown, err = c.convertPDFOCR(ctx, path, o.ocrFunc)
	} else {
		markdown, err = c.convertPDFText(path)
	}
	if err != nil {
		return "", err
	}

	if o.gate != nil && !o.gate(markdown) {
		return "", newError(ErrQualityCheckFailed, path, nil)
	}

	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}
	c.log.Debug("wrote markdown artifact",
		logger.String("source", path),
		logger.String("artifact", mdPath),
	)
	return mdPath, nil
}

// ReadMarkdown reads a Markdown file as UTF-8 text, dropping undecodable
// bytes.
func ReadMarkdown(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeLossy(raw), nil
}

// mergePages assembles per-page text, keyed by 0-based page index, into the
// final Markdown layout: a "Page N" header per non-empty page, ascending by
// index regardless of insertion order. Returns "" when no page has text.
func mergePages(pages map[int]string) string {
	idxs := make([]int, 0, len(pages))
	for i := range pages {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	var lines []string
	for _, i := range idxs {
		clean := strings.TrimSpace(pages[i])
		if clean == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("Page %d", i+1), "", clean, "")
	}
	return strings.Join(lines, "\n")
}

func decodeLossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
