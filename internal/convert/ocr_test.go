package convert

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer hands out small byte payloads instead of real page images so
// the fan-out can run without a PDF fixture.
type fakeRenderer struct {
	pages int
}

func (r *fakeRenderer) NumPages() int {
	return r.pages
}

func (r *fakeRenderer) RenderPNG(index int) ([]byte, error) {
	return []byte(fmt.Sprintf("page-%d", index)), nil
}

type failingRenderer struct {
	fakeRenderer
	failAt int
}

func (r *failingRenderer) RenderPNG(index int) ([]byte, error) {
	if index == r.failAt {
		return nil, fmt.Errorf("render blew up")
	}
	return r.fakeRenderer.RenderPNG(index)
}

func TestConvertPDFOCRMissingFunc(t *testing.T) {
	c := newTestConverter()

	_, err := c.convertPDFOCR(context.Background(), "scan.pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingOCRFunc)
}

func TestOCRPagesDeterministicOrder(t *testing.T) {
	c := newTestConverter()

	// Only pages 1, 2 and 5 yield text; completion order is scrambled by
	// per-page delays.
	texts := map[string]string{
		"page-0": "alpha",
		"page-1": "bravo",
		"page-4": "echo",
	}
	delays := map[string]time.Duration{
		"page-0": 20 * time.Millisecond,
		"page-1": 30 * time.Millisecond,
		"page-4": 5 * time.Millisecond,
	}

	ocrFunc := func(ctx context.Context, png []byte) (string, error) {
		time.Sleep(delays[string(png)])
		return texts[string(png)], nil
	}

	results, err := c.ocrPages(context.Background(), &fakeRenderer{pages: 5}, ocrFunc)
	require.NoError(t, err)

	merged := mergePages(results)
	assert.Equal(t, "Page 1\n\nalpha\n\nPage 2\n\nbravo\n\nPage 5\n\necho\n", merged)
}

func TestOCRPagesPropagatesOCRFailure(t *testing.T) {
	c := newTestConverter()

	ocrFunc := func(ctx context.Context, png []byte) (string, error) {
		if string(png) == "page-2" {
			return "", fmt.Errorf("backend exploded")
		}
		return "text", nil
	}

	_, err := c.ocrPages(context.Background(), &fakeRenderer{pages: 4}, ocrFunc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3")
}

func TestOCRPagesPropagatesRenderFailure(t *testing.T) {
	c := newTestConverter()

	ocrFunc := func(ctx context.Context, png []byte) (string, error) {
		return "text", nil
	}

	renderer := &failingRenderer{fakeRenderer: fakeRenderer{pages: 3}, failAt: 1}
	_, err := c.ocrPages(context.Background(), renderer, ocrFunc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render page 2")
}

func TestOCRPagesAllBlank(t *testing.T) {
	c := newTestConverter()

	ocrFunc := func(ctx context.Context, png []byte) (string, error) {
		return "   \n", nil
	}

	results, err := c.ocrPages(context.Background(), &fakeRenderer{pages: 3}, ocrFunc)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "", mergePages(results))
}
