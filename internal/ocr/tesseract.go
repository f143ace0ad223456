package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/coursekit/coverage-agent/internal/convert"
)

// TesseractFunc returns an OCR callback backed by a local tesseract
// install. A fresh client is created per call so the function is safe to
// invoke from concurrent page workers.
func TesseractFunc() convert.OCRFunc {
	return func(ctx context.Context, pngBytes []byte) (string, error) {
		prepped, err := preprocess(pngBytes)
		if err != nil {
			return "", err
		}

		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetImageFromBytes(prepped); err != nil {
			return "", fmt.Errorf("tesseract set image: %w", err)
		}
		text, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("tesseract recognize: %w", err)
		}
		return text, nil
	}
}

// preprocess runs the image cleanup pipeline before recognition: grayscale,
// contrast boost, light sharpen.
func preprocess(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}

	cleaned := imaging.Grayscale(img)
	cleaned = imaging.AdjustContrast(cleaned, 20)
	cleaned = imaging.Sharpen(cleaned, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cleaned); err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}
