// Package ocr provides interchangeable OCR backends in the converter's
// callback shape.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coursekit/coverage-agent/config"
	"github.com/coursekit/coverage-agent/internal/convert"
)

// The prompt always asks for Markdown so downstream consumers can rely on
// Markdown text.
const extractionPrompt = `You are extracting text from a scanned lecture slide or exam page.

Return the visible text as clean Markdown, preserving headings and bullet points where obvious. Do not add commentary beyond what is visible in the image.`

// LLMClient OCRs page images through a vision-capable chat-completions
// model.
type LLMClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewLLMClient builds the client from config. A missing API key reports
// ErrBackendUnavailable so callers can treat it like any other absent
// extraction backend.
func NewLLMClient(cfg *config.OpenAIConfig) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set: %w", convert.ErrBackendUnavailable)
	}
	return &LLMClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Func adapts the client to the converter's OCR callback.
func (c *LLMClient) Func() convert.OCRFunc {
	return c.ocrImage
}

func (c *LLMClient) ocrImage(ctx context.Context, pngBytes []byte) (string, error) {
	imageB64 := base64.StdEncoding.EncodeToString(pngBytes)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractionPrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/png;base64," + imageB64,
				}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM OCR request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("LLM OCR request failed with status %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode OCR response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("LLM OCR response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
