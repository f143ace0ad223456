package ocr

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/coursekit/coverage-agent/config"
	"github.com/coursekit/coverage-agent/internal/convert"
)

// TextractClient OCRs page images through AWS Textract.
type TextractClient struct {
	client *textract.Client
}

func NewTextractClient(ctx context.Context, cfg *config.TextractConfig) (*TextractClient, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &TextractClient{client: textract.NewFromConfig(awsCfg)}, nil
}

// Func adapts the client to the converter's OCR callback.
func (t *TextractClient) Func() convert.OCRFunc {
	return t.ocrImage
}

func (t *TextractClient) ocrImage(ctx context.Context, pngBytes []byte) (string, error) {
	out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: pngBytes},
	})
	if err != nil {
		return "", fmt.Errorf("textract detect document text: %w", err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
