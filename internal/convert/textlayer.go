package convert

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// convertPDFText extracts the embedded text layer of a PDF, page by page in
// order. Pages with a null body or only whitespace are recorded as empty;
// they never fail the document on their own.
func (c *Converter) convertPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", newError(ErrBackendUnavailable, path, err)
	}
	defer f.Close()

	pages := make(map[int]string)
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("convert %s: text layer of page %d: %w", path, i, err)
		}
		pages[i-1] = text
	}

	markdown := mergePages(pages)
	if markdown == "" {
		return "", newError(ErrNoExtractableText, path, nil)
	}
	return markdown, nil
}
