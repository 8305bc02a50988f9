// Package extract pulls lightweight metadata out of uploaded PDF files.
package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty document")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	n := reader.NumPage()
	if n <= 0 {
		return 0, fmt.Errorf("document has no pages")
	}
	return n, nil
}
