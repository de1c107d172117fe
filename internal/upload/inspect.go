package upload

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPages reads the page count of an in-memory PDF.
func CountPages(data []byte) (pages int, err error) {
	// the parser panics on some truncated xref tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// CountPagesFile is CountPages for a file on disk.
func CountPagesFile(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
