package upload

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// InspectPDF opens the document structure and returns its page count. Text is
// never extracted; the bytes are forwarded to the model untouched.
func InspectPDF(data []byte) (pages int, err error) {
	defer func() {
		// the reader panics on some malformed xref tables
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("inspect pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("inspect pdf: %w", err)
	}
	return reader.NumPage(), nil
}
