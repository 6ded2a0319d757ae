// Package pdftext extracts plain text from PDF documents page by page.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmptyInput is returned when the uploaded stream has no bytes
	ErrEmptyInput = errors.New("empty PDF input")

	// ErrEncrypted is returned for password-protected documents
	ErrEncrypted = errors.New("PDF is password protected")
)

// Document is the text of a PDF in page order
type Document struct {
	Text  string
	Pages int
}

// IsBlank reports whether no page produced any text (e.g. scanned images)
func (d *Document) IsBlank() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Extract reads every page and concatenates its text followed by a newline.
// Image-only pages contribute an empty line.
func Extract(r io.ReaderAt, size int64) (doc *Document, err error) {
	if size == 0 {
		return nil, ErrEmptyInput
	}

	// The parser panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, ErrEncrypted
		}
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			buf.WriteString("\n")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &Document{
		Text:  buf.String(),
		Pages: pages,
	}, nil
}

// ExtractReader buffers r and extracts its text
func ExtractReader(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return Extract(bytes.NewReader(b), int64(len(b)))
}

// ExtractFile extracts the text of the PDF at path
func ExtractFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return Extract(f, info.Size())
}
