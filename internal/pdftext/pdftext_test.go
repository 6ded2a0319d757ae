package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildPDF assembles a minimal uncompressed PDF with one text run per page
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func TestExtract_PagesInOrder(t *testing.T) {
	data := buildPDF("Bitcoin is trading at 42500 dollars", "GDP growth for 2025 is negative")

	doc, err := Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.Pages)
	}

	first := strings.Index(doc.Text, "Bitcoin is trading")
	second := strings.Index(doc.Text, "GDP growth")
	if first < 0 || second < 0 {
		t.Fatalf("Expected both page texts, got %q", doc.Text)
	}
	if first > second {
		t.Errorf("Expected page 1 text before page 2 text, got %q", doc.Text)
	}
	if !strings.HasSuffix(doc.Text, "\n") {
		t.Errorf("Expected trailing newline after last page, got %q", doc.Text)
	}
	if strings.Count(doc.Text, "\n") < 2 {
		t.Errorf("Expected one newline per page, got %q", doc.Text)
	}
}

func TestExtract_ImageOnlyPageIsBlank(t *testing.T) {
	data := buildPDF("")

	doc, err := Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !doc.IsBlank() {
		t.Errorf("Expected blank document, got %q", doc.Text)
	}
	if doc.Pages != 1 {
		t.Errorf("Expected 1 page, got %d", doc.Pages)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	_, err := Extract(bytes.NewReader(nil), 0)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestExtractReader_NotAPDF(t *testing.T) {
	_, err := ExtractReader(strings.NewReader("this is definitely not a pdf document"))
	if err == nil {
		t.Fatal("Expected error for non-PDF input")
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, buildPDF("Water boils at 100 degrees"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if !strings.Contains(doc.Text, "Water boils") {
		t.Errorf("Unexpected text: %q", doc.Text)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}
