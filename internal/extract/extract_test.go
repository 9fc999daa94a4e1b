package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesPlainText(t *testing.T) {
	got, err := TextFromBytes(context.Background(), []byte("  buy milk and call mom\n"), "text/plain; charset=utf-8", "notes.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if got != "buy milk and call mom" {
		t.Fatalf("got %q", got)
	}
}

func TestTextFromBytesDocx(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>first thought</w:t></w:r></w:p><w:p><w:r><w:t>second thought</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	got, err := TextFromBytes(context.Background(), data, "application/zip", "journal.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(got, "first thought") || !strings.Contains(got, "second thought") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected paragraph break, got %q", got)
	}
}

func TestTextFromBytesOctetStreamFallsBackToExtension(t *testing.T) {
	got, err := TextFromBytes(context.Background(), []byte("plain note"), "application/octet-stream", "note.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if got != "plain note" {
		t.Fatalf("got %q", got)
	}
}

func TestTextFromBytesUnsupported(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "image/png", "photo.png"); err == nil {
		t.Fatalf("expected error for unsupported mime type")
	}
}

func TestTextFromBytesEmpty(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), nil, "text/plain", "empty.txt"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
