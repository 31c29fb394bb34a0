package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

// minimalPDF builds a well-formed PDF with the given number of empty pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
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

func TestInspectCountsPages(t *testing.T) {
	info, err := Inspect(context.Background(), minimalPDF(2))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", info.PageCount)
	}
}

func TestPageCount(t *testing.T) {
	got, err := PageCount(context.Background(), minimalPDF(3))
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if _, err := PageCount(context.Background(), []byte("%PDF-1.4 truncated")); err == nil {
		t.Fatalf("expected error for truncated data")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PageCount(ctx, minimalPDF(1)); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatalf("expected error for non-pdf data")
	}
}

func TestInspectHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Inspect(ctx, minimalPDF(1)); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestChromedpRendererRejectsEmptyDocument(t *testing.T) {
	r := NewChromedpRenderer("", 0)
	if r.Timeout <= 0 || r.Page != Letter {
		t.Fatalf("unexpected defaults %+v", r)
	}
	if _, err := r.RenderHTML(context.Background(), ""); err != ErrEmptyDocument {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}
