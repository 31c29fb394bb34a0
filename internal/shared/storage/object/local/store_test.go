package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-builder/internal/shared/storage/object"
)

func TestPutOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	obj, err := store.Put(ctx, "guest:1", "Ada_Marquee.pdf", "", strings.NewReader("%PDF-1.4\nbody"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.ContentType != "application/pdf" {
		t.Fatalf("expected sniffed pdf content type, got %q", obj.ContentType)
	}
	if obj.Size != int64(len("%PDF-1.4\nbody")) {
		t.Fatalf("unexpected size %d", obj.Size)
	}

	rc, err := store.Open(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "%PDF-1.4\nbody" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, obj.Key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, obj.Key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPutKeepsExplicitContentType(t *testing.T) {
	store := New(t.TempDir())
	obj, err := store.Put(context.Background(), "guest:1", "x.bin", "application/octet-stream", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.ContentType != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", obj.ContentType)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../outside", "/etc/passwd", ""} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestPutHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(t.TempDir()).Put(ctx, "guest:1", "a.pdf", "", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
