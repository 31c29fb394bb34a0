package object

import (
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/shared/util"
)

func TestNewKey(t *testing.T) {
	key, err := NewKey("guest:1", "Ada Lovelace/Marquee.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	dir, file, ok := strings.Cut(key, "/")
	if !ok || dir != util.HashOwner("guest:1") {
		t.Fatalf("expected owner directory, got %q", key)
	}
	if !strings.HasSuffix(file, "_Ada Lovelace_Marquee.pdf") {
		t.Fatalf("unexpected file part %q", file)
	}

	other, _ := NewKey("guest:1", "Ada Lovelace/Marquee.pdf")
	if other == key {
		t.Fatalf("expected random ids to differ")
	}

	if _, err := NewKey("guest:1", "../x"); !errors.Is(err, util.ErrInvalidFileName) {
		t.Fatalf("expected invalid file name, got %v", err)
	}
}
