package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open and Delete when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Store saves and retrieves binary objects such as exported PDFs. Keys are
// namespaced per owner and prefixed with a random id so names may repeat.
type Store interface {
	Put(ctx context.Context, owner, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
