package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Info is what Inspect reads from a PDF.
type Info struct {
	PageCount int
	Text      string
}

// Inspect parses data and returns its page count and, when extractable, its
// plain text. Text extraction failures leave Text empty.
func Inspect(ctx context.Context, data []byte) (Info, error) {
	reader, err := open(ctx, data)
	if err != nil {
		return Info{}, err
	}
	return Info{PageCount: reader.NumPage(), Text: plainText(reader)}, nil
}

// PageCount reads only the page tree of data.
func PageCount(ctx context.Context, data []byte) (int, error) {
	reader, err := open(ctx, data)
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

func open(ctx context.Context, data []byte) (*pdf.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return reader, nil
}

// plainText recovers from parser panics on unusual content streams.
func plainText(reader *pdf.Reader) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return ""
	}
	return buf.String()
}
