// Package pdf prints HTML documents to PDF through headless Chrome and reads
// back basic facts about the result.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrEmptyDocument is returned when there is no HTML to print.
var ErrEmptyDocument = errors.New("empty html document")

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PageSize is a paper size in inches.
type PageSize struct {
	Width  float64
	Height float64
}

// Letter is US letter, the size the in-page download uses too.
var Letter = PageSize{Width: 8.5, Height: 11}

// ChromedpRenderer prints with a fresh headless Chrome per call.
type ChromedpRenderer struct {
	// ExecPath overrides the Chrome binary. Empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
	Page     PageSize
}

// NewChromedpRenderer returns a letter-size renderer.
func NewChromedpRenderer(execPath string, timeout time.Duration) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromedpRenderer{ExecPath: execPath, Timeout: timeout, Page: Letter}
}

// RenderHTML loads html from a temporary file and prints it with zero margins
// and backgrounds enabled. Remote assets referenced by the document are
// fetched by the browser.
func (r *ChromedpRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, ErrEmptyDocument
	}
	size := r.Page
	if size.Width <= 0 || size.Height <= 0 {
		size = Letter
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-print-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}

	var out []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("#sheet", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			out, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(size.Width).
				WithPaperHeight(size.Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return out, nil
}

var _ Renderer = (*ChromedpRenderer)(nil)
