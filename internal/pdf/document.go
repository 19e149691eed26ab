// Package pdf reads page text out of PDF documents. It is the paginated
// text source for the extraction loop: page count plus best-effort plain
// text per page, where unreadable pages yield empty text instead of an
// error so the loop can skip them.
package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is a paginated text source backed by a single PDF file.
type Document struct {
	path   string
	file   *os.File
	reader *lpdf.Reader
	pages  int
}

// Open validates the PDF structure and prepares it for page-by-page text
// extraction. The returned Document must be closed by the caller.
func Open(path string) (*Document, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	return &Document{
		path:   path,
		file:   f,
		reader: r,
		pages:  pages,
	}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Text extracts the plain text of a page (1-indexed). Pages whose content
// stream cannot be decoded come back as empty text, not an error; the
// caller's skip policy handles them. Page numbers outside the document
// are an error.
func (d *Document) Text(pageNum int) (text string, err error) {
	if pageNum < 1 || pageNum > d.pages {
		return "", fmt.Errorf("page %d out of range 1-%d", pageNum, d.pages)
	}
	if pageNum > d.reader.NumPage() {
		return "", nil
	}

	// The content-stream decoder panics on some malformed pages; treat
	// those pages as unreadable rather than killing the run.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", nil
		}
	}()

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return text, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}
