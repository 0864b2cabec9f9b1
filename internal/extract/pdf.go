// Package extract reads page-level text out of PDF documents.
package extract

import (
	"io"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
)

// Page holds the raw text extracted from a single PDF page. Pages that
// yield no extractable text are still counted, with empty Text.
type Page struct {
	Number int
	Text   string
}

// Document iterates over the pages of an open PDF. The sequence is
// forward-only; callers must Close when done.
type Document struct {
	file  *os.File
	r     *pdf.Reader
	page  int
	pages int
}

// Open prepares a PDF for page iteration. Unreadable files fail with
// DOCUMENT_UNREADABLE so callers can skip them and continue the run.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDocumentUnreadable, "cannot open document", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDocumentUnreadable, "cannot stat document", err)
	}

	r, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDocumentUnreadable, "cannot parse document", err)
	}

	return &Document{file: f, r: r, pages: r.NumPage()}, nil
}

// NumPages returns the total page count of the document.
func (d *Document) NumPages() int {
	return d.pages
}

// Next returns the next page. It returns io.EOF after the last page.
// Per-page extraction failures produce an empty page rather than ending
// the sequence, so page numbering stays aligned with the document.
func (d *Document) Next() (Page, error) {
	if d.page >= d.pages {
		return Page{}, io.EOF
	}
	d.page++

	p := d.r.Page(d.page)
	if p.V.IsNull() {
		return Page{Number: d.page}, nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		log.Debug().Int("page", d.page).Err(err).Msg("page text extraction failed, emitting empty page")
		return Page{Number: d.page}, nil
	}
	return Page{Number: d.page, Text: text}, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}

// AllText concatenates the text of every page, separated by newlines.
// Used by question mining, which matches patterns across page breaks.
func AllText(path string) (string, error) {
	doc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var full string
	for {
		page, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if page.Text != "" {
			full += "\n" + page.Text
		}
	}
	return full, nil
}
