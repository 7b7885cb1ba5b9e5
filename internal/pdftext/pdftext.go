// Package pdftext reads text and structure from downloaded PDFs. Every
// entry point fails soft: a document that cannot be parsed yields a
// zero result, never an error that would halt a harvest run.
package pdftext

import (
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FirstPageText extracts the plain text of page one, or "" if the file
// cannot be read or decoded.
func FirstPageText(path string) (text string) {
	// The text decoder panics on some malformed documents.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return ""
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return ""
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// PageCount reports the number of pages, 0 if the file is unreadable.
func PageCount(path string) int {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0
	}
	return n
}

// Validate reports whether the file is a structurally usable PDF.
// Relaxed mode tolerates the minor spec violations common in scanned
// court filings.
func Validate(path string) bool {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.ValidateFile(path, conf) == nil
}
