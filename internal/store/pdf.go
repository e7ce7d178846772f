package store

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFPageCount reads and validates a PDF and returns its number of pages.
// The count is stored with PDF documents and shown on their page.
func PDFPageCount(rs io.ReadSeeker) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(rs, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return ctx.PageCount, nil
}
