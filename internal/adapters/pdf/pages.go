// Package pdf inspects extracted documents before they are printed.
package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/bft-labs/printwatch/internal/ports"
)

// PageCounter implements ports.PageCounter with pdfcpu.
type PageCounter struct {
	conf *model.Configuration
}

// NewPageCounter creates a PageCounter with pdfcpu's default (relaxed) validation.
func NewPageCounter() *PageCounter {
	return &PageCounter{conf: model.NewDefaultConfiguration()}
}

// PageCount returns the number of pages in the PDF at path.
func (p *PageCounter) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, p.conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}

var _ ports.PageCounter = (*PageCounter)(nil)
