package extract

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// letter is used when no page size can be read at all.
var letter = types.Dim{Width: 612, Height: 792}

// pageDims reads every page's effective media box with pdfcpu.
func pageDims(path string) ([]types.Dim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pdfcpu page dims: %w", err)
	}
	if len(dims) != ctx.PageCount {
		return nil, fmt.Errorf("pdfcpu page dims: got %d of %d pages", len(dims), ctx.PageCount)
	}
	return dims, nil
}
