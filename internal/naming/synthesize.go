// Package naming builds target filenames from document metadata and moves
// files to them without overwriting anything.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

const unknownPrefix = "Unknown_"

// Synthesize returns the new base name for originalPath. The original
// extension is kept as is. Categories without a naming rule get an
// "Unknown_" prefix on the original base name, added once.
func Synthesize(category constants.Category, md entity.Metadata, originalPath string) string {
	ext := filepath.Ext(originalPath)
	switch category {
	case constants.Policy:
		return fmt.Sprintf("%s_%s_DEC_EFF_%s%s", md.InsuredName, md.CompanyName, md.Date, ext)
	case constants.Invoice:
		return fmt.Sprintf("%s_%s_Invoice_%s%s", md.InsuredName, md.CompanyName, md.Date, ext)
	case constants.Certificate:
		return fmt.Sprintf("%s_%s_%s%s", md.InsuredName, md.TypeDetail, md.Date, ext)
	default:
		base := filepath.Base(originalPath)
		if strings.HasPrefix(base, unknownPrefix) {
			return base
		}
		return unknownPrefix + base
	}
}
