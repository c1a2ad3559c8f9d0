package resolver

import (
	"slices"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/names"
)

// Tables are the read-only lookup lists the resolver matches against. They
// are built once at startup and shared by every document.
type Tables struct {
	Roster    []string
	Stopwords []string
	Surnames  []names.Surname
}

// NewTables builds the tables from the tuning file and the embedded surname
// table.
func NewTables(t common.Tuning) Tables {
	return Tables{
		Roster:    slices.Clone(t.Company.Roster),
		Stopwords: slices.Clone(t.Name.Stopwords),
		Surnames:  names.DefaultSurnameTable(),
	}
}
