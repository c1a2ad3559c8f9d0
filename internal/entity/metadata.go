package entity

import "github.com/joseph-ayodele/policy-renamer/constants"

// Metadata holds the fields a filename is built from. It is built fresh per
// document.
type Metadata struct {
	InsuredName string `json:"insured_name"`
	CompanyName string `json:"company_name"`
	Date        string `json:"date"`
	TypeDetail  string `json:"type_detail"`
}

// NewMetadata returns metadata populated with the default sentinels.
func NewMetadata() Metadata {
	return Metadata{
		InsuredName: constants.DefaultInsured,
		CompanyName: constants.DefaultCompany,
		Date:        constants.DefaultDate,
		TypeDetail:  constants.DefaultTypeDetail,
	}
}
