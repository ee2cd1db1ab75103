package model

import "encoding/json"

// Medicine is one entry of the seeded medicine catalogue.
type Medicine struct {
	Base
	Name        string   `json:"name" db:"name"`
	NameAr      *string  `json:"name_ar,omitempty" db:"name_ar"`
	Category    string   `json:"category" db:"category"`
	Description *string  `json:"description,omitempty" db:"description"`
	DosageForms []string `json:"dosage_forms" db:"-"`

	DosageFormsRaw json.RawMessage `json:"-" db:"dosage_forms"`
}

// MedicineFilters bounds medicine catalogue searches.
type MedicineFilters struct {
	Pagination
	Query    string `json:"q" form:"q"`
	Category string `json:"category" form:"category"`
}
