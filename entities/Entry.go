// Package entities holds the catalog types shared by the parser, the cache,
// the search engine and the HTTP layer.
package entities

// Availability is the closed set of stock states an entry can be in.
// The string form is what the availability sort compares.
type Availability string

const (
	InStock    Availability = "InStock"
	LowStock   Availability = "LowStock"
	OutOfStock Availability = "OutOfStock"
)

const (
	DefaultName     = "Unknown Medicine"
	DefaultCategory = "Uncategorized"
	// UnknownManufacturer labels entries whose manufacturer cell was empty.
	UnknownManufacturer = "Unknown"
)

// Entry is one normalized catalog row.
type Entry struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	GenericName          string         `json:"genericName"`
	Brand                string         `json:"brand"`
	Category             string         `json:"category"`
	Manufacturer         string         `json:"manufacturer"`
	Description          string         `json:"description"`
	Dosage               string         `json:"dosage"`
	Form                 string         `json:"form"`
	Price                float64        `json:"price"`
	Stock                int            `json:"stock"`
	Availability         Availability   `json:"availability"`
	PrescriptionRequired bool           `json:"prescriptionRequired"`
	ImageRef             string         `json:"imageRef,omitempty"`
	Uses                 []string       `json:"uses"`
	SideEffects          []string       `json:"sideEffects"`
	Contraindications    []string       `json:"contraindications"`
	Extra                map[string]any `json:"extra"`
}

// ManufacturerLabel is the manufacturer as shown in listings and matched by
// the manufacturer filter.
func (e *Entry) ManufacturerLabel() string {
	if e.Manufacturer == "" {
		return UnknownManufacturer
	}
	return e.Manufacturer
}
