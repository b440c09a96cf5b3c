// Package search evaluates filter criteria against a loaded catalog and maps
// criteria to and from URL query parameters.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/giygas/medicines-catalog/entities"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All is the sentinel that leaves an axis unconstrained.
const All = "all"

// Price brackets
const (
	PriceUnder20 = "under-20"
	Price20To50  = "20-50"
	PriceOver50  = "over-50"
)

// Sort keys
const (
	SortName         = "name"
	SortPriceLow     = "price-low"
	SortPriceHigh    = "price-high"
	SortAvailability = "availability"
)

// Criteria is one set of user filters. The zero value matches everything and
// sorts by name.
type Criteria struct {
	Query        string
	Category     string
	Manufacturer string
	PriceBracket string
	Sort         string
}

func unconstrained(v string) bool {
	return v == "" || v == All
}

func (c Criteria) sortKey() string {
	if c.Sort == "" {
		return SortName
	}
	return c.Sort
}

// Evaluate filters and sorts entries. The input is never modified and the
// returned slice is always new.
func Evaluate(entries []entities.Entry, c Criteria) []entities.Entry {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]entities.Entry, 0, len(entries))
	for i := range entries {
		if matches(&entries[i], c, query) {
			out = append(out, entries[i])
		}
	}

	sortEntries(out, c.sortKey())
	return out
}

func matches(e *entities.Entry, c Criteria, query string) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(e.Name), query) &&
		!strings.Contains(strings.ToLower(e.GenericName), query) &&
		!strings.Contains(strings.ToLower(e.Brand), query) {
		return false
	}
	if !unconstrained(c.Category) && e.Category != c.Category {
		return false
	}
	if !unconstrained(c.Manufacturer) && e.ManufacturerLabel() != c.Manufacturer {
		return false
	}
	return inBracket(e.Price, c.PriceBracket)
}

// inBracket reports whether price falls in the named bracket. Unknown
// brackets do not constrain.
func inBracket(price float64, bracket string) bool {
	switch bracket {
	case PriceUnder20:
		return price < 20
	case Price20To50:
		return price >= 20 && price <= 50
	case PriceOver50:
		return price > 50
	default:
		return true
	}
}

func sortEntries(entries []entities.Entry, key string) {
	switch key {
	case SortName:
		// Collators keep internal buffers and are not safe for concurrent use
		col := collate.New(language.English)
		slices.SortStableFunc(entries, func(a, b entities.Entry) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortPriceLow:
		slices.SortStableFunc(entries, func(a, b entities.Entry) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(entries, func(a, b entities.Entry) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortAvailability:
		// Plain string order of the enumeration, not severity
		slices.SortStableFunc(entries, func(a, b entities.Entry) int {
			return strings.Compare(string(a.Availability), string(b.Availability))
		})
	}
}

// Manufacturers lists the distinct manufacturer labels in ascending order.
func Manufacturers(entries []entities.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0)
	for i := range entries {
		label := entries[i].ManufacturerLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// ValidSort reports whether key is a known sort key.
func ValidSort(key string) bool {
	switch key {
	case "", SortName, SortPriceLow, SortPriceHigh, SortAvailability:
		return true
	}
	return false
}

// ValidPriceBracket reports whether bracket is a known price bracket.
func ValidPriceBracket(bracket string) bool {
	switch bracket {
	case "", All, PriceUnder20, Price20To50, PriceOver50:
		return true
	}
	return false
}
