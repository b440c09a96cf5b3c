// Package sheetparser fetches the catalog sheet and turns its loosely named
// columns into catalog entries.
package sheetparser

import (
	"strings"
	"unicode"

	"github.com/giygas/medicines-catalog/gviz"
)

// Accepted header spellings per canonical field. Matching goes through
// NormalizeHeader so case, spaces and punctuation do not matter.
var (
	idAliases                = []string{"id", "uid", "code"}
	nameAliases              = []string{"name", "medicine name", "drug", "product name"}
	genericNameAliases       = []string{"genericName", "generic name", "generic"}
	brandAliases             = []string{"brand", "company", "marketer"}
	categoryAliases          = []string{"category", "therapeutic category"}
	manufacturerAliases      = []string{"manufacturer", "maker", "manufacturer name"}
	descriptionAliases       = []string{"description", "details", "notes"}
	dosageAliases            = []string{"dosage", "strength"}
	formAliases              = []string{"form", "dosage form", "type"}
	priceAliases             = []string{"price", "cost", "mrp"}
	stockAliases             = []string{"stock", "quantity", "available"}
	availabilityAliases      = []string{"availability", "status", "stock status"}
	prescriptionAliases      = []string{"prescription", "rx required", "requires prescription", "rx"}
	imageAliases             = []string{"imageUrl", "image", "photo", "img"}
	usesAliases              = []string{"uses", "indications"}
	sideEffectsAliases       = []string{"sideEffects", "side effects", "adverse effects"}
	contraindicationsAliases = []string{"contraindications", "contra indications", "contraindication"}
)

// NormalizeHeader keeps letters and digits only, lowercased.
// "Generic Name", "generic_name" and "GenericName" all become "genericname".
func NormalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ResolveHeader returns the first header of the row, in column order, whose
// normalized form matches one of the aliases. Which header wins when several
// normalize to the same key is not specified beyond that.
func ResolveHeader(row gviz.Row, aliases ...string) (string, bool) {
	wanted := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		wanted[NormalizeHeader(a)] = struct{}{}
	}

	for _, f := range row {
		if _, ok := wanted[NormalizeHeader(f.Header)]; ok {
			return f.Header, true
		}
	}
	return "", false
}

// lookup returns the cell behind the first matching header.
func lookup(row gviz.Row, aliases []string) (gviz.Cell, bool) {
	header, ok := ResolveHeader(row, aliases...)
	if !ok {
		return gviz.Cell{}, false
	}
	return row.Get(header)
}
