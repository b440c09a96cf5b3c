package sheetparser

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/gviz"
	"github.com/google/uuid"
)

// entryNamespace seeds the name based UUIDs used for rows without an id column.
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("medicines-catalog/entry"))

var truthyTokens = map[string]bool{"1": true, "true": true, "yes": true, "y": true}

// NormalizeRow coerces one sheet row into an entry. It never fails: every
// field has a fallback.
func NormalizeRow(row gviz.Row) entities.Entry {
	name := text(row, nameAliases)
	if name == "" {
		name = entities.DefaultName
	}
	category := text(row, categoryAliases)
	if category == "" {
		category = entities.DefaultCategory
	}

	entry := entities.Entry{
		Name:                 name,
		GenericName:          text(row, genericNameAliases),
		Brand:                text(row, brandAliases),
		Category:             category,
		Manufacturer:         text(row, manufacturerAliases),
		Description:          text(row, descriptionAliases),
		Dosage:               text(row, dosageAliases),
		Form:                 text(row, formAliases),
		Price:                math.Max(0, number(row, priceAliases)),
		Stock:                stock(row),
		Availability:         ClassifyAvailability(text(row, availabilityAliases)),
		PrescriptionRequired: truthyTokens[strings.ToLower(text(row, prescriptionAliases))],
		ImageRef:             text(row, imageAliases),
		Uses:                 list(row, usesAliases),
		SideEffects:          list(row, sideEffectsAliases),
		Contraindications:    list(row, contraindicationsAliases),
		Extra:                row.Map(),
	}

	entry.ID = text(row, idAliases)
	if entry.ID == "" {
		entry.ID = DeriveID(entry.Name, entry.Manufacturer, entry.Dosage)
	}

	return entry
}

// NormalizeRows maps NormalizeRow over rows, keeping order.
func NormalizeRows(rows []gviz.Row) []entities.Entry {
	entries := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, NormalizeRow(row))
	}
	return entries
}

// ClassifyAvailability maps free status text onto the availability enum.
// "low" is checked before "out", anything else is in stock.
func ClassifyAvailability(status string) entities.Availability {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "low"):
		return entities.LowStock
	case strings.Contains(s, "out"):
		return entities.OutOfStock
	default:
		return entities.InStock
	}
}

// DeriveID builds a stable id for rows without an explicit one: the slugged
// name plus a short hash of name, manufacturer and dosage. Distinct rows that
// share all three still collide.
func DeriveID(name, manufacturer, dosage string) string {
	key := strings.ToLower(strings.Join([]string{name, manufacturer, dosage}, "|"))
	sum := uuid.NewSHA1(entryNamespace, []byte(key))
	suffix := strings.ReplaceAll(sum.String(), "-", "")[:8]

	slug := Slugify(name)
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// Slugify lowercases and joins whitespace separated words with "-".
func Slugify(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

// ParseNumber strips everything but digits, '.' and '-' and reads the longest
// leading decimal, falling back to 0.
func ParseNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return parseLeadingFloat(b.String())
}

func parseLeadingFloat(s string) float64 {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func text(row gviz.Row, aliases []string) string {
	cell, ok := lookup(row, aliases)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.String())
}

func number(row gviz.Row, aliases []string) float64 {
	cell, ok := lookup(row, aliases)
	if !ok {
		return 0
	}
	if n, isNum := cell.Number(); isNum {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}
	return ParseNumber(cell.String())
}

func stock(row gviz.Row) int {
	n := math.Floor(number(row, stockAliases))
	if n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func list(row gviz.Row, aliases []string) []string {
	out := []string{}
	cell, ok := lookup(row, aliases)
	if !ok {
		return out
	}

	if cell.Kind() == gviz.KindList {
		for _, item := range cell.Items() {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	for _, piece := range strings.Split(cell.String(), ",") {
		if s := strings.TrimFunc(piece, unicode.IsSpace); s != "" {
			out = append(out, s)
		}
	}
	return out
}
