// Package validation checks user supplied query values and reports data
// quality issues in a loaded catalog.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
)

const (
	maxQueryLength  = 100
	maxQueryWords   = 8
	maxFilterLength = 100
	maxIDLength     = 128
	maxNameLength   = 200
)

var (
	// Letters and digits of any script plus a few safe punctuation marks
	inputRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+'%/,()&]+$`)

	// Matched with strings.Contains on the lowercased input
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
	}
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateInput validates a free text search query
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if utf8.RuneCountInString(input) > maxQueryLength {
		return fmt.Errorf("input too long: maximum %d characters", maxQueryLength)
	}

	// Many short words make substring search no cheaper but logs noisier
	if len(strings.Fields(input)) > maxQueryWords {
		return fmt.Errorf("search query too complex: maximum %d words allowed", maxQueryWords)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces and - . + ' %% / , ( ) & are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateFilterValue checks category and manufacturer values. They are
// compared verbatim against catalog data, so only size and control
// characters are restricted.
func (v *DataValidatorImpl) ValidateFilterValue(name, value string) error {
	if utf8.RuneCountInString(value) > maxFilterLength {
		return fmt.Errorf("%s too long: maximum %d characters", name, maxFilterLength)
	}
	if strings.ContainsFunc(value, unicode.IsControl) {
		return fmt.Errorf("%s contains control characters", name)
	}
	return nil
}

// ValidateID checks an entry id taken from a URL path
func (v *DataValidatorImpl) ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("id too long: maximum %d bytes", maxIDLength)
	}
	if strings.ContainsFunc(id, unicode.IsControl) {
		return fmt.Errorf("id contains control characters")
	}
	return nil
}

// ValidateEntry checks one normalized entry for structural problems
func (v *DataValidatorImpl) ValidateEntry(e *entities.Entry) error {
	if e == nil {
		return fmt.Errorf("entry is nil")
	}

	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry %q has an empty id", e.Name)
	}

	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("empty name for entry %s", e.ID)
	}

	if len(e.Name) > maxNameLength {
		return fmt.Errorf("name too long for entry %s: %d characters", e.ID, len(e.Name))
	}

	if e.Price < 0 || math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
		return fmt.Errorf("invalid price for entry %s: %v", e.ID, e.Price)
	}

	if e.Stock < 0 {
		return fmt.Errorf("negative stock for entry %s: %d", e.ID, e.Stock)
	}

	switch e.Availability {
	case entities.InStock, entities.LowStock, entities.OutOfStock:
	default:
		return fmt.Errorf("unknown availability for entry %s: %q", e.ID, e.Availability)
	}

	return nil
}

// ReportDataQuality lists anomalies that normalization tolerated
func (v *DataValidatorImpl) ReportDataQuality(entries []entities.Entry) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateIDs:      []string{},
		UnknownCategories: []string{},
	}

	seenIDs := make(map[string]bool, len(entries))
	reportedIDs := make(map[string]bool)
	unknown := make(map[string]bool)

	for i := range entries {
		e := &entries[i]

		if seenIDs[e.ID] && !reportedIDs[e.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, e.ID)
			reportedIDs[e.ID] = true
		}
		seenIDs[e.ID] = true

		switch {
		case e.Category == entities.DefaultCategory:
			report.UncategorizedCount++
		case !unknown[e.Category]:
			if _, ok := entities.FindCategory(e.Category); !ok {
				unknown[e.Category] = true
				report.UnknownCategories = append(report.UnknownCategories, e.Category)
			}
		}

		if e.Price == 0 {
			report.MissingPriceCount++
		}
		if e.Name == entities.DefaultName {
			report.DefaultNameCount++
		}
	}

	slices.Sort(report.UnknownCategories)
	return report
}

// hasExcessiveRepetition checks for the same character repeated more than
// 10 times in a row
func hasExcessiveRepetition(input string) bool {
	run := 1
	var prev rune
	for i, r := range input {
		if i > 0 && r == prev {
			run++
			if run > 10 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}
