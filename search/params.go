package search

import "net/url"

// Query parameter names
const (
	ParamSearch       = "search"
	ParamCategory     = "category"
	ParamManufacturer = "manufacturer"
	ParamPrice        = "price"
	ParamSort         = "sort"
)

// FromValues reads criteria from URL query parameters.
func FromValues(v url.Values) Criteria {
	return Criteria{
		Query:        v.Get(ParamSearch),
		Category:     v.Get(ParamCategory),
		Manufacturer: v.Get(ParamManufacturer),
		PriceBracket: v.Get(ParamPrice),
		Sort:         v.Get(ParamSort),
	}
}

// ApplyTo writes the criteria into v. Cleared axes delete their key instead
// of leaving an empty value; unrelated keys are kept.
func (c Criteria) ApplyTo(v url.Values) {
	setOrDelete(v, ParamSearch, c.Query, false)
	setOrDelete(v, ParamCategory, c.Category, true)
	setOrDelete(v, ParamManufacturer, c.Manufacturer, true)
	setOrDelete(v, ParamPrice, c.PriceBracket, true)
	setOrDelete(v, ParamSort, c.Sort, false)
}

// Values returns the canonical query parameters for c.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	c.ApplyTo(v)
	return v
}

func setOrDelete(v url.Values, key, value string, allClears bool) {
	if value == "" || (allClears && value == All) {
		v.Del(key)
		return
	}
	v.Set(key, value)
}
