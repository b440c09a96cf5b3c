package entities

// Category is static reference data, it is never read from the sheet.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var categories = []Category{
	{ID: "antibiotics", Name: "Antibiotics", Icon: "💊"},
	{ID: "painkillers", Name: "Pain Relief", Icon: "🩹"},
	{ID: "vitamins", Name: "Vitamins & Supplements", Icon: "🌟"},
	{ID: "cardiac", Name: "Cardiac Care", Icon: "❤️"},
	{ID: "respiratory", Name: "Respiratory", Icon: "🫁"},
	{ID: "diabetes", Name: "Diabetes Care", Icon: "🩺"},
	{ID: "digestive", Name: "Digestive Health", Icon: "🥗"},
	{ID: "skincare", Name: "Dermatology", Icon: "🧴"},
}

// Categories returns a copy of the known categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks a category up by id. Entries may reference ids that are
// not in the list, callers are expected to fall back to the raw id.
func FindCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
