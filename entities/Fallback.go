package entities

// fallbackEntries is served when neither the cache nor the sheet produced
// data. It is never written to the cache.
var fallbackEntries = []Entry{
	{
		ID:                   "med-001",
		Name:                 "Amoxicillin",
		GenericName:          "Amoxicillin Trihydrate",
		Brand:                "Amoxil",
		Category:             "antibiotics",
		Manufacturer:         "GlaxoSmithKline",
		Description:          "Broad-spectrum penicillin antibiotic for bacterial infections.",
		Dosage:               "500mg",
		Form:                 "Capsule",
		Price:                12.5,
		Stock:                150,
		Availability:         InStock,
		PrescriptionRequired: true,
		Uses:                 []string{"Respiratory tract infections", "Ear infections", "Urinary tract infections"},
		SideEffects:          []string{"Nausea", "Diarrhea", "Rash"},
		Contraindications:    []string{"Penicillin allergy"},
	},
	{
		ID:                   "med-002",
		Name:                 "Ibuprofen",
		GenericName:          "Ibuprofen",
		Brand:                "Advil",
		Category:             "painkillers",
		Manufacturer:         "Pfizer",
		Description:          "Non-steroidal anti-inflammatory drug for pain and fever.",
		Dosage:               "400mg",
		Form:                 "Tablet",
		Price:                8.99,
		Stock:                320,
		Availability:         InStock,
		PrescriptionRequired: false,
		Uses:                 []string{"Headache", "Fever", "Muscle pain"},
		SideEffects:          []string{"Stomach upset", "Heartburn"},
		Contraindications:    []string{"Peptic ulcer", "Severe kidney disease"},
	},
	{
		ID:                   "med-003",
		Name:                 "Paracetamol",
		GenericName:          "Acetaminophen",
		Brand:                "Tylenol",
		Category:             "painkillers",
		Manufacturer:         "Johnson & Johnson",
		Description:          "Analgesic and antipyretic for mild to moderate pain.",
		Dosage:               "500mg",
		Form:                 "Tablet",
		Price:                5.49,
		Stock:                18,
		Availability:         LowStock,
		PrescriptionRequired: false,
		Uses:                 []string{"Fever", "Headache"},
		SideEffects:          []string{"Rare liver toxicity at high doses"},
		Contraindications:    []string{"Severe liver disease"},
	},
	{
		ID:                   "med-004",
		Name:                 "Vitamin D3",
		GenericName:          "Cholecalciferol",
		Brand:                "D-Rise",
		Category:             "vitamins",
		Manufacturer:         "Nature Made",
		Description:          "Supplement supporting bone health and immunity.",
		Dosage:               "1000 IU",
		Form:                 "Softgel",
		Price:                15,
		Stock:                200,
		Availability:         InStock,
		PrescriptionRequired: false,
		Uses:                 []string{"Vitamin D deficiency", "Bone health"},
		SideEffects:          []string{"Hypercalcemia at high doses"},
		Contraindications:    []string{"Hypercalcemia"},
	},
	{
		ID:                   "med-005",
		Name:                 "Atorvastatin",
		GenericName:          "Atorvastatin Calcium",
		Brand:                "Lipitor",
		Category:             "cardiac",
		Manufacturer:         "Pfizer",
		Description:          "Statin used to lower cholesterol.",
		Dosage:               "20mg",
		Form:                 "Tablet",
		Price:                34.75,
		Stock:                0,
		Availability:         OutOfStock,
		PrescriptionRequired: true,
		Uses:                 []string{"High cholesterol", "Cardiovascular risk reduction"},
		SideEffects:          []string{"Muscle pain", "Liver enzyme changes"},
		Contraindications:    []string{"Active liver disease", "Pregnancy"},
	},
	{
		ID:                   "med-006",
		Name:                 "Salbutamol Inhaler",
		GenericName:          "Albuterol Sulfate",
		Brand:                "Ventolin",
		Category:             "respiratory",
		Manufacturer:         "GlaxoSmithKline",
		Description:          "Short-acting bronchodilator for asthma relief.",
		Dosage:               "100mcg/dose",
		Form:                 "Inhaler",
		Price:                27.3,
		Stock:                64,
		Availability:         InStock,
		PrescriptionRequired: true,
		Uses:                 []string{"Asthma", "COPD"},
		SideEffects:          []string{"Tremor", "Palpitations"},
		Contraindications:    []string{"Hypersensitivity to salbutamol"},
	},
	{
		ID:                   "med-007",
		Name:                 "Metformin",
		GenericName:          "Metformin Hydrochloride",
		Brand:                "Glucophage",
		Category:             "diabetes",
		Manufacturer:         "Merck",
		Description:          "First-line oral medication for type 2 diabetes.",
		Dosage:               "850mg",
		Form:                 "Tablet",
		Price:                9.8,
		Stock:                12,
		Availability:         LowStock,
		PrescriptionRequired: true,
		Uses:                 []string{"Type 2 diabetes"},
		SideEffects:          []string{"Nausea", "Diarrhea", "Metallic taste"},
		Contraindications:    []string{"Severe renal impairment", "Metabolic acidosis"},
	},
	{
		ID:                   "med-008",
		Name:                 "Omeprazole",
		GenericName:          "Omeprazole",
		Brand:                "Prilosec",
		Category:             "digestive",
		Manufacturer:         "AstraZeneca",
		Description:          "Proton pump inhibitor reducing stomach acid.",
		Dosage:               "20mg",
		Form:                 "Capsule",
		Price:                21.4,
		Stock:                85,
		Availability:         InStock,
		PrescriptionRequired: false,
		Uses:                 []string{"Acid reflux", "Stomach ulcers"},
		SideEffects:          []string{"Headache", "Abdominal pain"},
		Contraindications:    []string{"Hypersensitivity to omeprazole"},
	},
	{
		ID:                   "med-009",
		Name:                 "Hydrocortisone Cream",
		GenericName:          "Hydrocortisone",
		Brand:                "Cortizone-10",
		Category:             "skincare",
		Manufacturer:         "Chattem",
		Description:          "Topical corticosteroid for itching and inflammation.",
		Dosage:               "1%",
		Form:                 "Cream",
		Price:                54.2,
		Stock:                40,
		Availability:         InStock,
		PrescriptionRequired: false,
		Uses:                 []string{"Eczema", "Insect bites", "Rashes"},
		SideEffects:          []string{"Skin thinning with prolonged use"},
		Contraindications:    []string{"Untreated skin infections"},
	},
}

// FallbackEntries returns a fresh copy of the bundled dataset.
func FallbackEntries() []Entry {
	out := make([]Entry, len(fallbackEntries))
	for i, e := range fallbackEntries {
		e.Uses = append([]string{}, e.Uses...)
		e.SideEffects = append([]string{}, e.SideEffects...)
		e.Contraindications = append([]string{}, e.Contraindications...)
		e.Extra = map[string]any{}
		out[i] = e
	}
	return out
}
