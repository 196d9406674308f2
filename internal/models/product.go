package models

// ExternalFoodRecord is the normalized shape every external food source
// adapter produces. Amounts are per 100 g, matching FoodRecord's baseline.
type ExternalFoodRecord struct {
	Name     string  `json:"name"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
	FiberG   float64 `json:"fiber_g"`
	FeMg     float64 `json:"Fe_mg"`
	CaMg     float64 `json:"Ca_mg"`
	VitDIU   float64 `json:"VitD_IU"`
	B12Ug    float64 `json:"B12_ug"`
	FolateUg float64 `json:"Folate_ug"`
	IodineUg float64 `json:"Iodine_ug"`
	KMg      float64 `json:"K_mg"`
	MgMg     float64 `json:"Mg_mg"`
}

// ToFoodRecord converts an external record into the canonical catalog
// shape. Price defaults to 0 and flags to empty; both can be curated later.
func (e *ExternalFoodRecord) ToFoodRecord() FoodRecord {
	return FoodRecord{
		Name: e.Name,
		Per100g: NutrientVector{
			"protein_g": e.ProteinG,
			"fat_g":     e.FatG,
			"carbs_g":   e.CarbsG,
			"fiber_g":   e.FiberG,
			"Fe_mg":     e.FeMg,
			"Ca_mg":     e.CaMg,
			"VitD_IU":   e.VitDIU,
			"B12_ug":    e.B12Ug,
			"Folate_ug": e.FolateUg,
			"Iodine_ug": e.IodineUg,
			"K_mg":      e.KMg,
			"Mg_mg":     e.MgMg,
		},
		PricePerUnit: 0,
		Flags:        []string{},
	}
}

// ProductSearchResult is the outcome of resolving one free-text product
// name against the external sources. Found implies Resolved, Source and a
// positive Confidence; !Found implies a non-empty ErrorMessage.
type ProductSearchResult struct {
	ProductName  string              `json:"product_name"`
	Found        bool                `json:"found"`
	Source       string              `json:"source,omitempty"`
	Resolved     *ExternalFoodRecord `json:"resolved_record,omitempty"`
	Confidence   float64             `json:"confidence"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// ExpandOutcome records what happened to one item of an expansion batch.
type ExpandOutcome struct {
	Product    string  `json:"product"`
	Added      bool    `json:"added"`
	Source     string  `json:"source,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ExpandReport is the result of a best-effort catalog expansion batch.
// One item's failure never aborts the batch.
type ExpandReport struct {
	Outcomes []ExpandOutcome `json:"outcomes"`
}

// Results flattens the report into the product -> success map exposed at
// the API boundary.
func (r *ExpandReport) Results() map[string]bool {
	out := make(map[string]bool, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out[o.Product] = o.Added
	}
	return out
}

// SearchProductRequest is the request body for a single product search.
type SearchProductRequest struct {
	Name string `json:"name"`
}

// ExpandRequest is the request body for a catalog expansion batch.
type ExpandRequest struct {
	Ingredients []string `json:"ingredients"`
}
