package model

// IntentResult represents the parsed intent from a natural language query.
type IntentResult struct {
	Slots      *IntentSlots `json:"slots"`
	Keywords   []string     `json:"keywords,omitempty"`
	Confidence float64      `json:"confidence"`
}

// IntentSlots represents structured conditions extracted from a query.
type IntentSlots struct {
	Category *string  `json:"category,omitempty"` // motosserra, roçadeira, peça...
	Model    *string  `json:"model,omitempty"`    // MS162, FS221...
	PartType *string  `json:"part_type,omitempty"`
	Spec     *string  `json:"spec,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
}
