package model

// ExtractedEntities holds the structured intent pulled out of a raw query.
// Computed once per request and treated as immutable afterwards.
type ExtractedEntities struct {
	Original   string   `json:"original"`
	Normalized string   `json:"normalized"`
	Code       string   `json:"code,omitempty"`      // exact material code, dddd-ddd-dddd
	Models     []string `json:"models,omitempty"`    // uppercase, deduplicated, sorted
	PartType   string   `json:"part_type,omitempty"` // closed vocabulary keyword
	Spec       string   `json:"spec,omitempty"`      // canonical accented qualifier
}

// HasFilter reports whether any structured field was extracted.
// When false, the fetcher falls back to a free-text search on the
// normalized query.
func (e ExtractedEntities) HasFilter() bool {
	return e.Code != "" || e.PartType != "" || e.Spec != "" || len(e.Models) > 0
}
