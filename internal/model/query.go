package model

// Response shape tags for the assistant meta payload.
const (
	ShapeSingle    = "single"
	ShapeMulti     = "multi"
	ShapeNone      = "none"
	ShapeAmbiguous = "ambiguous"
)

// AssistantRequest represents an assistant search request.
type AssistantRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"max_results,omitempty"`
}

// AssistantMeta is the machine-readable side of an assistant reply.
// Which of Item/Items/Suggestions/Options is populated depends on the
// shape tag.
type AssistantMeta struct {
	Type        string       `json:"type"`
	Item        *ScoredPart  `json:"item,omitempty"`
	Items       []ScoredPart `json:"items,omitempty"`
	Suggestions []Part       `json:"suggestions,omitempty"`
	Options     []string     `json:"options,omitempty"`
}

// AssistantResponse is the full payload returned by the assistant pipeline.
// Transport adapters (REST handler, Telegram webhook) forward ReplyText and
// Meta verbatim.
type AssistantResponse struct {
	OK        bool              `json:"ok"`
	Entities  ExtractedEntities `json:"entities"`
	ReplyText string            `json:"reply_text"`
	Meta      AssistantMeta     `json:"meta"`
	Total     int               `json:"total"`
	Took      int64             `json:"took_ms"`
}

// SuggestResponse is returned by the static suggestion endpoint.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}
