package service

import (
	"context"
	"log"
	"strings"

	"pecas/internal/model"
	"pecas/internal/textnorm"
)

// IntentParser enriches the regex-extracted entities with slots from the
// AI classifier. The extractor always runs and always wins on conflicts;
// the classifier only fills gaps, so the pipeline stays deterministic when
// the API is down or disabled.
type IntentParser struct {
	aiClient *OpenAIClient
}

// NewIntentParser creates a new intent parser
func NewIntentParser(aiClient *OpenAIClient) *IntentParser {
	return &IntentParser{aiClient: aiClient}
}

// Parse extracts entities from a query, optionally enriched by the AI slot
// classifier.
func (p *IntentParser) Parse(ctx context.Context, query string) (model.ExtractedEntities, *model.IntentResult) {
	ent := textnorm.Extract(query)

	if !p.aiClient.IsEnabled() {
		return ent, nil
	}

	aiResult, err := p.aiClient.ParseIntentWithAI(ctx, query)
	if err != nil {
		log.Printf("AI intent parsing failed, continuing with extracted entities: %v", err)
		return ent, nil
	}

	intent := &model.IntentResult{
		Slots: &model.IntentSlots{
			Category: aiResult.Category,
			Model:    aiResult.Model,
			PartType: aiResult.PartType,
			Spec:     aiResult.Spec,
			PriceMin: aiResult.PriceMin,
			PriceMax: aiResult.PriceMax,
		},
		Keywords:   aiResult.Keywords,
		Confidence: aiResult.Confidence,
	}

	mergeSlots(&ent, intent.Slots)
	return ent, intent
}

// mergeSlots fills empty entity fields from classifier slots. Extracted
// values are never overwritten.
func mergeSlots(ent *model.ExtractedEntities, slots *model.IntentSlots) {
	if slots == nil {
		return
	}
	if ent.PartType == "" && slots.PartType != nil {
		ent.PartType = *slots.PartType
	}
	if ent.Spec == "" && slots.Spec != nil {
		ent.Spec = *slots.Spec
	}
	if len(ent.Models) == 0 && slots.Model != nil {
		m := strings.ToUpper(strings.TrimSpace(*slots.Model))
		if m != "" {
			ent.Models = []string{m}
		}
	}
}
