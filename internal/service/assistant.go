package service

import (
	"context"
	"log"
	"time"

	"pecas/internal/config"
	"pecas/internal/model"
	"pecas/internal/textnorm"
)

// PartsStore is the catalog access the assistant pipeline needs.
type PartsStore interface {
	SearchParts(ctx context.Context, ent model.ExtractedEntities, limit int) ([]model.Part, error)
	LogSearch(ctx context.Context, ent model.ExtractedEntities, shape string, resultCount int, tookMs int64) error
}

// PartsAssistant runs the full query pipeline: normalize, extract, fetch,
// score and compose a reply.
type PartsAssistant struct {
	store  PartsStore
	intent *IntentParser
	cache  *ResultCache
	cfg    config.SearchConfig
}

// NewPartsAssistant creates the assistant service. cache may be nil to
// disable response caching.
func NewPartsAssistant(store PartsStore, intent *IntentParser, cache *ResultCache, cfg config.SearchConfig) *PartsAssistant {
	return &PartsAssistant{
		store:  store,
		intent: intent,
		cache:  cache,
		cfg:    cfg,
	}
}

// SearchAndFormat answers one customer query. It never returns an error for
// catalog misses; those become the none shape. Only an unusable query is an
// error for the transport layer to map.
func (a *PartsAssistant) SearchAndFormat(ctx context.Context, query string) model.AssistantResponse {
	start := time.Now()

	normalized := textnorm.Normalize(query)
	if cached, ok := a.cache.Get(normalized); ok {
		return cached
	}

	ent, _ := a.intent.Parse(ctx, query)

	// A bare "filtro" matches three unrelated filter kinds, so ask before
	// touching the database.
	if ent.PartType == "filtro" && ent.Spec == "" {
		resp := model.AssistantResponse{
			OK:        true,
			Entities:  ent,
			ReplyText: composeAmbiguous(AmbiguousFilterOptions),
			Meta: model.AssistantMeta{
				Type:    model.ShapeAmbiguous,
				Options: AmbiguousFilterOptions,
			},
			Took: time.Since(start).Milliseconds(),
		}
		a.finish(ent, &resp)
		return resp
	}

	parts, err := a.store.SearchParts(ctx, ent, a.cfg.FetchLimit)
	if err != nil {
		log.Printf("catalog search failed: %v", err)
		resp := model.AssistantResponse{
			OK:        false,
			Entities:  ent,
			ReplyText: "Tive um problema ao consultar o catálogo. Tente novamente em instantes.",
			Meta:      model.AssistantMeta{Type: model.ShapeNone},
			Took:      time.Since(start).Milliseconds(),
		}
		a.finish(ent, &resp)
		return resp
	}

	scored := ScoreParts(ent, parts)
	band := SelectBand(scored)

	var resp model.AssistantResponse
	switch {
	case len(band) == 0:
		suggestions := a.fetchSuggestions(ctx, ent)
		resp = model.AssistantResponse{
			OK:        true,
			Entities:  ent,
			ReplyText: composeNone(ent, suggestions, a.cfg.MaxListed),
			Meta: model.AssistantMeta{
				Type:        model.ShapeNone,
				Suggestions: suggestions,
			},
		}
	case IsSingle(band):
		resp = model.AssistantResponse{
			OK:        true,
			Entities:  ent,
			ReplyText: composeSingle(band[0]),
			Meta: model.AssistantMeta{
				Type: model.ShapeSingle,
				Item: &band[0],
			},
			Total: 1,
		}
	default:
		// Meta carries the same cap as the rendered list; Total still
		// reports the full band size.
		items := band
		if len(items) > a.cfg.MaxListed {
			items = items[:a.cfg.MaxListed]
		}
		resp = model.AssistantResponse{
			OK:        true,
			Entities:  ent,
			ReplyText: composeMulti(band, a.cfg.MaxListed),
			Meta: model.AssistantMeta{
				Type:  model.ShapeMulti,
				Items: items,
			},
			Total: len(band),
		}
	}

	resp.Took = time.Since(start).Milliseconds()
	a.cache.Set(normalized, resp)
	a.finish(ent, &resp)
	return resp
}

// fetchSuggestions widens the search for the none shape: the model filter is
// dropped so a part of the right type for another machine can still be
// offered. Without a part type there is nothing sensible to widen to.
func (a *PartsAssistant) fetchSuggestions(ctx context.Context, ent model.ExtractedEntities) []model.Part {
	if ent.PartType == "" {
		return nil
	}

	wider := ent
	wider.Models = nil
	wider.Code = ""

	suggestions, err := a.store.SearchParts(ctx, wider, a.cfg.SuggestionLimit)
	if err != nil {
		log.Printf("suggestion search failed: %v", err)
		return nil
	}
	return suggestions
}

// finish records the query for analytics without blocking the reply.
func (a *PartsAssistant) finish(ent model.ExtractedEntities, resp *model.AssistantResponse) {
	shape := resp.Meta.Type
	total := resp.Total
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.LogSearch(ctx, ent, shape, total, resp.Took); err != nil {
			log.Printf("failed to log search: %v", err)
		}
	}()
}
