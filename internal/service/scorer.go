package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pecas/internal/model"
	"pecas/internal/textnorm"
)

// Relevance ladder. A candidate earns exactly one base score, then a small
// stock bonus. Scores are comparable across queries, which lets the band
// cut use absolute thresholds.
const (
	scoreExact      = 100 // part type and compatible model both match
	scoreNearModel  = 70  // part type matches, only a neighboring model does
	scoreModelOnly  = 60  // compatible model matches, no part type asked or matched
	scoreTypeOnly   = 50  // part type matches, no model evidence
	stockBonus      = 5
	bandFloor       = 60 // items below this never join the reply band
	bandWidth       = 10 // band keeps items within this distance of the top
	singleThreshold = 95 // lone top item at or above this renders as single
)

var modelTokenRe = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// ScoreParts assigns a relevance score to every candidate and returns them
// sorted by score descending, ties broken by material code for stable output.
func ScoreParts(ent model.ExtractedEntities, parts []model.Part) []model.ScoredPart {
	scored := make([]model.ScoredPart, 0, len(parts))
	for _, p := range parts {
		scored = append(scored, model.ScoredPart{Part: p, Score: scorePart(ent, p)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].CodigoMaterial < scored[j].CodigoMaterial
	})
	return scored
}

// SelectBand returns the co-equal leaders: every item scoring at least
// bandFloor and within bandWidth of the top score. Input must be sorted
// descending.
func SelectBand(scored []model.ScoredPart) []model.ScoredPart {
	if len(scored) == 0 || scored[0].Score < bandFloor {
		return nil
	}
	cut := scored[0].Score - bandWidth
	if cut < bandFloor {
		cut = bandFloor
	}

	var band []model.ScoredPart
	for _, s := range scored {
		if s.Score < cut {
			break
		}
		band = append(band, s)
	}
	return band
}

// IsSingle reports whether the band renders as a single confident answer:
// exactly one leader, scoring at or above the single threshold.
func IsSingle(band []model.ScoredPart) bool {
	return len(band) == 1 && band[0].Score >= singleThreshold
}

// scorePart applies the ladder. The material code is deliberately absent
// here: an extracted code acts as a fetch filter only, and the fetched row
// is still judged by type and model evidence.
func scorePart(ent model.ExtractedEntities, p model.Part) int {
	desc := textnorm.Normalize(p.Descricao)
	compat := strings.ToUpper(p.ModelosCompatibilidade)

	// The spec qualifier narrows the fetch, not the ladder: type evidence
	// is the part_type substring alone.
	typeMatch := ent.PartType != "" && strings.Contains(desc, ent.PartType)

	modelMatch := false
	for _, m := range ent.Models {
		if strings.Contains(compat, m) {
			modelMatch = true
			break
		}
	}

	nearMatch := false
	if !modelMatch && len(ent.Models) > 0 {
		for _, near := range neighborModels(ent.Models[0]) {
			if strings.Contains(compat, near) {
				nearMatch = true
				break
			}
		}
	}

	score := 0
	switch {
	case typeMatch && modelMatch:
		score = scoreExact
	case typeMatch && nearMatch:
		score = scoreNearModel
	case modelMatch:
		score = scoreModelOnly
	case typeMatch:
		score = scoreTypeOnly
	}

	if p.QtdeMir > 0 {
		score += stockBonus
		if score > scoreExact {
			score = scoreExact
		}
	}
	return score
}

// neighborModels returns the adjacent model numbers of a token like MS162
// (MS161 and MS163). A part listed for the neighbor of the asked model is
// often the same family, so it still deserves a partial score.
func neighborModels(modelToken string) []string {
	m := modelTokenRe.FindStringSubmatch(modelToken)
	if m == nil {
		return nil
	}
	prefix := m[1]
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}

	var out []string
	if n > 0 {
		out = append(out, fmt.Sprintf("%s%d", prefix, n-1))
	}
	out = append(out, fmt.Sprintf("%s%d", prefix, n+1))
	return out
}
