package vision

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/findhope/findhope-api/models"
)

const (
	// MinSearchConfidence is the inclusive floor for general photo search results.
	MinSearchConfidence = 40
	// MinSightingConfidence is the exclusive floor for a CCTV best match.
	MinSightingConfidence = 60
)

// ScoreCases compares the query image against every candidate case photo and
// returns the candidates scoring at least MinSearchConfidence, sorted by
// descending confidence. A failed comparison drops that candidate and keeps
// the batch going.
func ScoreCases(ctx context.Context, cmp Comparer, imageURL string, cases []models.Case) []models.CaseMatch {
	matches := []models.CaseMatch{}
	for _, caseItem := range cases {
		confidence, err := cmp.Compare(ctx, imageURL, caseItem.PhotoURL)
		if err != nil {
			zap.S().Errorw("failed to score case photo", "caseID", caseItem.ID.Hex(), "error", err)
			continue
		}
		zap.S().Debugw("scored case photo", "caseID", caseItem.ID.Hex(), "confidence", confidence)
		if confidence >= MinSearchConfidence {
			matches = append(matches, models.CaseMatch{Case: caseItem, ConfidenceScore: confidence})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ConfidenceScore > matches[j].ConfidenceScore
	})
	return matches
}

// BestMatch compares the query image against every candidate case photo and
// returns only the single highest-scoring candidate whose confidence is
// strictly above MinSightingConfidence, or nil if no candidate clears the
// bar. Failed comparisons are skipped like in ScoreCases.
func BestMatch(ctx context.Context, cmp Comparer, imageURL string, cases []models.Case) *models.CaseMatch {
	var best *models.CaseMatch
	highest := 0
	for _, caseItem := range cases {
		confidence, err := cmp.Compare(ctx, imageURL, caseItem.PhotoURL)
		if err != nil {
			zap.S().Errorw("failed to score case photo", "caseID", caseItem.ID.Hex(), "error", err)
			continue
		}
		if confidence > highest && confidence > MinSightingConfidence {
			highest = confidence
			best = &models.CaseMatch{Case: caseItem, ConfidenceScore: confidence}
		}
	}
	return best
}
