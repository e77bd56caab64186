package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/findhope/findhope-api/models"
)

// stubComparer maps case photo URLs to canned confidences or errors and
// counts how many comparisons were made.
type stubComparer struct {
	scores map[string]int
	errs   map[string]error
	calls  int
}

func (s *stubComparer) Compare(_ context.Context, _, photoURL string) (int, error) {
	s.calls++
	if err, ok := s.errs[photoURL]; ok {
		return 0, err
	}
	return s.scores[photoURL], nil
}

func caseWithPhoto(photoURL string) models.Case {
	return models.Case{
		ID:       primitive.NewObjectID(),
		CaseType: models.CaseTypeMissing,
		Status:   models.CaseStatusActive,
		PhotoURL: photoURL,
	}
}

func TestScoreCasesEmptyCandidateSetMakesNoCalls(t *testing.T) {
	cmp := &stubComparer{}

	matches := ScoreCases(context.Background(), cmp, "https://img/query.jpg", nil)

	assert.Empty(t, matches)
	assert.Zero(t, cmp.calls)
}

func TestScoreCasesThresholdBoundary(t *testing.T) {
	cmp := &stubComparer{scores: map[string]int{
		"https://img/a.jpg": 40,
		"https://img/b.jpg": 39,
	}}
	cases := []models.Case{caseWithPhoto("https://img/a.jpg"), caseWithPhoto("https://img/b.jpg")}

	matches := ScoreCases(context.Background(), cmp, "https://img/query.jpg", cases)

	assert.Len(t, matches, 1)
	assert.Equal(t, 40, matches[0].ConfidenceScore)
}

func TestScoreCasesSortsByDescendingConfidence(t *testing.T) {
	cmp := &stubComparer{scores: map[string]int{
		"https://img/a.jpg": 55,
		"https://img/b.jpg": 90,
		"https://img/c.jpg": 72,
	}}
	cases := []models.Case{
		caseWithPhoto("https://img/a.jpg"),
		caseWithPhoto("https://img/b.jpg"),
		caseWithPhoto("https://img/c.jpg"),
	}

	matches := ScoreCases(context.Background(), cmp, "https://img/query.jpg", cases)

	assert.Len(t, matches, 3)
	assert.Equal(t, []int{90, 72, 55}, []int{
		matches[0].ConfidenceScore,
		matches[1].ConfidenceScore,
		matches[2].ConfidenceScore,
	})
}

func TestScoreCasesSingleFailingCandidateYieldsEmptyResult(t *testing.T) {
	cmp := &stubComparer{errs: map[string]error{
		"https://img/a.jpg": errors.New("gateway exploded"),
	}}
	cases := []models.Case{caseWithPhoto("https://img/a.jpg")}

	matches := ScoreCases(context.Background(), cmp, "https://img/query.jpg", cases)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestScoreCasesFailingCandidateDoesNotAbortBatch(t *testing.T) {
	cmp := &stubComparer{
		scores: map[string]int{"https://img/b.jpg": 80},
		errs:   map[string]error{"https://img/a.jpg": errors.New("gateway exploded")},
	}
	cases := []models.Case{caseWithPhoto("https://img/a.jpg"), caseWithPhoto("https://img/b.jpg")}

	matches := ScoreCases(context.Background(), cmp, "https://img/query.jpg", cases)

	assert.Len(t, matches, 1)
	assert.Equal(t, 80, matches[0].ConfidenceScore)
}

func TestBestMatchThresholdIsStrict(t *testing.T) {
	cmp := &stubComparer{scores: map[string]int{"https://img/a.jpg": 60}}
	cases := []models.Case{caseWithPhoto("https://img/a.jpg")}

	assert.Nil(t, BestMatch(context.Background(), cmp, "https://img/query.jpg", cases))

	cmp = &stubComparer{scores: map[string]int{"https://img/a.jpg": 61}}
	best := BestMatch(context.Background(), cmp, "https://img/query.jpg", cases)
	assert.NotNil(t, best)
	assert.Equal(t, 61, best.ConfidenceScore)
}

func TestBestMatchKeepsOnlyHighestCandidate(t *testing.T) {
	cmp := &stubComparer{scores: map[string]int{
		"https://img/a.jpg": 75,
		"https://img/b.jpg": 92,
		"https://img/c.jpg": 64,
	}}
	cases := []models.Case{
		caseWithPhoto("https://img/a.jpg"),
		caseWithPhoto("https://img/b.jpg"),
		caseWithPhoto("https://img/c.jpg"),
	}

	best := BestMatch(context.Background(), cmp, "https://img/query.jpg", cases)

	assert.NotNil(t, best)
	assert.Equal(t, 92, best.ConfidenceScore)
	assert.Equal(t, "https://img/b.jpg", best.PhotoURL)
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, 85, ParseConfidence("85"))
	assert.Equal(t, 85, ParseConfidence("  85\n"))
	assert.Equal(t, 85, ParseConfidence("85% confident"))
	assert.Equal(t, 0, ParseConfidence("I cannot compare these images"))
	assert.Equal(t, 0, ParseConfidence(""))
}
