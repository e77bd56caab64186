package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/vision"
)

// PhotoMatch exported for testing purposes
type PhotoMatch struct {
	DB       databases.CaseDatabase
	Comparer vision.Comparer
}

// MatchPhotoHandler scores an uploaded photo against every active missing
// person case photo and returns the candidates above the search confidence
// floor, best first
func (p PhotoMatch) MatchPhotoHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		ImageURL string `json:"imageUrl"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.ImageURL == "" {
		config.ErrorStatus("imageUrl is required", http.StatusBadRequest, w, fmt.Errorf("empty imageUrl"))
		return
	}

	cases, err := p.DB.Find(r.Context(), bson.M{
		"case_type": models.CaseTypeMissing,
		"status":    models.CaseStatusActive,
		"photo_url": bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		config.ErrorStatus("failed to get cases with photos", http.StatusInternalServerError, w, err)
		return
	}

	if len(cases) == 0 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []models.CaseMatch{},
			"message": "No active cases with photos to compare",
		})
		return
	}

	matches := vision.ScoreCases(r.Context(), p.Comparer, body.ImageURL, cases)

	zap.S().Infow("photo match search complete",
		"candidates", len(cases),
		"matches", len(matches),
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
	})
}
