package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/api"
	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/matching"
	"github.com/findhope/findhope-api/models"
)

// CaseMatch exported for testing purposes
type CaseMatch struct {
	DB databases.CaseDatabase
}

// CheckCaseMatchesHandler runs the attribute heuristics for one case against
// every active case of the opposite type and returns the plausible matches
func (c CaseMatch) CheckCaseMatchesHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		CaseID   string `json:"caseId"`
		CaseType string `json:"caseType"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.CaseID == "" || body.CaseType == "" {
		config.ErrorStatus("caseId and caseType are required", http.StatusBadRequest, w, fmt.Errorf("got caseId: %q, caseType: %q", body.CaseID, body.CaseType))
		return
	}

	cID, err := primitive.ObjectIDFromHex(body.CaseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	source, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	candidates, err := c.DB.Find(ctx, bson.M{
		"case_type": models.OppositeCaseType(body.CaseType),
		"status":    models.CaseStatusActive,
	})
	if err != nil {
		config.ErrorStatus("failed to get candidate cases", http.StatusInternalServerError, w, err)
		return
	}

	matches := matching.PotentialMatches(*source, candidates)

	zap.S().Infow("checked case matches",
		"caseID", body.CaseID,
		"candidates", len(candidates),
		"matches", len(matches),
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"matches":    matches,
		"matchCount": len(matches),
	})
}
