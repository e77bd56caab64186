package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/matching"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/vision"
)

// CCTV exported for testing purposes
type CCTV struct {
	CDB      databases.CaseDatabase
	SDB      databases.SightingDatabase
	VDB      databases.VolunteerDatabase
	Comparer vision.Comparer
	Alerter  VolunteerAlerter
}

// ProcessCCTVImageHandler scores a camera frame against all active missing
// person cases. A single confident match is persisted as a camera sighting
// and nearby volunteers are alerted
func (c CCTV) ProcessCCTVImageHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		ImageURL       string  `json:"imageUrl"`
		CameraLocation string  `json:"cameraLocation"`
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.ImageURL == "" {
		config.ErrorStatus("imageUrl is required", http.StatusBadRequest, w, fmt.Errorf("empty imageUrl"))
		return
	}

	cases, err := c.CDB.Find(r.Context(), bson.M{
		"case_type": models.CaseTypeMissing,
		"status":    models.CaseStatusActive,
		"photo_url": bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		config.ErrorStatus("failed to get active cases", http.StatusInternalServerError, w, err)
		return
	}

	if len(cases) == 0 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "No active missing person cases to compare",
		})
		return
	}

	best := vision.BestMatch(r.Context(), c.Comparer, body.ImageURL, cases)
	if best == nil {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "No confident match found",
		})
		return
	}

	sighting := models.CameraSighting{
		ID:              primitive.NewObjectID(),
		CaseID:          best.ID,
		CameraLocation:  body.CameraLocation,
		Latitude:        body.Latitude,
		Longitude:       body.Longitude,
		ImageURL:        body.ImageURL,
		ConfidenceScore: best.ConfidenceScore,
		DetectedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}
	_, err = c.SDB.InsertOne(r.Context(), sighting)
	if err != nil {
		config.ErrorStatus("failed to record camera sighting", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("camera sighting recorded",
		"caseID", best.ID.Hex(),
		"confidence", best.ConfidenceScore,
		"camera", body.CameraLocation,
	)

	// Alert failures are per-recipient; the sighting itself is already
	// recorded so the response stays a success either way.
	volunteers, err := c.VDB.Find(r.Context(), bson.M{"is_active": true})
	if err != nil {
		zap.S().Errorw("failed to get active volunteers for sighting", "error", err)
		volunteers = nil
	}
	nearby := matching.NearbyVolunteers(volunteers, body.Latitude, body.Longitude, matching.VolunteerRadiusKm)
	for _, vol := range nearby {
		if err := c.Alerter.Alert(vol, best.FullName, body.CameraLocation); err != nil {
			zap.S().Errorw("failed to alert volunteer",
				"volunteer", vol.FullName,
				"error", err,
			)
		}
	}
	if len(nearby) > 0 {
		_, err = c.SDB.UpdateOne(r.Context(), bson.M{"_id": sighting.ID}, bson.M{"$set": bson.M{"volunteer_notified": true}})
		if err != nil {
			zap.S().Errorw("failed to mark sighting as notified", "sightingID", sighting.ID.Hex(), "error", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	// The caller only needs to know who was matched; the full case document
	// carries contact details that a camera integration has no business seeing.
	json.NewEncoder(w).Encode(map[string]interface{}{
		"match":      best.FullName,
		"confidence": best.ConfidenceScore,
		"sightingId": sighting.ID.Hex(),
	})
}
