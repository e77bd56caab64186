package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/api"
	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/matching"
	"github.com/findhope/findhope-api/models"
)

// VolunteerAlerter delivers a proximity alert to one volunteer.
type VolunteerAlerter interface {
	Alert(volunteer models.Volunteer, caseName, location string) error
}

// LogAlerter records proximity alerts in the service log. SMS and push
// delivery plug in behind the same interface.
type LogAlerter struct{}

// Alert logs the volunteer alert
func (LogAlerter) Alert(volunteer models.Volunteer, caseName, location string) error {
	zap.S().Infow("volunteer proximity alert",
		"volunteer", volunteer.FullName,
		"phone", volunteer.Phone,
		"case", caseName,
		"location", location,
	)
	return nil
}

// Volunteer exported for testing purposes
type Volunteer struct {
	DB      databases.VolunteerDatabase
	CDB     databases.CaseDatabase
	Alerter VolunteerAlerter
}

// VolunteerHandler returns all volunteers
func (v Volunteer) VolunteerHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if active := r.URL.Query().Get("is_active"); active != "" {
		filter["is_active"] = active == "true"
	}

	dbResp, err := v.DB.Find(context.TODO(), filter)
	if err != nil {
		config.ErrorStatus("failed to get volunteers", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Volunteer{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateVolunteerHandler registers a volunteer
func (v Volunteer) CreateVolunteerHandler(w http.ResponseWriter, r *http.Request) {
	var volunteer models.Volunteer
	if err := json.NewDecoder(r.Body).Decode(&volunteer); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if volunteer.FullName == "" {
		config.ErrorStatus("full_name is required", http.StatusBadRequest, w, fmt.Errorf("empty full_name"))
		return
	}

	volunteer.ID = primitive.NewObjectID()
	volunteer.IsActive = true
	volunteer.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err := v.DB.InsertOne(context.Background(), volunteer)
	if err != nil {
		config.ErrorStatus("failed to create volunteer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Volunteer registered successfully",
		"id":      volunteer.ID.Hex(),
	})
}

// UpdateVolunteerHandler updates a volunteer's details, typically the
// active flag or the registered coordinates
func (v Volunteer) UpdateVolunteerHandler(w http.ResponseWriter, r *http.Request) {
	volunteerID := mux.Vars(r)["volunteer_id"]

	vID, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updatedFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedFields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	delete(updatedFields, "_id")

	_, err = v.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{"$set": updatedFields})
	if err != nil {
		config.ErrorStatus("failed to update volunteer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Volunteer updated successfully",
	})
}

// NotifyVolunteersHandler alerts every active volunteer registered within
// the alert radius of a reported location
func (v Volunteer) NotifyVolunteersHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		CaseID    string   `json:"caseId"`
		Location  string   `json:"location"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		config.ErrorStatus("latitude and longitude are required", http.StatusBadRequest, w, fmt.Errorf("missing coordinates"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	caseName := ""
	if body.CaseID != "" {
		if cID, err := primitive.ObjectIDFromHex(body.CaseID); err == nil {
			if caseItem, err := v.CDB.FindOne(ctx, bson.M{"_id": cID}); err == nil {
				caseName = caseItem.FullName
			}
		}
	}

	volunteers, err := v.DB.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		config.ErrorStatus("failed to get active volunteers", http.StatusInternalServerError, w, err)
		return
	}

	nearby := matching.NearbyVolunteers(volunteers, *body.Latitude, *body.Longitude, matching.VolunteerRadiusKm)
	for _, vol := range nearby {
		if err := v.Alerter.Alert(vol, caseName, body.Location); err != nil {
			zap.S().Errorw("failed to alert volunteer",
				"volunteer", vol.FullName,
				"error", err,
			)
		}
	}

	zap.S().Infow("volunteer proximity fan-out complete",
		"caseID", body.CaseID,
		"active", len(volunteers),
		"nearby", len(nearby),
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":            true,
		"volunteersNotified": len(nearby),
		"message":            fmt.Sprintf("Notified %d volunteers within %dkm", len(nearby), matching.VolunteerRadiusKm),
	})
}
