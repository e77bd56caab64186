package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/models"
)

// Subscriber exported for testing purposes
type Subscriber struct {
	DB databases.SubscriberDatabase
}

// SubscribeHandler subscribes an email address to updates for one case
func (s Subscriber) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	body := struct {
		Email string `json:"email"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		config.ErrorStatus("a valid email is required", http.StatusBadRequest, w, fmt.Errorf("got: %q", body.Email))
		return
	}

	// One subscription per email per case.
	count, err := s.DB.CountDocuments(context.Background(), bson.M{"case_id": cID, "email": body.Email})
	if err != nil {
		config.ErrorStatus("failed to check existing subscription", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Already subscribed to this case",
		})
		return
	}

	subscriber := models.CaseSubscriber{
		ID:        primitive.NewObjectID(),
		CaseID:    cID,
		Email:     body.Email,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	_, err = s.DB.InsertOne(context.Background(), subscriber)
	if err != nil {
		config.ErrorStatus("failed to create subscription", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Subscribed to case updates",
		"id":      subscriber.ID.Hex(),
	})
}
