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

// Message exported for testing purposes
type Message struct {
	DB databases.MessageDatabase
}

// MessagesByCaseHandler returns the discussion messages for a case
func (m Message) MessagesByCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := m.DB.Find(context.Background(), bson.M{"case_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get messages by case ID", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.CaseMessage{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMessageHandler posts a message to a case's discussion. Messages may
// be anonymous; a blank sender name is kept blank
func (m Message) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var message models.CaseMessage
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	message.Body = strings.TrimSpace(message.Body)
	if message.Body == "" {
		config.ErrorStatus("body is required", http.StatusBadRequest, w, fmt.Errorf("empty body"))
		return
	}

	message.ID = primitive.NewObjectID()
	message.CaseID = cID
	message.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err = m.DB.InsertOne(context.Background(), message)
	if err != nil {
		config.ErrorStatus("failed to create message", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Message posted successfully",
		"id":      message.ID.Hex(),
	})
}
