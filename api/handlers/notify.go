package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/notify"
)

// Notify exported for testing purposes
type Notify struct {
	CDB     databases.CaseDatabase
	Service *notify.Service
}

// NotifyCaseUpdateHandler fans a case update out by email to the case
// subscribers, the admins and the active volunteers
func (n Notify) NotifyCaseUpdateHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		CaseID   string `json:"caseId"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
		CaseName string `json:"caseName"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.CaseID == "" {
		config.ErrorStatus("caseId is required", http.StatusBadRequest, w, fmt.Errorf("empty caseId"))
		return
	}

	cID, err := primitive.ObjectIDFromHex(body.CaseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	update := notify.CaseUpdate{
		CaseID:   cID,
		CaseName: body.CaseName,
		Status:   body.Status,
		Priority: body.Priority,
	}
	// The last seen location only decorates the volunteer notice, so a
	// lookup failure falls back to an unknown location.
	if caseItem, err := n.CDB.FindOne(r.Context(), bson.M{"_id": cID}); err == nil {
		update.LastSeenLocation = caseItem.LastSeenLocation
		if update.CaseName == "" {
			update.CaseName = caseItem.FullName
		}
	}

	attempted, failed := n.Service.Dispatch(r.Context(), update)

	zap.S().Infow("case update notifications dispatched",
		"caseID", body.CaseID,
		"attempted", attempted,
		"failed", failed,
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":            "Notifications sent",
		"recipientsNotified": attempted - failed,
	})
}
