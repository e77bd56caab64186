package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/notify"
)

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// Case exported for testing purposes
type Case struct {
	DB     databases.CaseDatabase
	Notify *notify.Service
}

// CaseHandler returns all cases, filterable by case_type, status and a
// name/location search term
func (c Case) CaseHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	filter := bson.M{}
	if caseType := r.URL.Query().Get("case_type"); caseType != "" {
		filter["case_type"] = caseType
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"full_name": bson.M{"$regex": search, "$options": "i"}},
			{"last_seen_location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	dbResp, err := c.DB.Find(context.TODO(), filter, &options.FindOptions{Limit: &limit64, Skip: &skip64})
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusNotFound, w, err)
		return
	}
	// The frontend requires the data elements to exist, so an empty result
	// set returns an empty array rather than null
	if len(dbResp) == 0 {
		dbResp = []models.Case{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CaseByIDHandler returns a case by ID
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	zap.S().Debugf("case_id: %v", caseID)

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCaseHandler creates a case
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var caseItem models.Case
	if err := json.NewDecoder(r.Body).Decode(&caseItem); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if caseItem.CaseType != models.CaseTypeMissing && caseItem.CaseType != models.CaseTypeUnknownAccident {
		config.ErrorStatus("invalid case_type", http.StatusBadRequest, w, fmt.Errorf("got: %v", caseItem.CaseType))
		return
	}

	caseItem.ID = primitive.NewObjectID()
	if caseItem.Status == "" {
		caseItem.Status = models.CaseStatusActive
	}
	caseItem.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	caseItem.UpdatedAt = caseItem.CreatedAt

	_, err := c.DB.InsertOne(context.Background(), caseItem)
	if err != nil {
		config.ErrorStatus("failed to create case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Case created successfully",
		"id":      caseItem.ID.Hex(),
	})
}

// UpdateCaseHandler updates a case's details. The case_type field is
// immutable and silently dropped from the update
func (c Case) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updatedFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedFields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	delete(updatedFields, "case_type")
	delete(updatedFields, "_id")
	updatedFields["updated_at"] = primitive.NewDateTimeFromTime(time.Now())

	_, err = c.DB.UpdateOne(context.Background(), bson.M{"_id": cID}, bson.M{"$set": updatedFields})
	if err != nil {
		config.ErrorStatus("failed to update case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Case updated successfully",
	})
}

// DeleteCaseHandler deletes a case by ID
func (c Case) DeleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	_, err = c.DB.DeleteOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to delete case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Case deleted successfully",
	})
}

// UpdateCaseStatusHandler changes a case's status and/or priority and fans
// the update notification out to subscribers, admins and volunteers
func (c Case) UpdateCaseStatusHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	body := struct {
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Status == "" && body.Priority == "" {
		config.ErrorStatus("status or priority is required", http.StatusBadRequest, w, fmt.Errorf("empty status and priority"))
		return
	}

	caseItem, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	update := bson.M{"updated_at": primitive.NewDateTimeFromTime(time.Now())}
	if body.Status != "" {
		update["status"] = body.Status
		caseItem.Status = body.Status
	}
	if body.Priority != "" {
		update["priority"] = body.Priority
		caseItem.Priority = body.Priority
	}

	_, err = c.DB.UpdateOne(context.Background(), bson.M{"_id": cID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update case status", http.StatusInternalServerError, w, err)
		return
	}

	attempted, failed := c.Notify.Dispatch(r.Context(), notify.CaseUpdate{
		CaseID:           caseItem.ID,
		CaseName:         caseItem.FullName,
		Status:           caseItem.Status,
		Priority:         caseItem.Priority,
		LastSeenLocation: caseItem.LastSeenLocation,
	})
	zap.S().Infow("case status updated",
		"caseID", caseItem.ID.Hex(),
		"status", caseItem.Status,
		"notified", attempted-failed,
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":            "Case status updated successfully",
		"recipientsNotified": attempted - failed,
	})
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
