package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/notify"
)

// tokenTTL is the lifetime of an admin session token.
const tokenTTL = 24 * time.Hour

// Admin exported for testing purposes
type Admin struct {
	DB     databases.AdminDatabase
	CDB    databases.CaseDatabase
	Notify *notify.Service
}

// LoginHandler verifies admin credentials and issues a signed session token
func (a Admin) LoginHandler(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Email == "" || body.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing credentials"))
		return
	}

	admin, err := a.DB.FindOne(r.Context(), bson.M{"email": body.Email, "active": true})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"email": admin.Email,
		"roles": admin.Roles,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("admin login", "adminID", admin.ID.Hex())

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": signed,
		"_id":   admin.ID.Hex(),
	})
}

// StatsHandler returns case counts broken down by status and type for the
// admin dashboard
func (a Admin) StatsHandler(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int64{}
	filters := map[string]bson.M{
		"total":            {},
		"active":           {"status": models.CaseStatusActive},
		"found":            {"status": models.CaseStatusFound},
		"cold":             {"status": models.CaseStatusCold},
		"missing":          {"case_type": models.CaseTypeMissing},
		"unknown_accident": {"case_type": models.CaseTypeUnknownAccident},
	}
	for name, filter := range filters {
		count, err := a.CDB.CountDocuments(context.Background(), filter)
		if err != nil {
			config.ErrorStatus("failed to count cases", http.StatusInternalServerError, w, err)
			return
		}
		counts[name] = count
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(counts)
}

// CloseCaseHandler marks a case found or cold and fans the closing
// notification out
func (a Admin) CloseCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	body := struct {
		Status string `json:"status"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Status != models.CaseStatusFound && body.Status != models.CaseStatusCold {
		config.ErrorStatus("status must be found or cold", http.StatusBadRequest, w, fmt.Errorf("got: %v", body.Status))
		return
	}

	caseItem, err := a.CDB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	_, err = a.CDB.UpdateOne(r.Context(), bson.M{"_id": cID}, bson.M{"$set": bson.M{
		"status":     body.Status,
		"updated_at": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to close case", http.StatusInternalServerError, w, err)
		return
	}

	attempted, failed := a.Notify.Dispatch(r.Context(), notify.CaseUpdate{
		CaseID:           caseItem.ID,
		CaseName:         caseItem.FullName,
		Status:           body.Status,
		Priority:         caseItem.Priority,
		LastSeenLocation: caseItem.LastSeenLocation,
	})

	zap.S().Infow("case closed",
		"caseID", caseID,
		"status", body.Status,
		"notified", attempted-failed,
	)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":            "Case closed successfully",
		"recipientsNotified": attempted - failed,
	})
}
