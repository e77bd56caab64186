package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/findhope/findhope-api/api/handlers"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/databases/mocks"
	"github.com/findhope/findhope-api/models"
)

func TestCaseMatch_CheckCaseMatchesHandlerMissingFields(t *testing.T) {
	body := strings.NewReader(`{"caseId": ""}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/check-case-matches", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	db.On("Collection", "cases").Return(conn)

	cm := handlers.CaseMatch{DB: databases.NewCaseDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(cm.CheckCaseMatchesHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCaseMatch_CheckCaseMatchesHandlerSuccess(t *testing.T) {
	sourceID := primitive.NewObjectID()
	body := strings.NewReader(`{"caseId": "` + sourceID.Hex() + `", "caseType": "missing"}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/check-case-matches", body)
	if err != nil {
		t.Fatal(err)
	}

	source := models.Case{
		ID:               sourceID,
		CaseType:         models.CaseTypeMissing,
		FullName:         "Asha Verma",
		Age:              30,
		Gender:           "female",
		LastSeenLocation: "Karol Bagh, Delhi",
		Status:           models.CaseStatusActive,
	}
	candidates := []models.Case{
		// matches: age within 5, same gender, overlapping location
		{ID: primitive.NewObjectID(), CaseType: models.CaseTypeUnknownAccident, Age: 32, Gender: "female", LastSeenLocation: "Delhi", Status: models.CaseStatusActive},
		// rejected: gender differs
		{ID: primitive.NewObjectID(), CaseType: models.CaseTypeUnknownAccident, Age: 30, Gender: "male", LastSeenLocation: "Delhi", Status: models.CaseStatusActive},
		// rejected: too old
		{ID: primitive.NewObjectID(), CaseType: models.CaseTypeUnknownAccident, Age: 50, Gender: "female", LastSeenLocation: "Delhi", Status: models.CaseStatusActive},
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}
	cursorHelper := &mocks.CursorHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Case)
		**arg = source
	})
	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.Case)) = candidates
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "cases").Return(conn)

	cm := handlers.CaseMatch{DB: databases.NewCaseDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(cm.CheckCaseMatchesHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success    bool          `json:"success"`
		Matches    []models.Case `json:"matches"`
		MatchCount int           `json:"matchCount"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.MatchCount)
	assert.Len(t, resp.Matches, 1)
	assert.Equal(t, 32, resp.Matches[0].Age)
}

func TestCaseMatch_CheckCaseMatchesHandlerFindError(t *testing.T) {
	sourceID := primitive.NewObjectID()
	body := strings.NewReader(`{"caseId": "` + sourceID.Hex() + `", "caseType": "missing"}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/check-case-matches", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.On("Collection", "cases").Return(conn)

	cm := handlers.CaseMatch{DB: databases.NewCaseDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(cm.CheckCaseMatchesHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
