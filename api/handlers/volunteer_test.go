package handlers_test

import (
	"encoding/json"
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

func TestVolunteer_NotifyVolunteersHandlerMissingCoordinates(t *testing.T) {
	body := strings.NewReader(`{"caseId": "608cafe595eb9dc05379b7f4", "location": "Karol Bagh"}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/notify-volunteers", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	v := handlers.Volunteer{
		DB:      databases.NewVolunteerDatabase(db),
		CDB:     databases.NewCaseDatabase(db),
		Alerter: &recordingAlerter{},
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(v.NotifyVolunteersHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVolunteer_NotifyVolunteersHandlerAlertsWithinRadius(t *testing.T) {
	caseID := primitive.NewObjectID()
	body := strings.NewReader(`{"caseId": "` + caseID.Hex() + `", "location": "Karol Bagh", "latitude": 0, "longitude": 0}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/notify-volunteers", body)
	if err != nil {
		t.Fatal(err)
	}

	volunteers := []models.Volunteer{
		{ID: primitive.NewObjectID(), FullName: "Near One", Latitude: ptr(0.01), Longitude: ptr(0), IsActive: true},
		{ID: primitive.NewObjectID(), FullName: "Near Two", Latitude: ptr(0), Longitude: ptr(0.02), IsActive: true},
		{ID: primitive.NewObjectID(), FullName: "Far", Latitude: ptr(1), Longitude: ptr(1), IsActive: true},
		{ID: primitive.NewObjectID(), FullName: "NoCoords", IsActive: true},
	}

	db := &MockDatabaseHelper{}

	caseConn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Case)
		(*arg).FullName = "Asha Verma"
	})
	caseConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "cases").Return(caseConn)

	volConn := &mocks.CollectionHelper{}
	volCursor := &mocks.CursorHelper{}
	volCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.Volunteer)) = volunteers
	})
	volConn.On("Find", mock.Anything, mock.Anything).Return(volCursor, nil)
	db.On("Collection", "volunteers").Return(volConn)

	alerter := &recordingAlerter{}
	v := handlers.Volunteer{
		DB:      databases.NewVolunteerDatabase(db),
		CDB:     databases.NewCaseDatabase(db),
		Alerter: alerter,
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(v.NotifyVolunteersHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success            bool   `json:"success"`
		VolunteersNotified int    `json:"volunteersNotified"`
		Message            string `json:"message"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.VolunteersNotified)
	assert.Len(t, alerter.alerted, 2)
}

func TestVolunteer_CreateVolunteerHandlerRequiresName(t *testing.T) {
	body := strings.NewReader(`{"phone": "9999999999"}`)
	req, err := http.NewRequest("POST", "/api/v1/volunteers", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	db.On("Collection", "volunteers").Return(conn)

	v := handlers.Volunteer{DB: databases.NewVolunteerDatabase(db), CDB: databases.NewCaseDatabase(db), Alerter: &recordingAlerter{}}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(v.CreateVolunteerHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}
