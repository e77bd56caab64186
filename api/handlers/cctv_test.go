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

// recordingAlerter remembers every volunteer it was asked to alert.
type recordingAlerter struct {
	alerted []models.Volunteer
}

func (r *recordingAlerter) Alert(volunteer models.Volunteer, _, _ string) error {
	r.alerted = append(r.alerted, volunteer)
	return nil
}

func ptr(f float64) *float64 { return &f }

func TestCCTV_ProcessCCTVImageHandlerNoConfidentMatch(t *testing.T) {
	body := strings.NewReader(`{"imageUrl": "https://cdn.example.com/frame.jpg", "cameraLocation": "Connaught Place", "latitude": 28.63, "longitude": 77.21}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/process-cctv-image", body)
	if err != nil {
		t.Fatal(err)
	}

	fixture := []models.Case{
		{ID: primitive.NewObjectID(), FullName: "Asha Verma", PhotoURL: "asha.jpg", Status: models.CaseStatusActive},
	}

	db := &MockDatabaseHelper{}
	caseConn := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.Case)) = fixture
	})
	caseConn.On("Find", mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "cases").Return(caseConn)

	sightingConn := &mocks.CollectionHelper{}
	db.On("Collection", "camera_sightings").Return(sightingConn)

	// 60 is below the strict sighting bar
	comparer := &scriptedComparer{scores: map[string]int{"asha.jpg": 60}}

	c := handlers.CCTV{
		CDB:      databases.NewCaseDatabase(db),
		SDB:      databases.NewSightingDatabase(db),
		VDB:      databases.NewVolunteerDatabase(db),
		Comparer: comparer,
		Alerter:  &recordingAlerter{},
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ProcessCCTVImageHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No confident match found")
	sightingConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCCTV_ProcessCCTVImageHandlerRecordsSightingAndAlertsNearby(t *testing.T) {
	// camera at the origin; one volunteer right next to it, one in another city
	body := strings.NewReader(`{"imageUrl": "https://cdn.example.com/frame.jpg", "cameraLocation": "Connaught Place", "latitude": 0, "longitude": 0}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/process-cctv-image", body)
	if err != nil {
		t.Fatal(err)
	}

	cases := []models.Case{
		{ID: primitive.NewObjectID(), FullName: "Asha Verma", PhotoURL: "asha.jpg", Status: models.CaseStatusActive},
	}
	volunteers := []models.Volunteer{
		{ID: primitive.NewObjectID(), FullName: "Near", Latitude: ptr(0.01), Longitude: ptr(0.01), IsActive: true},
		{ID: primitive.NewObjectID(), FullName: "Far", Latitude: ptr(10), Longitude: ptr(10), IsActive: true},
		{ID: primitive.NewObjectID(), FullName: "NoCoords", IsActive: true},
	}

	db := &MockDatabaseHelper{}

	caseConn := &mocks.CollectionHelper{}
	caseCursor := &mocks.CursorHelper{}
	caseCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.Case)) = cases
	})
	caseConn.On("Find", mock.Anything, mock.Anything).Return(caseCursor, nil)
	db.On("Collection", "cases").Return(caseConn)

	volConn := &mocks.CollectionHelper{}
	volCursor := &mocks.CursorHelper{}
	volCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.Volunteer)) = volunteers
	})
	volConn.On("Find", mock.Anything, mock.Anything).Return(volCursor, nil)
	db.On("Collection", "volunteers").Return(volConn)

	sightingConn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}
	sightingConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	sightingConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "camera_sightings").Return(sightingConn)

	comparer := &scriptedComparer{scores: map[string]int{"asha.jpg": 85}}
	alerter := &recordingAlerter{}

	c := handlers.CCTV{
		CDB:      databases.NewCaseDatabase(db),
		SDB:      databases.NewSightingDatabase(db),
		VDB:      databases.NewVolunteerDatabase(db),
		Comparer: comparer,
		Alerter:  alerter,
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ProcessCCTVImageHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// only the matched name leaves the API; the case's contact fields stay private
	var resp struct {
		Match      string `json:"match"`
		Confidence int    `json:"confidence"`
		SightingID string `json:"sightingId"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "Asha Verma", resp.Match)
	assert.Equal(t, 85, resp.Confidence)
	assert.NotEmpty(t, resp.SightingID)

	// only the volunteer inside the alert radius is notified
	assert.Len(t, alerter.alerted, 1)
	assert.Equal(t, "Near", alerter.alerted[0].FullName)
	sightingConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
