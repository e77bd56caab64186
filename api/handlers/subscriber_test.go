package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/findhope/findhope-api/api/handlers"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/databases/mocks"
)

func TestSubscriber_SubscribeHandlerRejectsInvalidEmail(t *testing.T) {
	caseID := primitive.NewObjectID()
	body := strings.NewReader(`{"email": "not-an-email"}`)
	req, err := http.NewRequest("POST", "/api/v1/case/"+caseID.Hex()+"/subscribe", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID.Hex()})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	db.On("Collection", "case_subscribers").Return(conn)

	s := handlers.Subscriber{DB: databases.NewSubscriberDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(s.SubscribeHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSubscriber_SubscribeHandlerDeduplicates(t *testing.T) {
	caseID := primitive.NewObjectID()
	body := strings.NewReader(`{"email": "follower@x.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/case/"+caseID.Hex()+"/subscribe", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID.Hex()})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "case_subscribers").Return(conn)

	s := handlers.Subscriber{DB: databases.NewSubscriberDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(s.SubscribeHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Already subscribed")
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSubscriber_SubscribeHandlerCreatesSubscription(t *testing.T) {
	caseID := primitive.NewObjectID()
	body := strings.NewReader(`{"email": "follower@x.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/case/"+caseID.Hex()+"/subscribe", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID.Hex()})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "case_subscribers").Return(conn)

	s := handlers.Subscriber{DB: databases.NewSubscriberDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(s.SubscribeHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Subscribed to case updates")
}
