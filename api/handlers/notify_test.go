package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/findhope/findhope-api/api/handlers"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/databases/mocks"
	"github.com/findhope/findhope-api/email"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/notify"
)

// captureSender records delivered notices.
type captureSender struct {
	mu   sync.Mutex
	sent []email.Notice
}

func (c *captureSender) Send(n email.Notice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func TestNotify_NotifyCaseUpdateHandlerBadCaseID(t *testing.T) {
	body := strings.NewReader(`{"caseId": "not-hex", "status": "found"}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/notify-case-update", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	n := handlers.Notify{
		CDB: databases.NewCaseDatabase(db),
		Service: &notify.Service{
			SubDB:      databases.NewSubscriberDatabase(db),
			ADB:        databases.NewAdminDatabase(db),
			VDB:        databases.NewVolunteerDatabase(db),
			UDB:        databases.NewUserDatabase(db),
			Dispatcher: &email.Dispatcher{Sender: &captureSender{}},
		},
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(n.NotifyCaseUpdateHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotify_NotifyCaseUpdateHandlerDispatchesToSubscribers(t *testing.T) {
	caseID := primitive.NewObjectID()
	body := strings.NewReader(`{"caseId": "` + caseID.Hex() + `", "status": "found", "priority": "high", "caseName": "Asha Verma"}`)
	req, err := http.NewRequest("POST", "/api/v1/functions/notify-case-update", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}

	caseConn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Case)
		(*arg).LastSeenLocation = "Karol Bagh, Delhi"
	})
	caseConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "cases").Return(caseConn)

	subConn := &mocks.CollectionHelper{}
	subCursor := &mocks.CursorHelper{}
	subCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(0).(*[]models.CaseSubscriber)) = []models.CaseSubscriber{
			{CaseID: caseID, Email: "follower1@x.com"},
			{CaseID: caseID, Email: "follower2@x.com"},
		}
	})
	subConn.On("Find", mock.Anything, mock.Anything).Return(subCursor, nil)
	db.On("Collection", "case_subscribers").Return(subConn)

	adminConn := &mocks.CollectionHelper{}
	adminCursor := &mocks.CursorHelper{}
	adminCursor.On("Decode", mock.Anything).Return(nil)
	adminConn.On("Find", mock.Anything, mock.Anything).Return(adminCursor, nil)
	db.On("Collection", "admins").Return(adminConn)

	volConn := &mocks.CollectionHelper{}
	volCursor := &mocks.CursorHelper{}
	volCursor.On("Decode", mock.Anything).Return(nil)
	volConn.On("Find", mock.Anything, mock.Anything).Return(volCursor, nil)
	db.On("Collection", "volunteers").Return(volConn)

	sender := &captureSender{}
	n := handlers.Notify{
		CDB: databases.NewCaseDatabase(db),
		Service: &notify.Service{
			SubDB:      databases.NewSubscriberDatabase(db),
			ADB:        databases.NewAdminDatabase(db),
			VDB:        databases.NewVolunteerDatabase(db),
			UDB:        databases.NewUserDatabase(db),
			Dispatcher: &email.Dispatcher{Sender: sender},
		},
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(n.NotifyCaseUpdateHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Message            string `json:"message"`
		RecipientsNotified int    `json:"recipientsNotified"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.RecipientsNotified)
	assert.Len(t, sender.sent, 2)
}
