// Package notify resolves the recipients of a case update and fans the
// notification emails out. It is shared by the notify-case-update endpoint
// and the cold-case scheduler.
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/email"
	templates "github.com/findhope/findhope-api/templates/html"
)

// CaseUpdate carries the fields every recipient notice is built from.
type CaseUpdate struct {
	CaseID           primitive.ObjectID
	CaseName         string
	Status           string
	Priority         string
	LastSeenLocation string
}

// Service builds and dispatches case update notices across the three
// recipient classes: case subscribers, admins and active volunteers.
type Service struct {
	SubDB      databases.SubscriberDatabase
	ADB        databases.AdminDatabase
	VDB        databases.VolunteerDatabase
	UDB        databases.UserDatabase
	Dispatcher *email.Dispatcher
}

// Notices resolves all recipients for the update and renders one notice per
// recipient. A recipient whose email cannot be resolved through the identity
// directory is logged and skipped; it never drops the rest of the batch.
func (s *Service) Notices(ctx context.Context, update CaseUpdate) []email.Notice {
	notices := []email.Notice{}

	subscribers, err := s.SubDB.Find(ctx, bson.M{"case_id": update.CaseID})
	if err != nil {
		zap.S().Errorw("failed to get case subscribers", "caseID", update.CaseID.Hex(), "error", err)
	}
	for _, sub := range subscribers {
		notices = append(notices, email.Notice{
			ToEmail:  sub.Email,
			Subject:  "Update on Missing Person Case: " + update.CaseName,
			HTMLBody: templates.RenderSubscriberUpdate(update.CaseName, update.Status, update.Priority),
			Plain:    "Case " + update.CaseName + " is now " + update.Status,
		})
	}

	admins, err := s.ADB.Find(ctx, bson.M{"active": true})
	if err != nil {
		zap.S().Errorw("failed to get admin users", "error", err)
	}
	for _, admin := range admins {
		addr, ok := s.resolveEmail(ctx, admin.UserID, admin.Email)
		if !ok {
			continue
		}
		notices = append(notices, email.Notice{
			ToEmail:  addr,
			Subject:  "[ADMIN] Case Update: " + update.CaseName,
			HTMLBody: templates.RenderAdminUpdate(update.CaseID.Hex(), update.CaseName, update.Status, update.Priority),
			Plain:    "Case " + update.CaseID.Hex() + " is now " + update.Status,
		})
	}

	volunteers, err := s.VDB.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		zap.S().Errorw("failed to get active volunteers", "error", err)
	}
	for _, vol := range volunteers {
		addr, ok := s.resolveEmail(ctx, vol.UserID, "")
		if !ok {
			continue
		}
		notices = append(notices, email.Notice{
			ToName:   vol.FullName,
			ToEmail:  addr,
			Subject:  "[VOLUNTEER] New Case Update in Your Area",
			HTMLBody: templates.RenderVolunteerUpdate(update.CaseName, update.LastSeenLocation, update.Status, update.Priority),
			Plain:    "Case " + update.CaseName + " is now " + update.Status,
		})
	}

	return notices
}

// resolveEmail looks a user id up in the identity directory, falling back to
// the address stored on the record itself when one exists.
func (s *Service) resolveEmail(ctx context.Context, userID, fallback string) (string, bool) {
	if userID != "" {
		user, err := s.UDB.FindOne(ctx, bson.M{"_id": userID})
		if err == nil && user.Email != "" {
			return user.Email, true
		}
		if err != nil {
			zap.S().Warnw("failed to resolve user email", "userID", userID, "error", err)
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// Dispatch builds the notices for the update and sends them all. It returns
// the number of notices attempted and the number that failed to send.
func (s *Service) Dispatch(ctx context.Context, update CaseUpdate) (attempted int, failed int) {
	notices := s.Notices(ctx, update)
	if len(notices) == 0 {
		return 0, 0
	}
	_, failed = s.Dispatcher.SendAll(notices)
	return len(notices), failed
}
