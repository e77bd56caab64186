// Package scheduler runs the periodic background jobs: the nightly sweep
// that moves stale active cases to cold and notifies their followers.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/notify"
)

// coldCaseAge is how long an active case may go without an update before the
// sweep marks it cold.
const coldCaseAge = 90 * 24 * time.Hour

// Scheduler handles periodic background jobs for case lifecycle management
type Scheduler struct {
	cron   *cron.Cron
	CDB    databases.CaseDatabase
	Notify *notify.Service
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cDB databases.CaseDatabase, notifier *notify.Service) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		CDB:    cDB,
		Notify: notifier,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep stale active cases daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.sweepColdCases)
	if err != nil {
		zap.S().Errorw("failed to register cold case sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Case scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Case scheduler stopped")
}

// sweepColdCases finds active cases that have had no update inside the cold
// case window, marks them cold and fans the status change out to their
// subscribers, admins and volunteers
func (s *Scheduler) sweepColdCases() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-coldCaseAge)

	zap.S().Infow("Running cold case sweep", "cutoff", cutoff)

	staleFilter := bson.M{
		"status":     models.CaseStatusActive,
		"updated_at": bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
	}

	staleCases, err := s.CDB.Find(ctx, staleFilter)
	if err != nil {
		zap.S().Errorw("failed to find stale cases", "error", err)
		return
	}

	transitioned := 0
	for _, caseItem := range staleCases {
		if err := s.markCold(ctx, caseItem); err != nil {
			zap.S().Errorw("failed to mark case cold", "error", err, "caseId", caseItem.ID.Hex())
			continue
		}
		transitioned++
	}

	zap.S().Infow("Cold case sweep complete",
		"staleFound", len(staleCases),
		"transitioned", transitioned,
	)
}

// markCold transitions one case to cold and dispatches the notification
// fan-out for it. Notification failures never roll the transition back.
func (s *Scheduler) markCold(ctx context.Context, caseItem models.Case) error {
	now := primitive.NewDateTimeFromTime(time.Now())

	_, err := s.CDB.UpdateOne(ctx, bson.M{"_id": caseItem.ID}, bson.M{
		"$set": bson.M{
			"status":     models.CaseStatusCold,
			"updated_at": now,
		},
	})
	if err != nil {
		return err
	}

	attempted, failed := s.Notify.Dispatch(ctx, notify.CaseUpdate{
		CaseID:           caseItem.ID,
		CaseName:         caseItem.FullName,
		Status:           models.CaseStatusCold,
		Priority:         caseItem.Priority,
		LastSeenLocation: caseItem.LastSeenLocation,
	})

	zap.S().Infow("Case marked cold",
		"caseId", caseItem.ID.Hex(),
		"notified", attempted-failed,
	)
	return nil
}
