package databases

// go generate: mockery --name SubscriberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/findhope/findhope-api/models"
)

const subscriberName = "case_subscribers"

// SubscriberDatabase contains the methods to use with the case subscriber database
type SubscriberDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.CaseSubscriber, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type subscriberDatabase struct {
	db DatabaseHelper
}

// NewSubscriberDatabase initializes a new instance of subscriber database with the provided db connection
func NewSubscriberDatabase(db DatabaseHelper) SubscriberDatabase {
	return &subscriberDatabase{
		db: db,
	}
}

func (s *subscriberDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseSubscriber, error) {
	var subscribers []models.CaseSubscriber
	cur, err := s.db.Collection(subscriberName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&subscribers)
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}

func (s *subscriberDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := s.db.Collection(subscriberName).InsertOne(ctx, document, opts...)
	return res, err
}

func (s *subscriberDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return s.db.Collection(subscriberName).CountDocuments(ctx, filter, opts...)
}
