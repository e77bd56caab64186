package databases

// go generate: mockery --name SightingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/findhope/findhope-api/models"
)

const sightingName = "camera_sightings"

// SightingDatabase contains the methods to use with the camera sighting database
type SightingDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.CameraSighting, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type sightingDatabase struct {
	db DatabaseHelper
}

// NewSightingDatabase initializes a new instance of sighting database with the provided db connection
func NewSightingDatabase(db DatabaseHelper) SightingDatabase {
	return &sightingDatabase{
		db: db,
	}
}

func (s *sightingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CameraSighting, error) {
	var sightings []models.CameraSighting
	cur, err := s.db.Collection(sightingName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&sightings)
	if err != nil {
		return nil, err
	}
	return sightings, nil
}

func (s *sightingDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := s.db.Collection(sightingName).InsertOne(ctx, document, opts...)
	return res, err
}

func (s *sightingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return s.db.Collection(sightingName).UpdateOne(ctx, filter, update, opts...)
}
