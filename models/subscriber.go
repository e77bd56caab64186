package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CaseSubscriber holds the structure for the case_subscribers collection in
// mongo. One document per email subscribed to updates for one case.
type CaseSubscriber struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID    primitive.ObjectID `bson:"case_id" json:"case_id"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"created_at"`
}
