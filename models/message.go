package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CaseMessage holds the structure for the case_messages collection in mongo.
// Messages are anonymous discussion entries tied to a case.
type CaseMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID     primitive.ObjectID `bson:"case_id" json:"case_id"`
	SenderName string             `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  primitive.DateTime `bson:"created_at" json:"created_at"`
}
