package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CameraSighting holds the structure for the camera_sightings collection in
// mongo. One document per CCTV-detected candidate match. Only the
// VolunteerNotified flag is ever updated after insert.
type CameraSighting struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID            primitive.ObjectID `bson:"case_id" json:"case_id"`
	CameraLocation    string             `bson:"camera_location" json:"camera_location"`
	Latitude          float64            `bson:"latitude" json:"latitude"`
	Longitude         float64            `bson:"longitude" json:"longitude"`
	ImageURL          string             `bson:"image_url" json:"image_url"`
	ConfidenceScore   int                `bson:"confidence_score" json:"confidence_score"`
	DetectedAt        primitive.DateTime `bson:"detected_at" json:"detected_at"`
	VolunteerNotified bool               `bson:"volunteer_notified" json:"volunteer_notified"`
}
