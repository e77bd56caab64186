package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Volunteer holds the structure for the volunteers collection in mongo.
// Latitude and Longitude are optional; volunteers without coordinates can
// never qualify for proximity alerts.
type Volunteer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	FullName  string             `bson:"full_name" json:"full_name"`
	Phone     string             `bson:"phone" json:"phone"`
	Area      string             `bson:"area" json:"area"`
	Latitude  *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"created_at"`
}
