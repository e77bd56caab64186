package models

// User holds the structure for the users collection in mongo. This is the
// identity directory: volunteer and admin records carry only a user_id, and
// email resolution goes through here at notification time.
type User struct {
	ID       string `bson:"_id" json:"_id"`
	Email    string `bson:"email" json:"email"`
	FullName string `bson:"full_name" json:"full_name"`
	Role     string `bson:"role" json:"role"`
}
