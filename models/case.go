package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Case types. A case is either a missing-person report or an
// unidentified-accident-victim report; the type never changes after creation.
const (
	CaseTypeMissing         = "missing"
	CaseTypeUnknownAccident = "unknown_accident"
)

// Case statuses.
const (
	CaseStatusActive = "active"
	CaseStatusFound  = "found"
	CaseStatusCold   = "cold"
)

// Case holds the structure for the cases collection in mongo. Missing-person
// reports fill the last-seen fields; accident reports fill the hospital and
// police fields. The remaining fields are shared.
type Case struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseType           string             `bson:"case_type" json:"case_type"`
	FullName           string             `bson:"full_name" json:"full_name"`
	Age                int                `bson:"age" json:"age"`
	Gender             string             `bson:"gender" json:"gender"`
	LastSeenLocation   string             `bson:"last_seen_location,omitempty" json:"last_seen_location,omitempty"`
	LastSeenDate       string             `bson:"last_seen_date,omitempty" json:"last_seen_date,omitempty"`
	LastSeenTime       string             `bson:"last_seen_time,omitempty" json:"last_seen_time,omitempty"`
	HospitalName       string             `bson:"hospital_name,omitempty" json:"hospital_name,omitempty"`
	PoliceStation      string             `bson:"police_station,omitempty" json:"police_station,omitempty"`
	InjuryDescription  string             `bson:"injury_description,omitempty" json:"injury_description,omitempty"`
	ClothesDescription string             `bson:"clothes_description,omitempty" json:"clothes_description,omitempty"`
	PhysicalMarks      string             `bson:"physical_marks,omitempty" json:"physical_marks,omitempty"`
	PhotoURL           string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Status             string             `bson:"status" json:"status"`
	Priority           string             `bson:"priority" json:"priority"`
	ContactName        string             `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	ContactNumber      string             `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	HealthNotes        string             `bson:"health_notes,omitempty" json:"health_notes,omitempty"`
	KnownRoutes        string             `bson:"known_routes,omitempty" json:"known_routes,omitempty"`
	RewardAmount       int64              `bson:"reward_amount,omitempty" json:"reward_amount,omitempty"`
	CreatedAt          primitive.DateTime `bson:"created_at" json:"created_at"`
	UpdatedAt          primitive.DateTime `bson:"updated_at" json:"updated_at"`
}

// OppositeCaseType returns the case type searched when looking for
// cross-case matches.
func OppositeCaseType(caseType string) string {
	if caseType == CaseTypeMissing {
		return CaseTypeUnknownAccident
	}
	return CaseTypeMissing
}

// CaseMatch is a case annotated with the confidence score returned by the
// photo similarity comparison.
type CaseMatch struct {
	Case            `bson:",inline"`
	ConfidenceScore int `json:"confidence_score"`
}
