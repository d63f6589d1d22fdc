package core

import (
	"time"

	"github.com/google/uuid"
)

// FeedKind identifies one of the three tabular feeds the service loads.
type FeedKind string

const (
	FeedSchools         FeedKind = "schools"
	FeedResourcePersons FeedKind = "resource_persons"
	FeedTopics          FeedKind = "topics"
)

// FeedKinds lists every feed in load order.
var FeedKinds = []FeedKind{FeedSchools, FeedResourcePersons, FeedTopics}

// School is a single row of the schools feed.
type School struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// HasLocation is false when lat/lng were blank or unparseable.
	HasLocation bool `json:"hasLocation"`
}

// ResourcePerson is a trainer qualified (at some level) for one topic.
type ResourcePerson struct {
	Name           string `json:"name"`
	Topic          string `json:"topic"`
	District       string `json:"district"`
	TrainingStatus string `json:"trainingStatus"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
}

// NotAvailableName is the display name of the NotAvailable sentinel.
const NotAvailableName = "Not available"

// NotAvailable fills an assignment slot when no trainer qualifies.
var NotAvailable = ResourcePerson{Name: NotAvailableName}

// IsAvailable reports whether p is a real trainer rather than the
// NotAvailable sentinel.
func (p ResourcePerson) IsAvailable() bool {
	return p != NotAvailable
}

// TrainingRequest is the caller's input for one submission. Values are raw
// strings as supplied by the form or API body.
type TrainingRequest struct {
	SchoolCode string `json:"schoolCode"`
	Date       string `json:"date"`
	Topic      string `json:"topic"`
}

// Tier records which matching tier filled an assignment slot.
type Tier int

const (
	TierNone Tier = iota
	TierSameDistrict
	TierFallback
)

// String returns the label used in logs and metrics.
func (t Tier) String() string {
	switch t {
	case TierSameDistrict:
		return "same_district"
	case TierFallback:
		return "fallback"
	default:
		return "none"
	}
}

// MarshalText lets Tier render as its label in JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// SlotMatch is the trainer chosen for one slot and how it was found.
type SlotMatch struct {
	Person ResourcePerson `json:"person"`
	Tier   Tier           `json:"tier"`
}

// Assignment is the primary ("conducted") and secondary ("attended")
// trainer selection for a request.
type Assignment struct {
	Primary   SlotMatch `json:"primary"`
	Secondary SlotMatch `json:"secondary"`
}

// Confirmation is the successful outcome of a submission.
type Confirmation struct {
	RequestID   uuid.UUID  `json:"requestId"`
	School      School     `json:"school"`
	Date        string     `json:"date"`
	Topic       string     `json:"topic"`
	Assignment  Assignment `json:"assignment"`
	SubmittedAt time.Time  `json:"submittedAt"`
}
