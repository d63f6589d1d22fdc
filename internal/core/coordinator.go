package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coordinator validates submissions and runs the assignment engine over
// an entity store.
type Coordinator struct {
	Engine Engine
	Now    func() time.Time
}

// Submit validates req against store and assigns trainers.
//
// Checks run in order and the first failure is returned:
//  1. the school code resolves
//  2. a date is present
//  3. a topic is present
//
// Calendar rules on the date belong to the caller; Submit only rejects a
// missing date. A nil store is ErrDataUnavailable.
func (c Coordinator) Submit(req TrainingRequest, store *EntityStore) (Confirmation, error) {
	if store == nil {
		return Confirmation{}, ErrDataUnavailable
	}

	school, ok := store.FindSchool(req.SchoolCode)
	if !ok {
		return Confirmation{}, &ValidationError{Field: "schoolCode", Value: req.SchoolCode, Err: ErrSchoolNotFound}
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		return Confirmation{}, &ValidationError{Field: "date", Value: req.Date, Err: ErrMissingDate}
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return Confirmation{}, &ValidationError{Field: "topic", Value: req.Topic, Err: ErrMissingTopic}
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	return Confirmation{
		RequestID:   uuid.New(),
		School:      school,
		Date:        date,
		Topic:       topic,
		Assignment:  c.Engine.Assign(store.ResourcePersons, topic, school.District),
		SubmittedAt: now(),
	}, nil
}
