package core

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the canonical request date format.
const DateLayout = "2006-01-02"

// ParseTrainingDate parses a request date in DateLayout. Blank input is
// ErrMissingDate; anything else that is not YYYY-MM-DD is ErrInvalidDate.
func ParseTrainingDate(s string) (pgtype.Date, error) {
	d := ToPgDate(s)
	if !d.Valid {
		if strings.TrimSpace(s) == "" {
			return d, &ValidationError{Field: "date", Value: s, Err: ErrMissingDate}
		}
		return d, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return d, nil
}

// CheckTrainingDate enforces the booking calendar: the date may not be
// before today and may not fall on a Saturday or Sunday. today is taken
// in the caller's time zone; only its calendar day matters.
func CheckTrainingDate(d pgtype.Date, today time.Time) error {
	if !d.Valid {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}

	day := civilDay(d.Time)
	if day.Before(civilDay(today)) {
		return &ValidationError{Field: "date", Value: day.Format(DateLayout), Err: ErrDateInPast}
	}

	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return &ValidationError{Field: "date", Value: day.Format(DateLayout), Err: ErrWeekendDate}
	}
	return nil
}

// ValidateTrainingDate parses s and applies CheckTrainingDate. It returns
// the date in canonical form.
func ValidateTrainingDate(s string, today time.Time) (string, error) {
	d, err := ParseTrainingDate(s)
	if err != nil {
		return "", err
	}
	if err := CheckTrainingDate(d, today); err != nil {
		return "", err
	}
	return d.Time.Format(DateLayout), nil
}

// civilDay drops the clock and zone, keeping year/month/day.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
