package core

import "errors"

// Data errors.
var (
	// ErrDataUnavailable means the entity collections could not be loaded.
	// Load failures wrap it; callers should retry later.
	ErrDataUnavailable = errors.New("training data unavailable")

	// ErrRefreshInProgress is returned by a manual refresh while another
	// refresh is running.
	ErrRefreshInProgress = errors.New("data refresh already in progress")
)

// ErrMalformedRequest means the request body could not be decoded.
var ErrMalformedRequest = errors.New("request body malformed")

// Request errors. Submit and the date checks wrap these in *ValidationError.
var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrMissingDate    = errors.New("training date missing")
	ErrMissingTopic   = errors.New("training topic missing")

	ErrInvalidDate = errors.New("training date invalid")
	ErrDateInPast  = errors.New("training date in the past")
	ErrWeekendDate = errors.New("training date on a weekend")
)

// ErrRateLimited is returned to clients that exceed the request rate.
var ErrRateLimited = errors.New("rate limit exceeded")
