package core

// error_messages.go maps errors to messages a requester can act on.
//
// Every error kind has one distinguishable message and a code that can be
// quoted to support staff:
//
//	DATA001 - Training data unavailable (ErrDataUnavailable)
//	DATA002 - Refresh already running (ErrRefreshInProgress)
//	DATA003 - Feed too large (ErrFeedTooLarge)
//	REQ000  - Body not decodable (ErrMalformedRequest)
//	REQ001  - School not found (ErrSchoolNotFound)
//	REQ002  - Date missing (ErrMissingDate)
//	REQ003  - Topic missing (ErrMissingTopic)
//	REQ004  - Date not a calendar date (ErrInvalidDate)
//	REQ005  - Date in the past (ErrDateInPast)
//	REQ006  - Date on a weekend (ErrWeekendDate)
//	NET001  - Upstream timed out ("context deadline exceeded", "timeout")
//	NET002  - Upstream refused connection ("connection refused")
//	RATE001 - Rate limited ("rate limit")
//	ERR000  - Anything else; check the logs for the technical error
//
// Sentinels are matched with errors.Is, so wrapping is fine. Errors that
// come from outside the module (transport, database) are matched by
// case-insensitive substring, first match wins.

import (
	"errors"
	"strings"
)

// UserMessage is the user-facing rendition of an error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// Ordered: a load failure wrapping a feed error reports DATA001 first.
var sentinelMessages = []sentinelMessage{
	{ErrDataUnavailable, UserMessage{
		Message: "Training data is unavailable right now",
		Action:  "Please try again in a few minutes",
		Code:    "DATA001",
	}},
	{ErrRefreshInProgress, UserMessage{
		Message: "A data refresh is already running",
		Action:  "Wait for it to finish and check the status page",
		Code:    "DATA002",
	}},
	{ErrFeedTooLarge, UserMessage{
		Message: "A data feed exceeds the size limit",
		Action:  "Ask the data provider to check the published sheet",
		Code:    "DATA003",
	}},
	{ErrMalformedRequest, UserMessage{
		Message: "The request could not be read",
		Action:  "Send the school code, date and topic as JSON or form fields",
		Code:    "REQ000",
	}},
	{ErrSchoolNotFound, UserMessage{
		Message: "No school matches that code",
		Action:  "Check the school code and try again",
		Code:    "REQ001",
	}},
	{ErrMissingDate, UserMessage{
		Message: "Please select a training date",
		Action:  "Choose a weekday that is not in the past",
		Code:    "REQ002",
	}},
	{ErrMissingTopic, UserMessage{
		Message: "Please select a training topic",
		Action:  "Pick one of the listed topics",
		Code:    "REQ003",
	}},
	{ErrInvalidDate, UserMessage{
		Message: "The training date is not a valid date",
		Action:  "Use the format YYYY-MM-DD",
		Code:    "REQ004",
	}},
	{ErrDateInPast, UserMessage{
		Message: "The training date is in the past",
		Action:  "Choose today or a later date",
		Code:    "REQ005",
	}},
	{ErrWeekendDate, UserMessage{
		Message: "Trainings cannot be scheduled on weekends",
		Action:  "Choose a date from Monday to Friday",
		Code:    "REQ006",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"context deadline exceeded", UserMessage{
		Message: "The data source did not respond in time",
		Action:  "Please try again later",
		Code:    "NET001",
	}},
	{"timeout", UserMessage{
		Message: "The data source did not respond in time",
		Action:  "Please try again later",
		Code:    "NET001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the data source",
		Action:  "Please try again in a few moments",
		Code:    "NET002",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a UserMessage. A nil error maps to the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
