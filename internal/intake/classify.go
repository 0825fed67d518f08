package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// Messages shown for the recognised backend failures.
const (
	MsgPhoneRegistered    = "This phone number is already registered to another patient."
	MsgEmailRegistered    = "This email address is already registered to another patient."
	MsgTimeSlotTaken      = "This time slot is already booked. Please choose another time."
	MsgAudiologistAway    = "The selected audiologist is not available at this time. Please choose another audiologist or time."
	MsgInvalidDate        = "The appointment date is invalid. Please choose a valid date."
	MsgBackendUnreachable = "Could not reach the clinic server. Please check the connection and try again."
	MsgUnexpectedError    = "An unexpected error occurred. Please try again."
	MsgRequestTimedOut    = "The clinic server did not answer in time. Please try again."
)

var duplicateWords = []string{"already", "exists", "registered", "duplicate", "taken", "in use"}

// classifyRule maps a backend error document to a message. Rules are tried
// in order and the first match wins.
type classifyRule struct {
	message string
	match   func(e *clinicapi.APIError, text string) bool
}

var classifyRules = []classifyRule{
	{
		message: MsgPhoneRegistered,
		match: func(e *clinicapi.APIError, text string) bool {
			return containsAny(text, duplicateWords...) &&
				(mentionsField(e, "phone", "mobile") || containsAny(text, "phone", "mobile"))
		},
	},
	{
		message: MsgEmailRegistered,
		match: func(e *clinicapi.APIError, text string) bool {
			return containsAny(text, duplicateWords...) &&
				(mentionsField(e, "email") || containsAny(text, "email"))
		},
	},
	{
		message: MsgTimeSlotTaken,
		match: func(_ *clinicapi.APIError, text string) bool {
			return containsAny(text, "slot", "already booked", "overlap", "conflict", "double book")
		},
	},
	{
		message: MsgAudiologistAway,
		match: func(_ *clinicapi.APIError, text string) bool {
			return containsAny(text, "audiologist") &&
				containsAny(text, "unavailable", "not available", "on leave", "inactive")
		},
	},
	{
		message: MsgInvalidDate,
		match: func(e *clinicapi.APIError, text string) bool {
			return containsAny(text, "invalid date", "date is invalid", "past date", "date in the past") ||
				(mentionsField(e, "appointmentdate", "date") && containsAny(text, "invalid"))
		},
	},
}

// ClassifyError turns any error into the message shown to the user.
// Validation errors are shown as is. Backend errors go through the
// classification rules, then fall back to the server's own message, then
// to a generic text.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var apiErr *clinicapi.APIError
	if errors.As(err, &apiErr) {
		text := apiErr.Text()
		for _, rule := range classifyRules {
			if rule.match(apiErr, text) {
				return rule.message
			}
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgUnexpectedError
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return MsgRequestTimedOut
	case errors.Is(err, clinicapi.ErrUnreachable):
		return MsgBackendUnreachable
	}
	return MsgUnexpectedError
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func mentionsField(e *clinicapi.APIError, names ...string) bool {
	field := strings.ToLower(e.Field)
	for _, n := range names {
		if strings.Contains(field, n) {
			return true
		}
		for k := range e.Errors {
			if strings.Contains(strings.ToLower(k), n) {
				return true
			}
		}
	}
	return false
}
