package intake

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", ErrAudiologistRequired, "Please select an audiologist"},
		{
			name: "phone by field",
			err:  &clinicapi.APIError{Status: http.StatusConflict, Message: "Duplicate entry", Field: "mobileNumber"},
			want: MsgPhoneRegistered,
		},
		{
			name: "phone by text",
			err:  &clinicapi.APIError{Status: http.StatusConflict, Message: "Patient with this phone number already exists"},
			want: MsgPhoneRegistered,
		},
		{
			name: "email",
			err: &clinicapi.APIError{
				Status: http.StatusConflict,
				Errors: map[string]string{"email": "is already registered"},
			},
			want: MsgEmailRegistered,
		},
		{
			name: "time slot",
			err:  &clinicapi.APIError{Status: http.StatusConflict, Message: "Appointment overlaps an existing booking"},
			want: MsgTimeSlotTaken,
		},
		{
			name: "audiologist on leave",
			err:  &clinicapi.APIError{Status: http.StatusUnprocessableEntity, Message: "Audiologist is on leave that day"},
			want: MsgAudiologistAway,
		},
		{
			name: "invalid date",
			err:  &clinicapi.APIError{Status: http.StatusBadRequest, Message: "Invalid date"},
			want: MsgInvalidDate,
		},
		{
			name: "invalid date by field",
			err: &clinicapi.APIError{
				Status: http.StatusBadRequest,
				Errors: map[string]string{"appointmentDate": "must be a valid calendar day, invalid value"},
			},
			want: MsgInvalidDate,
		},
		{
			name: "server message fallback",
			err:  &clinicapi.APIError{Status: http.StatusForbidden, Message: "Clinic is closed on Sundays"},
			want: "Clinic is closed on Sundays",
		},
		{
			name: "unstructured",
			err:  &clinicapi.APIError{Status: http.StatusInternalServerError, Body: "<html>oops</html>"},
			want: MsgUnexpectedError,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("create appointment: %w", &clinicapi.APIError{Status: http.StatusConflict, Message: "slot taken"}),
			want: MsgTimeSlotTaken,
		},
		{"unreachable", fmt.Errorf("%w: dial tcp", clinicapi.ErrUnreachable), MsgBackendUnreachable},
		{"deadline", fmt.Errorf("lookup: %w", context.DeadlineExceeded), MsgRequestTimedOut},
		{"anything else", errors.New("boom"), MsgUnexpectedError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestClassifyError_FirstRuleWins(t *testing.T) {
	// Mentions both a duplicate phone and a slot conflict.
	err := &clinicapi.APIError{
		Status:  http.StatusConflict,
		Message: "conflict: phone number already registered",
	}
	assert.Equal(t, MsgPhoneRegistered, ClassifyError(err))
}
