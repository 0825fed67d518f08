package intake

import "errors"

// ValidationError is a client-side validation failure. Its text is meant
// for the user as is.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

var (
	ErrPhoneRequired          = newValidationError("Please enter a valid 10-digit phone number")
	ErrLookupInFlight         = newValidationError("Please wait, searching for the patient")
	ErrAudiologistRequired    = newValidationError("Please select an audiologist")
	ErrReferralSourceRequired = newValidationError("Please select a referral source")
	ErrReferralDoctorRequired = newValidationError("Please select the referring doctor")
	ErrReferralRequired       = newValidationError("Referral source information is required")
	ErrReferralLockedB2B      = newValidationError("B2B patients are always registered as direct referrals")
	ErrDateRequired           = newValidationError("Please select an appointment date")
	ErrDateInvalid            = newValidationError("Please enter the appointment date as YYYY-MM-DD")
	ErrTimeRequired           = newValidationError("Please select an appointment time")
	ErrTimeInvalid            = newValidationError("Please enter the appointment time as hh:mm AM/PM")
	ErrDurationInvalid        = newValidationError("Please enter the duration as a positive number of minutes")
	ErrFullNameRequired       = newValidationError("Please enter the patient's full name")
	ErrDateOfBirthRequired    = newValidationError("Please enter the patient's date of birth")
	ErrDateOfBirthInvalid     = newValidationError("Please enter the date of birth as YYYY-MM-DD")
	ErrGenderRequired         = newValidationError("Please select the patient's gender")
	ErrOccupationRequired     = newValidationError("Please enter the patient's occupation")
	ErrCustomerTypeRequired   = newValidationError("Please select the customer type")
	ErrUnknownGender          = newValidationError("Please select Male, Female or Other")
	ErrUnknownCustomerType    = newValidationError("Customer type must be B2C or B2B")
	ErrUnknownReferralSource  = newValidationError("Please select Direct, Doctor Referral or Hear.com")
	ErrUnknownAudiologist     = newValidationError("The selected audiologist is not in the list")
	ErrUnknownDoctor          = newValidationError("The selected doctor is not in the list")
	ErrUnknownProcedure       = newValidationError("The selected procedure is not in the list")
)

// Errors tied to the workflow rather than to a field.
var (
	ErrClosed           = errors.New("intake: session is closed")
	ErrSubmitNotAllowed = errors.New("intake: submit is only available on the review stage")
	ErrSubmitInFlight   = errors.New("intake: a submission is already in flight")
	ErrLastStage        = errors.New("intake: already on the last stage")
	ErrNoLookupInFlight = errors.New("intake: no lookup in flight")
	ErrNoSubmitInFlight = errors.New("intake: no submission in flight")
	ErrPatientIDMissing = errors.New("intake: patient creation returned no id")
)
