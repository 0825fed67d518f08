// Package intake implements the walk-in appointment intake workflow: an
// eight-stage form that finds or registers a patient and books an
// appointment against the clinic backend.
package intake

// Gender of the patient.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// CustomerType classifies the patient as a direct consumer or a
// hospital-referred business patient.
type CustomerType string

const (
	CustomerB2C CustomerType = "B2C"
	CustomerB2B CustomerType = "B2B"
)

// Valid reports whether c is B2C or B2B.
func (c CustomerType) Valid() bool {
	return c == CustomerB2C || c == CustomerB2B
}

// ReferralSource is the channel through which the patient reached the clinic.
type ReferralSource string

const (
	ReferralDirect  ReferralSource = "Direct"
	ReferralDoctor  ReferralSource = "Doctor Referral"
	ReferralHearCom ReferralSource = "Hear.com"
)

// Valid reports whether r is a known referral source.
func (r ReferralSource) Valid() bool {
	switch r {
	case ReferralDirect, ReferralDoctor, ReferralHearCom:
		return true
	}
	return false
}

// ReferralDetails is a snapshot of the referring doctor, copied from the
// doctor catalog when one is selected.
type ReferralDetails struct {
	SourceName     string `yaml:"source_name"`
	ContactNumber  string `yaml:"contact_number"`
	Hospital       string `yaml:"hospital"`
	Specialization string `yaml:"specialization"`
}

// FormData holds every value collected by the intake form.
type FormData struct {
	// Identity
	PhoneNumber     string `yaml:"phone_number"`
	FullName        string `yaml:"full_name"`
	Email           string `yaml:"email"`
	MobileNumber    string `yaml:"mobile_number"`
	DateOfBirth     string `yaml:"date_of_birth"` // YYYY-MM-DD
	Gender          Gender `yaml:"gender"`
	AlternateNumber string `yaml:"alternate_number"`
	Occupation      string `yaml:"occupation"`

	// Classification
	CustomerType CustomerType `yaml:"customer_type"`
	HospitalName string       `yaml:"hospital_name"`
	OPIPNumber   string       `yaml:"opip_number"`

	// Scheduling
	SelectedAudiologist string `yaml:"selected_audiologist"`
	AppointmentDate     string `yaml:"appointment_date"` // YYYY-MM-DD
	AppointmentTime     string `yaml:"appointment_time"` // 12-hour, e.g. "10:00 AM"
	Duration            string `yaml:"duration"`         // minutes

	// Referral
	ReferralSource     ReferralSource  `yaml:"referral_source"`
	SelectedReferralID string          `yaml:"selected_referral_id"`
	ReferralDetails    ReferralDetails `yaml:"referral_details"`

	// Content
	Notes              string `yaml:"notes"`
	SelectedProcedures string `yaml:"selected_procedures"`
}

// DefaultDuration is the appointment length proposed on a fresh form.
const DefaultDuration = "30"

func newFormData() FormData {
	return FormData{
		CustomerType: CustomerB2C,
		Duration:     DefaultDuration,
	}
}
