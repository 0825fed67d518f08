package clinicapi

// Patient is a patient record as returned by the clinic backend.
type Patient struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email,omitempty"`
	MobileNumber    string `json:"mobileNumber"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Gender          string `json:"gender,omitempty"`
	AlternateNumber string `json:"alternateNumber,omitempty"`
	Occupation      string `json:"occupation,omitempty"`
	CustomerType    string `json:"customerType,omitempty"`
	HospitalName    string `json:"hospitalName,omitempty"`
	OPIPNumber      string `json:"opipNumber,omitempty"`
}

// LookupResult is the answer of the patient directory for a phone number.
type LookupResult struct {
	Found   bool     `json:"found"`
	Patient *Patient `json:"patient,omitempty"`
}

// Audiologist is a clinician that can be assigned to an appointment.
type Audiologist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Diagnostic is a billable test or service selectable during intake.
type Diagnostic struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

// Doctor is an external referring doctor.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Hospital       string `json:"hospital,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Hospital is a partner facility for B2B patients.
type Hospital struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// PatientPayload is the body of a patient creation request.
type PatientPayload struct {
	FullName        string `json:"fullName"`
	MobileNumber    string `json:"mobileNumber"`
	DateOfBirth     string `json:"dateOfBirth"`
	Gender          string `json:"gender"`
	Occupation      string `json:"occupation"`
	CustomerType    string `json:"customerType"`
	Email           string `json:"email,omitempty"`
	AlternateNumber string `json:"alternateNumber,omitempty"`
	HospitalName    string `json:"hospitalName,omitempty"`
	OPIPNumber      string `json:"opipNumber,omitempty"`
}

// Referral types understood by the backend.
const (
	ReferralTypeDirect = "direct"
	ReferralTypeDoctor = "doctor"
)

// ReferralPayload describes how the patient reached the clinic.
type ReferralPayload struct {
	Type           string `json:"type"`
	SourceName     string `json:"sourceName"`
	ContactNumber  string `json:"contactNumber,omitempty"`
	Hospital       string `json:"hospital,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// AppointmentPayload is the body of an appointment creation request.
type AppointmentPayload struct {
	PatientID           string          `json:"patientId"`
	AudiologistID       string          `json:"audiologistId"`
	AppointmentDate     string          `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime     string          `json:"appointmentTime"` // HH:MM, 24-hour
	AppointmentDuration int             `json:"appointmentDuration"`
	Procedures          string          `json:"procedures"`
	HospitalName        string          `json:"hospitalName,omitempty"`
	ReferralSource      ReferralPayload `json:"referralSource"`
	Notes               string          `json:"notes,omitempty"`
}

// Appointment is a booked appointment as returned by the backend.
type Appointment struct {
	ID                  string          `json:"id"`
	PatientID           string          `json:"patientId"`
	AudiologistID       string          `json:"audiologistId"`
	AppointmentDate     string          `json:"appointmentDate"`
	AppointmentTime     string          `json:"appointmentTime"`
	AppointmentDuration int             `json:"appointmentDuration"`
	Procedures          string          `json:"procedures"`
	HospitalName        string          `json:"hospitalName,omitempty"`
	ReferralSource      ReferralPayload `json:"referralSource"`
	Notes               string          `json:"notes,omitempty"`
	Status              string          `json:"status,omitempty"`
}
