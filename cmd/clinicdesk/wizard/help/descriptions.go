// Package help holds the contextual help shown next to intake form fields.
package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all wizard fields, keyed by the
// huh field key.
var Texts = map[string]HelpText{
	"phone_number": {
		Title:       "PHONE NUMBER",
		Description: "The number the patient gives at the desk.",
		Details: `Only digits are kept and at most 10 of them.
Returning patients are found by this number and their details are filled in.`,
	},
	"full_name": {
		Title:       "FULL NAME",
		Description: "Patient name as it should appear on the appointment.",
	},
	"email": {
		Title:       "EMAIL",
		Description: "Optional contact address.",
		Details:     "Leave empty when the patient has none. An address already used by another patient is rejected.",
	},
	"mobile_number": {
		Title:       "MOBILE NUMBER",
		Description: "Primary contact number of the patient record.",
		Details:     "Defaults to the lookup phone number. The lookup number is used when this is left empty.",
	},
	"date_of_birth": {
		Title:       "DATE OF BIRTH",
		Description: "Format: YYYY-MM-DD",
	},
	"gender": {
		Title:       "GENDER",
		Description: "Male, Female or Other.",
	},
	"alternate_number": {
		Title:       "ALTERNATE NUMBER",
		Description: "Optional second contact number.",
	},
	"occupation": {
		Title:       "OCCUPATION",
		Description: "Patient occupation, required for new registrations.",
		Details:     "Noise exposure at work is relevant for the hearing assessment.",
	},
	"customer_type": {
		Title:       "CUSTOMER TYPE",
		Description: "B2C for walk-ins, B2B for patients sent by a partner hospital.",
		Details:     "B2B patients are always booked as direct referrals and carry the hospital name and OP/IP number.",
	},
	"hospital_name": {
		Title:       "HOSPITAL",
		Description: "Partner hospital that sent the patient.",
	},
	"opip_number": {
		Title:       "OP/IP NUMBER",
		Description: "Hospital reference for the patient (OP, IP or UHID).",
	},
	"audiologist": {
		Title:       "AUDIOLOGIST",
		Description: "Who will see the patient.",
		Details:     "The backend rejects the booking when the audiologist is away on that date.",
	},
	"referral_source": {
		Title:       "REFERRAL SOURCE",
		Description: "How the patient reached the clinic.",
		Details: `Direct: walk-in without referral
Doctor Referral: sent by a doctor from the list
Hear.com: booked through the Hear.com partner`,
	},
	"referral_doctor": {
		Title:       "REFERRING DOCTOR",
		Description: "Doctor who referred the patient.",
		Details:     "Contact number, hospital and specialization are copied from the doctor list.",
	},
	"appointment_date": {
		Title:       "APPOINTMENT DATE",
		Description: "Format: YYYY-MM-DD",
		Details:     "Dates in the past are rejected by the backend.",
	},
	"appointment_time": {
		Title:       "APPOINTMENT TIME",
		Description: "Format: hh:mm AM/PM, e.g. 10:30 AM",
		Details:     "24-hour times such as 14:30 are accepted too.",
	},
	"duration": {
		Title:       "DURATION",
		Description: "Appointment length in minutes.",
		Details:     "Selecting procedures sets it to 30 minutes per procedure. It can still be edited afterwards.",
	},
	"procedures": {
		Title:       "PROCEDURES",
		Description: "Diagnostics planned for the visit.",
		Details:     "Leave empty to book a General Consultation.",
	},
	"review_action": {
		Title:       "REVIEW",
		Description: "Check the details before booking.",
		Details:     "Submitting registers new patients first, then books the appointment.",
	},
	"notes": {
		Title:       "NOTES",
		Description: "Free text attached to the appointment.",
	},
	"draft_path": {
		Title:       "DRAFT FILE",
		Description: "YAML file the form is saved to.",
		Details:     "Resume later with: clinicdesk intake --from <file>",
	},
}
