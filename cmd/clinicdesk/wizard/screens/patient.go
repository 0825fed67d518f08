package screens

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// PatientScreen edits the patient identity and classification. For a
// returning patient the fields come prefilled from the directory.
type PatientScreen struct {
	formScreen
	fullName        string
	email           string
	mobileNumber    string
	dateOfBirth     string
	gender          string
	alternateNumber string
	occupation      string
	customerType    string
	hospitalName    string
	opipNumber      string
}

// NewPatientScreen creates the patient details screen
func NewPatientScreen(form intake.FormData, hospitals []clinicapi.Hospital, existing *clinicapi.Patient, frame Frame) *PatientScreen {
	s := &PatientScreen{
		fullName:        form.FullName,
		email:           form.Email,
		mobileNumber:    form.MobileNumber,
		dateOfBirth:     form.DateOfBirth,
		gender:          string(form.Gender),
		alternateNumber: form.AlternateNumber,
		occupation:      form.Occupation,
		customerType:    string(form.CustomerType),
		hospitalName:    form.HospitalName,
		opipNumber:      form.OPIPNumber,
	}
	if s.customerType == "" {
		s.customerType = string(intake.CustomerB2C)
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewInput().
				Key("full_name").
				Title("Full Name").
				Value(&s.fullName),

			huh.NewInput().
				Key("mobile_number").
				Title("Mobile Number").
				Value(&s.mobileNumber),

			huh.NewInput().
				Key("email").
				Title("Email").
				Description("Optional").
				Value(&s.email),

			huh.NewInput().
				Key("date_of_birth").
				Title("Date of Birth").
				Description("Format: YYYY-MM-DD").
				Value(&s.dateOfBirth).
				Validate(validateOptionalDate),

			huh.NewSelect[string]().
				Key("gender").
				Title("Gender").
				Options(
					huh.NewOption("Not specified", ""),
					huh.NewOption("Male", string(intake.GenderMale)),
					huh.NewOption("Female", string(intake.GenderFemale)),
					huh.NewOption("Other", string(intake.GenderOther)),
				).
				Value(&s.gender),

			huh.NewInput().
				Key("alternate_number").
				Title("Alternate Number").
				Description("Optional").
				Value(&s.alternateNumber),

			huh.NewInput().
				Key("occupation").
				Title("Occupation").
				Value(&s.occupation),

			huh.NewSelect[string]().
				Key("customer_type").
				Title("Customer Type").
				Options(
					huh.NewOption("B2C (walk-in)", string(intake.CustomerB2C)),
					huh.NewOption("B2B (partner hospital)", string(intake.CustomerB2B)),
				).
				Value(&s.customerType),
		),
		huh.NewGroup(
			hospitalField(hospitals, &s.hospitalName),

			huh.NewInput().
				Key("opip_number").
				Title("OP/IP Number").
				Description("OP, IP or UHID reference at the hospital").
				Value(&s.opipNumber),
		).WithHideFunc(func() bool {
			return s.customerType != string(intake.CustomerB2B)
		}),
	)

	if existing != nil {
		s.subtitle = fmt.Sprintf("Returning patient: %s (%s)", existing.FullName, existing.ID)
	} else {
		s.subtitle = "New patient"
	}

	return s
}

func hospitalField(hospitals []clinicapi.Hospital, value *string) huh.Field {
	if len(hospitals) == 0 {
		return huh.NewInput().
			Key("hospital_name").
			Title("Hospital").
			Value(value)
	}

	return huh.NewSelect[string]().
		Key("hospital_name").
		Title("Hospital").
		Options(hospitalOptions(hospitals, *value)...).
		Value(value)
}

// hospitalOptions lists the catalog hospitals. A current value missing
// from the catalog, e.g. from a returning patient, is offered as well.
func hospitalOptions(hospitals []clinicapi.Hospital, current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(hospitals)+2)
	options = append(options, huh.NewOption("Not specified", ""))
	known := current == ""
	for _, h := range hospitals {
		options = append(options, huh.NewOption(h.Name, h.Name))
		if h.Name == current {
			known = true
		}
	}
	if !known {
		options = append(options, huh.NewOption(current, current))
	}
	return options
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return intake.ErrDateOfBirthInvalid
	}
	return nil
}

// Update implements tea.Model
func (s *PatientScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen. The customer type goes first since
// switching back to B2C clears the hospital fields.
func (s *PatientScreen) Apply(session *intake.Session) error {
	session.SetFullName(s.fullName)
	session.SetMobileNumber(s.mobileNumber)
	session.SetEmail(s.email)
	session.SetDateOfBirth(s.dateOfBirth)
	session.SetAlternateNumber(s.alternateNumber)
	session.SetOccupation(s.occupation)
	if err := session.SetGender(intake.Gender(s.gender)); err != nil {
		return err
	}
	if err := session.SetCustomerType(intake.CustomerType(s.customerType)); err != nil {
		return err
	}
	if s.customerType == string(intake.CustomerB2B) {
		session.SetHospitalName(s.hospitalName)
		session.SetOPIPNumber(s.opipNumber)
	}
	return nil
}
