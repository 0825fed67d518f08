package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// ReferralScreen records how the patient reached the clinic.
type ReferralScreen struct {
	formScreen
	source string
	doctor string
}

// NewReferralScreen creates the referral source screen. B2B patients
// only get the Direct option.
func NewReferralScreen(form intake.FormData, doctors []clinicapi.Doctor, frame Frame) *ReferralScreen {
	s := &ReferralScreen{
		source: string(form.ReferralSource),
		doctor: form.SelectedReferralID,
	}

	sources := []huh.Option[string]{
		huh.NewOption("Select a referral source", ""),
		huh.NewOption("Direct", string(intake.ReferralDirect)),
		huh.NewOption("Doctor Referral", string(intake.ReferralDoctor)),
		huh.NewOption("Hear.com", string(intake.ReferralHearCom)),
	}
	if form.CustomerType == intake.CustomerB2B {
		s.source = string(intake.ReferralDirect)
		sources = []huh.Option[string]{huh.NewOption("Direct", string(intake.ReferralDirect))}
	}

	doctorOptions := make([]huh.Option[string], 0, len(doctors)+1)
	doctorOptions = append(doctorOptions, huh.NewOption("Select a doctor", ""))
	for _, d := range doctors {
		doctorOptions = append(doctorOptions, huh.NewOption(doctorLabel(d), d.ID))
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("referral_source").
				Title("Referral Source").
				Options(sources...).
				Value(&s.source),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("referral_doctor").
				Title("Referring Doctor").
				Options(doctorOptions...).
				Value(&s.doctor),
		).WithHideFunc(func() bool {
			return s.source != string(intake.ReferralDoctor)
		}),
	)
	if form.CustomerType == intake.CustomerB2B {
		s.subtitle = "B2B patients are registered as direct referrals."
	}

	return s
}

func doctorLabel(d clinicapi.Doctor) string {
	switch {
	case d.Hospital != "" && d.Specialization != "":
		return fmt.Sprintf("%s (%s, %s)", d.Name, d.Specialization, d.Hospital)
	case d.Hospital != "":
		return fmt.Sprintf("%s (%s)", d.Name, d.Hospital)
	default:
		return d.Name
	}
}

// Update implements tea.Model
func (s *ReferralScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *ReferralScreen) Apply(session *intake.Session) error {
	if err := session.SetReferralSource(intake.ReferralSource(s.source)); err != nil {
		return err
	}
	if s.source != string(intake.ReferralDoctor) {
		return nil
	}
	return session.SelectReferralDoctor(s.doctor)
}
