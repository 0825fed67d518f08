package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// PhoneScreen asks for the number used to find a returning patient.
type PhoneScreen struct {
	formScreen
	phone string
}

// NewPhoneScreen creates the phone lookup screen
func NewPhoneScreen(form intake.FormData, frame Frame) *PhoneScreen {
	s := &PhoneScreen{phone: form.PhoneNumber}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewInput().
				Key("phone_number").
				Title("Phone Number").
				Description("10 digits, spaces and dashes are ignored").
				Placeholder("9876543210").
				Value(&s.phone).
				Validate(validatePhone),
		),
	)
	s.subtitle = "Returning patients are filled in automatically."

	return s
}

func validatePhone(v string) error {
	if len(intake.SanitizePhone(v)) != intake.PhoneDigits {
		return intake.ErrPhoneRequired
	}
	return nil
}

// Update implements tea.Model
func (s *PhoneScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *PhoneScreen) Apply(session *intake.Session) error {
	session.SetPhoneNumber(s.phone)
	return nil
}
