package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// AudiologistScreen picks who sees the patient.
type AudiologistScreen struct {
	formScreen
	audiologist string
}

// NewAudiologistScreen creates the audiologist selection screen
func NewAudiologistScreen(form intake.FormData, audiologists []clinicapi.Audiologist, frame Frame) *AudiologistScreen {
	s := &AudiologistScreen{audiologist: form.SelectedAudiologist}

	options := make([]huh.Option[string], 0, len(audiologists)+1)
	options = append(options, huh.NewOption("Select an audiologist", ""))
	for _, a := range audiologists {
		options = append(options, huh.NewOption(a.Name, a.ID))
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("audiologist").
				Title("Audiologist").
				Options(options...).
				Value(&s.audiologist),
		),
	)

	return s
}

// Update implements tea.Model
func (s *AudiologistScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *AudiologistScreen) Apply(session *intake.Session) error {
	return session.SelectAudiologist(s.audiologist)
}
