package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// ProceduresScreen selects the diagnostics planned for the visit.
type ProceduresScreen struct {
	formScreen
	selected []string
}

// NewProceduresScreen creates the procedures screen
func NewProceduresScreen(form intake.FormData, selected []string, diagnostics []clinicapi.Diagnostic, frame Frame) *ProceduresScreen {
	s := &ProceduresScreen{selected: selected}

	options := make([]huh.Option[string], 0, len(diagnostics))
	for _, d := range diagnostics {
		label := d.Name
		if d.Price > 0 {
			label = fmt.Sprintf("%s (₹%.0f)", d.Name, d.Price)
		}
		options = append(options, huh.NewOption(label, d.ID))
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("procedures").
				Title("Procedures").
				Description(fmt.Sprintf("%d minutes per procedure. Space to toggle.", intake.MinutesPerProcedure)).
				Options(options...).
				Value(&s.selected),
		),
	)
	s.subtitle = fmt.Sprintf("Current duration: %s min", form.Duration)

	return s
}

// Update implements tea.Model
func (s *ProceduresScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *ProceduresScreen) Apply(session *intake.Session) error {
	return session.SetProcedures(s.selected)
}
