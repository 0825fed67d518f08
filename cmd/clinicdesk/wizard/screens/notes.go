package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// NotesScreen edits the free-text appointment notes.
type NotesScreen struct {
	formScreen
	notes string
}

// NewNotesScreen creates the notes screen
func NewNotesScreen(form intake.FormData, frame Frame) *NotesScreen {
	s := &NotesScreen{notes: form.Notes}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewText().
				Key("notes").
				Title("Notes").
				CharLimit(1000).
				Value(&s.notes),
		),
	)
	s.hint = "Enter: Save notes and return to review | Esc: Back"

	return s
}

// Update implements tea.Model
func (s *NotesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *NotesScreen) Apply(session *intake.Session) error {
	session.SetNotes(s.notes)
	return nil
}
