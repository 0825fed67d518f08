// Package screens contains one bubbletea model per intake stage plus the
// completion and error screens.
package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/clinicdesk/cmd/clinicdesk/wizard/components"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// Screen is a wizard screen that finishes on its own.
type Screen interface {
	tea.Model
	Done() bool
}

// StageScreen edits the fields of one intake stage.
type StageScreen interface {
	Screen
	// Apply pushes the edited values into the session through its setters.
	Apply(s *intake.Session) error
}

// Frame is what every stage screen shows around its form.
type Frame struct {
	Stage  intake.Stage
	Error  string // classified message from the session
	Notice string // informational line, e.g. lookup outcome
}

const stageHint = "Enter: Continue | Esc: Back | Ctrl+C: Cancel"

// formScreen is the part shared by every stage screen: a huh form, its
// help panel and the frame.
type formScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	frame     Frame
	subtitle  string
	hint      string
	done      bool
	width     int
	height    int
}

func newFormScreen(frame Frame, groups ...*huh.Group) formScreen {
	return formScreen{
		form:      huh.NewForm(groups...).WithShowHelp(false).WithShowErrors(true),
		helpPanel: components.NewHelpPanel(),
		frame:     frame,
		hint:      stageHint,
	}
}

// Init implements tea.Model
func (s *formScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *formScreen) update(msg tea.Msg) tea.Cmd {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = wsm.Width
		s.height = wsm.Height
		s.helpPanel.SetSize(wsm.Width/3, wsm.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return cmd
}

// View implements tea.Model
func (s *formScreen) View() string {
	parts := []string{
		components.StepBar(int(s.frame.Stage), int(intake.LastStage)),
		components.TitleStyle.Render(strings.ToUpper(s.frame.Stage.String())),
	}
	if s.subtitle != "" {
		parts = append(parts, components.SubtitleStyle.Render(s.subtitle))
	}
	if s.frame.Notice != "" {
		parts = append(parts, components.NoticeStyle.Render(s.frame.Notice), "")
	}
	parts = append(parts, s.form.View())
	if s.frame.Error != "" {
		parts = append(parts, "", components.ErrorStyle.Render("✗ "+s.frame.Error))
	}
	parts = append(parts, "", s.helpPanel.View(), "", components.HintStyle.Render(s.hint))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done returns true once the form was completed
func (s *formScreen) Done() bool { return s.done }

// Stage returns the stage the screen edits.
func (s *formScreen) Stage() intake.Stage { return s.frame.Stage }
