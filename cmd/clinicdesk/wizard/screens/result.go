package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/clinicdesk/cmd/clinicdesk/wizard/components"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// Completion screen styles
var (
	completionSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	completionLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	completionValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	completionHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)

	completionButtonFocusedStyle = lipgloss.NewStyle().
					Background(lipgloss.Color("33")).
					Foreground(lipgloss.Color("255")).
					Padding(0, 2).
					Bold(true)
)

// CompletionScreen shows the booked appointment
type CompletionScreen struct {
	summary intake.AppointmentSummary
	done    bool
	width   int
	height  int
}

// NewCompletionScreen creates a new completion screen
func NewCompletionScreen(summary intake.AppointmentSummary) *CompletionScreen {
	return &CompletionScreen{summary: summary}
}

// Init implements tea.Model
func (s *CompletionScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *CompletionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *CompletionScreen) View() string {
	var sb strings.Builder
	sum := s.summary

	sb.WriteString(completionSuccessStyle.Render("✓"))
	sb.WriteString(" ")
	sb.WriteString(completionSuccessStyle.Render("Appointment booked!"))
	sb.WriteString("\n\n")

	sb.WriteString(components.TitleStyle.Render("Summary:"))
	sb.WriteString("\n")

	patient := sum.PatientName
	if sum.NewPatient {
		patient += " (new patient)"
	}

	stats := []struct {
		label string
		value string
	}{
		{"Appointment", sum.AppointmentID},
		{"Patient", patient},
		{"Patient ID", sum.PatientID},
		{"Phone", sum.PhoneNumber},
		{"Audiologist", sum.AudiologistName},
		{"When", fmt.Sprintf("%s at %s", sum.Date, sum.Time)},
		{"Duration", fmt.Sprintf("%d min", sum.Duration)},
		{"Procedures", sum.Procedures},
		{"Referral", sum.ReferralSource},
	}

	for _, stat := range stats {
		if stat.value == "" {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(completionLabelStyle.Render(stat.label + ":"))
		sb.WriteString(" ")
		sb.WriteString(completionValueStyle.Render(stat.value))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(completionButtonFocusedStyle.Render("Exit"))
	sb.WriteString("\n\n")
	sb.WriteString(completionHintStyle.Render("Press Enter or q to exit"))

	return sb.String()
}

// Done returns true if the user is finished
func (s *CompletionScreen) Done() bool {
	return s.done
}

// ErrorScreen displays an error the form cannot recover from on its own,
// such as a draft that could not be written.
type ErrorScreen struct {
	title  string
	err    error
	done   bool
	width  int
	height int
}

var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	errorHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// NewErrorScreen creates a new error screen
func NewErrorScreen(title string, err error) *ErrorScreen {
	return &ErrorScreen{
		title: title,
		err:   err,
	}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder

	sb.WriteString(errorTitleStyle.Render("✗"))
	sb.WriteString(" ")
	sb.WriteString(errorTitleStyle.Render(s.title))
	sb.WriteString("\n\n")

	sb.WriteString(components.TitleStyle.Render("Error:"))
	sb.WriteString("\n")
	sb.WriteString("  ")
	sb.WriteString(errorMessageStyle.Render(s.err.Error()))
	sb.WriteString("\n\n")

	sb.WriteString(errorHintStyle.Render("Press Enter to return to the review"))

	return sb.String()
}

// Done returns true once the error was acknowledged
func (s *ErrorScreen) Done() bool {
	return s.done
}

// Error returns the error
func (s *ErrorScreen) Error() error {
	return s.err
}
