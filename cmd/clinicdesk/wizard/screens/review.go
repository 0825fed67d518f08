package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// ReviewAction represents the action selected on the review screen
type ReviewAction int

const (
	// ReviewActionSubmit books the appointment
	ReviewActionSubmit ReviewAction = iota
	// ReviewActionNotes opens the notes stage
	ReviewActionNotes
	// ReviewActionSaveDraft saves the form to a YAML draft
	ReviewActionSaveDraft
	// ReviewActionBack returns to the procedures stage
	ReviewActionBack
	// ReviewActionCancel closes the form without booking
	ReviewActionCancel
)

const (
	actionSubmit    = "submit"
	actionNotes     = "notes"
	actionSaveDraft = "save_draft"
	actionBack      = "back"
	actionCancel    = "cancel"
)

var (
	reviewPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	reviewTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true).
				MarginBottom(1)

	reviewLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	reviewValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
)

// ReviewScreen shows everything that will be sent before booking.
type ReviewScreen struct {
	formScreen
	data     intake.FormData
	catalogs intake.Catalogs
	existing *clinicapi.Patient
	action   string
}

// NewReviewScreen creates the review screen
func NewReviewScreen(form intake.FormData, catalogs intake.Catalogs, existing *clinicapi.Patient, frame Frame) *ReviewScreen {
	s := &ReviewScreen{
		data:     form,
		catalogs: catalogs,
		existing: existing,
		action:   actionSubmit,
	}

	notesLabel := "Add notes"
	if form.Notes != "" {
		notesLabel = "Edit notes"
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("review_action").
				Title("Select an action").
				Options(
					huh.NewOption("Book appointment", actionSubmit),
					huh.NewOption(notesLabel, actionNotes),
					huh.NewOption("Save draft to YAML", actionSaveDraft),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	)
	s.hint = "Enter: Select action | Esc: Back | Ctrl+C: Cancel"

	return s
}

// Update implements tea.Model
func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen; the review screen edits nothing.
func (s *ReviewScreen) Apply(*intake.Session) error { return nil }

// View implements tea.Model
func (s *ReviewScreen) View() string {
	panelWidth := 45
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		reviewPanelStyle.Width(panelWidth).Render(s.buildPatientPanel()),
		"  ",
		reviewPanelStyle.Width(panelWidth).Render(s.buildAppointmentPanel()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, panels, "", s.formScreen.View())
}

func (s *ReviewScreen) buildPatientPanel() string {
	f := s.data

	title := "New Patient"
	if s.existing != nil {
		title = "Returning Patient"
	}

	rows := []row{
		{"Name", f.FullName},
		{"Phone", f.PhoneNumber},
		{"Mobile", f.MobileNumber},
		{"Email", f.Email},
		{"Date of Birth", f.DateOfBirth},
		{"Gender", string(f.Gender)},
		{"Occupation", f.Occupation},
		{"Customer Type", string(f.CustomerType)},
	}
	if s.existing != nil {
		rows = append([]row{{"Patient ID", s.existing.ID}}, rows...)
	}
	if f.CustomerType == intake.CustomerB2B {
		rows = append(rows, row{"Hospital", f.HospitalName}, row{"OP/IP Number", f.OPIPNumber})
	}

	return renderRows(title, rows)
}

func (s *ReviewScreen) buildAppointmentPanel() string {
	f := s.data

	audiologist := f.SelectedAudiologist
	if a, ok := s.catalogs.Audiologist(f.SelectedAudiologist); ok {
		audiologist = a.Name
	}

	referral := string(f.ReferralSource)
	if f.ReferralSource == intake.ReferralDoctor && f.ReferralDetails.SourceName != "" {
		referral = fmt.Sprintf("%s (%s)", referral, f.ReferralDetails.SourceName)
	}

	procedures := f.SelectedProcedures
	if procedures == "" {
		procedures = intake.DefaultProcedure
	}

	rows := []row{
		{"Audiologist", audiologist},
		{"Date", f.AppointmentDate},
		{"Time", f.AppointmentTime},
		{"Duration", f.Duration + " min"},
		{"Procedures", procedures},
		{"Referral", referral},
	}
	if f.Notes != "" {
		rows = append(rows, row{"Notes", truncate(f.Notes, 60)})
	}

	return renderRows("Appointment", rows)
}

type row struct {
	label string
	value string
}

func renderRows(title string, rows []row) string {
	var sb strings.Builder
	sb.WriteString(reviewTitleStyle.Render(title))
	sb.WriteString("\n\n")
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = "-"
		}
		sb.WriteString(reviewLabelStyle.Render(r.label + ": "))
		sb.WriteString(reviewValueStyle.Render(value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// Action returns the selected action
func (s *ReviewScreen) Action() ReviewAction {
	switch s.action {
	case actionNotes:
		return ReviewActionNotes
	case actionSaveDraft:
		return ReviewActionSaveDraft
	case actionBack:
		return ReviewActionBack
	case actionCancel:
		return ReviewActionCancel
	default:
		return ReviewActionSubmit
	}
}
