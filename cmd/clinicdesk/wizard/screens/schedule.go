package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// ScheduleScreen sets the appointment date, time and length.
type ScheduleScreen struct {
	formScreen
	date     string
	time     string
	duration string
}

// NewScheduleScreen creates the date and time screen. An empty date is
// proposed as defaultDate.
func NewScheduleScreen(form intake.FormData, defaultDate string, frame Frame) *ScheduleScreen {
	s := &ScheduleScreen{
		date:     form.AppointmentDate,
		time:     form.AppointmentTime,
		duration: form.Duration,
	}
	if s.date == "" {
		s.date = defaultDate
	}

	s.formScreen = newFormScreen(frame,
		huh.NewGroup(
			huh.NewInput().
				Key("appointment_date").
				Title("Date").
				Description("Format: YYYY-MM-DD").
				Value(&s.date),

			huh.NewInput().
				Key("appointment_time").
				Title("Time").
				Description("Format: hh:mm AM/PM").
				Placeholder("10:00 AM").
				Value(&s.time),

			huh.NewInput().
				Key("duration").
				Title("Duration (minutes)").
				Value(&s.duration),
		),
	)

	return s
}

// Update implements tea.Model
func (s *ScheduleScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// Apply implements StageScreen
func (s *ScheduleScreen) Apply(session *intake.Session) error {
	session.SetAppointmentDate(s.date)
	session.SetAppointmentTime(s.time)
	session.SetDuration(s.duration)
	return nil
}
