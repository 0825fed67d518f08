// Package wizard provides the interactive terminal front-end of the
// intake form.
package wizard

import (
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// Phase represents what the wizard is currently showing.
type Phase int

const (
	PhaseForm      Phase = iota // a stage screen
	PhaseBusy                   // lookup or submission in flight
	PhaseSaveDraft              // draft path prompt
	PhaseComplete
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseForm:
		return "form"
	case PhaseBusy:
		return "busy"
	case PhaseSaveDraft:
		return "save-draft"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// lookupDoneMsg carries the directory's answer back to the event loop.
type lookupDoneMsg struct {
	result clinicapi.LookupResult
	err    error
}

// submitDoneMsg carries the outcome of a submission back to the event loop.
type submitDoneMsg struct {
	sub *intake.Submission
	res intake.SubmitResult
	err error
}
