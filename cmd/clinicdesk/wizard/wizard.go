package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/mrsinham/clinicdesk/cmd/clinicdesk/wizard/components"
	"github.com/mrsinham/clinicdesk/cmd/clinicdesk/wizard/screens"
	"github.com/mrsinham/clinicdesk/internal/intake"
)

// DefaultDraftPath is proposed when saving a draft.
const DefaultDraftPath = "intake-draft.yaml"

// Options configures the wizard.
type Options struct {
	// FromDraft is a draft file restored into the session before the
	// first screen.
	FromDraft string
	// DraftPath is proposed when the user saves a draft.
	DraftPath string
	Logger    *zerolog.Logger
	// OnAppointmentCreated runs inside the event loop once booking succeeds.
	OnAppointmentCreated func(intake.AppointmentSummary)
	Now                  func() time.Time
}

// Wizard drives an intake session from the terminal. All session
// mutations happen in Update; network calls run as tea commands and
// report back through lookupDoneMsg and submitDoneMsg.
type Wizard struct {
	ctx     context.Context
	session *intake.Session
	svc     intake.Services
	opts    Options
	log     zerolog.Logger

	phase   Phase
	screen  screens.StageScreen
	notice  string
	spinner spinner.Model
	busy    string

	// Save draft form
	saveDraftForm *huh.Form
	draftPath     string

	completionScreen *screens.CompletionScreen
	errorScreen      *screens.ErrorScreen

	booked *intake.AppointmentSummary

	// Window size
	width  int
	height int

	cancelled bool
}

// NewWizard creates a wizard over an open session. The session's
// OnAppointmentCreated hook must call AppointmentCreated.
func NewWizard(ctx context.Context, session *intake.Session, svc intake.Services, opts Options) *Wizard {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.DraftPath == "" {
		opts.DraftPath = DefaultDraftPath
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	w := &Wizard{
		ctx:     ctx,
		session: session,
		svc:     svc,
		opts:    opts,
		log:     logger.With().Str("component", "wizard").Logger(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(components.NoticeStyle),
		),
	}
	w.screen = w.newStageScreen()

	return w
}

// AppointmentCreated records the booking; it is the session's
// OnAppointmentCreated hook.
func (w *Wizard) AppointmentCreated(summary intake.AppointmentSummary) {
	w.booked = &summary
	if w.opts.OnAppointmentCreated != nil {
		w.opts.OnAppointmentCreated(summary)
	}
}

// Booked returns the booked appointment, or nil.
func (w *Wizard) Booked() *intake.AppointmentSummary { return w.booked }

// Cancelled reports whether the user left without booking.
func (w *Wizard) Cancelled() bool { return w.cancelled }

// Phase returns what the wizard is showing.
func (w *Wizard) Phase() Phase { return w.phase }

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.screen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	case lookupDoneMsg:
		return w.finishLookup(msg)
	case submitDoneMsg:
		return w.finishSubmit(msg)
	}

	switch w.phase {
	case PhaseForm:
		return w.updateForm(msg)
	case PhaseBusy:
		return w.updateBusy(msg)
	case PhaseSaveDraft:
		return w.updateSaveDraft(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	case PhaseError:
		return w.updateError(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseForm:
		return w.screen.View()
	case PhaseBusy:
		return w.viewBusy()
	case PhaseSaveDraft:
		return w.viewSaveDraft()
	case PhaseComplete:
		return w.completionScreen.View()
	case PhaseError:
		return w.errorScreen.View()
	}

	return ""
}

// newStageScreen builds the screen of the session's current stage from
// the session's values.
func (w *Wizard) newStageScreen() screens.StageScreen {
	form := w.session.Form()
	catalogs := w.session.Catalogs()
	frame := screens.Frame{
		Stage:  w.session.Stage(),
		Error:  w.session.ErrorMessage(),
		Notice: w.notice,
	}

	switch frame.Stage {
	case intake.StagePatient:
		return screens.NewPatientScreen(form, catalogs.Hospitals, w.session.ExistingUser(), frame)
	case intake.StageAudiologist:
		return screens.NewAudiologistScreen(form, catalogs.Audiologists, frame)
	case intake.StageReferral:
		return screens.NewReferralScreen(form, catalogs.Doctors, frame)
	case intake.StageSchedule:
		return screens.NewScheduleScreen(form, w.opts.Now().Format("2006-01-02"), frame)
	case intake.StageProcedures:
		return screens.NewProceduresScreen(form, w.session.ProcedureIDs(), catalogs.Diagnostics, frame)
	case intake.StageReview:
		return screens.NewReviewScreen(form, catalogs, w.session.ExistingUser(), frame)
	case intake.StageNotes:
		return screens.NewNotesScreen(form, frame)
	default:
		return screens.NewPhoneScreen(form, frame)
	}
}

// showStage rebuilds the current stage screen.
func (w *Wizard) showStage() tea.Cmd {
	w.phase = PhaseForm
	w.screen = w.newStageScreen()

	cmd := w.screen.Init()
	if w.width > 0 {
		w.screen.Update(tea.WindowSizeMsg{Width: w.width, Height: w.height})
	}
	return cmd
}

// updateForm handles updates while a stage screen is shown.
func (w *Wizard) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return w.cancel()
		case "esc":
			return w.back()
		}
	}

	model, cmd := w.screen.Update(msg)
	if s, ok := model.(screens.StageScreen); ok {
		w.screen = s
	}

	if w.screen.Done() {
		return w.commit()
	}

	return w, cmd
}

// commit applies the finished screen to the session and performs the
// stage's forward action.
func (w *Wizard) commit() (tea.Model, tea.Cmd) {
	w.notice = ""
	if err := w.screen.Apply(w.session); err != nil {
		return w, w.showStage()
	}

	switch w.session.Stage() {
	case intake.StagePhone:
		return w.startLookup()
	case intake.StageReview:
		return w.reviewAction()
	case intake.StageNotes:
		w.session.Back()
		return w, w.showStage()
	}

	if err := w.session.Next(w.ctx); err != nil {
		w.log.Debug().Err(err).Stringer("stage", w.session.Stage()).Msg("stage not complete")
	}
	return w, w.showStage()
}

// back keeps what was typed on the current screen and moves one stage back.
func (w *Wizard) back() (tea.Model, tea.Cmd) {
	if w.session.Stage() == intake.FirstStage {
		return w, nil
	}
	_ = w.screen.Apply(w.session)
	w.notice = ""
	w.session.Back()
	return w, w.showStage()
}

func (w *Wizard) cancel() (tea.Model, tea.Cmd) {
	w.session.Close()
	w.cancelled = true
	w.log.Info().Msg("intake cancelled")
	return w, tea.Quit
}

func (w *Wizard) reviewAction() (tea.Model, tea.Cmd) {
	review, ok := w.screen.(*screens.ReviewScreen)
	if !ok {
		return w, w.showStage()
	}

	switch review.Action() {
	case screens.ReviewActionSubmit:
		return w.startSubmit()
	case screens.ReviewActionNotes:
		_ = w.session.Next(w.ctx)
		return w, w.showStage()
	case screens.ReviewActionSaveDraft:
		return w.transitionToSaveDraft()
	case screens.ReviewActionBack:
		w.session.Back()
		return w, w.showStage()
	case screens.ReviewActionCancel:
		return w.cancel()
	}

	return w, w.showStage()
}

// startLookup runs the phone stage's Next: either the lookup request or,
// when the number was already looked up, a plain advance.
func (w *Wizard) startLookup() (tea.Model, tea.Cmd) {
	phone, started, err := w.session.BeginLookup()
	if err != nil || !started {
		return w, w.showStage()
	}

	w.phase = PhaseBusy
	w.busy = "Looking up patient..."
	return w, tea.Batch(w.spinner.Tick, w.lookupCmd(phone))
}

func (w *Wizard) lookupCmd(phone string) tea.Cmd {
	ctx, patients := w.ctx, w.svc.Patients
	return func() tea.Msg {
		result, err := patients.LookupPatient(ctx, phone)
		return lookupDoneMsg{result: result, err: err}
	}
}

func (w *Wizard) finishLookup(msg lookupDoneMsg) (tea.Model, tea.Cmd) {
	if w.cancelled {
		return w, nil
	}

	found := w.session.ApplyLookup(msg.result, msg.err)
	switch {
	case found:
		w.notice = "Returning patient found. Their details were filled in."
	case msg.err != nil:
		w.notice = "Patient lookup failed. Press Enter to continue as a new patient."
	default:
		w.notice = "No patient found for this number. Press Enter to register a new patient."
	}

	return w, w.showStage()
}

// startSubmit snapshots the form and sends it.
func (w *Wizard) startSubmit() (tea.Model, tea.Cmd) {
	sub, err := w.session.BeginSubmit()
	if err != nil {
		w.log.Debug().Err(err).Msg("submission refused")
		return w, w.showStage()
	}

	w.phase = PhaseBusy
	w.busy = "Booking appointment..."
	return w, tea.Batch(w.spinner.Tick, w.submitCmd(sub))
}

func (w *Wizard) submitCmd(sub *intake.Submission) tea.Cmd {
	ctx, svc := w.ctx, w.svc
	return func() tea.Msg {
		res, err := sub.Run(ctx, svc.Patients, svc.Appointments)
		return submitDoneMsg{sub: sub, res: res, err: err}
	}
}

func (w *Wizard) finishSubmit(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if w.cancelled {
		return w, nil
	}

	if err := w.session.FinishSubmit(msg.sub, msg.res, msg.err); err != nil {
		return w, w.showStage()
	}

	var summary intake.AppointmentSummary
	if w.booked != nil {
		summary = *w.booked
	}
	w.phase = PhaseComplete
	w.completionScreen = screens.NewCompletionScreen(summary)
	return w, w.completionScreen.Init()
}

// updateBusy handles updates while a request is in flight. Only the
// spinner and ctrl+c are live.
func (w *Wizard) updateBusy(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return w.cancel()
		}
		return w, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *Wizard) viewBusy() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render(w.session.Stage().String()),
		w.spinner.View()+" "+w.busy,
		"",
		components.HintStyle.Render("Ctrl+C: Cancel"),
	)
}

// transitionToSaveDraft shows the save draft dialog.
func (w *Wizard) transitionToSaveDraft() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveDraft
	w.draftPath = w.opts.DraftPath

	w.saveDraftForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("draft_path").
				Title("Save draft to").
				Description("Enter the path for the YAML draft file").
				Value(&w.draftPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveDraftForm.Init()
}

// updateSaveDraft handles updates in the save draft phase.
func (w *Wizard) updateSaveDraft(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return w, w.showStage()
		case "ctrl+c":
			return w.cancel()
		}
	}

	form, cmd := w.saveDraftForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveDraftForm = f
	}

	if w.saveDraftForm.State == huh.StateCompleted {
		return w.saveDraft(w.draftPath)
	}

	return w, cmd
}

func (w *Wizard) saveDraft(path string) (tea.Model, tea.Cmd) {
	if err := SaveDraft(DraftFromSession(w.session, w.opts.Now()), path); err != nil {
		w.log.Error().Err(err).Str("path", path).Msg("saving draft")
		w.phase = PhaseError
		w.errorScreen = screens.NewErrorScreen("Could not save the draft", err)
		return w, nil
	}

	w.log.Info().Str("path", path).Msg("draft saved")
	w.notice = fmt.Sprintf("Draft saved to %s", path)
	return w, w.showStage()
}

// viewSaveDraft renders the save draft dialog.
func (w *Wizard) viewSaveDraft() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("Save Draft"),
		"",
		w.saveDraftForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)
}

func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completionScreen.Update(msg)
	if cs, ok := model.(*screens.CompletionScreen); ok {
		w.completionScreen = cs
	}
	return w, cmd
}

func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return w.cancel()
	}

	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}

	if w.errorScreen.Done() {
		return w, w.showStage()
	}

	return w, cmd
}

// Run opens an intake session and drives it in the terminal until the
// appointment is booked or the user cancels. A cancelled run returns a
// nil summary and no error.
func Run(ctx context.Context, svc intake.Services, opts Options) (*intake.AppointmentSummary, error) {
	var w *Wizard
	session, err := intake.Open(ctx, svc, intake.Options{
		Logger: opts.Logger,
		OnAppointmentCreated: func(summary intake.AppointmentSummary) {
			w.AppointmentCreated(summary)
		},
	})
	if err != nil {
		return nil, err
	}

	if opts.FromDraft != "" {
		absPath, err := filepath.Abs(opts.FromDraft)
		if err != nil {
			return nil, fmt.Errorf("resolving draft path: %w", err)
		}
		draft, err := LoadDraft(absPath)
		if err != nil {
			return nil, err
		}
		if err := draft.Restore(session); err != nil {
			return nil, err
		}
		if opts.DraftPath == "" {
			opts.DraftPath = opts.FromDraft
		}
	}

	w = NewWizard(ctx, session, svc, opts)
	p := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("running wizard: %w", err)
	}

	return w.Booked(), nil
}
