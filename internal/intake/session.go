package intake

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// PatientDirectory finds and registers patients.
type PatientDirectory interface {
	LookupPatient(ctx context.Context, phone string) (clinicapi.LookupResult, error)
	CreatePatient(ctx context.Context, payload clinicapi.PatientPayload) (*clinicapi.Patient, error)
}

// AppointmentBook books appointments.
type AppointmentBook interface {
	CreateAppointment(ctx context.Context, payload clinicapi.AppointmentPayload) (*clinicapi.Appointment, error)
}

// Services are the remote collaborators of a session.
type Services struct {
	Patients     PatientDirectory
	Appointments AppointmentBook
	Catalogs     clinicapi.CatalogLister
}

// Options configures a session.
type Options struct {
	// OnAppointmentCreated is called once the appointment is booked, right
	// before the session closes.
	OnAppointmentCreated func(AppointmentSummary)
	Logger               *zerolog.Logger
}

// Session is one run of the intake form, from opening to a booked
// appointment or to cancellation. It is owned by a single goroutine:
// front-ends that call the backend asynchronously use the Begin/Apply
// and Begin/Finish pairs and mutate the session only from their event loop.
type Session struct {
	svc      Services
	catalogs Catalogs
	opts     Options
	log      zerolog.Logger

	form         FormData
	stage        Stage
	existingUser *clinicapi.Patient
	procedureIDs []string
	errorMessage string

	lookupInFlight bool
	lookedUpPhone  string // last phone the directory answered for
	submitting     bool

	createdPatientID string // patient created by an earlier failed submission
	idempotencyKey   string // sent with patient creation; renewed when identity changes
	closed           bool
}

// NewSession creates a session over already loaded catalogs.
func NewSession(svc Services, catalogs Catalogs, opts Options) *Session {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Session{
		svc:            svc,
		catalogs:       catalogs,
		opts:           opts,
		log:            logger.With().Str("component", "intake").Logger(),
		form:           newFormData(),
		stage:          FirstStage,
		idempotencyKey: uuid.NewString(),
	}
}

// Open loads the catalogs and starts a fresh session.
func Open(ctx context.Context, svc Services, opts Options) (*Session, error) {
	catalogs, err := LoadCatalogs(ctx, svc.Catalogs)
	if err != nil {
		return nil, err
	}
	return NewSession(svc, catalogs, opts), nil
}

// Stage returns the current stage.
func (s *Session) Stage() Stage { return s.stage }

// Form returns a copy of the form values.
func (s *Session) Form() FormData { return s.form }

// Catalogs returns the catalogs the session was opened with.
func (s *Session) Catalogs() Catalogs { return s.catalogs }

// ErrorMessage returns the latest user-facing error, or "".
func (s *Session) ErrorMessage() string { return s.errorMessage }

// ExistingUser returns the patient found by the phone lookup, if any.
func (s *Session) ExistingUser() *clinicapi.Patient {
	if s.existingUser == nil {
		return nil
	}
	p := *s.existingUser
	return &p
}

// LookupInFlight reports whether a phone lookup is running.
func (s *Session) LookupInFlight() bool { return s.lookupInFlight }

// Submitting reports whether a submission is running.
func (s *Session) Submitting() bool { return s.submitting }

// Closed reports whether the session is over.
func (s *Session) Closed() bool { return s.closed }

// Close ends the session and discards its data. A submission still
// running is abandoned: FinishSubmit will refuse its result.
func (s *Session) Close() {
	s.closed = true
	s.form = FormData{}
	s.existingUser = nil
	s.procedureIDs = nil
	s.errorMessage = ""
	s.lookupInFlight = false
	s.submitting = false
	s.createdPatientID = ""
}

// ProcedureIDs returns the selected diagnostic ids in catalog order.
func (s *Session) ProcedureIDs() []string { return slices.Clone(s.procedureIDs) }

// TotalProcedureDuration returns the minutes needed by the selected procedures.
func (s *Session) TotalProcedureDuration() int {
	return MinutesPerProcedure * len(s.procedureIDs)
}

// CanAdvance reports whether the current stage's Continue action is enabled.
func (s *Session) CanAdvance() bool {
	return !s.closed && s.stage.validate(s) == nil
}

// Validate checks the current stage.
func (s *Session) Validate() error {
	return s.stage.validate(s)
}

// Next validates the current stage and moves forward. On the phone stage
// it looks the number up first and only advances on its own when a
// patient is found.
func (s *Session) Next(ctx context.Context) error {
	if s.stage == StagePhone {
		phone, started, err := s.BeginLookup()
		if err != nil || !started {
			return err
		}
		result, lookupErr := s.svc.Patients.LookupPatient(ctx, phone)
		s.ApplyLookup(result, lookupErr)
		return nil
	}
	return s.advance()
}

func (s *Session) advance() error {
	if s.closed {
		return ErrClosed
	}
	if s.stage == LastStage {
		return ErrLastStage
	}
	if err := s.fail(s.stage.validate(s)); err != nil {
		return err
	}
	s.stage++
	s.log.Debug().Stringer("stage", s.stage).Msg("stage advanced")
	return nil
}

// Back moves to the previous stage without validating anything.
func (s *Session) Back() {
	if s.closed || s.stage == FirstStage {
		return
	}
	s.stage--
}

// fail records err as the user-facing message and returns it.
func (s *Session) fail(err error) error {
	if err == nil {
		return nil
	}
	s.errorMessage = ClassifyError(err)
	return err
}

// edited is called by every setter.
func (s *Session) edited() {
	s.errorMessage = ""
}

// patientEdited is called by the setters of fields sent when creating
// the patient. A patient created from the previous values no longer
// matches the form, so it is forgotten and the next creation gets a new
// idempotency key.
func (s *Session) patientEdited(changed bool) {
	s.edited()
	if !changed {
		return
	}
	if s.createdPatientID != "" {
		s.log.Debug().Str("patient_id", s.createdPatientID).Msg("patient details changed, will create a new patient")
	}
	s.createdPatientID = ""
	s.idempotencyKey = uuid.NewString()
}

// SetPhoneNumber sets the lookup phone number. Changing it forgets the
// previous lookup.
func (s *Session) SetPhoneNumber(v string) {
	phone := SanitizePhone(v)
	s.patientEdited(phone != s.form.PhoneNumber)
	if phone != s.form.PhoneNumber {
		s.lookedUpPhone = ""
		s.existingUser = nil
	}
	s.form.PhoneNumber = phone
}

// SetMobileNumber sets the patient's mobile number.
func (s *Session) SetMobileNumber(v string) {
	v = SanitizePhone(v)
	s.patientEdited(v != s.form.MobileNumber)
	s.form.MobileNumber = v
}

// SetAlternateNumber sets the patient's alternate number.
func (s *Session) SetAlternateNumber(v string) {
	v = SanitizePhone(v)
	s.patientEdited(v != s.form.AlternateNumber)
	s.form.AlternateNumber = v
}

func (s *Session) SetFullName(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.FullName)
	s.form.FullName = v
}

func (s *Session) SetEmail(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.Email)
	s.form.Email = v
}

func (s *Session) SetDateOfBirth(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.DateOfBirth)
	s.form.DateOfBirth = v
}

func (s *Session) SetOccupation(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.Occupation)
	s.form.Occupation = v
}

// SetGender sets the patient's gender. "" clears it.
func (s *Session) SetGender(g Gender) error {
	if g != "" && !g.Valid() {
		s.edited()
		return s.fail(ErrUnknownGender)
	}
	s.patientEdited(g != s.form.Gender)
	s.form.Gender = g
	return nil
}

// SetCustomerType switches between B2C and B2B. B2B patients are direct
// referrals; going back to B2C clears the hospital fields.
func (s *Session) SetCustomerType(c CustomerType) error {
	if !c.Valid() {
		s.edited()
		return s.fail(ErrUnknownCustomerType)
	}
	s.patientEdited(c != s.form.CustomerType)
	s.form.CustomerType = c
	if c == CustomerB2B {
		s.form.ReferralSource = ReferralDirect
		s.form.SelectedReferralID = ""
		s.form.ReferralDetails = ReferralDetails{}
		return nil
	}
	s.form.HospitalName = ""
	s.form.OPIPNumber = ""
	return nil
}

func (s *Session) SetHospitalName(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.HospitalName)
	s.form.HospitalName = v
}

// SetOPIPNumber sets the hospital OP/IP/UHID reference.
func (s *Session) SetOPIPNumber(v string) {
	v = strings.TrimSpace(v)
	s.patientEdited(v != s.form.OPIPNumber)
	s.form.OPIPNumber = v
}

// SelectAudiologist assigns the appointment. "" clears the selection.
func (s *Session) SelectAudiologist(id string) error {
	s.edited()
	if id != "" {
		if _, ok := s.catalogs.Audiologist(id); !ok {
			return s.fail(ErrUnknownAudiologist)
		}
	}
	s.form.SelectedAudiologist = id
	return nil
}

// SetReferralSource sets the referral channel. Leaving Doctor Referral
// drops the selected doctor.
func (s *Session) SetReferralSource(r ReferralSource) error {
	s.edited()
	if r != "" && !r.Valid() {
		return s.fail(ErrUnknownReferralSource)
	}
	if s.form.CustomerType == CustomerB2B && r != "" && r != ReferralDirect {
		return s.fail(ErrReferralLockedB2B)
	}
	s.form.ReferralSource = r
	if r != ReferralDoctor {
		s.form.SelectedReferralID = ""
		s.form.ReferralDetails = ReferralDetails{}
	}
	return nil
}

// SelectReferralDoctor copies the doctor's contact details into the
// referral. "" clears the selection and the details.
func (s *Session) SelectReferralDoctor(id string) error {
	s.edited()
	if id == "" {
		s.form.SelectedReferralID = ""
		s.form.ReferralDetails = ReferralDetails{}
		return nil
	}
	doc, ok := s.catalogs.Doctor(id)
	if !ok {
		return s.fail(ErrUnknownDoctor)
	}
	s.form.SelectedReferralID = id
	s.form.ReferralDetails = ReferralDetails{
		SourceName:     doc.Name,
		ContactNumber:  doc.Phone,
		Hospital:       doc.Hospital,
		Specialization: doc.Specialization,
	}
	return nil
}

func (s *Session) SetAppointmentDate(v string) {
	s.edited()
	s.form.AppointmentDate = strings.TrimSpace(v)
}

// SetAppointmentTime sets the display time, e.g. "10:00 AM".
func (s *Session) SetAppointmentTime(v string) {
	s.edited()
	s.form.AppointmentTime = strings.TrimSpace(v)
}

// SetDuration sets the appointment length in minutes.
func (s *Session) SetDuration(v string) {
	s.edited()
	s.form.Duration = strings.TrimSpace(v)
}

func (s *Session) SetNotes(v string) {
	s.edited()
	s.form.Notes = v
}

// MinutesPerProcedure is the time budgeted for every diagnostic.
const MinutesPerProcedure = 30

// SetProcedures replaces the selected diagnostics. When the selection
// changes and is not empty, the duration becomes 30 minutes per procedure.
func (s *Session) SetProcedures(ids []string) error {
	s.edited()
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.catalogs.Diagnostic(id); !ok {
			return s.fail(ErrUnknownProcedure)
		}
		selected[id] = true
	}

	var ordered, names []string
	for _, d := range s.catalogs.Diagnostics {
		if selected[d.ID] {
			ordered = append(ordered, d.ID)
			names = append(names, d.Name)
		}
	}

	if slices.Equal(ordered, s.procedureIDs) {
		return nil
	}
	s.procedureIDs = ordered
	s.form.SelectedProcedures = strings.Join(names, ", ")
	if len(ordered) > 0 {
		s.form.Duration = strconv.Itoa(s.TotalProcedureDuration())
	}
	return nil
}

// ToggleProcedure adds or removes one diagnostic.
func (s *Session) ToggleProcedure(id string) error {
	ids := slices.Clone(s.procedureIDs)
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
	}
	return s.SetProcedures(ids)
}

// ApplyDraft restores saved form values through the setters, so the
// form invariants hold for drafts edited by hand. The draft replaces the
// form as a whole: on error the session is left untouched. The session
// goes back to the phone stage and forgets any earlier lookup.
func (s *Session) ApplyDraft(f FormData, procedureIDs []string) error {
	if s.closed {
		return ErrClosed
	}

	d := &Session{
		catalogs: s.catalogs,
		log:      s.log,
		form:     newFormData(),
		stage:    FirstStage,
	}
	d.SetPhoneNumber(f.PhoneNumber)
	d.SetFullName(f.FullName)
	d.SetEmail(f.Email)
	d.SetMobileNumber(f.MobileNumber)
	d.SetDateOfBirth(f.DateOfBirth)
	d.SetAlternateNumber(f.AlternateNumber)
	d.SetOccupation(f.Occupation)

	steps := []func() error{
		func() error { return d.SetGender(f.Gender) },
		func() error {
			if f.CustomerType == "" {
				return nil
			}
			return d.SetCustomerType(f.CustomerType)
		},
		func() error { return d.SelectAudiologist(f.SelectedAudiologist) },
		func() error {
			// B2B patients are always direct referrals.
			if d.form.CustomerType == CustomerB2B {
				return nil
			}
			return d.SetReferralSource(f.ReferralSource)
		},
		func() error {
			if d.form.ReferralSource != ReferralDoctor {
				return nil
			}
			return d.SelectReferralDoctor(f.SelectedReferralID)
		},
		func() error { return d.SetProcedures(procedureIDs) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("apply draft: %w", err)
		}
	}

	if d.form.CustomerType == CustomerB2B {
		d.SetHospitalName(f.HospitalName)
		d.SetOPIPNumber(f.OPIPNumber)
	}
	d.SetAppointmentDate(f.AppointmentDate)
	d.SetAppointmentTime(f.AppointmentTime)
	if f.Duration != "" {
		d.SetDuration(f.Duration)
	}
	d.SetNotes(f.Notes)

	s.form = d.form
	s.procedureIDs = d.procedureIDs
	s.stage = FirstStage
	s.errorMessage = ""
	s.existingUser = nil
	s.lookedUpPhone = ""
	s.createdPatientID = ""
	s.idempotencyKey = uuid.NewString()
	return nil
}
