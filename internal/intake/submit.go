package intake

import (
	"context"
	"fmt"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// DefaultProcedure is booked when no diagnostic was selected.
const DefaultProcedure = "General Consultation"

// Referral source names sent for the fixed channels.
const (
	walkInSourceName       = "Walk-in"
	selfReferralSourceName = "Self-referral"
	hearComSourceName      = "Hear.com"
)

// AppointmentSummary is handed to OnAppointmentCreated.
type AppointmentSummary struct {
	AppointmentID   string
	PatientID       string
	PatientName     string
	PhoneNumber     string
	NewPatient      bool
	AudiologistID   string
	AudiologistName string
	Date            string
	Time            string // as displayed, e.g. "10:00 AM"
	Duration        int
	Procedures      string
	ReferralSource  string
}

// Submission is a snapshot of the form taken by BeginSubmit. Running it
// performs the network calls without touching the session.
type Submission struct {
	patient        *clinicapi.PatientPayload // nil when the patient already exists
	patientID      string
	appointment    clinicapi.AppointmentPayload
	idempotencyKey string
	summary        AppointmentSummary
}

// SubmitResult is what a submission achieved, possibly partially.
type SubmitResult struct {
	PatientID      string
	PatientCreated bool
	Appointment    *clinicapi.Appointment
}

// Payloads returns the requests the submission will send; patient is nil
// when no patient has to be created.
func (sub *Submission) Payloads() (patient *clinicapi.PatientPayload, appointment clinicapi.AppointmentPayload) {
	return sub.patient, sub.appointment
}

// Run creates the patient when needed and then the appointment. The two
// calls are sequential; a failure of the second does not undo the first.
func (sub *Submission) Run(ctx context.Context, patients PatientDirectory, appointments AppointmentBook) (SubmitResult, error) {
	res := SubmitResult{PatientID: sub.patientID}

	if sub.patient != nil {
		created, err := patients.CreatePatient(clinicapi.WithIdempotencyKey(ctx, sub.idempotencyKey), *sub.patient)
		if err != nil {
			return res, fmt.Errorf("create patient: %w", err)
		}
		if created == nil || created.ID == "" {
			return res, ErrPatientIDMissing
		}
		res.PatientID = created.ID
		res.PatientCreated = true
	}

	payload := sub.appointment
	payload.PatientID = res.PatientID
	appt, err := appointments.CreateAppointment(ctx, payload)
	if err != nil {
		return res, fmt.Errorf("create appointment: %w", err)
	}
	res.Appointment = appt
	return res, nil
}

// BeginSubmit validates the whole form on the review stage and snapshots
// the requests to send.
func (s *Session) BeginSubmit() (*Submission, error) {
	switch {
	case s.closed:
		return nil, ErrClosed
	case s.stage != StageReview:
		return nil, ErrSubmitNotAllowed
	case s.submitting:
		return nil, ErrSubmitInFlight
	}

	if err := s.fail(s.validateAll()); err != nil {
		return nil, err
	}

	referral, err := BuildReferral(s.form, s.catalogs)
	if err != nil {
		return nil, s.fail(err)
	}

	sub := &Submission{idempotencyKey: s.idempotencyKey}
	switch {
	case s.existingUser != nil:
		sub.patientID = s.existingUser.ID
	case s.createdPatientID != "":
		sub.patientID = s.createdPatientID
	default:
		payload, err := BuildPatientPayload(s.form)
		if err != nil {
			return nil, s.fail(err)
		}
		sub.patient = &payload
	}

	appt, err := s.buildAppointment(referral)
	if err != nil {
		return nil, s.fail(err)
	}
	sub.appointment = appt
	sub.summary = s.summary(appt)

	s.errorMessage = ""
	s.submitting = true
	return sub, nil
}

// FinishSubmit records the outcome of a submission. On success the
// host callback runs and the session closes; on failure the session stays
// on the review stage with the classified error message.
func (s *Session) FinishSubmit(sub *Submission, res SubmitResult, err error) error {
	if s.closed {
		s.submitting = false
		return ErrClosed
	}
	if !s.submitting {
		return ErrNoSubmitInFlight
	}
	s.submitting = false

	// A patient created for details edited since BeginSubmit is not reused.
	if res.PatientCreated && sub.idempotencyKey == s.idempotencyKey {
		s.createdPatientID = res.PatientID
	}

	if err != nil {
		s.log.Warn().Err(err).Str("patient_id", res.PatientID).Msg("submission failed")
		return s.fail(err)
	}

	summary := sub.summary
	summary.PatientID = res.PatientID
	summary.NewPatient = sub.patient != nil || s.existingUser == nil
	if res.Appointment != nil {
		summary.AppointmentID = res.Appointment.ID
	}
	s.log.Info().
		Str("appointment_id", summary.AppointmentID).
		Str("patient_id", summary.PatientID).
		Msg("appointment booked")

	if s.opts.OnAppointmentCreated != nil {
		s.opts.OnAppointmentCreated(summary)
	}
	s.Close()
	return nil
}

// Submit runs the whole submission synchronously.
func (s *Session) Submit(ctx context.Context) error {
	sub, err := s.BeginSubmit()
	if err != nil {
		return err
	}
	res, err := sub.Run(ctx, s.svc.Patients, s.svc.Appointments)
	return s.FinishSubmit(sub, res, err)
}

// validateAll runs every stage predicate up to the procedures stage.
func (s *Session) validateAll() error {
	for st := FirstStage; st < StageReview; st++ {
		if err := st.validate(s); err != nil {
			return err
		}
	}
	return nil
}

// BuildPatientPayload turns the form into a patient creation request.
// Optional fields are only sent when filled, hospital fields only for B2B.
func BuildPatientPayload(f FormData) (clinicapi.PatientPayload, error) {
	phone := f.MobileNumber
	if phone == "" {
		phone = f.PhoneNumber
	}

	switch {
	case f.FullName == "":
		return clinicapi.PatientPayload{}, ErrFullNameRequired
	case len(phone) < PhoneDigits:
		return clinicapi.PatientPayload{}, ErrPhoneRequired
	case f.DateOfBirth == "":
		return clinicapi.PatientPayload{}, ErrDateOfBirthRequired
	case !validDate(f.DateOfBirth):
		return clinicapi.PatientPayload{}, ErrDateOfBirthInvalid
	case f.Gender == "":
		return clinicapi.PatientPayload{}, ErrGenderRequired
	case f.Occupation == "":
		return clinicapi.PatientPayload{}, ErrOccupationRequired
	case f.CustomerType == "":
		return clinicapi.PatientPayload{}, ErrCustomerTypeRequired
	}

	p := clinicapi.PatientPayload{
		FullName:        f.FullName,
		MobileNumber:    phone,
		DateOfBirth:     f.DateOfBirth,
		Gender:          string(f.Gender),
		Occupation:      f.Occupation,
		CustomerType:    string(f.CustomerType),
		Email:           f.Email,
		AlternateNumber: f.AlternateNumber,
	}
	if f.CustomerType == CustomerB2B {
		p.HospitalName = f.HospitalName
		p.OPIPNumber = f.OPIPNumber
	}
	return p, nil
}

// BuildReferral derives the referral sent with the appointment.
func BuildReferral(f FormData, catalogs Catalogs) (clinicapi.ReferralPayload, error) {
	switch f.ReferralSource {
	case ReferralDirect:
		return clinicapi.ReferralPayload{
			Type:       clinicapi.ReferralTypeDirect,
			SourceName: walkInSourceName,
		}, nil

	case ReferralDoctor:
		if f.SelectedReferralID != "" {
			if doc, ok := catalogs.Doctor(f.SelectedReferralID); ok {
				return clinicapi.ReferralPayload{
					Type:           clinicapi.ReferralTypeDoctor,
					SourceName:     doc.Name,
					ContactNumber:  doc.Phone,
					Hospital:       doc.Hospital,
					Specialization: doc.Specialization,
				}, nil
			}
		}
		return clinicapi.ReferralPayload{
			Type:           clinicapi.ReferralTypeDoctor,
			SourceName:     selfReferralSourceName,
			ContactNumber:  f.ReferralDetails.ContactNumber,
			Hospital:       f.ReferralDetails.Hospital,
			Specialization: f.ReferralDetails.Specialization,
		}, nil

	case ReferralHearCom:
		return clinicapi.ReferralPayload{
			Type:       clinicapi.ReferralTypeDoctor,
			SourceName: hearComSourceName,
		}, nil
	}
	return clinicapi.ReferralPayload{}, ErrReferralRequired
}

func (s *Session) buildAppointment(referral clinicapi.ReferralPayload) (clinicapi.AppointmentPayload, error) {
	f := s.form

	clock, err := To24Hour(f.AppointmentTime)
	if err != nil {
		return clinicapi.AppointmentPayload{}, err
	}
	minutes, ok := parseDuration(f.Duration)
	if !ok {
		return clinicapi.AppointmentPayload{}, ErrDurationInvalid
	}

	procedures := f.SelectedProcedures
	if procedures == "" {
		procedures = DefaultProcedure
	}

	p := clinicapi.AppointmentPayload{
		AudiologistID:       f.SelectedAudiologist,
		AppointmentDate:     f.AppointmentDate,
		AppointmentTime:     clock,
		AppointmentDuration: minutes,
		Procedures:          procedures,
		ReferralSource:      referral,
		Notes:               f.Notes,
	}
	if f.CustomerType == CustomerB2B {
		p.HospitalName = f.HospitalName
	}
	return p, nil
}

func (s *Session) summary(appt clinicapi.AppointmentPayload) AppointmentSummary {
	f := s.form
	sum := AppointmentSummary{
		PatientName:    f.FullName,
		PhoneNumber:    f.PhoneNumber,
		AudiologistID:  appt.AudiologistID,
		Date:           appt.AppointmentDate,
		Time:           f.AppointmentTime,
		Duration:       appt.AppointmentDuration,
		Procedures:     appt.Procedures,
		ReferralSource: appt.ReferralSource.SourceName,
	}
	if a, ok := s.catalogs.Audiologist(appt.AudiologistID); ok {
		sum.AudiologistName = a.Name
	}
	return sum
}
