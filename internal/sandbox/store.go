package sandbox

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

var (
	ErrPhoneTaken          = errors.New("sandbox: phone number already registered")
	ErrEmailTaken          = errors.New("sandbox: email already registered")
	ErrPatientNotFound     = errors.New("sandbox: patient not found")
	ErrAudiologistNotFound = errors.New("sandbox: audiologist not found")
	ErrAudiologistAway     = errors.New("sandbox: audiologist not available")
	ErrSlotTaken           = errors.New("sandbox: time slot already booked")
)

// Store is the in-memory state of the sandbox backend. It is safe for
// concurrent use.
type Store struct {
	mu sync.Mutex

	audiologists []clinicapi.Audiologist
	diagnostics  []clinicapi.Diagnostic
	doctors      []clinicapi.Doctor
	hospitals    []clinicapi.Hospital

	patients     map[string]clinicapi.Patient // by id
	byPhone      map[string]string
	byEmail      map[string]string
	idempotent   map[string]string // Idempotency-Key -> patient id
	appointments []clinicapi.Appointment
	away         map[string]bool // audiologist id + date
}

// NewStore creates a store with the default catalogs and opts.Patients
// generated patients.
func NewStore(opts SeedOptions) *Store {
	s := &Store{
		patients:   make(map[string]clinicapi.Patient),
		byPhone:    make(map[string]string),
		byEmail:    make(map[string]string),
		idempotent: make(map[string]string),
		away:       make(map[string]bool),
	}
	s.audiologists, s.diagnostics, s.doctors, s.hospitals = DefaultCatalogs()
	for _, p := range generatePatients(opts) {
		s.insert(p)
	}
	return s
}

func (s *Store) insert(p clinicapi.Patient) {
	s.patients[p.ID] = p
	s.byPhone[p.MobileNumber] = p.ID
	if p.Email != "" {
		s.byEmail[strings.ToLower(p.Email)] = p.ID
	}
}

// AddPatient registers p directly, bypassing validation. A missing id is generated.
func (s *Store) AddPatient(p clinicapi.Patient) clinicapi.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.insert(p)
	return p
}

// FindByPhone returns the patient registered with phone.
func (s *Store) FindByPhone(phone string) (clinicapi.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPhone[phone]
	if !ok {
		return clinicapi.Patient{}, false
	}
	return s.patients[id], true
}

// Patients returns every registered patient.
func (s *Store) Patients() []clinicapi.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clinicapi.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	return out
}

// CreatePatient registers a patient. A request repeated with the same
// idempotency key returns the patient created the first time, with
// created=false.
func (s *Store) CreatePatient(key string, in clinicapi.PatientPayload) (p clinicapi.Patient, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		if id, ok := s.idempotent[key]; ok {
			return s.patients[id], false, nil
		}
	}
	if _, taken := s.byPhone[in.MobileNumber]; taken {
		return clinicapi.Patient{}, false, ErrPhoneTaken
	}
	if in.Email != "" {
		if _, taken := s.byEmail[strings.ToLower(in.Email)]; taken {
			return clinicapi.Patient{}, false, ErrEmailTaken
		}
	}

	p = clinicapi.Patient{
		ID:              uuid.NewString(),
		FullName:        in.FullName,
		Email:           in.Email,
		MobileNumber:    in.MobileNumber,
		DateOfBirth:     in.DateOfBirth,
		Gender:          in.Gender,
		AlternateNumber: in.AlternateNumber,
		Occupation:      in.Occupation,
		CustomerType:    in.CustomerType,
		HospitalName:    in.HospitalName,
		OPIPNumber:      in.OPIPNumber,
	}
	s.insert(p)
	if key != "" {
		s.idempotent[key] = p.ID
	}
	return p, true, nil
}

// MarkAway makes an audiologist unavailable on date (YYYY-MM-DD).
func (s *Store) MarkAway(audiologistID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.away[audiologistID+"|"+date] = true
}

// CreateAppointment books an appointment after checking the patient,
// the audiologist's availability and overlaps on the audiologist's day.
// Dates and times must already be validated.
func (s *Store) CreateAppointment(in clinicapi.AppointmentPayload, start time.Time) (clinicapi.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[in.PatientID]; !ok {
		return clinicapi.Appointment{}, ErrPatientNotFound
	}
	found := false
	for _, a := range s.audiologists {
		if a.ID == in.AudiologistID {
			found = true
			break
		}
	}
	if !found {
		return clinicapi.Appointment{}, ErrAudiologistNotFound
	}
	if s.away[in.AudiologistID+"|"+in.AppointmentDate] {
		return clinicapi.Appointment{}, ErrAudiologistAway
	}

	end := start.Add(time.Duration(in.AppointmentDuration) * time.Minute)
	for _, booked := range s.appointments {
		if booked.AudiologistID != in.AudiologistID || booked.AppointmentDate != in.AppointmentDate {
			continue
		}
		bStart, err := time.Parse("2006-01-02 15:04", booked.AppointmentDate+" "+booked.AppointmentTime)
		if err != nil {
			continue
		}
		bEnd := bStart.Add(time.Duration(booked.AppointmentDuration) * time.Minute)
		if start.Before(bEnd) && bStart.Before(end) {
			return clinicapi.Appointment{}, ErrSlotTaken
		}
	}

	appt := clinicapi.Appointment{
		ID:                  uuid.NewString(),
		PatientID:           in.PatientID,
		AudiologistID:       in.AudiologistID,
		AppointmentDate:     in.AppointmentDate,
		AppointmentTime:     in.AppointmentTime,
		AppointmentDuration: in.AppointmentDuration,
		Procedures:          in.Procedures,
		HospitalName:        in.HospitalName,
		ReferralSource:      in.ReferralSource,
		Notes:               in.Notes,
		Status:              "scheduled",
	}
	s.appointments = append(s.appointments, appt)
	return appt, nil
}

// Appointments returns the booked appointments in booking order.
func (s *Store) Appointments() []clinicapi.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clinicapi.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}
