// Package sandbox is a local stand-in of the clinic backend. It serves the
// endpoints used at intake from an in-memory store, for demos and tests.
package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Options configures a Server.
type Options struct {
	// Secret enables bearer authentication with HS256 tokens signed with it.
	// Empty disables authentication.
	Secret []byte
	Logger *zerolog.Logger
	// Now returns the current time; appointments before today are refused.
	Now func() time.Time
}

// Server serves the clinic API from a Store.
type Server struct {
	store  *Store
	secret []byte
	log    zerolog.Logger
	now    func() time.Time
}

// NewServer creates a server over store.
func NewServer(store *Store, opts Options) *Server {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:  store,
		secret: opts.Secret,
		log:    logger.With().Str("component", "sandbox").Logger(),
		now:    now,
	}
}

// Store returns the backing store.
func (s *Server) Store() *Store { return s.store }

// Routes returns the HTTP handler of the sandbox.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(api chi.Router) {
		api.Use(s.requireToken)

		api.Get("/patients/lookup", s.lookupPatient)
		api.Post("/patients", s.createPatient)
		api.Post("/appointments", s.createAppointment)

		api.Get("/audiologists", s.listAudiologists)
		api.Get("/diagnostics", s.listDiagnostics)
		api.Get("/doctors", s.listDoctors)
		api.Get("/hospitals", s.listHospitals)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// errorBody is the JSON error document of the sandbox.
type errorBody struct {
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}

func (s *Server) lookupPatient(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if !isPhone(phone) {
		writeError(w, http.StatusBadRequest, errorBody{Message: "phone must be 10 digits", Field: "phone"})
		return
	}

	p, ok := s.store.FindByPhone(phone)
	if !ok {
		writeJSON(w, http.StatusOK, clinicapi.LookupResult{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, clinicapi.LookupResult{Found: true, Patient: &p})
}

func (s *Server) createPatient(w http.ResponseWriter, r *http.Request) {
	var in clinicapi.PatientPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid JSON body"})
		return
	}

	if fields := validatePatient(in); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, errorBody{Message: "Validation failed", Errors: fields})
		return
	}

	p, created, err := s.store.CreatePatient(r.Header.Get("Idempotency-Key"), in)
	switch {
	case errors.Is(err, ErrPhoneTaken):
		writeError(w, http.StatusConflict, errorBody{
			Message: "Patient with this mobile number already exists",
			Field:   "mobileNumber",
			Code:    "duplicate",
		})
		return
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, errorBody{
			Message: "Patient with this email already exists",
			Field:   "email",
			Code:    "duplicate",
		})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("create patient")
		writeError(w, http.StatusInternalServerError, errorBody{Message: "internal error"})
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, p)
}

func validatePatient(in clinicapi.PatientPayload) map[string]string {
	fields := map[string]string{}
	if in.FullName == "" {
		fields["fullName"] = "is required"
	}
	if !isPhone(in.MobileNumber) {
		fields["mobileNumber"] = "must be 10 digits"
	}
	if _, err := time.Parse(dateLayout, in.DateOfBirth); err != nil {
		fields["dateOfBirth"] = "must be a date in YYYY-MM-DD format"
	}
	switch in.Gender {
	case "Male", "Female", "Other":
	default:
		fields["gender"] = "must be Male, Female or Other"
	}
	if in.Occupation == "" {
		fields["occupation"] = "is required"
	}
	switch in.CustomerType {
	case "B2C", "B2B":
	default:
		fields["customerType"] = "must be B2C or B2B"
	}
	if in.AlternateNumber != "" && !isPhone(in.AlternateNumber) {
		fields["alternateNumber"] = "must be 10 digits"
	}
	return fields
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var in clinicapi.AppointmentPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid JSON body"})
		return
	}

	day, err := time.Parse(dateLayout, in.AppointmentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "Invalid date", Field: "appointmentDate"})
		return
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		writeError(w, http.StatusBadRequest, errorBody{
			Message: "Invalid date: appointment date is in the past",
			Field:   "appointmentDate",
		})
		return
	}
	start, err := time.Parse(dateLayout+" "+clockLayout, in.AppointmentDate+" "+in.AppointmentTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "appointmentTime must be HH:MM", Field: "appointmentTime"})
		return
	}
	if in.AppointmentDuration <= 0 {
		writeError(w, http.StatusBadRequest, errorBody{Message: "appointmentDuration must be positive", Field: "appointmentDuration"})
		return
	}
	switch in.ReferralSource.Type {
	case clinicapi.ReferralTypeDirect, clinicapi.ReferralTypeDoctor:
	default:
		writeError(w, http.StatusBadRequest, errorBody{Message: "referralSource.type must be direct or doctor", Field: "referralSource"})
		return
	}

	appt, err := s.store.CreateAppointment(in, start)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		writeError(w, http.StatusNotFound, errorBody{Message: "Patient not found", Field: "patientId"})
		return
	case errors.Is(err, ErrAudiologistNotFound):
		writeError(w, http.StatusNotFound, errorBody{Message: "Audiologist not found", Field: "audiologistId"})
		return
	case errors.Is(err, ErrAudiologistAway):
		writeError(w, http.StatusUnprocessableEntity, errorBody{
			Message: "Audiologist is not available on this date",
			Field:   "audiologistId",
		})
		return
	case errors.Is(err, ErrSlotTaken):
		writeError(w, http.StatusConflict, errorBody{
			Message: "Time slot already booked for this audiologist",
			Field:   "appointmentTime",
			Code:    "slot_conflict",
		})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("create appointment")
		writeError(w, http.StatusInternalServerError, errorBody{Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) listAudiologists(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.audiologists)
}

func (s *Server) listDiagnostics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.diagnostics)
}

func (s *Server) listDoctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.doctors)
}

func (s *Server) listHospitals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.hospitals)
}

func isPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
