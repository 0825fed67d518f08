// Package clinicapi is a client for the clinic REST backend: patient
// directory, appointment book and the read-only catalogs used at intake.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Config holds configuration for the clinic API client
type Config struct {
	BaseURL    string // e.g. "https://api.clinic.example/v1"
	Token      string // bearer token, forwarded as is
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the clinic backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new clinic API client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("clinicapi: invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		log:        logger.With().Str("component", "clinicapi").Logger(),
	}, nil
}

type idempotencyKey struct{}

// WithIdempotencyKey attaches the key sent with creation requests made
// with ctx. Requests without one get a fresh key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// IdempotencyKey returns the key attached to ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}

// LookupPatient searches the patient directory by phone number.
func (c *Client) LookupPatient(ctx context.Context, phone string) (LookupResult, error) {
	var result LookupResult
	query := url.Values{}
	query.Set("phone", phone)
	if err := c.do(ctx, http.MethodGet, "/patients/lookup", query, nil, &result); err != nil {
		return LookupResult{}, fmt.Errorf("lookup patient: %w", err)
	}
	if result.Found && result.Patient == nil {
		result.Found = false
	}
	return result, nil
}

// CreatePatient registers a new patient and returns the stored record.
func (c *Client) CreatePatient(ctx context.Context, payload PatientPayload) (*Patient, error) {
	var patient Patient
	if err := c.do(ctx, http.MethodPost, "/patients", nil, payload, &patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	if patient.ID == "" {
		return nil, fmt.Errorf("create patient: %w", ErrMissingID)
	}
	c.log.Info().Str("patient_id", patient.ID).Msg("patient created")
	return &patient, nil
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, payload AppointmentPayload) (*Appointment, error) {
	var appt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, payload, &appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	if appt.ID == "" {
		return nil, fmt.Errorf("create appointment: %w", ErrMissingID)
	}
	c.log.Info().
		Str("appointment_id", appt.ID).
		Str("patient_id", appt.PatientID).
		Msg("appointment created")
	return &appt, nil
}

// ListAudiologists returns the audiologists that can take appointments.
func (c *Client) ListAudiologists(ctx context.Context) ([]Audiologist, error) {
	var out []Audiologist
	if err := c.do(ctx, http.MethodGet, "/audiologists", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list audiologists: %w", err)
	}
	return out, nil
}

// ListDiagnostics returns the diagnostic catalog.
func (c *Client) ListDiagnostics(ctx context.Context) ([]Diagnostic, error) {
	var out []Diagnostic
	if err := c.do(ctx, http.MethodGet, "/diagnostics", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	return out, nil
}

// ListDoctors returns the referring doctors.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var out []Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return out, nil
}

// ListHospitals returns the partner hospitals.
func (c *Client) ListHospitals(ctx context.Context) ([]Hospital, error) {
	var out []Hospital
	if err := c.do(ctx, http.MethodGet, "/hospitals", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	return out, nil
}

// do sends one JSON request and decodes a 2xx answer into out.
// Non-2xx answers come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		key := IdempotencyKey(ctx)
		if key == "" {
			key = uuid.NewString()
		}
		req.Header.Set("Idempotency-Key", key)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := parseAPIError(resp.StatusCode, raw)
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("backend returned an error")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
