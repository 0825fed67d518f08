package intake

import (
	"context"
	"errors"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

type fakeDirectory struct {
	lookup func(phone string) (clinicapi.LookupResult, error)
	create func(ctx context.Context, p clinicapi.PatientPayload) (*clinicapi.Patient, error)

	lookups []string
	created []clinicapi.PatientPayload
	keys    []string
}

func (f *fakeDirectory) LookupPatient(_ context.Context, phone string) (clinicapi.LookupResult, error) {
	f.lookups = append(f.lookups, phone)
	if f.lookup == nil {
		return clinicapi.LookupResult{}, nil
	}
	return f.lookup(phone)
}

func (f *fakeDirectory) CreatePatient(ctx context.Context, p clinicapi.PatientPayload) (*clinicapi.Patient, error) {
	f.created = append(f.created, p)
	if f.create == nil {
		return &clinicapi.Patient{ID: "pat-1", FullName: p.FullName}, nil
	}
	return f.create(ctx, p)
}

type fakeBook struct {
	create func(p clinicapi.AppointmentPayload) (*clinicapi.Appointment, error)
	booked []clinicapi.AppointmentPayload
}

func (f *fakeBook) CreateAppointment(_ context.Context, p clinicapi.AppointmentPayload) (*clinicapi.Appointment, error) {
	f.booked = append(f.booked, p)
	if f.create == nil {
		return &clinicapi.Appointment{ID: "appt-1", PatientID: p.PatientID}, nil
	}
	return f.create(p)
}

type fakeCatalogs struct {
	catalogs Catalogs
	err      error
}

func (f fakeCatalogs) ListAudiologists(context.Context) ([]clinicapi.Audiologist, error) {
	return f.catalogs.Audiologists, f.err
}

func (f fakeCatalogs) ListDiagnostics(context.Context) ([]clinicapi.Diagnostic, error) {
	return f.catalogs.Diagnostics, nil
}

func (f fakeCatalogs) ListDoctors(context.Context) ([]clinicapi.Doctor, error) {
	return f.catalogs.Doctors, nil
}

func (f fakeCatalogs) ListHospitals(context.Context) ([]clinicapi.Hospital, error) {
	return f.catalogs.Hospitals, nil
}

var errTransport = errors.New("connection refused")

func testCatalogs() Catalogs {
	return Catalogs{
		Audiologists: []clinicapi.Audiologist{
			{ID: "aud-1", Name: "Dr. Meera Iyer"},
			{ID: "aud-2", Name: "Dr. Karan Shah"},
		},
		Diagnostics: []clinicapi.Diagnostic{
			{ID: "dx-pta", Name: "Pure Tone Audiometry"},
			{ID: "dx-tymp", Name: "Tympanometry"},
			{ID: "dx-oae", Name: "OAE Screening"},
		},
		Doctors: []clinicapi.Doctor{
			{ID: "doc-1", Name: "Dr. Anil Menon", Phone: "9810000001", Hospital: "City ENT Hospital", Specialization: "ENT"},
		},
		Hospitals: []clinicapi.Hospital{
			{ID: "hos-1", Name: "City ENT Hospital"},
		},
	}
}

type fixture struct {
	dir     *fakeDirectory
	book    *fakeBook
	session *Session
	booked  []AppointmentSummary
}

func newFixture() *fixture {
	fx := &fixture{dir: &fakeDirectory{}, book: &fakeBook{}}
	svc := Services{Patients: fx.dir, Appointments: fx.book}
	fx.session = NewSession(svc, testCatalogs(), Options{
		OnAppointmentCreated: func(sum AppointmentSummary) {
			fx.booked = append(fx.booked, sum)
		},
	})
	return fx
}

// fillNewPatient walks a fresh session with an unknown phone number up to
// the review stage.
func (fx *fixture) fillNewPatient(ctx context.Context) error {
	s := fx.session
	s.SetPhoneNumber("9000000001")
	if err := s.Next(ctx); err != nil {
		return err
	}
	if err := s.Next(ctx); err != nil {
		return err
	}

	s.SetFullName("Asha Rao")
	s.SetDateOfBirth("1988-06-14")
	if err := s.SetGender(GenderFemale); err != nil {
		return err
	}
	s.SetOccupation("Teacher")
	if err := s.SetCustomerType(CustomerB2C); err != nil {
		return err
	}
	if err := s.Next(ctx); err != nil {
		return err
	}

	if err := s.SelectAudiologist("aud-1"); err != nil {
		return err
	}
	if err := s.Next(ctx); err != nil {
		return err
	}

	if err := s.SetReferralSource(ReferralDirect); err != nil {
		return err
	}
	if err := s.Next(ctx); err != nil {
		return err
	}

	s.SetAppointmentDate("2026-10-17")
	s.SetAppointmentTime("10:00 AM")
	s.SetDuration("30")
	if err := s.Next(ctx); err != nil {
		return err
	}
	return s.Next(ctx)
}
