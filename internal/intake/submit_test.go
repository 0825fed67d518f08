package intake

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

func TestSubmit_NewWalkInPatient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))
	require.Equal(t, StageReview, fx.session.Stage())

	require.NoError(t, fx.session.Submit(ctx))

	require.Len(t, fx.dir.created, 1)
	p := fx.dir.created[0]
	assert.Equal(t, "Asha Rao", p.FullName)
	assert.Equal(t, "9000000001", p.MobileNumber)
	assert.Equal(t, "Female", p.Gender)
	assert.Equal(t, "Teacher", p.Occupation)
	assert.Equal(t, "B2C", p.CustomerType)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.HospitalName)

	require.Len(t, fx.book.booked, 1)
	a := fx.book.booked[0]
	assert.Equal(t, "pat-1", a.PatientID)
	assert.Equal(t, "aud-1", a.AudiologistID)
	assert.Equal(t, "2026-10-17", a.AppointmentDate)
	assert.Equal(t, "10:00", a.AppointmentTime)
	assert.Equal(t, 30, a.AppointmentDuration)
	assert.Equal(t, DefaultProcedure, a.Procedures)
	assert.Empty(t, a.HospitalName)
	assert.Equal(t, clinicapi.ReferralPayload{Type: "direct", SourceName: "Walk-in"}, a.ReferralSource)

	require.Len(t, fx.booked, 1)
	sum := fx.booked[0]
	assert.Equal(t, "appt-1", sum.AppointmentID)
	assert.Equal(t, "pat-1", sum.PatientID)
	assert.True(t, sum.NewPatient)
	assert.Equal(t, "Dr. Meera Iyer", sum.AudiologistName)
	assert.Equal(t, "10:00 AM", sum.Time)

	assert.True(t, fx.session.Closed())
	assert.Equal(t, FormData{}, fx.session.Form())
}

func TestSubmit_ExistingPatientSkipsCreation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	fx.dir.lookup = func(phone string) (clinicapi.LookupResult, error) {
		return clinicapi.LookupResult{Found: true, Patient: &clinicapi.Patient{
			ID: "pat-42", FullName: "Ravi Kumar", MobileNumber: phone,
			DateOfBirth: "1975-01-30", Gender: "Male", Occupation: "Engineer", CustomerType: "B2C",
		}}, nil
	}
	s := fx.session
	s.SetPhoneNumber("9876543210")
	require.NoError(t, s.Next(ctx))
	require.Equal(t, StagePatient, s.Stage())
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.SelectAudiologist("aud-2"))
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.SetReferralSource(ReferralDoctor))
	require.NoError(t, s.SelectReferralDoctor("doc-1"))
	require.NoError(t, s.Next(ctx))
	s.SetAppointmentDate("2026-10-20")
	s.SetAppointmentTime("2:30 PM")
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.SetProcedures([]string{"dx-pta", "dx-tymp"}))
	require.NoError(t, s.Next(ctx))

	require.NoError(t, s.Submit(ctx))

	assert.Empty(t, fx.dir.created)
	require.Len(t, fx.book.booked, 1)
	a := fx.book.booked[0]
	assert.Equal(t, "pat-42", a.PatientID)
	assert.Equal(t, "14:30", a.AppointmentTime)
	assert.Equal(t, 60, a.AppointmentDuration)
	assert.Equal(t, "Pure Tone Audiometry, Tympanometry", a.Procedures)
	assert.Equal(t, clinicapi.ReferralPayload{
		Type:           "doctor",
		SourceName:     "Dr. Anil Menon",
		ContactNumber:  "9810000001",
		Hospital:       "City ENT Hospital",
		Specialization: "ENT",
	}, a.ReferralSource)
	require.Len(t, fx.booked, 1)
	assert.False(t, fx.booked[0].NewPatient)
}

func TestSubmit_OnlyOnReview(t *testing.T) {
	s := newFixture().session
	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitNotAllowed)

	s.stage = StageNotes
	assert.ErrorIs(t, s.Submit(context.Background()), ErrSubmitNotAllowed)
}

func TestSubmit_RevalidatesEveryStage(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))

	fx.session.SetAppointmentTime("")
	err := fx.session.Submit(ctx)
	assert.ErrorIs(t, err, ErrTimeRequired)
	assert.Equal(t, StageReview, fx.session.Stage())
	assert.NotEmpty(t, fx.session.ErrorMessage())
	assert.Empty(t, fx.dir.created)
	assert.Empty(t, fx.book.booked)
}

func TestSubmit_MissingPatientFieldFailsBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))

	fx.session.SetOccupation("")
	assert.ErrorIs(t, fx.session.Submit(ctx), ErrOccupationRequired)
	assert.Empty(t, fx.dir.created)
	assert.Empty(t, fx.book.booked)
}

func TestSubmit_AppointmentFailureKeepsWizardOpen(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	fx.book.create = func(clinicapi.AppointmentPayload) (*clinicapi.Appointment, error) {
		return nil, &clinicapi.APIError{Status: http.StatusConflict, Message: "Time slot already booked"}
	}
	require.NoError(t, fx.fillNewPatient(ctx))
	before := fx.session.Form()

	err := fx.session.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, StageReview, fx.session.Stage())
	assert.Equal(t, MsgTimeSlotTaken, fx.session.ErrorMessage())
	assert.Equal(t, before, fx.session.Form())
	assert.False(t, fx.session.Closed())
	assert.False(t, fx.session.Submitting())
	assert.Empty(t, fx.booked)

	// The retry reuses the patient created by the first attempt, as long
	// as the patient's details are unchanged.
	fx.session.SetFullName(" Asha Rao ")
	fx.book.create = nil
	require.NoError(t, fx.session.Submit(ctx))
	assert.Len(t, fx.dir.created, 1)
	require.Len(t, fx.book.booked, 2)
	assert.Equal(t, "pat-1", fx.book.booked[1].PatientID)
	require.Len(t, fx.booked, 1)
	assert.True(t, fx.booked[0].NewPatient)
}

func TestSubmit_EditedIdentityCreatesNewPatient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	var keys []string
	fx.dir.create = func(ctx context.Context, p clinicapi.PatientPayload) (*clinicapi.Patient, error) {
		keys = append(keys, clinicapi.IdempotencyKey(ctx))
		return &clinicapi.Patient{ID: fmt.Sprintf("pat-%d", len(keys)), FullName: p.FullName}, nil
	}
	fx.book.create = func(clinicapi.AppointmentPayload) (*clinicapi.Appointment, error) {
		return nil, &clinicapi.APIError{Status: http.StatusConflict, Message: "Time slot already booked"}
	}
	require.NoError(t, fx.fillNewPatient(ctx))
	s := fx.session
	require.Error(t, s.Submit(ctx))
	require.Len(t, fx.dir.created, 1)

	// Another walk-in takes over the form.
	for s.Stage() != StagePhone {
		s.Back()
	}
	s.SetPhoneNumber("9222222222")
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Next(ctx))
	s.SetFullName("Ravi Kumar")
	for s.Stage() != StageReview {
		require.NoError(t, s.Next(ctx))
	}

	fx.book.create = nil
	require.NoError(t, s.Submit(ctx))

	require.Len(t, fx.dir.created, 2)
	assert.Equal(t, "Ravi Kumar", fx.dir.created[1].FullName)
	assert.Equal(t, "9222222222", fx.dir.created[1].MobileNumber)
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])

	require.Len(t, fx.book.booked, 2)
	assert.Equal(t, "pat-2", fx.book.booked[1].PatientID)
	require.Len(t, fx.booked, 1)
	assert.Equal(t, "pat-2", fx.booked[0].PatientID)
	assert.Equal(t, "Ravi Kumar", fx.booked[0].PatientName)
}

func TestSubmit_FinishAfterClose(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))
	s := fx.session

	sub, err := s.BeginSubmit()
	require.NoError(t, err)
	s.Close()
	assert.False(t, s.Submitting())

	res, runErr := sub.Run(ctx, fx.dir, fx.book)
	require.NoError(t, runErr)
	assert.ErrorIs(t, s.FinishSubmit(sub, res, nil), ErrClosed)
	assert.Empty(t, fx.booked)
}

func TestSubmit_PatientFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	fx.dir.create = func(context.Context, clinicapi.PatientPayload) (*clinicapi.Patient, error) {
		return nil, &clinicapi.APIError{
			Status:  http.StatusConflict,
			Message: "Validation failed",
			Errors:  map[string]string{"mobileNumber": "already exists"},
		}
	}
	require.NoError(t, fx.fillNewPatient(ctx))

	require.Error(t, fx.session.Submit(ctx))
	assert.Equal(t, MsgPhoneRegistered, fx.session.ErrorMessage())
	assert.Empty(t, fx.book.booked)
	assert.Equal(t, StageReview, fx.session.Stage())
}

func TestSubmit_SendsIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	var keys []string
	fx.dir.create = func(ctx context.Context, p clinicapi.PatientPayload) (*clinicapi.Patient, error) {
		keys = append(keys, clinicapi.IdempotencyKey(ctx))
		return nil, &clinicapi.APIError{Status: http.StatusBadGateway}
	}
	require.NoError(t, fx.fillNewPatient(ctx))

	require.Error(t, fx.session.Submit(ctx))
	require.Error(t, fx.session.Submit(ctx))
	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, MsgUnexpectedError, fx.session.ErrorMessage())
}

func TestSubmit_SplitPhases(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))
	s := fx.session

	sub, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, s.Submitting())

	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	patient, appt := sub.Payloads()
	require.NotNil(t, patient)
	assert.Equal(t, "Asha Rao", patient.FullName)
	assert.Equal(t, "10:00", appt.AppointmentTime)

	res, runErr := sub.Run(ctx, fx.dir, fx.book)
	require.NoError(t, runErr)
	assert.True(t, res.PatientCreated)
	require.NoError(t, s.FinishSubmit(sub, res, nil))
	assert.True(t, s.Closed())

	assert.ErrorIs(t, s.FinishSubmit(sub, res, nil), ErrClosed)
}

func TestBuildReferral(t *testing.T) {
	catalogs := testCatalogs()
	tests := []struct {
		name string
		form FormData
		want clinicapi.ReferralPayload
		err  error
	}{
		{
			name: "direct",
			form: FormData{ReferralSource: ReferralDirect},
			want: clinicapi.ReferralPayload{Type: "direct", SourceName: "Walk-in"},
		},
		{
			name: "doctor from catalog",
			form: FormData{ReferralSource: ReferralDoctor, SelectedReferralID: "doc-1"},
			want: clinicapi.ReferralPayload{
				Type: "doctor", SourceName: "Dr. Anil Menon", ContactNumber: "9810000001",
				Hospital: "City ENT Hospital", Specialization: "ENT",
			},
		},
		{
			name: "self referral",
			form: FormData{ReferralSource: ReferralDoctor, ReferralDetails: ReferralDetails{
				ContactNumber: "9820000000", Hospital: "Apollo", Specialization: "Neurology",
			}},
			want: clinicapi.ReferralPayload{
				Type: "doctor", SourceName: "Self-referral", ContactNumber: "9820000000",
				Hospital: "Apollo", Specialization: "Neurology",
			},
		},
		{
			name: "hear.com",
			form: FormData{ReferralSource: ReferralHearCom},
			want: clinicapi.ReferralPayload{Type: "doctor", SourceName: "Hear.com"},
		},
		{
			name: "missing",
			form: FormData{},
			err:  ErrReferralRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildReferral(tt.form, catalogs)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, "Referral source information is required", ClassifyError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPatientPayload_B2BOptionalFields(t *testing.T) {
	f := FormData{
		FullName:        "Ravi Kumar",
		MobileNumber:    "9876543210",
		DateOfBirth:     "1975-01-30",
		Gender:          GenderMale,
		Occupation:      "Engineer",
		CustomerType:    CustomerB2B,
		Email:           "ravi@example.com",
		AlternateNumber: "9123456780",
		HospitalName:    "City ENT Hospital",
	}
	p, err := BuildPatientPayload(f)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", p.Email)
	assert.Equal(t, "9123456780", p.AlternateNumber)
	assert.Equal(t, "City ENT Hospital", p.HospitalName)
	assert.Empty(t, p.OPIPNumber)

	f.CustomerType = CustomerB2C
	p, err = BuildPatientPayload(f)
	require.NoError(t, err)
	assert.Empty(t, p.HospitalName)

	f.DateOfBirth = "30/01/1975"
	_, err = BuildPatientPayload(f)
	assert.ErrorIs(t, err, ErrDateOfBirthInvalid)
}

func TestSubmit_B2BSendsHospitalName(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	require.NoError(t, fx.fillNewPatient(ctx))
	s := fx.session
	require.NoError(t, s.SetCustomerType(CustomerB2B))
	s.SetHospitalName("City ENT Hospital")
	s.SetNotes("Referred by camp")

	require.NoError(t, s.Submit(ctx))
	require.Len(t, fx.book.booked, 1)
	assert.Equal(t, "City ENT Hospital", fx.book.booked[0].HospitalName)
	assert.Equal(t, "Referred by camp", fx.book.booked[0].Notes)
	assert.Equal(t, "City ENT Hospital", fx.dir.created[0].HospitalName)
}
