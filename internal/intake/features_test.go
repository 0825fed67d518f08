package intake_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/intake"
	"github.com/mrsinham/clinicdesk/internal/sandbox"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// scenarioContext holds state for a single scenario
type scenarioContext struct {
	server  *httptest.Server
	backend *sandbox.Server
	client  *clinicapi.Client
	session *intake.Session

	known     map[string]bool // patient ids that exist independently of the wizard
	booked    []intake.AppointmentSummary
	submitErr error
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &scenarioContext{}

	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	sc.Step(`^the clinic backend is running$`, tc.theClinicBackendIsRunning)
	sc.Step(`^an intake session is open$`, tc.anIntakeSessionIsOpen)
	sc.Step(`^(?:a registered patient|another desk registers) "([^"]*)" with phone "([^"]*)"$`, tc.aRegisteredPatient)
	sc.Step(`^the audiologist "([^"]*)" is booked tomorrow at "([^"]*)" for (\d+) minutes$`, tc.theAudiologistIsBooked)
	sc.Step(`^the audiologist "([^"]*)" is away tomorrow$`, tc.theAudiologistIsAway)

	sc.Step(`^I enter the phone number "([^"]*)"$`, tc.iEnterThePhoneNumber)
	sc.Step(`^I press Next$`, tc.iPressNext)
	sc.Step(`^I go back$`, tc.iGoBack)
	sc.Step(`^I fill the patient "([^"]*)" born "([^"]*)" gender "([^"]*)" occupation "([^"]*)" type "([^"]*)"$`, tc.iFillThePatient)
	sc.Step(`^I select the audiologist "([^"]*)"$`, tc.iSelectTheAudiologist)
	sc.Step(`^I choose the referral source "([^"]*)"$`, tc.iChooseTheReferralSource)
	sc.Step(`^I select the referring doctor "([^"]*)"$`, tc.iSelectTheReferringDoctor)
	sc.Step(`^I schedule tomorrow at "([^"]*)" for "([^"]*)" minutes$`, tc.iScheduleTomorrow)
	sc.Step(`^I select the procedures "([^"]*)"$`, tc.iSelectTheProcedures)
	sc.Step(`^I register a new patient "([^"]*)" with phone "([^"]*)" for "([^"]*)" tomorrow at "([^"]*)"$`, tc.iRegisterANewPatient)
	sc.Step(`^I submit$`, tc.iSubmit)

	sc.Step(`^the stage should be "([^"]*)"$`, tc.theStageShouldBe)
	sc.Step(`^the mobile number should be "([^"]*)"$`, tc.theMobileNumberShouldBe)
	sc.Step(`^the full name should be "([^"]*)"$`, tc.theFullNameShouldBe)
	sc.Step(`^the error message should be "([^"]*)"$`, tc.theErrorMessageShouldBe)
	sc.Step(`^the submission should succeed$`, tc.theSubmissionShouldSucceed)
	sc.Step(`^the submission should fail with "([^"]*)"$`, tc.theSubmissionShouldFailWith)
	sc.Step(`^the backend should have (\d+) new patients?(?: named "([^"]*)")?$`, tc.theBackendShouldHaveNewPatients)
	sc.Step(`^the last appointment should have procedures "([^"]*)"$`, tc.theLastAppointmentShouldHaveProcedures)
	sc.Step(`^the last appointment should last (\d+) minutes$`, tc.theLastAppointmentShouldLast)
	sc.Step(`^the last appointment referral should be "([^"]*)" from "([^"]*)"$`, tc.theLastAppointmentReferralShouldBe)
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func (tc *scenarioContext) theClinicBackendIsRunning() error {
	tc.backend = sandbox.NewServer(sandbox.NewStore(sandbox.SeedOptions{Patients: 5}), sandbox.Options{})
	tc.server = httptest.NewServer(tc.backend.Routes())

	client, err := clinicapi.New(clinicapi.Config{BaseURL: tc.server.URL, Timeout: 5 * time.Second})
	if err != nil {
		return err
	}
	tc.client = client

	tc.known = make(map[string]bool)
	for _, p := range tc.backend.Store().Patients() {
		tc.known[p.ID] = true
	}
	return nil
}

func (tc *scenarioContext) anIntakeSessionIsOpen() error {
	svc := intake.Services{Patients: tc.client, Appointments: tc.client, Catalogs: tc.client}
	s, err := intake.Open(context.Background(), svc, intake.Options{
		OnAppointmentCreated: func(sum intake.AppointmentSummary) {
			tc.booked = append(tc.booked, sum)
		},
	})
	if err != nil {
		return err
	}
	tc.session = s
	return nil
}

func (tc *scenarioContext) aRegisteredPatient(name, phone string) error {
	p := tc.backend.Store().AddPatient(clinicapi.Patient{
		FullName:     name,
		MobileNumber: phone,
		DateOfBirth:  "1975-01-30",
		Gender:       "Male",
		Occupation:   "Engineer",
		CustomerType: "B2C",
	})
	tc.known[p.ID] = true
	return nil
}

func (tc *scenarioContext) theAudiologistIsBooked(audiologistID, clock string, minutes int) error {
	p := tc.backend.Store().AddPatient(clinicapi.Patient{FullName: "Booked Patient", MobileNumber: "9111111111"})
	tc.known[p.ID] = true

	start, err := time.Parse("2006-01-02 15:04", tomorrow()+" "+clock)
	if err != nil {
		return err
	}
	_, err = tc.backend.Store().CreateAppointment(clinicapi.AppointmentPayload{
		PatientID:           p.ID,
		AudiologistID:       audiologistID,
		AppointmentDate:     tomorrow(),
		AppointmentTime:     clock,
		AppointmentDuration: minutes,
		Procedures:          intake.DefaultProcedure,
		ReferralSource:      clinicapi.ReferralPayload{Type: clinicapi.ReferralTypeDirect, SourceName: "Walk-in"},
	}, start)
	return err
}

func (tc *scenarioContext) theAudiologistIsAway(audiologistID string) error {
	tc.backend.Store().MarkAway(audiologistID, tomorrow())
	return nil
}

func (tc *scenarioContext) iEnterThePhoneNumber(phone string) error {
	tc.session.SetPhoneNumber(phone)
	return nil
}

// iPressNext ignores validation errors: scenarios assert on the stage and
// the error message instead.
func (tc *scenarioContext) iPressNext() error {
	_ = tc.session.Next(context.Background())
	return nil
}

func (tc *scenarioContext) iGoBack() error {
	tc.session.Back()
	return nil
}

func (tc *scenarioContext) iFillThePatient(name, dob, gender, occupation, customerType string) error {
	s := tc.session
	s.SetFullName(name)
	s.SetDateOfBirth(dob)
	s.SetOccupation(occupation)
	if err := s.SetGender(intake.Gender(gender)); err != nil {
		return err
	}
	return s.SetCustomerType(intake.CustomerType(customerType))
}

func (tc *scenarioContext) iSelectTheAudiologist(id string) error {
	return tc.session.SelectAudiologist(id)
}

func (tc *scenarioContext) iChooseTheReferralSource(source string) error {
	return tc.session.SetReferralSource(intake.ReferralSource(source))
}

func (tc *scenarioContext) iSelectTheReferringDoctor(id string) error {
	return tc.session.SelectReferralDoctor(id)
}

func (tc *scenarioContext) iScheduleTomorrow(clock, minutes string) error {
	tc.session.SetAppointmentDate(tomorrow())
	tc.session.SetAppointmentTime(clock)
	tc.session.SetDuration(minutes)
	return nil
}

func (tc *scenarioContext) iSelectTheProcedures(ids string) error {
	return tc.session.SetProcedures(strings.Split(ids, ","))
}

// iRegisterANewPatient walks the whole form for an unknown phone number
// up to the review stage.
func (tc *scenarioContext) iRegisterANewPatient(name, phone, audiologistID, clock string) error {
	ctx := context.Background()
	s := tc.session

	s.SetPhoneNumber(phone)
	steps := []func() error{
		func() error { return s.Next(ctx) },
		func() error { return s.Next(ctx) },
		func() error {
			s.SetFullName(name)
			s.SetDateOfBirth("1988-06-14")
			s.SetOccupation("Teacher")
			return s.SetGender(intake.GenderFemale)
		},
		func() error { return s.Next(ctx) },
		func() error { return s.SelectAudiologist(audiologistID) },
		func() error { return s.Next(ctx) },
		func() error { return s.SetReferralSource(intake.ReferralDirect) },
		func() error { return s.Next(ctx) },
		func() error { return tc.iScheduleTomorrow(clock, "30") },
		func() error { return s.Next(ctx) },
		func() error { return s.Next(ctx) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	if s.Stage() != intake.StageReview {
		return fmt.Errorf("expected the review stage, got %q (%s)", s.Stage(), s.ErrorMessage())
	}
	return nil
}

func (tc *scenarioContext) iSubmit() error {
	tc.submitErr = tc.session.Submit(context.Background())
	return nil
}

func (tc *scenarioContext) theStageShouldBe(title string) error {
	if got := tc.session.Stage().String(); got != title {
		return fmt.Errorf("expected stage %q, got %q", title, got)
	}
	return nil
}

func (tc *scenarioContext) theMobileNumberShouldBe(phone string) error {
	if got := tc.session.Form().MobileNumber; got != phone {
		return fmt.Errorf("expected mobile number %q, got %q", phone, got)
	}
	return nil
}

func (tc *scenarioContext) theFullNameShouldBe(name string) error {
	if got := tc.session.Form().FullName; got != name {
		return fmt.Errorf("expected full name %q, got %q", name, got)
	}
	return nil
}

func (tc *scenarioContext) theErrorMessageShouldBe(msg string) error {
	if got := tc.session.ErrorMessage(); got != msg {
		return fmt.Errorf("expected error message %q, got %q", msg, got)
	}
	return nil
}

func (tc *scenarioContext) theSubmissionShouldSucceed() error {
	if tc.submitErr != nil {
		return fmt.Errorf("expected success, got %v (%s)", tc.submitErr, tc.session.ErrorMessage())
	}
	if !tc.session.Closed() {
		return fmt.Errorf("expected the session to be closed")
	}
	if len(tc.booked) != 1 {
		return fmt.Errorf("expected 1 booking callback, got %d", len(tc.booked))
	}
	return nil
}

func (tc *scenarioContext) theSubmissionShouldFailWith(msg string) error {
	if tc.submitErr == nil {
		return fmt.Errorf("expected the submission to fail")
	}
	if got := tc.session.ErrorMessage(); got != msg {
		return fmt.Errorf("expected error message %q, got %q", msg, got)
	}
	if tc.session.Closed() {
		return fmt.Errorf("expected the session to stay open")
	}
	return nil
}

func (tc *scenarioContext) theBackendShouldHaveNewPatients(count int, name string) error {
	var created []clinicapi.Patient
	for _, p := range tc.backend.Store().Patients() {
		if !tc.known[p.ID] {
			created = append(created, p)
		}
	}
	if len(created) != count {
		return fmt.Errorf("expected %d new patients, got %d", count, len(created))
	}
	if name != "" && count > 0 && created[0].FullName != name {
		return fmt.Errorf("expected new patient %q, got %q", name, created[0].FullName)
	}
	return nil
}

func (tc *scenarioContext) lastAppointment() (clinicapi.Appointment, error) {
	appts := tc.backend.Store().Appointments()
	if len(appts) == 0 {
		return clinicapi.Appointment{}, fmt.Errorf("no appointment booked")
	}
	return appts[len(appts)-1], nil
}

func (tc *scenarioContext) theLastAppointmentShouldHaveProcedures(procedures string) error {
	appt, err := tc.lastAppointment()
	if err != nil {
		return err
	}
	if appt.Procedures != procedures {
		return fmt.Errorf("expected procedures %q, got %q", procedures, appt.Procedures)
	}
	return nil
}

func (tc *scenarioContext) theLastAppointmentShouldLast(minutes int) error {
	appt, err := tc.lastAppointment()
	if err != nil {
		return err
	}
	if appt.AppointmentDuration != minutes {
		return fmt.Errorf("expected %d minutes, got %d", minutes, appt.AppointmentDuration)
	}
	return nil
}

func (tc *scenarioContext) theLastAppointmentReferralShouldBe(kind, source string) error {
	appt, err := tc.lastAppointment()
	if err != nil {
		return err
	}
	if appt.ReferralSource.Type != kind || appt.ReferralSource.SourceName != source {
		return fmt.Errorf("expected referral %s/%s, got %s/%s", kind, source,
			appt.ReferralSource.Type, appt.ReferralSource.SourceName)
	}
	return nil
}
