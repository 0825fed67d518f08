package intake

import (
	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// BeginLookup starts the phone stage's Next action. When the directory
// has already answered for this phone number it advances to the patient
// stage and returns started=false; otherwise it marks a lookup in flight
// and returns the number to look up.
func (s *Session) BeginLookup() (phone string, started bool, err error) {
	if s.closed {
		return "", false, ErrClosed
	}
	if s.stage != StagePhone {
		return "", false, s.advance()
	}
	if err := s.fail(validatePhoneStage(s)); err != nil {
		return "", false, err
	}

	if s.lookedUpPhone == s.form.PhoneNumber {
		s.stage = StagePatient
		return "", false, nil
	}

	s.lookupInFlight = true
	return s.form.PhoneNumber, true, nil
}

// ApplyLookup records the directory's answer. A match fills the patient
// fields and moves to the patient stage. No match, or any error, only
// seeds the mobile number: the user continues by hand.
func (s *Session) ApplyLookup(result clinicapi.LookupResult, err error) bool {
	if !s.lookupInFlight || s.closed {
		return false
	}
	s.lookupInFlight = false
	s.lookedUpPhone = s.form.PhoneNumber

	if err != nil || !result.Found || result.Patient == nil {
		if err != nil {
			s.log.Warn().Err(err).Msg("patient lookup failed")
		} else {
			s.log.Info().Msg("no patient for phone number")
		}
		s.existingUser = nil
		s.form.MobileNumber = s.form.PhoneNumber
		return false
	}

	p := *result.Patient
	s.existingUser = &p
	s.fillFromPatient(p)
	s.stage = StagePatient
	s.log.Info().Str("patient_id", p.ID).Msg("existing patient found")
	return true
}

func (s *Session) fillFromPatient(p clinicapi.Patient) {
	f := &s.form
	f.FullName = p.FullName
	f.Email = p.Email
	f.MobileNumber = SanitizePhone(p.MobileNumber)
	if f.MobileNumber == "" {
		f.MobileNumber = f.PhoneNumber
	}
	f.DateOfBirth = normalizeDate(p.DateOfBirth)
	f.Gender = Gender(p.Gender)
	f.Occupation = p.Occupation
	f.AlternateNumber = SanitizePhone(p.AlternateNumber)

	f.CustomerType = CustomerType(p.CustomerType)
	if !f.CustomerType.Valid() {
		f.CustomerType = CustomerB2C
	}
	if f.CustomerType == CustomerB2B {
		f.ReferralSource = ReferralDirect
		f.SelectedReferralID = ""
		f.ReferralDetails = ReferralDetails{}
	}
	if p.HospitalName != "" {
		f.HospitalName = p.HospitalName
	}
	if p.OPIPNumber != "" {
		f.OPIPNumber = p.OPIPNumber
	}
}
