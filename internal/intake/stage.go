package intake

// Stage is one step of the intake form. Stages form a closed, ordered
// list; navigation moves by exactly one stage at a time.
type Stage int

const (
	StagePhone Stage = iota + 1
	StagePatient
	StageAudiologist
	StageReferral
	StageSchedule
	StageProcedures
	StageReview
	StageNotes
)

const (
	FirstStage = StagePhone
	LastStage  = StageNotes
)

// stageSpec binds a stage to its title and to the single predicate that
// decides both whether its Continue action is enabled and whether Next
// may leave it.
type stageSpec struct {
	title    string
	validate func(s *Session) error
}

var stageSpecs = [...]stageSpec{
	StagePhone:       {title: "Phone Number", validate: validatePhoneStage},
	StagePatient:     {title: "Patient Details", validate: alwaysValid},
	StageAudiologist: {title: "Audiologist", validate: validateAudiologistStage},
	StageReferral:    {title: "Referral Source", validate: validateReferralStage},
	StageSchedule:    {title: "Date & Time", validate: validateScheduleStage},
	StageProcedures:  {title: "Procedures", validate: alwaysValid},
	StageReview:      {title: "Review & Confirm", validate: alwaysValid},
	StageNotes:       {title: "Notes", validate: alwaysValid},
}

// Stages returns every stage in order.
func Stages() []Stage {
	out := make([]Stage, 0, int(LastStage))
	for st := FirstStage; st <= LastStage; st++ {
		out = append(out, st)
	}
	return out
}

// Valid reports whether st is one of the eight stages.
func (st Stage) Valid() bool {
	return st >= FirstStage && st <= LastStage
}

// String returns the stage title.
func (st Stage) String() string {
	if !st.Valid() {
		return "Unknown"
	}
	return stageSpecs[st].title
}

func (st Stage) validate(s *Session) error {
	return stageSpecs[st].validate(s)
}

func alwaysValid(*Session) error { return nil }

func validatePhoneStage(s *Session) error {
	if s.lookupInFlight {
		return ErrLookupInFlight
	}
	if len(s.form.PhoneNumber) < PhoneDigits {
		return ErrPhoneRequired
	}
	return nil
}

func validateAudiologistStage(s *Session) error {
	if s.form.SelectedAudiologist == "" {
		return ErrAudiologistRequired
	}
	return nil
}

func validateReferralStage(s *Session) error {
	if s.form.ReferralSource == "" {
		return ErrReferralSourceRequired
	}
	if s.form.ReferralSource == ReferralDoctor && s.form.SelectedReferralID == "" {
		return ErrReferralDoctorRequired
	}
	return nil
}

func validateScheduleStage(s *Session) error {
	f := &s.form
	switch {
	case f.AppointmentDate == "":
		return ErrDateRequired
	case !validDate(f.AppointmentDate):
		return ErrDateInvalid
	case f.AppointmentTime == "":
		return ErrTimeRequired
	}
	if _, ok := parseClock(f.AppointmentTime); !ok {
		return ErrTimeInvalid
	}
	if _, ok := parseDuration(f.Duration); !ok {
		return ErrDurationInvalid
	}
	return nil
}
