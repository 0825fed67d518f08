package sandbox

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// SeedOptions controls the data a new Store starts with.
type SeedOptions struct {
	// Patients is the number of generated demo patients.
	Patients int
	// RNG drives generated data; nil uses a time-seeded generator.
	RNG *rand.Rand
	// Now is the reference time for generated birth dates.
	Now time.Time
}

var occupations = []string{
	"Teacher", "Engineer", "Retired", "Homemaker", "Accountant", "Driver",
	"Shopkeeper", "Nurse", "Student", "Farmer",
}

// DefaultCatalogs returns the reference lists served by the sandbox.
// Ids are stable so drafts and tests can refer to them.
func DefaultCatalogs() (audiologists []clinicapi.Audiologist, diagnostics []clinicapi.Diagnostic, doctors []clinicapi.Doctor, hospitals []clinicapi.Hospital) {
	audiologists = []clinicapi.Audiologist{
		{ID: "aud-001", Name: "Dr. Meera Iyer", Email: "meera.iyer@clinic.example", Specialization: "Paediatric audiology"},
		{ID: "aud-002", Name: "Dr. Karan Shah", Email: "karan.shah@clinic.example", Specialization: "Hearing aids"},
		{ID: "aud-003", Name: "Dr. Lakshmi Nair", Email: "lakshmi.nair@clinic.example", Specialization: "Tinnitus"},
	}
	diagnostics = []clinicapi.Diagnostic{
		{ID: "dx-pta", Name: "Pure Tone Audiometry", Description: "Air and bone conduction thresholds", Price: 800},
		{ID: "dx-tymp", Name: "Tympanometry", Description: "Middle ear function", Price: 500},
		{ID: "dx-oae", Name: "OAE Screening", Description: "Otoacoustic emissions", Price: 900},
		{ID: "dx-bera", Name: "BERA", Description: "Brainstem evoked response audiometry", Price: 2500},
		{ID: "dx-trial", Name: "Hearing Aid Trial", Description: "Fitting and trial of a demo device", Price: 0},
	}
	doctors = []clinicapi.Doctor{
		{ID: "doc-001", Name: "Dr. Anil Menon", Phone: "9810000001", Hospital: "City ENT Hospital", Specialization: "ENT"},
		{ID: "doc-002", Name: "Dr. Priya Kapoor", Phone: "9810000002", Hospital: "Sunrise Multispeciality", Specialization: "Paediatrics"},
		{ID: "doc-003", Name: "Dr. Suresh Reddy", Phone: "9810000003", Hospital: "Apollo Clinic", Specialization: "Neurology"},
	}
	hospitals = []clinicapi.Hospital{
		{ID: "hos-001", Name: "City ENT Hospital", Address: "12 MG Road"},
		{ID: "hos-002", Name: "Sunrise Multispeciality", Address: "4 Lake View"},
		{ID: "hos-003", Name: "Apollo Clinic", Address: "88 Ring Road"},
	}
	return audiologists, diagnostics, doctors, hospitals
}

func generatePatients(opts SeedOptions) []clinicapi.Patient {
	rng := opts.RNG
	if rng == nil {
		rng = defaultRNG
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	genders := []string{"Male", "Female", "Other"}
	out := make([]clinicapi.Patient, 0, opts.Patients)
	seen := make(map[string]bool, opts.Patients)
	for len(out) < opts.Patients {
		phone := GeneratePhone(rng)
		if seen[phone] {
			continue
		}
		seen[phone] = true

		gender := genders[rng.IntN(len(genders))]
		out = append(out, clinicapi.Patient{
			ID:           uuid.NewString(),
			FullName:     GeneratePersonName(gender, rng),
			MobileNumber: phone,
			DateOfBirth:  GenerateDateOfBirth(now, rng),
			Gender:       gender,
			Occupation:   occupations[rng.IntN(len(occupations))],
			CustomerType: "B2C",
		})
	}
	return out
}
