package intake

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
)

// Catalogs are the read-only reference lists used by the form.
type Catalogs struct {
	Audiologists []clinicapi.Audiologist
	Diagnostics  []clinicapi.Diagnostic
	Doctors      []clinicapi.Doctor
	Hospitals    []clinicapi.Hospital
}

// LoadCatalogs fetches the four catalogs concurrently.
func LoadCatalogs(ctx context.Context, src clinicapi.CatalogLister) (Catalogs, error) {
	var c Catalogs
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := src.ListAudiologists(ctx)
		c.Audiologists = items
		return err
	})
	g.Go(func() error {
		items, err := src.ListDiagnostics(ctx)
		c.Diagnostics = items
		return err
	})
	g.Go(func() error {
		items, err := src.ListDoctors(ctx)
		c.Doctors = items
		return err
	})
	g.Go(func() error {
		items, err := src.ListHospitals(ctx)
		c.Hospitals = items
		return err
	})

	if err := g.Wait(); err != nil {
		return Catalogs{}, fmt.Errorf("load catalogs: %w", err)
	}
	return c, nil
}

// Audiologist finds an audiologist by id.
func (c Catalogs) Audiologist(id string) (clinicapi.Audiologist, bool) {
	for _, a := range c.Audiologists {
		if a.ID == id {
			return a, true
		}
	}
	return clinicapi.Audiologist{}, false
}

// Diagnostic finds a diagnostic by id.
func (c Catalogs) Diagnostic(id string) (clinicapi.Diagnostic, bool) {
	for _, d := range c.Diagnostics {
		if d.ID == id {
			return d, true
		}
	}
	return clinicapi.Diagnostic{}, false
}

// Doctor finds a referring doctor by id.
func (c Catalogs) Doctor(id string) (clinicapi.Doctor, bool) {
	for _, d := range c.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return clinicapi.Doctor{}, false
}
