package wizard

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/clinicdesk/internal/intake"
)

// DraftVersion is written to every draft; LoadDraft rejects newer ones.
const DraftVersion = 1

// ErrDraftVersion is returned for drafts written by a newer clinicdesk.
var ErrDraftVersion = errors.New("unsupported draft version")

// Draft is a saved, not yet submitted intake form.
type Draft struct {
	Version    int             `yaml:"version"`
	SavedAt    time.Time       `yaml:"saved_at"`
	Form       intake.FormData `yaml:"form"`
	Procedures []string        `yaml:"procedures,omitempty"`
}

// DraftFromSession captures the current form of a session.
func DraftFromSession(s *intake.Session, now time.Time) Draft {
	return Draft{
		Version:    DraftVersion,
		SavedAt:    now.UTC().Truncate(time.Second),
		Form:       s.Form(),
		Procedures: s.ProcedureIDs(),
	}
}

// SaveDraft writes d to path as YAML.
func SaveDraft(d Draft, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// LoadDraft reads a draft written by SaveDraft.
func LoadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	if d.Version > DraftVersion {
		return nil, fmt.Errorf("%w: %d", ErrDraftVersion, d.Version)
	}

	return &d, nil
}

// Restore applies the draft to a fresh session.
func (d *Draft) Restore(s *intake.Session) error {
	if err := s.ApplyDraft(d.Form, d.Procedures); err != nil {
		return fmt.Errorf("restoring draft: %w", err)
	}
	return nil
}
