package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/shared/metrics"
	"resume-builder/resume/model"
)

// StorageKey is the single key every owner's record is saved under.
const StorageKey = "resumeData"

// Service saves and loads the one record each owner keeps.
type Service struct {
	Repo Repo
}

// Save serializes the record and replaces whatever was stored before.
func (s *Service) Save(ctx context.Context, owner string, rec model.Record) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	payload, err := json.Marshal(rec.Normalize())
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.Repo.Put(ctx, owner, StorageKey, payload); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	metrics.IncRecordSaved()
	return nil
}

// Load returns the stored record in its loosely typed form, ready for
// form.Populate. A stored JSON null yields a nil map. Missing data is
// ErrNotFound and unparseable data wraps model.ErrMalformed.
func (s *Service) Load(ctx context.Context, owner string) (map[string]any, error) {
	raw, err := s.Raw(ctx, owner)
	if err != nil {
		return nil, err
	}
	stored, err := model.DecodeStored(raw)
	if err != nil {
		return nil, err
	}
	metrics.IncRecordLoaded()
	return stored, nil
}

// Raw returns the stored bytes unchanged.
func (s *Service) Raw(ctx context.Context, owner string) ([]byte, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	raw, err := s.Repo.Get(ctx, owner, StorageKey)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Reset deletes the stored record. Resetting with nothing stored succeeds.
func (s *Service) Reset(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if err := s.Repo.Delete(ctx, owner, StorageKey); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
