package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/form"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// Records is the persistence the workspace saves to and loads from.
type Records interface {
	Save(ctx context.Context, owner string, rec model.Record) error
	Load(ctx context.Context, owner string) (map[string]any, error)
	Reset(ctx context.Context, owner string) error
}

// Service applies form actions to an owner's workspace.
type Service struct {
	Forms   *Registry
	Records Records
}

// NewService constructs a Service with an empty registry.
func NewService(records Records) *Service {
	return &Service{Forms: NewRegistry(), Records: records}
}

// Snapshot gathers the owner's form.
func (s *Service) Snapshot(ctx context.Context, owner string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	var rec model.Record
	err := s.Forms.With(owner, func(f *form.Form) error {
		rec = f.Gather()
		return nil
	})
	return rec, err
}

// Replace overwrites the whole form with rec.
func (s *Service) Replace(ctx context.Context, owner string, rec model.Record) (model.Record, error) {
	return s.mutate(ctx, owner, func(f *form.Form) error {
		f.PopulateRecord(rec)
		return nil
	})
}

// SetFields assigns scalar controls. Either every name is known and all are
// applied, or nothing changes.
func (s *Service) SetFields(ctx context.Context, owner string, values map[string]string) (model.Record, error) {
	return s.mutate(ctx, owner, func(f *form.Form) error {
		for _, name := range sortedKeys(values) {
			if _, err := f.Field(name); err != nil {
				return err
			}
		}
		for name, v := range values {
			if err := f.SetField(name, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddBlock appends a block to section, optionally pre-filled, and returns its index.
func (s *Service) AddBlock(ctx context.Context, owner string, section form.Section, values map[string]string) (int, model.Record, error) {
	if err := checkBlockFields(section, values); err != nil {
		return 0, model.Record{}, err
	}
	var index int
	rec, err := s.mutate(ctx, owner, func(f *form.Form) error {
		i, err := f.AddBlock(section)
		if err != nil {
			return err
		}
		index = i
		return setBlockFields(f, section, i, values)
	})
	return index, rec, err
}

// UpdateBlock assigns sub-fields of one block.
func (s *Service) UpdateBlock(ctx context.Context, owner string, section form.Section, index int, values map[string]string) (model.Record, error) {
	if err := checkBlockFields(section, values); err != nil {
		return model.Record{}, err
	}
	return s.mutate(ctx, owner, func(f *form.Form) error {
		return setBlockFields(f, section, index, values)
	})
}

// RemoveBlock deletes one block; its siblings are untouched.
func (s *Service) RemoveBlock(ctx context.Context, owner string, section form.Section, index int) (model.Record, error) {
	return s.mutate(ctx, owner, func(f *form.Form) error {
		return f.RemoveBlock(section, index)
	})
}

// AddSkill appends a skill tag.
func (s *Service) AddSkill(ctx context.Context, owner, text string) (model.Record, error) {
	return s.mutate(ctx, owner, func(f *form.Form) error {
		return f.AddSkill(text)
	})
}

// RemoveSkill deletes one skill tag.
func (s *Service) RemoveSkill(ctx context.Context, owner string, index int) (model.Record, error) {
	return s.mutate(ctx, owner, func(f *form.Form) error {
		return f.RemoveSkill(index)
	})
}

// SelectPhoto decodes the image and replaces the held photo when it completes.
// The owner's form stays available for other actions while decoding runs.
func (s *Service) SelectPhoto(ctx context.Context, owner string, r io.Reader, contentType string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	var done <-chan error
	_ = s.Forms.With(owner, func(f *form.Form) error {
		done = f.SelectPhoto(r, contentType)
		return nil
	})
	select {
	case err := <-done:
		if err != nil {
			return model.Record{}, err
		}
	case <-ctx.Done():
		return model.Record{}, ctx.Err()
	}
	return s.Snapshot(ctx, owner)
}

// Save gathers the form and persists it.
func (s *Service) Save(ctx context.Context, owner string) (model.Record, error) {
	rec, err := s.Snapshot(ctx, owner)
	if err != nil {
		return model.Record{}, err
	}
	if err := s.Records.Save(ctx, owner, rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// Load replaces the form with the stored record. When nothing is stored or the
// stored data is unreadable the form is left as it was.
func (s *Service) Load(ctx context.Context, owner string) (model.Record, error) {
	stored, err := s.Records.Load(ctx, owner)
	if err != nil {
		return model.Record{}, err
	}
	return s.mutate(ctx, owner, func(f *form.Form) error {
		f.Populate(stored)
		return nil
	})
}

// Reset clears the form and deletes the stored record. It does nothing unless confirmed.
func (s *Service) Reset(ctx context.Context, owner string, confirmed bool) (model.Record, error) {
	if !confirmed {
		return model.Record{}, ErrConfirmationRequired
	}
	if err := s.Records.Reset(ctx, owner); err != nil {
		return model.Record{}, err
	}
	return s.mutate(ctx, owner, func(f *form.Form) error {
		f.Clear()
		return nil
	})
}

// Preview gathers the form and renders the document with t shown first.
func (s *Service) Preview(ctx context.Context, owner string, t render.Template) (string, error) {
	rec, err := s.Snapshot(ctx, owner)
	if err != nil {
		return "", err
	}
	return RenderDocument(rec, t)
}

// RenderDocument renders rec and records timing. Failures are logged with
// their detail and returned wrapped in ErrGeneration.
func RenderDocument(rec model.Record, t render.Template) (string, error) {
	start := time.Now()
	doc, err := render.Render(rec, t)
	metrics.ObserveRenderDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncPreviewFailed()
		telemetry.Error("preview.failed", map[string]any{
			"template": string(t),
			"error":    err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	metrics.IncPreviewRendered()
	return doc, nil
}

func (s *Service) mutate(ctx context.Context, owner string, fn func(f *form.Form) error) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	var rec model.Record
	err := s.Forms.With(owner, func(f *form.Form) error {
		if err := fn(f); err != nil {
			return err
		}
		rec = f.Gather()
		return nil
	})
	if err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func checkBlockFields(section form.Section, values map[string]string) error {
	known := make(map[string]struct{})
	for _, name := range section.Fields() {
		known[name] = struct{}{}
	}
	if len(known) == 0 {
		return fmt.Errorf("%w: %q", form.ErrUnknownSection, section)
	}
	var unknown []string
	for name := range values {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s.%s", form.ErrUnknownField, section, strings.Join(unknown, ","))
	}
	return nil
}

func setBlockFields(f *form.Form, section form.Section, index int, values map[string]string) error {
	if len(values) == 0 {
		// Still validates the index.
		_, err := blockAt(f, section, index)
		return err
	}
	for _, name := range sortedKeys(values) {
		if err := f.SetBlockField(section, index, name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func blockAt(f *form.Form, section form.Section, index int) (form.Block, error) {
	blocks := f.Blocks(section)
	if index < 0 || index >= len(blocks) {
		return form.Block{}, fmt.Errorf("%w: %s[%d]", form.ErrBlockIndex, section, index)
	}
	return blocks[index], nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsFormError reports whether err came from a rejected form action.
func IsFormError(err error) bool {
	for _, target := range []error{
		form.ErrUnknownSection,
		form.ErrUnknownField,
		form.ErrBlockIndex,
		form.ErrSkillIndex,
		form.ErrEmptySkill,
		form.ErrEmptyPhoto,
		render.ErrUnknownTemplate,
		ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
