package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/queue"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/pdf"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

const pdfContentType = "application/pdf"

// Service prints resumes to PDF and keeps the results.
type Service struct {
	Store    object.Store
	Repo     Repo
	Renderer pdf.Renderer
	// Queue receives jobs from Enqueue. Nil disables asynchronous exports.
	Queue queue.Client
	Now   func() time.Time
}

// Job is an export accepted for asynchronous printing.
type Job struct {
	ID         string
	Template   string
	EnqueuedAt time.Time
}

// Create renders rec with t as the visible layout, prints it, stores the PDF
// and records the export.
func (s *Service) Create(ctx context.Context, owner string, rec model.Record, t render.Template) (Export, error) {
	return s.create(ctx, uuid.NewString(), owner, rec, t)
}

// CreateForJob prints a queued job. The export takes the job ID, so a
// redelivered job returns the export already recorded for it.
func (s *Service) CreateForJob(ctx context.Context, jobID, owner string, rec model.Record, t render.Template) (Export, error) {
	if strings.TrimSpace(jobID) == "" {
		return Export{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(owner) != "" {
		existing, err := s.Repo.GetByID(ctx, owner, jobID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Export{}, err
		}
	}
	return s.create(ctx, jobID, owner, rec, t)
}

func (s *Service) create(ctx context.Context, id, owner string, rec model.Record, t render.Template) (Export, error) {
	if strings.TrimSpace(owner) == "" {
		return Export{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if _, err := render.ParseTemplate(string(t)); err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start := time.Now()
	data, err := s.print(ctx, rec, t)
	metrics.ObserveExportDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncExportFailed()
		telemetry.Error("export.failed", telemetry.Fields(ctx, map[string]any{
			"owner_id": owner,
			"template": string(t),
			"error":    err,
		}))
		return Export{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	pages, err := pdf.PageCount(ctx, data)
	if err != nil {
		telemetry.Warn("export.inspect_failed", map[string]any{
			"owner_id": owner,
			"error":    err,
		})
		pages = 0
	}

	fileName := render.FileName(rec.Name, t)
	obj, err := s.Store.Put(ctx, owner, fileName, pdfContentType, bytes.NewReader(data))
	if err != nil {
		metrics.IncExportFailed()
		return Export{}, fmt.Errorf("store export: %w", err)
	}

	exp := Export{
		ID:          id,
		OwnerID:     owner,
		Template:    string(t),
		FileName:    fileName,
		StorageKey:  obj.Key,
		ContentType: pdfContentType,
		SizeBytes:   obj.Size,
		PageCount:   pages,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, exp); err != nil {
		if delErr := s.Store.Delete(ctx, obj.Key); delErr != nil {
			telemetry.Warn("export.cleanup_failed", map[string]any{"storage_key": obj.Key, "error": delErr})
		}
		metrics.IncExportFailed()
		return Export{}, fmt.Errorf("record export: %w", err)
	}

	metrics.IncExportCreated()
	telemetry.Info("export.created", telemetry.Fields(ctx, map[string]any{
		"export_id":  exp.ID,
		"owner_id":   owner,
		"template":   exp.Template,
		"size_bytes": exp.SizeBytes,
		"page_count": exp.PageCount,
	}))
	return exp, nil
}

// Enqueue hands the export to a worker. The record travels inside the job so
// the worker does not need the caller's workspace.
func (s *Service) Enqueue(ctx context.Context, owner string, rec model.Record, t render.Template) (Job, error) {
	if s.Queue == nil {
		return Job{}, ErrQueueUnavailable
	}
	if strings.TrimSpace(owner) == "" {
		return Job{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if _, err := render.ParseTemplate(string(t)); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	job := Job{ID: uuid.NewString(), Template: string(t), EnqueuedAt: s.now()}
	err := s.Queue.Send(ctx, queue.Message{
		JobID:      job.ID,
		Owner:      owner,
		Template:   job.Template,
		Record:     rec.Normalize(),
		RequestID:  telemetry.RequestID(ctx),
		EnqueuedAt: job.EnqueuedAt.Format(time.RFC3339),
		Version:    queue.MessageVersion,
	})
	if err != nil {
		return Job{}, fmt.Errorf("enqueue export: %w", err)
	}
	metrics.IncExportJobsQueued()
	telemetry.Info("export.queued", telemetry.Fields(ctx, map[string]any{
		"job_id":   job.ID,
		"owner_id": owner,
		"template": job.Template,
	}))
	return job, nil
}

func (s *Service) print(ctx context.Context, rec model.Record, t render.Template) ([]byte, error) {
	doc, err := render.Document(rec, render.Options{Initial: t})
	if err != nil {
		return nil, err
	}
	return s.Renderer.RenderHTML(ctx, doc)
}

// Get returns one of the owner's exports.
func (s *Service) Get(ctx context.Context, owner, id string) (Export, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(id) == "" {
		return Export{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, owner, id)
}

// List returns the owner's exports, newest first.
func (s *Service) List(ctx context.Context, owner string, limit, offset int) ([]Export, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, owner, limit, offset)
}

// Open returns the export metadata and a reader for its PDF bytes. The caller closes the reader.
func (s *Service) Open(ctx context.Context, owner, id string) (Export, io.ReadCloser, error) {
	exp, err := s.Get(ctx, owner, id)
	if err != nil {
		return Export{}, nil, err
	}
	rc, err := s.Store.Open(ctx, exp.StorageKey)
	if err != nil {
		return Export{}, nil, fmt.Errorf("open export: %w", err)
	}
	return exp, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
