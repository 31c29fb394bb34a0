package workerproc

import (
	"context"
	"errors"
	"testing"

	"resume-builder/internal/exports"
	"resume-builder/internal/queue"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

type recordingProcessor struct {
	err       error
	jobID     string
	template  render.Template
	requestID string
}

func (p *recordingProcessor) CreateForJob(ctx context.Context, jobID, owner string, rec model.Record, t render.Template) (exports.Export, error) {
	p.jobID, p.template, p.requestID = jobID, t, telemetry.RequestID(ctx)
	if p.err != nil {
		return exports.Export{}, p.err
	}
	return exports.Export{ID: jobID, OwnerID: owner}, nil
}

func encode(t *testing.T, msg queue.Message) string {
	t.Helper()
	body, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func validMessage() queue.Message {
	return queue.Message{
		JobID:     "job-1",
		Owner:     "guest:ada",
		Template:  "infographic",
		Record:    model.Record{Name: "Ada"},
		RequestID: "req-1",
		Version:   queue.MessageVersion,
	}
}

func TestParseMessageRejectsUnprintableJobs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*queue.Message)
	}{
		{name: "missing job id", mutate: func(m *queue.Message) { m.JobID = " " }},
		{name: "missing owner", mutate: func(m *queue.Message) { m.Owner = "" }},
		{name: "unknown template", mutate: func(m *queue.Message) { m.Template = "poster" }},
		{name: "future version", mutate: func(m *queue.Message) { m.Version = queue.MessageVersion + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)
			_, meta, err := ParseMessage(encode(t, msg))
			var invalid ErrInvalidJob
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidJob, got %v", err)
			}
			if meta.BodySHA == "" || !Unrecoverable(err) {
				t.Fatalf("expected hashed meta and an unrecoverable error")
			}
		})
	}

	if _, _, err := ParseMessage(""); !errors.As(err, new(ErrEmptyBody)) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, _, err := ParseMessage("{nope"); !errors.As(err, new(ErrDecode)) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestHandleMessagePrintsJob(t *testing.T) {
	proc := &recordingProcessor{}
	exp, err := HandleMessage(context.Background(), proc, encode(t, validMessage()))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if exp.ID != "job-1" || proc.template != render.TemplateInfographic {
		t.Fatalf("unexpected export %+v (template %q)", exp, proc.template)
	}
	if proc.requestID != "req-1" {
		t.Fatalf("expected request id on the processing context, got %q", proc.requestID)
	}
}

func TestHandleMessageUsesParsedMessage(t *testing.T) {
	proc := &recordingProcessor{}
	msg := validMessage()
	msg.JobID = "from-context"
	ctx := WithParsedMessage(context.Background(), msg)

	if _, err := HandleMessage(ctx, proc, "ignored"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if proc.jobID != "from-context" {
		t.Fatalf("expected parsed message to be reused, got %q", proc.jobID)
	}
}

func TestHandleMessageClassifiesFailures(t *testing.T) {
	transient := &recordingProcessor{err: errors.New("chrome crashed")}
	_, err := HandleMessage(context.Background(), transient, encode(t, validMessage()))
	var procErr ErrProcess
	if !errors.As(err, &procErr) || procErr.JobID != "job-1" {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if Unrecoverable(err) {
		t.Fatalf("printer failures must be retried")
	}

	rejected := &recordingProcessor{err: exports.ErrInvalidInput}
	_, err = HandleMessage(context.Background(), rejected, encode(t, validMessage()))
	if !Unrecoverable(err) {
		t.Fatalf("expected invalid input to be unrecoverable, got %v", err)
	}

	if _, err := HandleMessage(context.Background(), nil, "{}"); err == nil {
		t.Fatalf("expected error without a processor")
	}
}
