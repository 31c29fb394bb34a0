// Package workerproc turns queued export jobs into printed exports. It is
// shared by the long-running worker and the Lambda worker.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resume-builder/internal/exports"
	"resume-builder/internal/queue"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// Processor prints one job. *exports.Service satisfies it.
type Processor interface {
	CreateForJob(ctx context.Context, jobID, owner string, rec model.Record, t render.Template) (exports.Export, error)
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidJob indicates a decoded job that can never be printed: no job
// id, no owner, an unknown layout or a payload version this build cannot read.
type ErrInvalidJob struct {
	Meta      MessageMeta
	JobID     string
	RequestID string
	Reason    string
}

func (e ErrInvalidJob) Error() string { return "invalid export job: " + e.Reason }

// ErrProcess indicates printing failed after successful parsing.
type ErrProcess struct {
	JobID     string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process export"
	}
	return "process export: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether retrying the message can never succeed.
// Workers drop such messages instead of returning them to the queue.
func Unrecoverable(err error) bool {
	var empty ErrEmptyBody
	var decode ErrDecode
	var invalid ErrInvalidJob
	if errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &invalid) {
		return true
	}
	return errors.Is(err, exports.ErrInvalidInput)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}

	invalid := func(reason string) error {
		return ErrInvalidJob{Meta: meta, JobID: msg.JobID, RequestID: msg.RequestID, Reason: reason}
	}
	switch {
	case msg.Version > queue.MessageVersion:
		return msg, meta, invalid("unsupported version")
	case strings.TrimSpace(msg.JobID) == "":
		return msg, meta, invalid("missing job id")
	case strings.TrimSpace(msg.Owner) == "":
		return msg, meta, invalid("missing owner")
	}
	if _, err := render.ParseTemplate(msg.Template); err != nil {
		return msg, meta, invalid(err.Error())
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates and prints a message payload.
func HandleMessage(ctx context.Context, processor Processor, body string) (exports.Export, error) {
	if processor == nil {
		return exports.Export{}, errors.New("export service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return exports.Export{}, err
		}
	}

	if msg.RequestID != "" {
		ctx = telemetry.WithRequestID(ctx, msg.RequestID)
	}
	exp, err := processor.CreateForJob(ctx, msg.JobID, msg.Owner, msg.Record, render.Template(msg.Template))
	if err != nil {
		return exports.Export{}, ErrProcess{JobID: msg.JobID, RequestID: msg.RequestID, Err: err}
	}
	return exp, nil
}
