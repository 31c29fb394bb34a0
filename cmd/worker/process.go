package main

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workerproc"
)

type outcome int

const (
	// outcomeDone: printed, remove the message.
	outcomeDone outcome = iota
	// outcomeRetry: leave the message for another attempt.
	outcomeRetry
	// outcomeDrop: the message can never be printed, remove it.
	outcomeDrop
)

// jobTimeout bounds one job, including its acknowledgement. main sets it from
// the queue visibility timeout.
var jobTimeout = 5 * time.Minute

// jobContext detaches a job from the consumer's signal context, so a job that
// has started runs to completion while the worker drains on shutdown.
func jobContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), jobTimeout)
}

// process prints one job body. fields carries transport details for logs and
// is extended in place.
func process(ctx context.Context, proc workerproc.Processor, body string, fields map[string]any) outcome {
	metrics.IncExportJobsReceived()

	decoded, meta, err := workerproc.ParseMessage(body)
	fields["body_len"] = meta.BodyLen
	if meta.BodySHA != "" {
		fields["body_sha256"] = meta.BodySHA
	}
	if err != nil {
		var invalid workerproc.ErrInvalidJob
		if errors.As(err, &invalid) {
			fields["job_id"] = invalid.JobID
			addRequestID(fields, invalid.RequestID)
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.export.rejected", fields)
		return outcomeDrop
	}

	fields["job_id"] = decoded.JobID
	fields["template"] = decoded.Template
	addRequestID(fields, decoded.RequestID)
	telemetry.Info("worker.export.received", fields)

	exp, err := workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, decoded), proc, body)
	if err != nil {
		fields["error"] = err.Error()
		if workerproc.Unrecoverable(err) {
			telemetry.Error("worker.export.rejected", fields)
			return outcomeDrop
		}
		telemetry.Error("worker.export.failed", fields)
		metrics.IncExportJobsFailed()
		return outcomeRetry
	}

	fields["export_id"] = exp.ID
	fields["page_count"] = exp.PageCount
	return outcomeDone
}

// settle records the final metric and log line once the transport has
// acknowledged the outcome.
func settle(o outcome, fields map[string]any) {
	switch o {
	case outcomeDone:
		telemetry.Info("worker.export.completed", fields)
		metrics.IncExportJobsCompleted()
	case outcomeDrop:
		metrics.IncExportJobsDeletedUnrecoverable()
	}
}

func addRequestID(fields map[string]any, requestID string) {
	if requestID != "" {
		fields["request_id"] = requestID
	}
}
