package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	previewRenderedTotal atomic.Uint64
	previewFailedTotal   atomic.Uint64
	exportCreatedTotal   atomic.Uint64
	exportFailedTotal    atomic.Uint64
	recordSavedTotal     atomic.Uint64
	recordLoadedTotal    atomic.Uint64
	rateLimitedTotal     atomic.Uint64
	httpPanicsTotal      atomic.Uint64
	workspacesEvicted    atomic.Uint64

	exportJobsQueuedTotal               atomic.Uint64
	exportJobsReceivedTotal             atomic.Uint64
	exportJobsCompletedTotal            atomic.Uint64
	exportJobsFailedTotal               atomic.Uint64
	exportJobsDeletedUnrecoverableTotal atomic.Uint64

	renderDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000})
	exportDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncPreviewRendered counts a preview document served.
func IncPreviewRendered() { previewRenderedTotal.Add(1) }

// IncPreviewFailed counts a preview that could not be generated.
func IncPreviewFailed() { previewFailedTotal.Add(1) }

// IncExportCreated counts a stored PDF export.
func IncExportCreated() { exportCreatedTotal.Add(1) }

// IncExportFailed counts a failed PDF export.
func IncExportFailed() { exportFailedTotal.Add(1) }

func IncRecordSaved()  { recordSavedTotal.Add(1) }
func IncRecordLoaded() { recordLoadedTotal.Add(1) }

// IncRateLimited counts a request rejected with 429.
func IncRateLimited() { rateLimitedTotal.Add(1) }

// IncHTTPPanics counts a handler panic turned into a 500.
func IncHTTPPanics() { httpPanicsTotal.Add(1) }

// AddWorkspacesEvicted counts in-memory workspaces dropped by the registry.
func AddWorkspacesEvicted(n int) { workspacesEvicted.Add(uint64(n)) }

// Export job counters, shared by the API (queued) and the worker.
func IncExportJobsQueued()               { exportJobsQueuedTotal.Add(1) }
func IncExportJobsReceived()             { exportJobsReceivedTotal.Add(1) }
func IncExportJobsCompleted()            { exportJobsCompletedTotal.Add(1) }
func IncExportJobsFailed()               { exportJobsFailedTotal.Add(1) }
func IncExportJobsDeletedUnrecoverable() { exportJobsDeletedUnrecoverableTotal.Add(1) }

// ObserveRenderDurationMs records how long building one document took.
func ObserveRenderDurationMs(value float64) {
	renderDuration.Observe(clampNonNegative(value))
}

// ObserveExportDurationMs records render plus print plus upload time of an export.
func ObserveExportDurationMs(value float64) {
	exportDuration.Observe(clampNonNegative(value))
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_preview_rendered_total", "Preview documents served", previewRenderedTotal.Load())
	writeCounter(&buf, "resume_preview_failed_total", "Preview documents that failed to render", previewFailedTotal.Load())
	writeCounter(&buf, "resume_export_created_total", "PDF exports stored", exportCreatedTotal.Load())
	writeCounter(&buf, "resume_export_failed_total", "PDF exports that failed", exportFailedTotal.Load())
	writeCounter(&buf, "resume_record_saved_total", "Records saved", recordSavedTotal.Load())
	writeCounter(&buf, "resume_record_loaded_total", "Records loaded", recordLoadedTotal.Load())
	writeCounter(&buf, "resume_http_rate_limited_total", "Requests rejected by the rate limiter", rateLimitedTotal.Load())
	writeCounter(&buf, "resume_http_panics_total", "Handler panics recovered", httpPanicsTotal.Load())
	writeCounter(&buf, "resume_workspaces_evicted_total", "Idle or surplus workspaces evicted", workspacesEvicted.Load())
	writeCounter(&buf, "resume_export_jobs_queued_total", "Export jobs queued", exportJobsQueuedTotal.Load())
	writeCounter(&buf, "resume_export_jobs_received_total", "Export jobs received by a worker", exportJobsReceivedTotal.Load())
	writeCounter(&buf, "resume_export_jobs_completed_total", "Export jobs completed", exportJobsCompletedTotal.Load())
	writeCounter(&buf, "resume_export_jobs_failed_total", "Export jobs that failed and will be retried", exportJobsFailedTotal.Load())
	writeCounter(&buf, "resume_export_jobs_deleted_unrecoverable_total", "Export jobs dropped as unprocessable", exportJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "resume_render_duration_ms", "Document render duration in milliseconds", renderDuration.Snapshot())
	writeHistogram(&buf, "resume_export_duration_ms", "PDF export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
