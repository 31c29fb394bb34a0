package exports

import "time"

// ExportResponse describes an export to API clients.
type ExportResponse struct {
	ExportID    string    `json:"exportId"`
	Template    string    `json:"template"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	PageCount   int       `json:"pageCount"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}

func toResponse(exp Export) ExportResponse {
	return ExportResponse{
		ExportID:    exp.ID,
		Template:    exp.Template,
		FileName:    exp.FileName,
		ContentType: exp.ContentType,
		SizeBytes:   exp.SizeBytes,
		PageCount:   exp.PageCount,
		CreatedAt:   exp.CreatedAt,
		DownloadURL: "/api/v1/exports/" + exp.ID + "/download",
	}
}

// JobResponse acknowledges a queued export.
type JobResponse struct {
	JobID      string    `json:"jobId"`
	Template   string    `json:"template"`
	Status     string    `json:"status"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	// ExportURL serves the export once a worker has printed it. Until then it answers 404.
	ExportURL string `json:"exportUrl"`
}

func toJobResponse(job Job) JobResponse {
	return JobResponse{
		JobID:      job.ID,
		Template:   job.Template,
		Status:     "queued",
		EnqueuedAt: job.EnqueuedAt,
		ExportURL:  "/api/v1/exports/" + job.ID,
	}
}
