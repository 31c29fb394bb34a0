package exports

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/queue"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// RecordSource supplies the record an export is printed from.
type RecordSource interface {
	Snapshot(ctx context.Context, owner string) (model.Record, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	Records RecordSource
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, records RecordSource) *Handler {
	return &Handler{Svc: svc, Records: records}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exports", h.create)
	rg.GET("/exports", h.list)
	rg.GET("/exports/:id", h.get)
	rg.GET("/exports/:id/download", h.download)
}

func (h *Handler) create(c *gin.Context) {
	tmpl, err := render.ParseTemplate(c.Query("template"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), gin.H{"allowed": render.Templates()})
		return
	}
	c.Set("template", string(tmpl))

	userID := middleware.UserIDFromContext(c)
	rec, err := h.Records.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to read form", nil)
		return
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		h.enqueue(c, userID, rec, tmpl)
		return
	}

	exp, err := h.Svc.Create(c.Request.Context(), userID, rec, tmpl)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		case errors.Is(err, ErrGeneration):
			respond.Error(c, http.StatusInternalServerError, respond.CodeGenerationFailed, "An unexpected error occurred while generating the PDF.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to create export", nil)
		}
		return
	}
	c.Set("exportId", exp.ID)

	respond.Created(c, toResponse(exp))
}

func (h *Handler) enqueue(c *gin.Context, userID string, rec model.Record, tmpl render.Template) {
	job, err := h.Svc.Enqueue(c.Request.Context(), userID, rec, tmpl)
	if err != nil {
		switch {
		case errors.Is(err, ErrQueueUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeQueueUnavailable, "Asynchronous exports are not enabled.", nil)
		case errors.Is(err, queue.ErrMessageTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "Resume is too large to queue; export it synchronously.", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to queue export", nil)
		}
		return
	}
	c.Set("exportId", job.ID)
	respond.Accepted(c, toJobResponse(job))
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	exps, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list exports", nil)
		}
		return
	}

	resp := make([]ExportResponse, 0, len(exps))
	for _, exp := range exps {
		resp = append(resp, toResponse(exp))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	exp, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	respond.OK(c, toResponse(exp))
}

func (h *Handler) download(c *gin.Context) {
	exp, rc, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	defer rc.Close()
	c.Set("exportId", exp.ID)

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	c.Header("Content-Type", exp.ContentType)
	if exp.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(exp.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("export.download_interrupted", map[string]any{"export_id": exp.ID, "error": err})
	}
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, object.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "export not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to fetch export", nil)
	}
}
