package workspace

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/records"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/form"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

const (
	maxPhotoSize  = 5 << 20
	maxRecordSize = 8 << 20
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches form, persistence and preview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/form", h.get)
	rg.PUT("/form", h.replace)
	rg.PATCH("/form/fields", h.setFields)
	rg.POST("/form/skills", h.addSkill)
	rg.DELETE("/form/skills/:index", h.removeSkill)
	rg.POST("/form/photo", h.selectPhoto)
	rg.POST("/form/save", h.save)
	rg.POST("/form/load", h.load)
	rg.POST("/form/reset", h.reset)
	rg.POST("/form/:section/blocks", h.addBlock)
	rg.PATCH("/form/:section/blocks/:index", h.updateBlock)
	rg.DELETE("/form/:section/blocks/:index", h.removeBlock)
	rg.GET("/preview", h.preview)
	rg.POST("/render", h.render)
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.Svc.Snapshot(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) replace(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	c.Set("formAction", "replace")
	out, err := h.Svc.Replace(c.Request.Context(), middleware.UserIDFromContext(c), rec)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(out, ""))
}

func (h *Handler) setFields(c *gin.Context) {
	var req fieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	c.Set("formAction", "set_fields")
	rec, err := h.Svc.SetFields(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) addBlock(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	var req blockRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
	}
	c.Set("formAction", "add_block")
	index, rec, err := h.Svc.AddBlock(c.Request.Context(), middleware.UserIDFromContext(c), section, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := toFormResponse(rec, "")
	resp.Index = &index
	respond.Created(c, resp)
}

func (h *Handler) updateBlock(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	c.Set("formAction", "update_block")
	rec, err := h.Svc.UpdateBlock(c.Request.Context(), middleware.UserIDFromContext(c), section, index, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) removeBlock(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	c.Set("formAction", "remove_block")
	rec, err := h.Svc.RemoveBlock(c.Request.Context(), middleware.UserIDFromContext(c), section, index)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) addSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	c.Set("formAction", "add_skill")
	rec, err := h.Svc.AddSkill(c.Request.Context(), middleware.UserIDFromContext(c), req.Skill)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toFormResponse(rec, ""))
}

func (h *Handler) removeSkill(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	c.Set("formAction", "remove_skill")
	rec, err := h.Svc.RemoveSkill(c.Request.Context(), middleware.UserIDFromContext(c), index)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) selectPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "photo too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "photo is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read photo", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}
	c.Set("formAction", "select_photo")
	rec, err := h.Svc.SelectPhoto(c.Request.Context(), middleware.UserIDFromContext(c), file, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, ""))
}

func (h *Handler) save(c *gin.Context) {
	c.Set("formAction", "save")
	rec, err := h.Svc.Save(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, MessageSaved))
}

func (h *Handler) load(c *gin.Context) {
	c.Set("formAction", "load")
	rec, err := h.Svc.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, MessageLoaded))
}

func (h *Handler) reset(c *gin.Context) {
	var req resetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
	}
	if v, err := strconv.ParseBool(c.Query("confirm")); err == nil && v {
		req.Confirm = true
	}
	c.Set("formAction", "reset")
	rec, err := h.Svc.Reset(c.Request.Context(), middleware.UserIDFromContext(c), req.Confirm)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toFormResponse(rec, MessageReset))
}

func (h *Handler) preview(c *gin.Context) {
	tmpl, ok := templateParam(c)
	if !ok {
		return
	}
	c.Set("formAction", "preview")
	doc, err := h.Svc.Preview(c.Request.Context(), middleware.UserIDFromContext(c), tmpl)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.HTML(c, doc)
}

func (h *Handler) render(c *gin.Context) {
	tmpl, ok := templateParam(c)
	if !ok {
		return
	}
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	doc, err := RenderDocument(rec, tmpl)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.HTML(c, doc)
}

func bindRecord(c *gin.Context) (model.Record, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRecordSize))
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "request body too large", nil)
		return model.Record{}, false
	}
	rec, err := model.ParseRecord(body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid record", err.Error())
		return model.Record{}, false
	}
	return rec, true
}

func sectionParam(c *gin.Context) (form.Section, bool) {
	section, err := form.ParseSection(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return "", false
	}
	return section, true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "index must be an integer", nil)
		return 0, false
	}
	return index, true
}

func templateParam(c *gin.Context) (render.Template, bool) {
	tmpl, err := render.ParseTemplate(c.Query("template"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), gin.H{"allowed": render.Templates()})
		return "", false
	}
	c.Set("template", string(tmpl))
	return tmpl, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, MessageNoSavedData, nil)
	case errors.Is(err, ErrConfirmationRequired):
		respond.Error(c, http.StatusConflict, respond.CodeConfirmationRequired, MessageConfirmReset, nil)
	case errors.Is(err, model.ErrMalformed):
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeMalformedRecord, "Saved data could not be read.", err.Error())
	case errors.Is(err, ErrGeneration):
		respond.Error(c, http.StatusInternalServerError, respond.CodeGenerationFailed, MessageGenerationFail, nil)
	case IsFormError(err):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "request failed", nil)
	}
}
