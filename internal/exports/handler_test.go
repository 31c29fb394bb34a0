package exports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/resume/model"
)

type staticRecords struct {
	rec model.Record
}

func (s staticRecords) Snapshot(ctx context.Context, owner string) (model.Record, error) {
	return s.rec, nil
}

func newTestRouter(t *testing.T, r *fakeRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(t, r), staticRecords{rec: model.Record{Name: "Ada Lovelace"}})
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:"+c.GetHeader("X-Guest-Id"))
		c.Next()
	})
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func serve(r http.Handler, method, path, guest string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Guest-Id", guest)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCreateAndDownload(t *testing.T) {
	pdfBytes := blankPDF(1)
	router := newTestRouter(t, &fakeRenderer{out: pdfBytes})

	resp := serve(router, http.MethodPost, "/api/v1/exports?template=infographic", "a")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created ExportResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.FileName != "Ada_Lovelace_Infographic.pdf" || created.PageCount != 1 {
		t.Fatalf("unexpected export %+v", created)
	}

	resp = serve(router, http.MethodGet, created.DownloadURL, "a")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename=Ada_Lovelace_Infographic.pdf` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Header().Get("Content-Type") != "application/pdf" || resp.Body.Len() != len(pdfBytes) {
		t.Fatalf("unexpected download body")
	}

	if resp := serve(router, http.MethodGet, created.DownloadURL, "b"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another guest, got %d", resp.Code)
	}

	resp = serve(router, http.MethodGet, "/api/v1/exports", "a")
	var list []ExportResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ExportID != created.ExportID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	router := newTestRouter(t, &fakeRenderer{err: context.DeadlineExceeded})

	if resp := serve(router, http.MethodPost, "/api/v1/exports?template=poster", "a"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	resp := serve(router, http.MethodPost, "/api/v1/exports?template=marquee", "a")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error.Code != "generation_failed" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if resp := serve(router, http.MethodGet, "/api/v1/exports/missing", "a"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHandlerAsyncExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t, &fakeRenderer{out: blankPDF(1)})
	h := NewHandler(svc, staticRecords{rec: model.Record{Name: "Ada Lovelace"}})
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:a")
		c.Next()
	})
	h.RegisterRoutes(router.Group("/api/v1"))

	if resp := serve(router, http.MethodPost, "/api/v1/exports?template=marquee&async=true", "a"); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a queue, got %d", resp.Code)
	}

	q := &fakeQueue{}
	svc.Queue = q
	resp := serve(router, http.MethodPost, "/api/v1/exports?template=marquee&async=true", "a")
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var job JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.Status != "queued" || len(q.sent) != 1 || q.sent[0].JobID != job.JobID {
		t.Fatalf("unexpected job %+v", job)
	}
	if exps, _ := svc.List(context.Background(), "guest:a", 0, 0); len(exps) != 0 {
		t.Fatalf("async export must not print inline")
	}
}
