package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/queue"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/workerproc"
)

// onePagePDF is a minimal valid single page document.
const onePagePDF = "%PDF-1.4\n" +
	"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
	"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
	"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n" +
	"xref\n0 4\n0000000000 65535 f \n0000000009 00000 n \n0000000058 00000 n \n0000000115 00000 n \n" +
	"trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n186\n%%EOF\n"

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	s.calls++
	return []byte(onePagePDF), nil
}

func testConfig(t *testing.T, store string) config.Config {
	dir := t.TempDir()
	return config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		RecordStore:     store,
		SQLitePath:      filepath.Join(dir, "resume.db"),
		ObjectStoreType: "local",
		LocalStoreDir:   filepath.Join(dir, "objects"),
		ExportRate:      0.001,
		ExportBurst:     2,
	}
}

func call(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Guest-Id", "ada")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAdaLovelaceEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, store := range []string{"memory", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			renderer := &stubRenderer{}
			app, err := bootstrap.Build(testConfig(t, store), bootstrap.WithRenderer(renderer))
			if err != nil {
				t.Fatalf("bootstrap build: %v", err)
			}
			t.Cleanup(func() { _ = app.Close() })
			router := app.Router

			steps := []struct {
				method, path string
				body         any
				status       int
			}{
				{http.MethodPatch, "/api/v1/form/fields", map[string]string{"name": "Ada Lovelace", "email": "ada@x.test"}, http.StatusOK},
				{http.MethodPost, "/api/v1/form/education/blocks", map[string]string{"degree": "BSc", "institution": "X", "gradYear": "1840"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/skills", map[string]string{"skill": "Math"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/skills", map[string]string{"skill": "Poetry"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/save", nil, http.StatusOK},
				{http.MethodPost, "/api/v1/form/reset", map[string]bool{"confirm": true}, http.StatusOK},
				{http.MethodPost, "/api/v1/form/load", nil, http.StatusNotFound},
				{http.MethodPatch, "/api/v1/form/fields", map[string]string{"name": "Ada Lovelace", "email": "ada@x.test"}, http.StatusOK},
				{http.MethodPost, "/api/v1/form/education/blocks", map[string]string{"degree": "BSc", "institution": "X", "gradYear": "1840"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/skills", map[string]string{"skill": "Math"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/skills", map[string]string{"skill": "Poetry"}, http.StatusCreated},
				{http.MethodPost, "/api/v1/form/save", nil, http.StatusOK},
				{http.MethodPut, "/api/v1/form", map[string]string{"name": "Scratch"}, http.StatusOK},
				{http.MethodPost, "/api/v1/form/load", nil, http.StatusOK},
			}
			for _, step := range steps {
				if resp := call(t, router, step.method, step.path, step.body); resp.Code != step.status {
					t.Fatalf("%s %s: expected %d, got %d: %s", step.method, step.path, step.status, resp.Code, resp.Body.String())
				}
			}

			resp := call(t, router, http.MethodGet, "/api/v1/preview?template=marquee", nil)
			if resp.Code != http.StatusOK {
				t.Fatalf("preview: expected 200, got %d", resp.Code)
			}
			doc := resp.Body.String()
			sheet, script, _ := strings.Cut(doc, "const renderers")
			for _, want := range []string{
				"<h1>Ada Lovelace</h1>",
				`href="mailto:ada@x.test"`,
				`<span class="skill-tag">Math</span>`,
				`<span class="skill-tag">Poetry</span>`,
				"X | 1840",
			} {
				if !strings.Contains(sheet, want) {
					t.Fatalf("marquee sheet missing %q", want)
				}
			}
			if !strings.Contains(script, "timeline: `") || !strings.Contains(script, `const baseName = "Ada_Lovelace";`) {
				t.Fatalf("switcher script missing timeline body or file name")
			}

			resp = call(t, router, http.MethodPost, "/api/v1/exports?template=timeline", nil)
			if resp.Code != http.StatusCreated {
				t.Fatalf("export: expected 201, got %d: %s", resp.Code, resp.Body.String())
			}
			var exp struct {
				FileName    string `json:"fileName"`
				PageCount   int    `json:"pageCount"`
				DownloadURL string `json:"downloadUrl"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&exp); err != nil {
				t.Fatalf("decode export: %v", err)
			}
			if exp.FileName != "Ada_Lovelace_Timeline.pdf" {
				t.Fatalf("unexpected export file name %q", exp.FileName)
			}

			resp = call(t, router, http.MethodGet, exp.DownloadURL, nil)
			if resp.Code != http.StatusOK || resp.Body.String() != onePagePDF {
				t.Fatalf("download: unexpected response %d", resp.Code)
			}

			// Burst of two: the second export passes, the third is limited.
			if resp := call(t, router, http.MethodPost, "/api/v1/exports?template=marquee", nil); resp.Code != http.StatusCreated {
				t.Fatalf("second export: expected 201, got %d", resp.Code)
			}
			if resp := call(t, router, http.MethodPost, "/api/v1/exports?template=marquee", nil); resp.Code != http.StatusTooManyRequests {
				t.Fatalf("third export: expected 429, got %d", resp.Code)
			}
			if renderer.calls != 2 {
				t.Fatalf("expected 2 prints, got %d", renderer.calls)
			}
		})
	}
}

func TestHealthMeAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t, "memory"), bootstrap.WithRenderer(&stubRenderer{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	if resp := call(t, app.Router, http.MethodGet, "/api/v1/health", nil); resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}

	resp := call(t, app.Router, http.MethodGet, "/api/v1/me", nil)
	var me struct {
		UserID  string `json:"userId"`
		GuestID string `json:"guestId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.UserID != "guest:ada" || me.GuestID != "ada" {
		t.Fatalf("unexpected identity %+v", me)
	}

	call(t, app.Router, http.MethodGet, "/api/v1/preview?template=timeline", nil)
	resp = call(t, app.Router, http.MethodGet, "/metrics", nil)
	if !strings.Contains(resp.Body.String(), "resume_preview_rendered_total") {
		t.Fatalf("metrics missing preview counter:\n%s", resp.Body.String())
	}
}

func TestBuildRejectsUnknownRecordStore(t *testing.T) {
	cfg := testConfig(t, "redis")
	if _, err := bootstrap.Build(cfg, bootstrap.WithRenderer(&stubRenderer{})); err == nil {
		t.Fatalf("expected error for unknown record store")
	}
	cfg = testConfig(t, "postgres")
	if _, err := bootstrap.Build(cfg, bootstrap.WithRenderer(&stubRenderer{})); err == nil {
		t.Fatalf("expected error for postgres without DATABASE_URL")
	}
}

type captureQueue struct {
	sent []queue.Message
}

func (c *captureQueue) Send(ctx context.Context, msg queue.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestQueuedExportIsPrintedByWorker(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := &captureQueue{}
	renderer := &stubRenderer{}
	app, err := bootstrap.Build(testConfig(t, "sqlite"), bootstrap.WithRenderer(renderer), bootstrap.WithQueue(q))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	call(t, app.Router, http.MethodPatch, "/api/v1/form/fields", map[string]string{"name": "Ada Lovelace"})
	resp := call(t, app.Router, http.MethodPost, "/api/v1/exports?template=infographic&async=true", nil)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var job struct {
		JobID     string `json:"jobId"`
		ExportURL string `json:"exportUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if renderer.calls != 0 || len(q.sent) != 1 {
		t.Fatalf("expected job to be queued without printing")
	}
	if resp := call(t, app.Router, http.MethodGet, job.ExportURL, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before the worker runs, got %d", resp.Code)
	}

	body, err := queue.EncodeMessage(q.sent[0])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	exp, err := workerproc.HandleMessage(context.Background(), app.ExportsService, string(body))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if exp.ID != job.JobID || exp.FileName != "Ada_Lovelace_Infographic.pdf" {
		t.Fatalf("unexpected export %+v", exp)
	}

	if resp := call(t, app.Router, http.MethodGet, job.ExportURL, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after the worker runs, got %d", resp.Code)
	}
}

func TestBuildRejectsUnknownQueueBackend(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.QueueBackend = "kafka"
	if _, err := bootstrap.Build(cfg, bootstrap.WithRenderer(&stubRenderer{})); err == nil {
		t.Fatalf("expected error for unknown queue backend")
	}
	cfg.QueueBackend = "sqs"
	if _, err := bootstrap.Build(cfg, bootstrap.WithRenderer(&stubRenderer{})); err == nil {
		t.Fatalf("expected error for sqs without EXPORT_QUEUE_URL")
	}
}
