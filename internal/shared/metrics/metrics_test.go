package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test", h.Snapshot())

	for _, want := range []string{
		`h_bucket{le="10"} 1`,
		`h_bucket{le="100"} 2`,
		`h_bucket{le="+Inf"} 3`,
		"h_sum 555",
		"h_count 3",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in\n%s", want, buf.String())
		}
	}
}

func TestRenderIncludesResumeCounters(t *testing.T) {
	IncPreviewRendered()
	IncExportFailed()
	ObserveRenderDurationMs(-3)

	out := Render()
	for _, name := range []string{"resume_preview_rendered_total", "resume_export_failed_total", "resume_render_duration_ms_bucket"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
