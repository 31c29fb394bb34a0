package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"resume-builder/resume/model"
)

const (
	iconFontURL = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css"
	webFontsURL = "https://fonts.googleapis.com/css2?family=Roboto:wght@300;400;700&family=Poppins:wght@600;700&display=swap"
	html2pdfURL = "https://cdnjs.cloudflare.com/ajax/libs/html2pdf.js/0.10.1/html2pdf.bundle.min.js"
)

// ExportOptions are handed to html2pdf by the download button.
type ExportOptions struct {
	Margin      float64           `json:"margin"`
	Image       ImageOptions      `json:"image"`
	HTML2Canvas HTML2CanvasOption `json:"html2canvas"`
	JSPDF       JSPDFOptions      `json:"jsPDF"`
}

type ImageOptions struct {
	Type    string  `json:"type"`
	Quality float64 `json:"quality"`
}

type HTML2CanvasOption struct {
	Scale   int  `json:"scale"`
	UseCORS bool `json:"useCORS"`
}

type JSPDFOptions struct {
	Unit        string `json:"unit"`
	Format      string `json:"format"`
	Orientation string `json:"orientation"`
}

// DefaultExportOptions: no margin, JPEG at 0.98, 2x capture, US letter portrait.
var DefaultExportOptions = ExportOptions{
	Margin:      0,
	Image:       ImageOptions{Type: "jpeg", Quality: 0.98},
	HTML2Canvas: HTML2CanvasOption{Scale: 2, UseCORS: true},
	JSPDF:       JSPDFOptions{Unit: "in", Format: "letter", Orientation: "portrait"},
}

// Options controls document assembly.
type Options struct {
	// Initial is the layout shown when the document opens. Defaults to marquee.
	Initial Template
	Export  ExportOptions
}

// whitespaceRun matches what a browser treats as whitespace, including the
// Unicode space separators that RE2's \s leaves out.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

// FileBase derives the export file stem from the person's name.
func FileBase(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Resume"
	}
	return whitespaceRun.ReplaceAllString(name, "_")
}

// FileName is the PDF name offered for a layout, e.g. Ada_Lovelace_Marquee.pdf.
func FileName(name string, t Template) string {
	return FileBase(name) + "_" + t.DisplayName() + ".pdf"
}

// Render builds the complete preview document with t shown initially.
func Render(rec model.Record, t Template) (string, error) {
	return Document(rec, Options{Initial: t, Export: DefaultExportOptions})
}

// Document builds a self-contained HTML document embedding all three layouts,
// a switcher that swaps the visible layout in place and a PDF download button.
func Document(rec model.Record, opts Options) (string, error) {
	rec = rec.Normalize()
	initial := opts.Initial
	if initial == "" {
		initial = TemplateMarquee
	}
	if opts.Export == (ExportOptions{}) {
		opts.Export = DefaultExportOptions
	}

	bodies := make(map[Template]fragment, 3)
	for _, t := range Templates() {
		f, err := body(rec, t)
		if err != nil {
			return "", err
		}
		bodies[t] = f
	}
	shown, ok := bodies[initial]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, string(initial))
	}

	baseName, err := json.Marshal(FileBase(rec.Name))
	if err != nil {
		return "", fmt.Errorf("encode file name: %w", err)
	}
	exportOpts, err := json.Marshal(opts.Export)
	if err != nil {
		return "", fmt.Errorf("encode export options: %w", err)
	}
	initialJS, err := json.Marshal(string(initial))
	if err != nil {
		return "", fmt.Errorf("encode template name: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!doctype html><html><head>\n")
	b.WriteString(`<meta charset="utf-8"><title>Resume Preview - ` + EscapeHTML(rec.Name) + `</title>`)
	b.WriteString(`<meta name="viewport" content="width=device-width,initial-scale=1">` + "\n")
	b.WriteString(`<link rel="stylesheet" href="` + iconFontURL + `">` + "\n")
	b.WriteString(`<link href="` + webFontsURL + `" rel="stylesheet">` + "\n")
	b.WriteString(`<script src="` + html2pdfURL + `"></script>` + "\n")
	b.WriteString("<style>\n" + stylesheet + "</style>\n")
	b.WriteString("</head>\n<body>\n")

	b.WriteString(`<div class="toolbar">` + "\n")
	b.WriteString(`<label for="templateSelector">Template:</label>` + "\n")
	b.WriteString(`<select id="templateSelector">`)
	for _, t := range Templates() {
		selected := ""
		if t == initial {
			selected = " selected"
		}
		b.WriteString(`<option value="` + string(t) + `"` + selected + `>` + t.DisplayName() + `</option>`)
	}
	b.WriteString("</select>\n")
	b.WriteString(`<button class="download" id="downloadBtn">Download PDF</button>` + "\n")
	b.WriteString("</div>\n")

	b.WriteString(`<div id="sheet" class="sheet template-` + string(initial) + `">`)
	b.WriteString(string(shown))
	b.WriteString("</div>\n")

	b.WriteString("<script>\nconst renderers = {\n")
	for i, t := range Templates() {
		b.WriteString("  " + string(t) + ": `" + templateLiteral(bodies[t]) + "`")
		if i < len(Templates())-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("};\n")
	b.WriteString(`function setTemplate(name) {
  const sheet = document.getElementById('sheet');
  const key = Object.prototype.hasOwnProperty.call(renderers, name) ? name : 'marquee';
  sheet.className = 'sheet template-' + key;
  sheet.innerHTML = renderers[key];
}
document.getElementById('templateSelector').addEventListener('change', function () { setTemplate(this.value); });
document.getElementById('downloadBtn').addEventListener('click', function () {
  const selector = document.getElementById('templateSelector');
  const selectedTemplate = selector.options[selector.selectedIndex].text;
`)
	b.WriteString("  const baseName = " + string(baseName) + ";\n")
	b.WriteString("  const opt = Object.assign(" + string(exportOpts) + ", { filename: baseName + '_' + selectedTemplate + '.pdf' });\n")
	b.WriteString("  html2pdf().from(document.getElementById('sheet')).set(opt).save();\n")
	b.WriteString("});\n")
	b.WriteString("setTemplate(" + string(initialJS) + ");\n")
	b.WriteString("</script></body></html>\n")

	return b.String(), nil
}
