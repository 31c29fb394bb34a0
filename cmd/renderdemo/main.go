package main

// Render a resume without the API:
//   go run ./cmd/renderdemo -out ./out/sample_resume.html
//   go run ./cmd/renderdemo -in resume.yaml -template timeline -out ./out/resume.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"resume-builder/internal/shared/pdf"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

func main() {
	inPath := flag.String("in", "", "record file (.json, .yaml or .yml); empty uses a built-in sample")
	outPath := flag.String("out", "./out/sample_resume.html", "output path; a .pdf extension prints through headless Chrome")
	templateName := flag.String("template", string(render.TemplateMarquee), "initial layout: marquee, infographic or timeline")
	chromePath := flag.String("chrome", os.Getenv("CHROME_PATH"), "Chrome binary for PDF output")
	flag.Parse()

	rec, err := loadRecord(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read record failed: %v\n", err)
		os.Exit(1)
	}
	tmpl, err := render.ParseTemplate(*templateName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	doc, err := render.Document(rec, render.Options{Initial: tmpl})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}
	if err := validateRendered(doc, rec); err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}

	out := []byte(doc)
	if strings.EqualFold(filepath.Ext(*outPath), ".pdf") {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		out, err = pdf.NewChromedpRenderer(*chromePath, 45*time.Second).RenderHTML(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "print failed: %v\n", err)
			os.Exit(1)
		}
		info, err := pdf.Inspect(ctx, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "printed pdf unreadable: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("pages: %d\n", info.PageCount)
	}

	if err := writeOutputs(*outPath, rec, out); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: wrote %s (download name %s)\n", *outPath, render.FileName(rec.Name, tmpl))
}

func loadRecord(path string) (model.Record, error) {
	if path == "" {
		return sampleRecord(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Record{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return model.Record{}, fmt.Errorf("parse yaml: %w", err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return model.Record{}, fmt.Errorf("convert yaml: %w", err)
		}
	}
	return model.ParseRecord(raw)
}

func writeOutputs(outPath string, rec model.Record, data []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	recordPath := filepath.Join(dir, "sample_resume_record.json")
	payload, err := json.MarshalIndent(rec.Normalize(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(recordPath, payload, 0o644)
}

func sampleRecord() model.Record {
	return model.Record{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+44 20 7946 0018",
		LinkedIn: "https://www.linkedin.com/in/ada",
		GitHub:   "https://github.com/ada",
		Summary:  "Mathematician working on the Analytical Engine.\nAuthor of the first published algorithm intended for a machine.",
		Education: []model.Education{
			{Degree: "Private tutoring in mathematics", Institution: "University of London", GradYear: "1840"},
		},
		Experience: []model.Experience{
			{
				JobTitle: "Translator and Annotator",
				Company:  "Scientific Memoirs",
				Duration: "1842 - 1843",
				JobDesc:  "Translated Menabrea's paper on the Analytical Engine.\nAdded notes A to G, including the Bernoulli number program.",
			},
		},
		Projects: []model.Project{
			{
				ProjTitle: "Note G",
				ProjDesc:  "Step-by-step method for computing Bernoulli numbers on the Engine.",
				TechStack: "Punched cards",
				ProjLink:  "https://en.wikipedia.org/wiki/Note_G",
			},
		},
		Certifications: []model.Certification{
			{CertTitle: "Fellow correspondence", CertIssuer: "Royal Society circle", CertYear: "1843"},
		},
		Skills: []string{"Mathematics", "Algorithms", "Poetical science"},
	}.Normalize()
}

// validateRendered checks that the visible sheet shows the name and that the
// script holds a body for every layout.
func validateRendered(doc string, rec model.Record) error {
	sheet, script, ok := strings.Cut(doc, "const renderers")
	if !ok {
		return fmt.Errorf("layout switcher script not found")
	}
	if rec.Name != "" && !strings.Contains(sheet, render.EscapeHTML(rec.Name)) {
		return fmt.Errorf("name missing from visible sheet")
	}
	for _, t := range render.Templates() {
		if !strings.Contains(script, string(t)+": `") {
			return fmt.Errorf("no %s body in switcher", t)
		}
	}
	return nil
}
