package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNormalizeFillsEmptyLists(t *testing.T) {
	rec := Record{Name: "Ada"}.Normalize()
	if rec.Education == nil || rec.Experience == nil || rec.Projects == nil || rec.Certifications == nil || rec.Skills == nil {
		t.Fatalf("expected every list to be non-nil, got %+v", rec)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"education", "experience", "projects", "certifications", "skills"} {
		list, ok := raw[key].([]any)
		if !ok {
			t.Fatalf("expected %s to serialize as an array, got %T", key, raw[key])
		}
		if len(list) != 0 {
			t.Fatalf("expected %s to be empty, got %v", key, list)
		}
	}
}

func TestMapUsesStoredFieldNames(t *testing.T) {
	rec := Record{
		Name:      "Ada",
		Education: []Education{{Degree: "BSc", GradYear: "1840", CGPA: "4.0"}},
		Projects:  []Project{{ProjTitle: "Engine", ProjLink: "https://x.test"}},
		Skills:    []string{"C"},
	}
	m := rec.Map()
	if m["name"] != "Ada" {
		t.Fatalf("unexpected name: %v", m["name"])
	}
	edu := m["education"].([]any)[0].(map[string]any)
	if edu["gradYear"] != "1840" || edu["cgpa"] != "4.0" {
		t.Fatalf("unexpected education map: %v", edu)
	}
	proj := m["projects"].([]any)[0].(map[string]any)
	if proj["projLink"] != "https://x.test" {
		t.Fatalf("unexpected project map: %v", proj)
	}
	if got := m["skills"].([]any); len(got) != 1 || got[0] != "C" {
		t.Fatalf("unexpected skills: %v", got)
	}
}

func TestDecodeStored(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantNil bool
		wantErr bool
	}{
		{name: "object", input: `{"name":"Ada","skills":["C"]}`},
		{name: "null", input: `null`, wantNil: true},
		{name: "array", input: `[1,2]`, wantErr: true},
		{name: "truncated", input: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStored([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeStored: %v", err)
			}
			if tt.wantNil != (got == nil) {
				t.Fatalf("unexpected result %v", got)
			}
		})
	}
}

func TestParseRecordValidatesShape(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"name":"Ada","education":[{"degree":"BSc"}]}`))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if rec.Name != "Ada" || len(rec.Education) != 1 || rec.Skills == nil {
		t.Fatalf("unexpected record: %+v", rec)
	}

	invalid := []string{
		`{"name":5}`,
		`{"skills":"C"}`,
		`{"skills":[1]}`,
		`{"projects":[{"projLink":true}]}`,
		`"just a string"`,
	}
	for _, input := range invalid {
		if _, err := ParseRecord([]byte(input)); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord for %s, got %v", input, err)
		}
	}
}

func TestParseRecordAcceptsEmptyFields(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"name":"","summary":"","skills":[],"unknown":{"x":1}}`))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if rec.Name != "" || len(rec.Skills) != 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
