package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidRecord indicates a submitted record that does not match the record schema.
var ErrInvalidRecord = errors.New("invalid record")

const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ResumeRecord",
  "type": "object",
  "definitions": {
    "text": { "type": "string" },
    "education": {
      "type": "object",
      "properties": {
        "degree": { "$ref": "#/definitions/text" },
        "institution": { "$ref": "#/definitions/text" },
        "gradYear": { "$ref": "#/definitions/text" },
        "cgpa": { "$ref": "#/definitions/text" }
      }
    },
    "experience": {
      "type": "object",
      "properties": {
        "jobTitle": { "$ref": "#/definitions/text" },
        "company": { "$ref": "#/definitions/text" },
        "duration": { "$ref": "#/definitions/text" },
        "jobDesc": { "$ref": "#/definitions/text" }
      }
    },
    "project": {
      "type": "object",
      "properties": {
        "projTitle": { "$ref": "#/definitions/text" },
        "projDesc": { "$ref": "#/definitions/text" },
        "techStack": { "$ref": "#/definitions/text" },
        "projLink": { "$ref": "#/definitions/text" }
      }
    },
    "certification": {
      "type": "object",
      "properties": {
        "certTitle": { "$ref": "#/definitions/text" },
        "certIssuer": { "$ref": "#/definitions/text" },
        "certYear": { "$ref": "#/definitions/text" }
      }
    }
  },
  "properties": {
    "name": { "$ref": "#/definitions/text" },
    "email": { "$ref": "#/definitions/text" },
    "phone": { "$ref": "#/definitions/text" },
    "linkedin": { "$ref": "#/definitions/text" },
    "github": { "$ref": "#/definitions/text" },
    "summary": { "$ref": "#/definitions/text" },
    "photo": { "$ref": "#/definitions/text" },
    "education": { "type": "array", "items": { "$ref": "#/definitions/education" } },
    "experience": { "type": "array", "items": { "$ref": "#/definitions/experience" } },
    "projects": { "type": "array", "items": { "$ref": "#/definitions/project" } },
    "certifications": { "type": "array", "items": { "$ref": "#/definitions/certification" } },
    "skills": { "type": "array", "items": { "$ref": "#/definitions/text" } }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(recordSchema)

// ValidateJSON checks the shape of a submitted record. Content is never
// checked: empty strings and empty lists are valid.
func ValidateJSON(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}
