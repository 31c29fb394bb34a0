package workspace

import "resume-builder/resume/model"

// FormResponse is the gathered form plus the message of the action that produced it.
type FormResponse struct {
	Message string       `json:"message,omitempty"`
	Index   *int         `json:"index,omitempty"`
	Record  model.Record `json:"record"`
}

type fieldsRequest map[string]string

type blockRequest map[string]string

type skillRequest struct {
	Skill string `json:"skill"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func toFormResponse(rec model.Record, message string) FormResponse {
	return FormResponse{Message: message, Record: rec.Normalize()}
}
