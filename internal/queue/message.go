package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/resume/model"
)

// MessageVersion is the payload layout produced by this build.
const MessageVersion = 1

// MaxMessageBytes is the largest payload Send accepts. SQS rejects bodies
// above 256 KiB and the same bound is applied to every backend.
const MaxMessageBytes = 256 << 10

// ErrMessageTooLarge is returned when an encoded job exceeds MaxMessageBytes,
// usually because the record carries a large photo.
var ErrMessageTooLarge = errors.New("queue message too large")

// Message is one export job: print Record for Owner with Template shown.
type Message struct {
	JobID      string       `json:"jobId"`
	Owner      string       `json:"owner"`
	Template   string       `json:"template"`
	Record     model.Record `json:"record"`
	RequestID  string       `json:"requestId"`
	EnqueuedAt string       `json:"enqueuedAt"`
	Version    int          `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxMessageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(payload))
	}
	return payload, nil
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	msg.Record = msg.Record.Normalize()
	return msg, nil
}
