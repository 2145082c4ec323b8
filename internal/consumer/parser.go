package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ajaybenii/test-system-backend/internal/dto"
)

// answerMessage is the queue wire shape published by the bulk endpoint
type answerMessage struct {
	AttemptID       string `json:"attempt_id"`
	QuestionID      string `json:"question_id"`
	AnswerValue     string `json:"answer_value"`
	ClientTimestamp string `json:"client_timestamp"`
}

// JSONEventParser implements MessageParser for JSON-formatted answer messages
type JSONEventParser struct{}

// NewJSONEventParser creates a new JSON event parser
func NewJSONEventParser() *JSONEventParser {
	return &JSONEventParser{}
}

// Parse parses a JSON message body into an attempt ID and answer event
func (p *JSONEventParser) Parse(body []byte) (string, *dto.SubmitEventRequest, error) {
	var msg answerMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if msg.AttemptID == "" {
		return "", nil, fmt.Errorf("message missing attempt_id")
	}
	if msg.QuestionID == "" {
		return "", nil, fmt.Errorf("message missing question_id")
	}
	if msg.AnswerValue == "" {
		return "", nil, fmt.Errorf("message missing answer_value")
	}

	clientTimestamp, err := time.Parse(time.RFC3339Nano, msg.ClientTimestamp)
	if err != nil {
		return "", nil, fmt.Errorf("invalid client_timestamp %q: %w", msg.ClientTimestamp, err)
	}

	event := &dto.SubmitEventRequest{
		QuestionID:      msg.QuestionID,
		AnswerValue:     msg.AnswerValue,
		ClientTimestamp: clientTimestamp.UTC(),
	}

	return msg.AttemptID, event, nil
}
