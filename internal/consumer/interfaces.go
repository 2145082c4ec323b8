package consumer

import (
	"github.com/ajaybenii/test-system-backend/internal/dto"
)

// MessageParser defines the interface for parsing raw message bytes into
// an attempt-scoped answer event
type MessageParser interface {
	Parse(body []byte) (string, *dto.SubmitEventRequest, error)
}
