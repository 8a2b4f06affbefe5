package artifacts

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Artifact is metadata for a stored payload. The payload itself lives in
// blob storage under the artifact's id; the database row carries identity,
// description, and content details.
type Artifact struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	Description string     `json:"description"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	FlowRunID   *uuid.UUID `json:"flow_run_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UploadCommand carries the metadata and payload stream for one upload.
type UploadCommand struct {
	Key         string
	Description string
	ContentType string
	SizeBytes   int64
	FlowRunID   *uuid.UUID
	Payload     io.Reader
}

func (c UploadCommand) validate() error {
	if c.Key == "" {
		return ErrInvalidKey
	}
	if c.Payload == nil {
		return ErrEmptyPayload
	}
	return nil
}
