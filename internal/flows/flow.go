package flows

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Flow names are slugs: lowercase alphanumeric runs separated by single
// hyphens or underscores, e.g. "etl-pipeline" or "daily_report".
var namePattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Flow is a registered workflow definition. Flows carry retry policy and
// organizational tags but no execution machinery; runs reference flows by id.
type Flow struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Tags              []string  `json:"tags"`
	Retries           int       `json:"retries"`
	RetryDelaySeconds int       `json:"retry_delay_seconds"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateCommand carries the fields accepted when registering a flow.
type CreateCommand struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	Retries           int      `json:"retries"`
	RetryDelaySeconds int      `json:"retry_delay_seconds"`
}

// UpdateCommand carries the mutable fields of a flow. Name is fixed at
// registration.
type UpdateCommand struct {
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	Retries           int      `json:"retries"`
	RetryDelaySeconds int      `json:"retry_delay_seconds"`
}

func (c CreateCommand) validate() error {
	if !namePattern.MatchString(c.Name) {
		return ErrInvalidName
	}
	if c.Retries < 0 || c.RetryDelaySeconds < 0 {
		return ErrInvalidRetryPolicy
	}
	return nil
}

func (c UpdateCommand) validate() error {
	if c.Retries < 0 || c.RetryDelaySeconds < 0 {
		return ErrInvalidRetryPolicy
	}
	return nil
}
