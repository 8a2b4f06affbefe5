package variables

import (
	"time"

	"github.com/google/uuid"
)

// Variable is a named string value available to dashboard consumers.
type Variable struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the fields accepted when creating a variable.
type CreateCommand struct {
	Name  string   `json:"name"`
	Value string   `json:"value"`
	Tags  []string `json:"tags"`
}

// UpdateCommand carries the mutable fields of a variable. Name is fixed
// at creation.
type UpdateCommand struct {
	Value string   `json:"value"`
	Tags  []string `json:"tags"`
}
