// Package capabilities implements the capability domain: per-principal
// access flag sets that drive navigation resolution and section gating.
package capabilities

import (
	"time"

	"github.com/google/uuid"
)

// Flags are the boolean access capabilities consumed by navigation
// resolution. WorkPools grants access to the work pool surface,
// ReadWorkPool grants read permission on pools, and Artifacts exposes the
// artifact section.
type Flags struct {
	WorkPools    bool `json:"work_pools"`
	ReadWorkPool bool `json:"read_work_pool"`
	Artifacts    bool `json:"artifacts"`
}

// AllFlags returns a Flags value with every capability granted.
func AllFlags() Flags {
	return Flags{
		WorkPools:    true,
		ReadWorkPool: true,
		Artifacts:    true,
	}
}

// CapabilitySet binds a Flags value to an authenticated subject.
type CapabilitySet struct {
	ID      uuid.UUID `json:"id"`
	Subject string    `json:"subject"`
	Flags
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a capability set.
type CreateCommand struct {
	Subject string `json:"subject"`
	Flags
}

// UpdateCommand carries replacement flags for an existing capability set.
type UpdateCommand struct {
	Flags
}
