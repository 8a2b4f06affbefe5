// Package navigation resolves the dashboard's sidebar entries from a
// capability flag set. Resolution is pure and deterministic: the same
// flags always yield the same ordered entry list.
package navigation

import "github.com/derkuci/prefect/internal/capabilities"

// Entry is a single navigation item in the dashboard sidebar.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// The full entry catalog in display order. Work Pools and Work Queues are
// alternatives for the same slot; Artifacts is optional.
var (
	Dashboard     = Entry{Key: "dashboard", Label: "Dashboard", Path: "/dashboard"}
	FlowRuns      = Entry{Key: "flow-runs", Label: "Flow Runs", Path: "/runs"}
	Flows         = Entry{Key: "flows", Label: "Flows", Path: "/flows"}
	Deployments   = Entry{Key: "deployments", Label: "Deployments", Path: "/deployments"}
	WorkPools     = Entry{Key: "work-pools", Label: "Work Pools", Path: "/work-pools"}
	WorkQueues    = Entry{Key: "work-queues", Label: "Work Queues", Path: "/work-queues"}
	Blocks        = Entry{Key: "blocks", Label: "Blocks", Path: "/blocks"}
	Variables     = Entry{Key: "variables", Label: "Variables", Path: "/variables"}
	Notifications = Entry{Key: "notifications", Label: "Notifications", Path: "/notifications"}
	Concurrency   = Entry{Key: "concurrency", Label: "Concurrency", Path: "/concurrency-limits"}
	Artifacts     = Entry{Key: "artifacts", Label: "Artifacts", Path: "/artifacts"}
	Settings      = Entry{Key: "settings", Label: "Settings", Path: "/settings"}
)

// Resolve returns the ordered navigation entries visible under the given
// flags. Exactly one of Work Pools or Work Queues appears: pools when the
// subject has work pool access and read permission, queues otherwise.
// Artifacts appears only when granted. Every other entry always appears.
func Resolve(flags capabilities.Flags) []Entry {
	entries := make([]Entry, 0, 11)

	entries = append(entries, Dashboard, FlowRuns, Flows, Deployments)

	if flags.WorkPools && flags.ReadWorkPool {
		entries = append(entries, WorkPools)
	} else {
		entries = append(entries, WorkQueues)
	}

	entries = append(entries, Blocks, Variables, Notifications, Concurrency)

	if flags.Artifacts {
		entries = append(entries, Artifacts)
	}

	return append(entries, Settings)
}
