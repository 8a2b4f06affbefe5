package navigation_test

import (
	"testing"

	"github.com/derkuci/prefect/internal/capabilities"
	"github.com/derkuci/prefect/internal/navigation"
)

func keys(entries []navigation.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func equal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestResolveZeroFlags(t *testing.T) {
	got := keys(navigation.Resolve(capabilities.Flags{}))
	want := []string{
		"dashboard", "flow-runs", "flows", "deployments",
		"work-queues", "blocks", "variables", "notifications",
		"concurrency", "settings",
	}

	if !equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestResolveAllFlags(t *testing.T) {
	got := keys(navigation.Resolve(capabilities.AllFlags()))
	want := []string{
		"dashboard", "flow-runs", "flows", "deployments",
		"work-pools", "blocks", "variables", "notifications",
		"concurrency", "artifacts", "settings",
	}

	if !equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestResolveWorkPoolGate(t *testing.T) {
	tests := []struct {
		name         string
		workPools    bool
		readWorkPool bool
		want         string
	}{
		{"both flags set", true, true, "work-pools"},
		{"access without read", true, false, "work-queues"},
		{"read without access", false, true, "work-queues"},
		{"neither flag", false, false, "work-queues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := navigation.Resolve(capabilities.Flags{
				WorkPools:    tt.workPools,
				ReadWorkPool: tt.readWorkPool,
			})

			got := keys(entries)
			if got[4] != tt.want {
				t.Errorf("entry[4] = %q, want %q", got[4], tt.want)
			}

			for _, k := range got {
				if tt.want == "work-pools" && k == "work-queues" {
					t.Errorf("work-queues present alongside work-pools")
				}
				if tt.want == "work-queues" && k == "work-pools" {
					t.Errorf("work-pools present without full access")
				}
			}
		})
	}
}

func TestResolveArtifactsGate(t *testing.T) {
	t.Run("artifacts entry gated by flag", func(t *testing.T) {
		without := keys(navigation.Resolve(capabilities.Flags{}))
		for _, k := range without {
			if k == "artifacts" {
				t.Fatal("artifacts entry present without flag")
			}
		}

		with := keys(navigation.Resolve(capabilities.Flags{Artifacts: true}))
		found := false
		for _, k := range with {
			if k == "artifacts" {
				found = true
			}
		}
		if !found {
			t.Error("artifacts entry missing with flag set")
		}
	})

	t.Run("artifacts precedes settings", func(t *testing.T) {
		got := keys(navigation.Resolve(capabilities.Flags{Artifacts: true}))
		if got[len(got)-1] != "settings" {
			t.Errorf("last entry = %q, want settings", got[len(got)-1])
		}
		if got[len(got)-2] != "artifacts" {
			t.Errorf("second to last = %q, want artifacts", got[len(got)-2])
		}
	})
}

func TestResolveStableOrder(t *testing.T) {
	// Every combination keeps the fixed section order and exactly one
	// work pool entry.
	for i := range 8 {
		flags := capabilities.Flags{
			WorkPools:    i&1 != 0,
			ReadWorkPool: i&2 != 0,
			Artifacts:    i&4 != 0,
		}

		got := keys(navigation.Resolve(flags))

		if got[0] != "dashboard" {
			t.Errorf("flags %+v: first entry = %q, want dashboard", flags, got[0])
		}
		if got[len(got)-1] != "settings" {
			t.Errorf("flags %+v: last entry = %q, want settings", flags, got[len(got)-1])
		}

		poolEntries := 0
		for _, k := range got {
			if k == "work-pools" || k == "work-queues" {
				poolEntries++
			}
		}
		if poolEntries != 1 {
			t.Errorf("flags %+v: pool entries = %d, want 1", flags, poolEntries)
		}
	}
}

func TestEntryPaths(t *testing.T) {
	tests := []struct {
		entry navigation.Entry
		path  string
	}{
		{navigation.Dashboard, "/dashboard"},
		{navigation.FlowRuns, "/runs"},
		{navigation.Flows, "/flows"},
		{navigation.Deployments, "/deployments"},
		{navigation.WorkPools, "/work-pools"},
		{navigation.WorkQueues, "/work-queues"},
		{navigation.Blocks, "/blocks"},
		{navigation.Variables, "/variables"},
		{navigation.Notifications, "/notifications"},
		{navigation.Concurrency, "/concurrency-limits"},
		{navigation.Artifacts, "/artifacts"},
		{navigation.Settings, "/settings"},
	}

	for _, tt := range tests {
		if tt.entry.Path != tt.path {
			t.Errorf("%s path = %q, want %q", tt.entry.Key, tt.entry.Path, tt.path)
		}
	}
}
