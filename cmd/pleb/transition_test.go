package main

import (
	"testing"

	"github.com/pleborg/pleb/internal/config"
)

func testLabelConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Labels.Ready = "pleb:ready"
	cfg.Labels.Provisioning = "pleb:provisioning"
	cfg.Labels.Working = "pleb:working"
	cfg.Labels.Waiting = "pleb:waiting"
	cfg.Labels.Done = "pleb:done"
	cfg.Labels.Finished = "pleb:finished"
	return cfg
}

func TestManagedLabels(t *testing.T) {
	cfg := testLabelConfig()
	got := managedLabels(cfg)
	want := []string{
		"pleb:ready", "pleb:provisioning", "pleb:working",
		"pleb:waiting", "pleb:done", "pleb:finished",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLabelForName(t *testing.T) {
	cfg := testLabelConfig()

	label, ok := labelForName(cfg, "working")
	if !ok || label != "pleb:working" {
		t.Errorf("labelForName(working) = (%q, %v), want (pleb:working, true)", label, ok)
	}

	if _, ok := labelForName(cfg, "bogus"); ok {
		t.Error("expected labelForName to reject an unknown state name")
	}
}
