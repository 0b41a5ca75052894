package main

import (
	"testing"

	"github.com/pleborg/pleb/internal/state"
)

func TestLabelForState(t *testing.T) {
	cfg := testLabelConfig()

	cases := []struct {
		s    state.PlebState
		want string
	}{
		{state.Ready, "pleb:ready"},
		{state.Provisioning, "pleb:provisioning"},
		{state.Working, "pleb:working"},
		{state.Waiting, "pleb:waiting"},
		{state.Done, "pleb:done"},
		{state.Finished, "pleb:finished"},
	}
	for _, c := range cases {
		if got := labelForState(cfg, c.s); got != c.want {
			t.Errorf("labelForState(%s) = %q, want %q", c.s, got, c.want)
		}
	}

	if got := labelForState(cfg, state.PlebState("bogus")); got != "" {
		t.Errorf("labelForState(bogus) = %q, want empty string", got)
	}
}
