package main

import (
	"testing"

	"github.com/pleborg/pleb/internal/config"
)

func TestCloneURLDefaultHost(t *testing.T) {
	cfg := &config.Config{}
	cfg.GitHub.Owner = "pleborg"
	cfg.GitHub.Repo = "pleb"

	got := cloneURL(cfg)
	want := "https://github.com/pleborg/pleb.git"
	if got != want {
		t.Errorf("cloneURL() = %q, want %q", got, want)
	}
}

func TestCloneURLEnterpriseHost(t *testing.T) {
	cfg := &config.Config{}
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "widgets"
	cfg.GitHub.Host = "git.acme.internal"

	got := cloneURL(cfg)
	want := "https://git.acme.internal/acme/widgets.git"
	if got != want {
		t.Errorf("cloneURL() = %q, want %q", got, want)
	}
}
