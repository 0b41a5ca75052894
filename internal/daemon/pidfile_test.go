package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)

	if err := pf.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	pid, err := pf.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected pid %d, got %d", os.Getpid(), pid)
	}

	if err := pf.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(pf.path); !os.IsNotExist(err) {
		t.Error("expected pid file to be removed")
	}
}

func TestAcquireRejectsLiveOwner(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)
	if err := pf.Acquire(); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	defer pf.Release()

	second := NewPIDFile(dir)
	if err := second.Acquire(); err == nil {
		t.Fatal("expected second Acquire to fail while this process holds the pid file")
	}
}

func TestAcquireReclaimsStalePIDFile(t *testing.T) {
	dir := t.TempDir()
	// A PID that is exceedingly unlikely to be alive.
	if err := os.WriteFile(filepath.Join(dir, "pleb.pid"), []byte("999999"), 0o644); err != nil {
		t.Fatalf("seeding stale pid file: %v", err)
	}

	pf := NewPIDFile(dir)
	if err := pf.Acquire(); err != nil {
		t.Fatalf("expected Acquire to reclaim a stale pid file, got %v", err)
	}
	defer pf.Release()

	pid, err := pf.Read()
	if err != nil || pid != os.Getpid() {
		t.Errorf("expected reclaimed pid file to hold this process's pid, got %d, %v", pid, err)
	}
}

func TestReleaseWithoutAcquireIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)
	if err := pf.Release(); err != nil {
		t.Errorf("expected Release without Acquire to be a no-op, got %v", err)
	}
}
