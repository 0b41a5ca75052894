package state

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to PlebState
		want     bool
	}{
		{Ready, Provisioning, true},
		{Provisioning, Working, true},
		{Working, Waiting, true},
		{Working, Done, true},
		{Working, Finished, true},
		{Waiting, Working, true},
		{Waiting, Done, true},
		{Waiting, Finished, true},
		{Done, Finished, true},
		{Done, Working, false},
		{Finished, Working, false},
		{Ready, Working, false},
		{Ready, Finished, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestInsertAndGet(t *testing.T) {
	tr := New()

	issue, err := tr.Insert(42)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if issue.State != Ready {
		t.Errorf("expected new issue in Ready state, got %s", issue.State)
	}

	got, err := tr.Get(42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IssueNumber != 42 {
		t.Errorf("expected issue number 42, got %d", got.IssueNumber)
	}
}

func TestInsertDuplicateRejected(t *testing.T) {
	tr := New()
	if _, err := tr.Insert(1); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := tr.Insert(1); err != ErrAlreadyTracked {
		t.Errorf("expected ErrAlreadyTracked on duplicate insert, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	tr := New()
	if _, err := tr.Get(99); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMut(t *testing.T) {
	tr := New()
	if _, err := tr.Insert(7); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := tr.GetMut(7, func(issue *TrackedIssue) {
		issue.WorktreePath = "/tmp/7-fix-bug"
		issue.WindowName = "issue-7"
	})
	if err != nil {
		t.Fatalf("GetMut failed: %v", err)
	}

	got, _ := tr.Get(7)
	if got.WorktreePath != "/tmp/7-fix-bug" {
		t.Errorf("expected worktree path to persist, got %q", got.WorktreePath)
	}
}

func TestTransitionValid(t *testing.T) {
	tr := New()
	tr.Insert(5)

	if err := tr.Transition(5, Provisioning); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	got, _ := tr.Get(5)
	if got.State != Provisioning {
		t.Errorf("expected state Provisioning, got %s", got.State)
	}
}

func TestTransitionInvalid(t *testing.T) {
	tr := New()
	tr.Insert(5)

	err := tr.Transition(5, Working)
	if err == nil {
		t.Fatal("expected error transitioning Ready -> Working directly")
	}
	var invalidErr *ErrInvalidTransition
	if !isInvalidTransition(err, &invalidErr) {
		t.Errorf("expected ErrInvalidTransition, got %T: %v", err, err)
	}

	got, _ := tr.Get(5)
	if got.State != Ready {
		t.Errorf("state must not change on a rejected transition, got %s", got.State)
	}
}

func isInvalidTransition(err error, target **ErrInvalidTransition) bool {
	e, ok := err.(*ErrInvalidTransition)
	if ok {
		*target = e
	}
	return ok
}

func TestFinishedIsTerminal(t *testing.T) {
	tr := New()
	tr.Insert(1)
	tr.Transition(1, Provisioning)
	tr.Transition(1, Working)
	tr.Transition(1, Done)
	tr.Transition(1, Finished)

	if err := tr.Transition(1, Working); err == nil {
		t.Fatal("expected Finished to be terminal")
	}
}

func TestListByState(t *testing.T) {
	tr := New()
	tr.Insert(1)
	tr.Insert(2)
	tr.Transition(1, Provisioning)
	tr.Transition(1, Working)

	working := tr.ListByState(Working, Waiting)
	if len(working) != 1 || working[0].IssueNumber != 1 {
		t.Errorf("expected only issue 1 in Working, got %+v", working)
	}
}

func TestRemove(t *testing.T) {
	tr := New()
	tr.Insert(3)

	if err := tr.Remove(3); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := tr.Get(3); err != ErrNotFound {
		t.Errorf("expected issue to be gone after Remove, got %v", err)
	}
	if err := tr.Remove(3); err != ErrNotFound {
		t.Errorf("expected ErrNotFound removing an already-removed issue, got %v", err)
	}
}
