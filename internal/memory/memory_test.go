package memory

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRememberAndAll(t *testing.T) {
	s := newTestStore(t)

	f, err := s.Remember("my favorite color is blue", []string{"personal"})
	if err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if f.ID == 0 {
		t.Error("fact ID should be assigned")
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1", len(all))
	}
	if all[0].Text != "my favorite color is blue" {
		t.Errorf("text = %q", all[0].Text)
	}
	if len(all[0].Tags) != 1 || all[0].Tags[0] != "personal" {
		t.Errorf("tags = %v", all[0].Tags)
	}

	if _, err := s.Remember("   ", nil); err == nil {
		t.Error("blank fact should fail")
	}
}

func TestRecall_RanksByOverlap(t *testing.T) {
	s := newTestStore(t)
	s.Remember("the wifi password is hunter2", nil)
	s.Remember("car parked on level 3", nil)
	s.Remember("the guest wifi network is called zen-guest", nil)

	got, err := s.Recall("what is the wifi password", 3)
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 (car fact has no overlapping words)", len(got))
	}
	if got[0].Text != "the wifi password is hunter2" {
		t.Errorf("best match = %q", got[0].Text)
	}
}

func TestRecall_NoMatches(t *testing.T) {
	s := newTestStore(t)
	s.Remember("birthday on march fifth", nil)

	got, err := s.Recall("quantum chromodynamics", 3)
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d facts, want none", len(got))
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	s.Remember("something", nil)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	all, _ := s.All()
	if len(all) != 0 {
		t.Errorf("store not empty after Clear: %d facts", len(all))
	}
}
