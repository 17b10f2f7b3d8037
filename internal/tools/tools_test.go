package tools

import (
	"testing"
	"time"
)

func TestCurrentTime_Phrasing(t *testing.T) {
	tl := New()
	tl.now = func() time.Time {
		return time.Date(2026, time.August, 27, 15, 4, 0, 0, time.UTC)
	}

	got := tl.CurrentTime()
	want := "It's 3:04 PM on Thursday, August 27, 2026."
	if got != want {
		t.Errorf("CurrentTime() = %q, want %q", got, want)
	}
}
