package clock

import (
	"testing"
	"time"
)

func TestNewZoneClock(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"default when empty", "", false},
		{"explicit zone", "Europe/Rome", false},
		{"utc", "UTC", false},
		{"bogus zone", "Mars/Olympus", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewZoneClock(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewZoneClock(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if !tt.wantErr && c.Today().IsZero() {
				t.Error("Today() returned zero date")
			}
		})
	}
}

func TestFixedToday(t *testing.T) {
	// 23:30 in Taipei is already the next day relative to UTC; the date must
	// come from the clock's own zone.
	taipei, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Skip("tzdata not available")
	}
	f := Fixed{Instant: time.Date(2025, time.November, 1, 23, 30, 0, 0, taipei)}
	if got := f.Today().ISO(); got != "2025-11-01" {
		t.Errorf("Today() = %s, want 2025-11-01", got)
	}
}
