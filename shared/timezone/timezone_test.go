package timezone_test

import (
	"testing"
	"time"
	"todoapi/shared/timezone"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		expected string
	}{
		{name: "empty falls back to UTC", zone: "", expected: "UTC"},
		{name: "unknown falls back to UTC", zone: "Mars/Olympus_Mons", expected: "UTC"},
		{name: "utc", zone: "UTC", expected: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timezone.Load(tt.zone).String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestNow(t *testing.T) {
	before := time.Now()
	now := timezone.Now()

	if now.IsZero() {
		t.Fatal("Now() returned zero time")
	}

	if now.Before(before.Add(-time.Second)) {
		t.Errorf("Now() = %v is earlier than %v", now, before)
	}

	if timezone.GetLocation() == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if formatted := timezone.Format(testTime, time.RFC3339); formatted == "" {
		t.Error("Format() returned empty string")
	}

	if !timezone.ToAppTime(testTime).Equal(testTime) {
		t.Error("ToAppTime() must not change the instant")
	}
}
