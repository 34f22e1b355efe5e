package repository

import (
	"testing"
	"time"
)

func TestBirthdayWindow(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		wantFirst   string
		wantLast    string
		contains    []string
		notContains []string
	}{
		{
			name:      "Mid year",
			now:       time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC),
			wantFirst: "06-10",
			wantLast:  "06-17",
			contains:  []string{"06-10", "06-13", "06-17"},
			notContains: []string{
				"06-09", "06-18",
			},
		},
		{
			name:      "December wraps into January",
			now:       time.Date(2024, time.December, 28, 0, 0, 0, 0, time.UTC),
			wantFirst: "12-28",
			wantLast:  "01-04",
			contains:  []string{"12-30", "12-31", "01-01", "01-03"},
			notContains: []string{
				"12-27", "01-05", "07-01",
			},
		},
		{
			name:      "January does not reach July",
			now:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantFirst: "01-01",
			wantLast:  "01-08",
			contains:  []string{"01-01", "01-08"},
			notContains: []string{
				"07-01", "12-31",
			},
		},
		{
			name:      "Leap day included",
			now:       time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC),
			wantFirst: "02-27",
			wantLast:  "03-05",
			contains:  []string{"02-29", "03-01"},
			notContains: []string{
				"02-26",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := BirthdayWindow(tt.now)

			if len(keys) != 8 {
				t.Fatalf("Expected 8 keys, got %d", len(keys))
			}
			if keys[0] != tt.wantFirst {
				t.Errorf("Expected first key %s, got %s", tt.wantFirst, keys[0])
			}
			if keys[7] != tt.wantLast {
				t.Errorf("Expected last key %s, got %s", tt.wantLast, keys[7])
			}

			set := make(map[string]bool, len(keys))
			for _, k := range keys {
				set[k] = true
			}
			for _, want := range tt.contains {
				if !set[want] {
					t.Errorf("Expected window to contain %s, keys %v", want, keys)
				}
			}
			for _, not := range tt.notContains {
				if set[not] {
					t.Errorf("Expected window to exclude %s, keys %v", not, keys)
				}
			}
		})
	}
}
