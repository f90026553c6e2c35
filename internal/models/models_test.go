// ABOUTME: Tests for mood models and list helpers.
// ABOUTME: Covers option lookup, timestamp identity, filtering, and display ordering.
package models

import (
	"testing"
	"time"
)

func TestFindMoodOption(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"by emoji", "😊", "happy", true},
		{"by description", "pensive", "pensive", true},
		{"case insensitive", "  Frustrated ", "frustrated", true},
		{"unknown", "sleepy", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindMoodOption(tt.query)
			if ok != tt.found {
				t.Fatalf("FindMoodOption(%q) found = %v, want %v", tt.query, ok, tt.found)
			}
			if got.Description != tt.want {
				t.Errorf("FindMoodOption(%q) = %q, want %q", tt.query, got.Description, tt.want)
			}
		})
	}
}

func TestNewMoodEntryTimestamp(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	entry := NewMoodEntry(MoodOptions[2], now)

	if entry.Timestamp != 1700000000123 {
		t.Errorf("expected timestamp 1700000000123, got %d", entry.Timestamp)
	}
	if !entry.Time().Equal(now) {
		t.Errorf("Time() = %v, want %v", entry.Time(), now)
	}
}

func TestMoodListWithout(t *testing.T) {
	list := MoodList{
		{Mood: MoodOptions[0], Timestamp: 1},
		{Mood: MoodOptions[1], Timestamp: 2},
		{Mood: MoodOptions[2], Timestamp: 3},
	}

	got := list.Without(2)
	if len(got) != 2 || got[0].Timestamp != 1 || got[1].Timestamp != 3 {
		t.Errorf("Without(2) = %+v", got)
	}
	if len(list) != 3 {
		t.Error("Without must not modify the receiver")
	}

	same := list.Without(42)
	if len(same) != 3 {
		t.Errorf("Without(missing) changed length to %d", len(same))
	}
}

func TestMoodListReversed(t *testing.T) {
	list := MoodList{{Timestamp: 1}, {Timestamp: 2}, {Timestamp: 3}}
	rev := list.Reversed()

	for i, want := range []int64{3, 2, 1} {
		if rev[i].Timestamp != want {
			t.Errorf("Reversed()[%d] = %d, want %d", i, rev[i].Timestamp, want)
		}
	}
}

func TestMoodListCloneNil(t *testing.T) {
	var list MoodList
	clone := list.Clone()
	if clone == nil {
		t.Fatal("Clone of nil list should be non-nil")
	}
	if len(clone) != 0 {
		t.Errorf("expected empty clone, got %d entries", len(clone))
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 15, 4, 0, 0, time.Local)
	entry := NewMoodEntry(MoodOptions[0], ts)
	if got := entry.FormatTime(); got != "05 Mar, 2024 at 3:04pm" {
		t.Errorf("FormatTime() = %q", got)
	}
}
