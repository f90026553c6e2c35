// ABOUTME: Core data models for mood options, recorded mood entries, and the persisted envelope.
// ABOUTME: Provides the predefined option set, constructors, and list helpers keyed by timestamp.
package models

import (
	"strings"
	"time"
)

// MoodOption is one of the predefined moods a user can pick.
type MoodOption struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// MoodOptions lists the selectable moods in picker order.
var MoodOptions = []MoodOption{
	{Emoji: "🧑‍💻", Description: "studious"},
	{Emoji: "🤔", Description: "pensive"},
	{Emoji: "😊", Description: "happy"},
	{Emoji: "🥳", Description: "celebratory"},
	{Emoji: "😤", Description: "frustrated"},
}

// FindMoodOption resolves a mood option by emoji or case-insensitive description.
func FindMoodOption(query string) (MoodOption, bool) {
	q := strings.TrimSpace(query)
	for _, opt := range MoodOptions {
		if opt.Emoji == q || strings.EqualFold(opt.Description, q) {
			return opt, true
		}
	}
	return MoodOption{}, false
}

// MoodEntry is a recorded mood. Timestamp is Unix milliseconds and doubles as the entry's identity.
type MoodEntry struct {
	Mood      MoodOption `json:"mood"`
	Timestamp int64      `json:"timestamp"`
}

// NewMoodEntry creates an entry for mood stamped with now.
func NewMoodEntry(mood MoodOption, now time.Time) MoodEntry {
	return MoodEntry{
		Mood:      mood,
		Timestamp: now.UnixMilli(),
	}
}

// Time returns the entry's timestamp as a local time.Time.
func (e MoodEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// DisplayTimeLayout renders like "05 Mar, 2024 at 3:04pm".
const DisplayTimeLayout = "02 Jan, 2006 at 3:04pm"

// FormatTime renders the entry timestamp for display.
func (e MoodEntry) FormatTime() string {
	return e.Time().Format(DisplayTimeLayout)
}

// MoodList is an insertion-ordered (oldest first) sequence of entries.
type MoodList []MoodEntry

// Clone returns an independent copy of the list. A nil list clones to an empty one.
func (l MoodList) Clone() MoodList {
	out := make(MoodList, len(l))
	copy(out, l)
	return out
}

// Contains reports whether an entry with the given timestamp exists.
func (l MoodList) Contains(timestamp int64) bool {
	for _, e := range l {
		if e.Timestamp == timestamp {
			return true
		}
	}
	return false
}

// Without returns a new list with every entry matching timestamp removed.
func (l MoodList) Without(timestamp int64) MoodList {
	out := make(MoodList, 0, len(l))
	for _, e := range l {
		if e.Timestamp != timestamp {
			out = append(out, e)
		}
	}
	return out
}

// Reversed returns the list newest first, for display.
func (l MoodList) Reversed() MoodList {
	out := make(MoodList, len(l))
	for i, e := range l {
		out[len(l)-1-i] = e
	}
	return out
}

// AppData is the persisted envelope holding the application's entire durable state.
type AppData struct {
	MoodList MoodList `json:"moodList"`
}
