// ABOUTME: UI-facing contract exposing the mood list and its two mutations.
// ABOUTME: The zero-ish default renders an empty list and ignores mutations until a store is wired.
package mood

import "github.com/2389-research/moodlog/internal/models"

// Context is what screens depend on: the current list plus select/delete handlers.
type Context struct {
	MoodList         models.MoodList
	HandleSelectMood func(models.MoodOption)
	HandleDeleteMood func(models.MoodEntry)
}

// DefaultContext is the value screens see before a store is available.
func DefaultContext() Context {
	return Context{
		MoodList:         models.MoodList{},
		HandleSelectMood: func(models.MoodOption) {},
		HandleDeleteMood: func(models.MoodEntry) {},
	}
}

// SelectMood calls HandleSelectMood if set.
func (c Context) SelectMood(m models.MoodOption) {
	if c.HandleSelectMood != nil {
		c.HandleSelectMood(m)
	}
}

// DeleteMood calls HandleDeleteMood if set.
func (c Context) DeleteMood(e models.MoodEntry) {
	if c.HandleDeleteMood != nil {
		c.HandleDeleteMood(e)
	}
}

// Context returns the contract bound to this store with a snapshot of the current list.
func (s *Store) Context() Context {
	return Context{
		MoodList: s.List(),
		HandleSelectMood: func(m models.MoodOption) {
			s.Select(m)
		},
		HandleDeleteMood: s.Delete,
	}
}
