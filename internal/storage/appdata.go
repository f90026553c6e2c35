// ABOUTME: JSON codec for the persisted AppData envelope.
// ABOUTME: Rejects any shape mismatch so callers can treat it as absent data.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/2389-research/moodlog/internal/models"
)

// ErrMalformed is returned by DecodeAppData when the blob does not match the envelope shape.
var ErrMalformed = errors.New("malformed app data")

// wireMood and wireEntry use pointers so missing keys can be told apart from zero values.
type wireMood struct {
	Emoji       *string `json:"emoji"`
	Description *string `json:"description"`
}

type wireEntry struct {
	Mood      *wireMood `json:"mood"`
	Timestamp *int64    `json:"timestamp"`
}

type wireAppData struct {
	MoodList *[]wireEntry `json:"moodList"`
}

// EncodeAppData serializes the envelope. A nil list encodes as an empty array.
func EncodeAppData(data models.AppData) (string, error) {
	if data.MoodList == nil {
		data.MoodList = models.MoodList{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode app data: %w", err)
	}
	return string(b), nil
}

// DecodeAppData parses a blob produced by EncodeAppData.
func DecodeAppData(blob string) (models.AppData, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
	dec.DisallowUnknownFields()

	var wire wireAppData
	if err := dec.Decode(&wire); err != nil {
		return models.AppData{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.AppData{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if wire.MoodList == nil {
		return models.AppData{}, fmt.Errorf("%w: missing moodList", ErrMalformed)
	}

	list := make(models.MoodList, 0, len(*wire.MoodList))
	for i, we := range *wire.MoodList {
		if we.Mood == nil || we.Mood.Emoji == nil || we.Mood.Description == nil || we.Timestamp == nil {
			return models.AppData{}, fmt.Errorf("%w: entry %d is incomplete", ErrMalformed, i)
		}
		list = append(list, models.MoodEntry{
			Mood: models.MoodOption{
				Emoji:       *we.Mood.Emoji,
				Description: *we.Mood.Description,
			},
			Timestamp: *we.Timestamp,
		})
	}

	return models.AppData{MoodList: list}, nil
}
