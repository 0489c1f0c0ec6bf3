// Package content holds the immutable reference data the game runs on:
// the vocabulary list loaded at startup and the static leveling tracks.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// VocabularyItem is one word with its canonical definition. Items are
// immutable after load. Duplicate words are allowed and treated as
// distinct items.
type VocabularyItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// LoadVocabulary reads the vocabulary file. The file is a JSON array of
// {word, definition} objects. A missing or malformed file is an error:
// there is no game without question content, so callers treat this as
// fatal at startup.
func LoadVocabulary(path string) ([]VocabularyItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var items []VocabularyItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse vocabulary file %s: %w", path, err)
	}

	valid := items[:0]
	for _, it := range items {
		it.Word = strings.TrimSpace(it.Word)
		it.Definition = strings.TrimSpace(it.Definition)
		if it.Word == "" || it.Definition == "" {
			continue
		}
		valid = append(valid, it)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("vocabulary file %s contains no usable entries", path)
	}

	return valid, nil
}
