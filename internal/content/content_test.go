package content

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWordsFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadVocabulary(t *testing.T) {
	path := writeWordsFile(t, `[
		{"word": "gregarious", "definition": "fond of company; sociable"},
		{"word": "ephemeral", "definition": "lasting for a very short time"}
	]`)

	items, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Word != "gregarious" {
		t.Fatalf("unexpected first word: %q", items[0].Word)
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadVocabulary_Malformed(t *testing.T) {
	path := writeWordsFile(t, `{"word": "not an array"}`)
	if _, err := LoadVocabulary(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func TestLoadVocabulary_SkipsBlankEntries(t *testing.T) {
	path := writeWordsFile(t, `[
		{"word": "  ", "definition": "no word"},
		{"word": "orphan", "definition": ""},
		{"word": " lucid ", "definition": " clear and easy to understand "}
	]`)

	items, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 usable item, got %d", len(items))
	}
	if items[0].Word != "lucid" || items[0].Definition != "clear and easy to understand" {
		t.Fatalf("entry not trimmed: %+v", items[0])
	}
}

func TestLoadVocabulary_AllBlank(t *testing.T) {
	path := writeWordsFile(t, `[{"word": "", "definition": ""}]`)
	if _, err := LoadVocabulary(path); err == nil {
		t.Fatal("expected error for file with no usable entries")
	}
}
