package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultGrade != 5 {
		t.Fatalf("default grade = %d, want 5", cfg.DefaultGrade)
	}
	if cfg.Bonus.Threshold != 30 || cfg.Bonus.Cap != 15 {
		t.Fatalf("bonus defaults = %d/%d, want 30/15", cfg.Bonus.Threshold, cfg.Bonus.Cap)
	}
	if len(cfg.Bonus.Games) != 3 {
		t.Fatalf("expected 3 stock games, got %d", len(cfg.Bonus.Games))
	}
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordquest.yaml")
	data := `
default_grade: 3
grades:
  maya: 2
  theo: 7
tracks:
  maya: [elements]
bonus:
  threshold: 20
  cap: 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultGrade != 3 {
		t.Fatalf("default grade = %d, want 3", cfg.DefaultGrade)
	}
	if cfg.Bonus.Threshold != 20 || cfg.Bonus.Cap != 10 {
		t.Fatalf("bonus = %d/%d, want 20/10", cfg.Bonus.Threshold, cfg.Bonus.Cap)
	}
	if cfg.GradeFor("Maya") != 2 {
		t.Fatalf("grade lookup should be case-insensitive")
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("grades: [not: a: map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGradeFor(t *testing.T) {
	cfg := Default()
	cfg.Grades = map[string]int{"maya": 2}

	if g := cfg.GradeFor("maya"); g != 2 {
		t.Fatalf("grade = %d, want 2", g)
	}
	if g := cfg.GradeFor("  MAYA  "); g != 2 {
		t.Fatalf("normalized grade = %d, want 2", g)
	}
	if g := cfg.GradeFor("stranger"); g != cfg.DefaultGrade {
		t.Fatalf("unknown player grade = %d, want default %d", g, cfg.DefaultGrade)
	}
}

func TestVisibleTracks(t *testing.T) {
	all := []string{"elements", "cats"}

	cfg := Default()
	if got := cfg.VisibleTracks("anyone", all); len(got) != 2 {
		t.Fatalf("unlisted player should see all tracks, got %v", got)
	}

	cfg.Tracks = map[string][]string{"maya": {"cats"}}
	got := cfg.VisibleTracks("Maya", all)
	if len(got) != 1 || got[0] != "cats" {
		t.Fatalf("expected [cats], got %v", got)
	}
}

func TestGameTimeout(t *testing.T) {
	cfg := Default()
	if got := cfg.GameTimeout(); got != 300*time.Second {
		t.Fatalf("timeout = %s, want 5m", got)
	}

	cfg.Bonus.TimeoutSeconds = 0
	if got := cfg.GameTimeout(); got != 5*time.Minute {
		t.Fatalf("zero timeout should fall back to 5m, got %s", got)
	}
}
