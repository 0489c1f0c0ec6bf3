package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/rajatraina/word-quest-game/internal/config"
	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/store"
)

func testRepo(t *testing.T) *store.PlayerRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st.Players()
}

func testItems(n int) []content.VocabularyItem {
	items := make([]content.VocabularyItem, n)
	for i := range items {
		items[i] = content.VocabularyItem{
			Word:       fmt.Sprintf("word%02d", i),
			Definition: fmt.Sprintf("definition %02d", i),
		}
	}
	return items
}

func TestNextVocabularyItem_EmptyVocabulary(t *testing.T) {
	s := New(nil, testRepo(t), config.Default(), rand.New(rand.NewPCG(1, 2)))
	if _, err := s.NextVocabularyItem(context.Background(), "maya"); err == nil {
		t.Fatal("expected error with no vocabulary")
	}
}

func TestNextVocabularyItem_SingleItem(t *testing.T) {
	items := testItems(1)
	s := New(items, testRepo(t), config.Default(), rand.New(rand.NewPCG(1, 2)))

	item, err := s.NextVocabularyItem(context.Background(), "maya")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item != items[0] {
		t.Fatalf("got %+v, want the only item", item)
	}
}

func TestNextVocabularyItem_MasteredWordLeavesWeakPool(t *testing.T) {
	// 11 items, one heavily mastered: the candidate pool is the 10
	// weakest, so the mastered word must never be selected.
	items := testItems(11)
	repo := testRepo(t)
	ctx := context.Background()

	_, err := repo.UpdatePlayer(ctx, "maya", func(r *store.PlayerRecord) {
		r.WordMastery["word05"] = 100
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(items, repo, config.Default(), rand.New(rand.NewPCG(7, 8)))
	for range 200 {
		item, err := s.NextVocabularyItem(ctx, "maya")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Word == "word05" {
			t.Fatal("mastered word selected from the weak pool")
		}
	}
}

func TestNextVocabularyItem_UnattemptedBeforeAttempted(t *testing.T) {
	// 12 items, 10 attempted: the pool is the 2 unattempted words plus
	// the 8 weakest attempted ones; the two strongest must never appear.
	items := testItems(12)
	repo := testRepo(t)
	ctx := context.Background()

	_, err := repo.UpdatePlayer(ctx, "theo", func(r *store.PlayerRecord) {
		for i := range 10 {
			r.WordMastery[fmt.Sprintf("word%02d", i)] = i + 1
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(items, repo, config.Default(), rand.New(rand.NewPCG(9, 10)))
	seen := make(map[string]bool)
	for range 500 {
		item, err := s.NextVocabularyItem(ctx, "theo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[item.Word] = true
	}

	if seen["word08"] || seen["word09"] {
		t.Fatal("strongest words selected from the weak pool")
	}
	if !seen["word10"] || !seen["word11"] {
		t.Fatal("never-attempted words should stay in rotation")
	}
}

func TestNextVocabularyItem_WeakWordStaysInRotation(t *testing.T) {
	// One word at mastery 0, everything else far stronger: the weak word
	// sits in the candidate pool every turn, so over a large sample it
	// must come up at least 1 in 10 times.
	items := testItems(20)
	repo := testRepo(t)
	ctx := context.Background()

	_, err := repo.UpdatePlayer(ctx, "ada", func(r *store.PlayerRecord) {
		for i := range 20 {
			r.WordMastery[fmt.Sprintf("word%02d", i)] = 50
		}
		r.WordMastery["word13"] = 0
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(items, repo, config.Default(), rand.New(rand.NewPCG(15, 16)))
	hits := 0
	const draws = 1000
	for range draws {
		item, err := s.NextVocabularyItem(ctx, "ada")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Word == "word13" {
			hits++
		}
	}

	// Expected frequency is 1/10; allow slack for sampling noise.
	if hits < draws/20 {
		t.Fatalf("weak word selected %d/%d times, want at least %d", hits, draws, draws/20)
	}
}

func TestNextVocabularyItem_SpreadsOverWeakPool(t *testing.T) {
	items := testItems(20)
	s := New(items, testRepo(t), config.Default(), rand.New(rand.NewPCG(11, 12)))

	seen := make(map[string]bool)
	for range 500 {
		item, err := s.NextVocabularyItem(context.Background(), "zoe")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[item.Word] = true
	}

	// All words are unattempted and tie at the same rank; the pre-sort
	// shuffle should rotate the pool rather than pinning one subset.
	if len(seen) < 15 {
		t.Fatalf("selection visited only %d of 20 words", len(seen))
	}
}

func TestNextArithmeticQuestion_UsesConfiguredGrade(t *testing.T) {
	cfg := config.Default()
	cfg.Grades = map[string]int{"maya": 1}

	s := New(nil, testRepo(t), cfg, rand.New(rand.NewPCG(13, 14)))
	ch := s.NextArithmeticQuestion("maya")
	if ch.Grade != 1 {
		t.Fatalf("challenge grade = %d, want 1", ch.Grade)
	}

	ch = s.NextArithmeticQuestion("stranger")
	if ch.Grade != cfg.DefaultGrade {
		t.Fatalf("challenge grade = %d, want default %d", ch.Grade, cfg.DefaultGrade)
	}
}
