// Package scheduler picks the next question for a player. Vocabulary
// selection is biased toward the player's weakest words; arithmetic is
// generated fresh at the player's configured grade level.
package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rajatraina/word-quest-game/internal/config"
	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/mathgen"
	"github.com/rajatraina/word-quest-game/internal/store"
)

// weakPoolSize bounds the candidate pool for vocabulary selection: the K
// weakest items, chosen among uniformly. Bounded randomness keeps weak
// material in rotation without starving everything else.
const weakPoolSize = 10

// Scheduler selects questions. It keeps no per-player state; concurrent
// selections are safe as long as the supplied rng draws from a
// synchronized source (the engine passes one).
type Scheduler struct {
	items   []content.VocabularyItem
	players *store.PlayerRepo
	cfg     config.Config
	rng     *rand.Rand
}

// New creates a Scheduler over the loaded vocabulary.
func New(items []content.VocabularyItem, players *store.PlayerRepo, cfg config.Config, rng *rand.Rand) *Scheduler {
	return &Scheduler{items: items, players: players, cfg: cfg, rng: rng}
}

// NextVocabularyItem picks a word for the player, weighted toward the
// items they have answered worst. Words never attempted rank before any
// attempted word; ties break arbitrarily via a pre-sort shuffle.
func (s *Scheduler) NextVocabularyItem(ctx context.Context, playerID string) (content.VocabularyItem, error) {
	if len(s.items) == 0 {
		return content.VocabularyItem{}, fmt.Errorf("no vocabulary loaded")
	}

	rec, err := s.players.Get(ctx, playerID)
	if err != nil {
		return content.VocabularyItem{}, fmt.Errorf("load player state: %w", err)
	}

	ranked := make([]content.VocabularyItem, len(s.items))
	copy(ranked, s.items)
	s.rng.Shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		return masteryRank(rec, ranked[i].Word) < masteryRank(rec, ranked[j].Word)
	})

	pool := ranked
	if len(pool) > weakPoolSize {
		pool = pool[:weakPoolSize]
	}

	return pool[s.rng.IntN(len(pool))], nil
}

// NextArithmeticQuestion generates a problem at the player's grade level.
func (s *Scheduler) NextArithmeticQuestion(playerID string) mathgen.Challenge {
	return mathgen.Generate(s.rng, s.cfg.GradeFor(playerID))
}

// masteryRank orders items for selection: never-attempted words sort
// before everything else.
func masteryRank(rec *store.PlayerRecord, word string) int {
	if m, ok := rec.WordMastery[word]; ok {
		return m
	}
	return math.MinInt
}
