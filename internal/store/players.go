package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// PlayerRecord is the durable per-player state. WordMastery maps a
// vocabulary word to its mastery counter; absent words are mastery 0
// with the distinction that they have never been attempted.
type PlayerRecord struct {
	PlayerID    string
	VocabScore  int
	MathScore   int
	WordMastery map[string]int
}

// Clone returns a deep copy. Callers outside the repo only ever see copies;
// the persisted row is mutated exclusively through UpdatePlayer.
func (p *PlayerRecord) Clone() *PlayerRecord {
	cp := &PlayerRecord{
		PlayerID:    p.PlayerID,
		VocabScore:  p.VocabScore,
		MathScore:   p.MathScore,
		WordMastery: make(map[string]int, len(p.WordMastery)),
	}
	for w, m := range p.WordMastery {
		cp.WordMastery[w] = m
	}
	return cp
}

// playerRow maps the players table.
type playerRow struct {
	ID         string `db:"id"`
	VocabScore int    `db:"vocab_score"`
	MathScore  int    `db:"math_score"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// masteryRow maps the word_mastery table.
type masteryRow struct {
	PlayerID string `db:"player_id"`
	Word     string `db:"word"`
	Mastery  int    `db:"mastery"`
}

// PlayerRepo owns all reads and writes of player records. Mutation of a
// given player is a critical section: UpdatePlayer serializes on a
// per-player lock so concurrent turns against the same player cannot
// lose updates.
type PlayerRepo struct {
	db    *sqlx.DB
	locks sync.Map // map[string]*sync.Mutex, keyed by normalized player ID
}

func newPlayerRepo(db *sqlx.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// NormalizeID lowercases and trims a player identifier. Player keys are
// case-insensitive.
func NormalizeID(playerID string) string {
	return strings.ToLower(strings.TrimSpace(playerID))
}

func (r *PlayerRepo) lockFor(id string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Get returns a copy of the player's record, creating an empty record on
// first reference to a new player ID.
func (r *PlayerRepo) Get(ctx context.Context, playerID string) (*PlayerRecord, error) {
	id := NormalizeID(playerID)
	if id == "" {
		return nil, fmt.Errorf("empty player id")
	}

	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	return r.load(ctx, id)
}

// UpdatePlayer loads the player's record, applies fn to it, and persists
// the result, all under the player's lock. fn receives the record by
// pointer and mutates it in place.
func (r *PlayerRepo) UpdatePlayer(ctx context.Context, playerID string, fn func(*PlayerRecord)) (*PlayerRecord, error) {
	id := NormalizeID(playerID)
	if id == "" {
		return nil, fmt.Errorf("empty player id")
	}

	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	rec, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(rec)

	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Delete removes a player's record and mastery counters.
func (r *PlayerRepo) Delete(ctx context.Context, playerID string) error {
	id := NormalizeID(playerID)
	if id == "" {
		return fmt.Errorf("empty player id")
	}

	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM word_mastery WHERE player_id = ?`, id); err != nil {
		return fmt.Errorf("delete mastery: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return tx.Commit()
}

// AllPlayers returns copies of every stored player record, for the stats
// command.
func (r *PlayerRepo) AllPlayers(ctx context.Context) ([]*PlayerRecord, error) {
	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM players ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]*PlayerRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := r.load(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// load reads a record, synthesizing an empty one for unknown players.
// Caller holds the player lock.
func (r *PlayerRepo) load(ctx context.Context, id string) (*PlayerRecord, error) {
	rec := &PlayerRecord{
		PlayerID:    id,
		WordMastery: make(map[string]int),
	}

	var row playerRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM players WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load player %q: %w", id, err)
	}

	rec.VocabScore = row.VocabScore
	rec.MathScore = row.MathScore

	var mrows []masteryRow
	if err := r.db.SelectContext(ctx, &mrows, `SELECT * FROM word_mastery WHERE player_id = ?`, id); err != nil {
		return nil, fmt.Errorf("load mastery for %q: %w", id, err)
	}
	for _, m := range mrows {
		rec.WordMastery[m.Word] = m.Mastery
	}

	return rec, nil
}

// save upserts the record and its mastery counters. Caller holds the
// player lock.
func (r *PlayerRepo) save(ctx context.Context, rec *PlayerRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, vocab_score, math_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			vocab_score = excluded.vocab_score,
			math_score  = excluded.math_score,
			updated_at  = excluded.updated_at`,
		rec.PlayerID, rec.VocabScore, rec.MathScore, now, now)
	if err != nil {
		return fmt.Errorf("save player %q: %w", rec.PlayerID, err)
	}

	for word, mastery := range rec.WordMastery {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO word_mastery (player_id, word, mastery)
			VALUES (?, ?, ?)
			ON CONFLICT(player_id, word) DO UPDATE SET mastery = excluded.mastery`,
			rec.PlayerID, word, mastery)
		if err != nil {
			return fmt.Errorf("save mastery %q/%q: %w", rec.PlayerID, word, err)
		}
	}

	return tx.Commit()
}
