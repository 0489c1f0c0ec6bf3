package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AnswerEventData records one graded answer.
type AnswerEventData struct {
	PlayerID string
	Subject  string // "vocabulary" or "arithmetic"
	Word     string // empty for arithmetic
	Mode     string // "free-text", "multiple-choice"
	Correct  bool
	Points   int
}

// BonusEventData records one bonus minigame run.
type BonusEventData struct {
	PlayerID  string
	GameID    string
	RawPoints int // as reported by the game, before capping
	Points    int // applied to the score
}

// JudgeEventData records one call to the equivalence oracle.
type JudgeEventData struct {
	Model        string
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to the event log. Appends never fail
// the gameplay turn; callers log and continue on error.
type EventRepo interface {
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AppendBonus(ctx context.Context, data BonusEventData) error
	AppendJudgeRequest(ctx context.Context, data JudgeEventData) error

	// AnswerCounts returns (total, correct) answer counts for a player,
	// for the stats command.
	AnswerCounts(ctx context.Context, playerID string) (int, int, error)
}

type eventRepo struct {
	db *sqlx.DB
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answer_events (player_id, subject, word, mode, correct, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		NormalizeID(data.PlayerID), data.Subject, data.Word, data.Mode,
		data.Correct, data.Points, now())
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendBonus(ctx context.Context, data BonusEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bonus_events (player_id, game_id, raw_points, points, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		NormalizeID(data.PlayerID), data.GameID, data.RawPoints, data.Points, now())
	if err != nil {
		return fmt.Errorf("append bonus event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendJudgeRequest(ctx context.Context, data JudgeEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO judge_events (model, latency_ms, input_tokens, output_tokens, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.Model, data.LatencyMs, data.InputTokens, data.OutputTokens,
		data.Success, data.ErrorMessage, now())
	if err != nil {
		return fmt.Errorf("append judge event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerCounts(ctx context.Context, playerID string) (int, int, error) {
	var counts struct {
		Total   int `db:"total"`
		Correct int `db:"correct"`
	}
	err := r.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total, COALESCE(SUM(correct), 0) AS correct
		FROM answer_events WHERE player_id = ?`,
		NormalizeID(playerID))
	if err != nil {
		return 0, 0, fmt.Errorf("answer counts: %w", err)
	}
	return counts.Total, counts.Correct, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
