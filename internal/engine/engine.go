// Package engine is the core-facing surface the front ends embed. It owns
// the turn lifecycle: schedule a question, grade the answer, persist the
// outcome, recompute progression, and optionally fold in a bonus game.
//
// Correct answers never leave the engine. A multiple-choice turn hands the
// client only the shuffled options; the correct index is held server-side
// against the player until the selection comes back.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rajatraina/word-quest-game/internal/config"
	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/grading"
	"github.com/rajatraina/word-quest-game/internal/minigame"
	"github.com/rajatraina/word-quest-game/internal/progression"
	"github.com/rajatraina/word-quest-game/internal/scheduler"
	"github.com/rajatraina/word-quest-game/internal/store"
)

// Subject selects which question track a session runs.
type Subject string

const (
	SubjectVocabulary Subject = "vocabulary"
	SubjectArithmetic Subject = "arithmetic"
)

// NoSelection is the sentinel a front end passes when the player gave no
// usable selection at all; it grades as incorrect rather than being
// rejected as a caller bug.
const NoSelection = -1

// Validation errors. These indicate caller/integration bugs and are
// rejected explicitly, never silently defaulted.
var (
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrNoPendingQuestion = errors.New("no pending question for player")
	ErrWordMismatch      = errors.New("submitted word does not match the pending question")
	ErrInvalidSelection  = errors.New("selection index out of range")
	ErrBonusLocked       = errors.New("bonus threshold not reached")
)

// Question is what a front end renders for one turn. For vocabulary only
// the word is exposed; for arithmetic the prompt and shuffled options.
type Question struct {
	Subject Subject
	Word    string
	Prompt  string
	Options []string
}

// TurnResult is the outcome of a submitted answer.
type TurnResult struct {
	Correct  bool
	Points   int
	NewScore int

	// Progression is the player's standing on their visible tracks,
	// recomputed from the updated score.
	Progression []progression.State

	// ShowMultipleChoice is set when a free-text attempt failed and the
	// turn continues as multiple choice over Options. Not terminal.
	ShowMultipleChoice bool
	Options            []string

	// RevealedAnswer carries the canonical answer on incorrect terminal
	// outcomes.
	RevealedAnswer string
}

// SessionInfo is returned when a session starts.
type SessionInfo struct {
	SessionID   string
	Score       int
	Progression []progression.State
}

// BonusOutcome reports an applied minigame bonus.
type BonusOutcome struct {
	Applied     int
	NewScore    int
	Progression []progression.State
}

// pendingTurn holds the server-side state of an in-flight question.
type pendingTurn struct {
	subject Subject

	// Vocabulary state.
	item           content.VocabularyItem
	awaitingChoice bool

	// Multiple-choice state (vocabulary fallback or arithmetic).
	options       []string
	correctIndex  int
	correctAnswer string
}

// Engine wires the scheduler, grader, progression and stores together.
// Turns for different players proceed independently; turns for the same
// player serialize on the store's per-player lock plus the pending-turn
// table.
type Engine struct {
	items   []content.VocabularyItem
	cfg     config.Config
	sched   *scheduler.Scheduler
	grader  *grading.Grader
	players *store.PlayerRepo
	events  store.EventRepo
	games   *minigame.Gateway
	rng     *rand.Rand

	mu      sync.Mutex
	pending map[string]*pendingTurn
}

// Options collects the engine's collaborators.
type Options struct {
	Items   []content.VocabularyItem
	Config  config.Config
	Grader  *grading.Grader
	Players *store.PlayerRepo
	Events  store.EventRepo
	Games   *minigame.Gateway

	// Source seeds the engine's randomness; nil means a fresh PCG.
	// The source is wrapped with a lock, so turns for different players
	// may draw from it concurrently.
	Source rand.Source
}

// lockedSource serializes draws from a rand source. The one rng behind
// the scheduler and the option shuffles is shared by every player's
// turns.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// New creates an Engine.
func New(opts Options) *Engine {
	src := opts.Source
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	rng := rand.New(&lockedSource{src: src})
	return &Engine{
		items:   opts.Items,
		cfg:     opts.Config,
		sched:   scheduler.New(opts.Items, opts.Players, opts.Config, rng),
		grader:  opts.Grader,
		players: opts.Players,
		events:  opts.Events,
		games:   opts.Games,
		rng:     rng,
		pending: make(map[string]*pendingTurn),
	}
}

// StartSession loads the player's current standing for a subject.
func (e *Engine) StartSession(ctx context.Context, playerID string, subject Subject) (*SessionInfo, error) {
	if err := validateSubject(subject); err != nil {
		return nil, err
	}

	rec, err := e.players.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &SessionInfo{
		SessionID:   uuid.NewString(),
		Score:       scoreFor(rec, subject),
		Progression: e.progressionFor(playerID, rec),
	}, nil
}

// NextQuestion schedules the player's next question for the subject and
// records it as the pending turn, replacing any unanswered one.
func (e *Engine) NextQuestion(ctx context.Context, playerID string, subject Subject) (*Question, error) {
	if err := validateSubject(subject); err != nil {
		return nil, err
	}

	key := store.NormalizeID(playerID)

	if subject == SubjectArithmetic {
		ch := e.sched.NextArithmeticQuestion(playerID)
		e.setPending(key, &pendingTurn{
			subject:        SubjectArithmetic,
			awaitingChoice: true,
			options:        ch.Options,
			correctIndex:   ch.CorrectIndex,
			correctAnswer:  ch.Answer,
		})
		return &Question{
			Subject: SubjectArithmetic,
			Prompt:  ch.Prompt,
			Options: ch.Options,
		}, nil
	}

	item, err := e.sched.NextVocabularyItem(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("next question: %w", err)
	}

	e.setPending(key, &pendingTurn{subject: SubjectVocabulary, item: item})
	return &Question{Subject: SubjectVocabulary, Word: item.Word}, nil
}

// SubmitFreeTextAnswer grades a free-text definition attempt against the
// pending vocabulary question. Terminal outcomes persist immediately; a
// failed attempt transitions the turn to multiple choice instead.
func (e *Engine) SubmitFreeTextAnswer(ctx context.Context, playerID, word, text string) (*TurnResult, error) {
	key := store.NormalizeID(playerID)

	turn, err := e.vocabTurn(key, word)
	if err != nil {
		return nil, err
	}
	if turn.awaitingChoice {
		return nil, fmt.Errorf("%w: turn already in multiple choice", ErrNoPendingQuestion)
	}

	outcome := e.grader.GradeFreeText(ctx, turn.item, text)

	if outcome == grading.OutcomeFallback {
		options, correct := grading.BuildMultipleChoice(e.rng, turn.item, e.items)
		e.mu.Lock()
		turn.awaitingChoice = true
		turn.options = options
		turn.correctIndex = correct
		turn.correctAnswer = turn.item.Definition
		e.mu.Unlock()

		return &TurnResult{ShowMultipleChoice: true, Options: options}, nil
	}

	// Terminal: correct free text or rejected literal word.
	e.clearPending(key)

	result := grading.FreeTextResult(outcome)
	recordMastery := outcome != grading.OutcomeRejectedWord
	return e.finishVocabTurn(ctx, playerID, turn.item, "free-text", result, recordMastery)
}

// SubmitMultipleChoice resolves the pending multiple-choice turn with the
// player's selection. Pass NoSelection to grade a missing selection as
// incorrect; any other out-of-range index is rejected as a caller bug.
func (e *Engine) SubmitMultipleChoice(ctx context.Context, playerID string, selected int) (*TurnResult, error) {
	key := store.NormalizeID(playerID)

	e.mu.Lock()
	turn, ok := e.pending[key]
	if !ok || !turn.awaitingChoice {
		e.mu.Unlock()
		return nil, ErrNoPendingQuestion
	}
	delete(e.pending, key)
	e.mu.Unlock()

	if selected != NoSelection && (selected < 0 || selected >= len(turn.options)) {
		return nil, fmt.Errorf("%w: %d of %d options", ErrInvalidSelection, selected, len(turn.options))
	}

	if turn.subject == SubjectArithmetic {
		result := grading.GradeArithmetic(selected, turn.correctIndex)
		return e.finishArithmeticTurn(ctx, playerID, turn, result)
	}

	result := grading.GradeChoice(selected, turn.correctIndex)
	res, err := e.finishVocabTurn(ctx, playerID, turn.item, "multiple-choice", result, true)
	if err != nil {
		return nil, err
	}
	if !result.Correct {
		res.RevealedAnswer = turn.item.Definition
	}
	return res, nil
}

// RunBonusMinigame launches a bonus game for a player who has reached the
// bonus threshold and folds the capped result into their vocabulary
// score. The reward policy is purely additive: a failed or skipped game
// costs nothing.
func (e *Engine) RunBonusMinigame(ctx context.Context, playerID, gameID string) (*BonusOutcome, error) {
	rec, err := e.players.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("run bonus: %w", err)
	}
	if rec.VocabScore < e.cfg.Bonus.Threshold {
		return nil, fmt.Errorf("%w: score %d, need %d", ErrBonusLocked, rec.VocabScore, e.cfg.Bonus.Threshold)
	}

	result, err := e.games.RunBonus(ctx, gameID)
	if err != nil {
		return nil, err
	}

	updated, err := e.players.UpdatePlayer(ctx, playerID, func(r *store.PlayerRecord) {
		r.VocabScore += result.Points
	})
	if err != nil {
		return nil, fmt.Errorf("apply bonus: %w", err)
	}

	e.appendBonusEvent(ctx, playerID, gameID, result)

	return &BonusOutcome{
		Applied:     result.Points,
		NewScore:    updated.VocabScore,
		Progression: e.progressionFor(playerID, updated),
	}, nil
}

// Games returns the configured bonus game IDs.
func (e *Engine) Games() []string {
	if e.games == nil {
		return nil
	}
	return e.games.Games()
}

// BonusAvailable reports whether the player has reached the bonus
// threshold.
func (e *Engine) BonusAvailable(ctx context.Context, playerID string) (bool, error) {
	rec, err := e.players.Get(ctx, playerID)
	if err != nil {
		return false, err
	}
	return rec.VocabScore >= e.cfg.Bonus.Threshold, nil
}

// finishVocabTurn persists a terminal vocabulary outcome: score, mastery
// counter, and the answer event. Mastery never decreases; recordMastery
// is false only for the literal-word rejection, which does not count as
// an attempt.
func (e *Engine) finishVocabTurn(ctx context.Context, playerID string, item content.VocabularyItem, mode string, result grading.Result, recordMastery bool) (*TurnResult, error) {
	updated, err := e.players.UpdatePlayer(ctx, playerID, func(r *store.PlayerRecord) {
		r.VocabScore += result.Points
		if recordMastery {
			r.WordMastery[item.Word] += result.MasteryDelta
		}
	})
	if err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	e.appendAnswerEvent(ctx, store.AnswerEventData{
		PlayerID: playerID,
		Subject:  string(SubjectVocabulary),
		Word:     item.Word,
		Mode:     mode,
		Correct:  result.Correct,
		Points:   result.Points,
	})

	return &TurnResult{
		Correct:     result.Correct,
		Points:      result.Points,
		NewScore:    updated.VocabScore,
		Progression: e.progressionFor(playerID, updated),
	}, nil
}

// finishArithmeticTurn persists a terminal arithmetic outcome
// (score-only; arithmetic has no per-item mastery).
func (e *Engine) finishArithmeticTurn(ctx context.Context, playerID string, turn *pendingTurn, result grading.Result) (*TurnResult, error) {
	updated, err := e.players.UpdatePlayer(ctx, playerID, func(r *store.PlayerRecord) {
		r.MathScore += result.Points
	})
	if err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	e.appendAnswerEvent(ctx, store.AnswerEventData{
		PlayerID: playerID,
		Subject:  string(SubjectArithmetic),
		Mode:     "multiple-choice",
		Correct:  result.Correct,
		Points:   result.Points,
	})

	res := &TurnResult{
		Correct:     result.Correct,
		Points:      result.Points,
		NewScore:    updated.MathScore,
		Progression: e.progressionFor(playerID, updated),
	}
	if !result.Correct {
		res.RevealedAnswer = turn.correctAnswer
	}
	return res, nil
}

// progressionFor computes the standing on the player's visible tracks.
// Both leveling tracks derive from the vocabulary score.
func (e *Engine) progressionFor(playerID string, rec *store.PlayerRecord) []progression.State {
	visible := e.cfg.VisibleTracks(playerID, content.TrackNames())
	return progression.Snapshot(visible, rec.VocabScore)
}

// vocabTurn fetches the pending vocabulary turn and checks the submitted
// word against it.
func (e *Engine) vocabTurn(key, word string) (*pendingTurn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	turn, ok := e.pending[key]
	if !ok || turn.subject != SubjectVocabulary {
		return nil, ErrNoPendingQuestion
	}
	if !strings.EqualFold(strings.TrimSpace(word), turn.item.Word) {
		return nil, fmt.Errorf("%w: got %q, pending %q", ErrWordMismatch, word, turn.item.Word)
	}
	return turn, nil
}

func (e *Engine) setPending(key string, turn *pendingTurn) {
	e.mu.Lock()
	e.pending[key] = turn
	e.mu.Unlock()
}

func (e *Engine) clearPending(key string) {
	e.mu.Lock()
	delete(e.pending, key)
	e.mu.Unlock()
}

func (e *Engine) appendAnswerEvent(ctx context.Context, data store.AnswerEventData) {
	if e.events == nil {
		return
	}
	if err := e.events.AppendAnswer(ctx, data); err != nil {
		warnf("failed to log answer event: %v", err)
	}
}

func (e *Engine) appendBonusEvent(ctx context.Context, playerID, gameID string, result minigame.Result) {
	if e.events == nil {
		return
	}
	err := e.events.AppendBonus(ctx, store.BonusEventData{
		PlayerID:  playerID,
		GameID:    gameID,
		RawPoints: result.Raw,
		Points:    result.Points,
	})
	if err != nil {
		warnf("failed to log bonus event: %v", err)
	}
}

func scoreFor(rec *store.PlayerRecord, subject Subject) int {
	if subject == SubjectArithmetic {
		return rec.MathScore
	}
	return rec.VocabScore
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func validateSubject(subject Subject) error {
	switch subject {
	case SubjectVocabulary, SubjectArithmetic:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
}
