// Package grading evaluates answers. A vocabulary turn runs free text
// first (literal match, then the semantic judge) and falls back to
// multiple choice; arithmetic is a one-shot multiple-choice check.
package grading

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/judge"
)

// Point awards per path.
const (
	FreeTextPoints   = 3
	ChoicePoints     = 1
	ArithmeticPoints = 3
)

// choiceOptionCount is the target option-set size for the multiple-choice
// fallback: the canonical definition plus three decoys.
const choiceOptionCount = 4

// minAnswerRunes rejects throwaway free-text answers: anything of one or
// two characters goes straight to multiple choice without consulting the
// judge.
const minAnswerRunes = 3

// FreeTextOutcome is the terminal-or-transition result of a free-text
// attempt.
type FreeTextOutcome int

const (
	// OutcomeFallback means the answer was not accepted; the turn
	// continues with multiple choice.
	OutcomeFallback FreeTextOutcome = iota

	// OutcomeCorrect means the answer matched the definition literally
	// or by the judge's verdict. Worth FreeTextPoints.
	OutcomeCorrect

	// OutcomeRejectedWord means the player answered with the prompted
	// word itself. Terminal, zero points, no mastery change and no
	// second chance.
	OutcomeRejectedWord
)

// Result is what a terminal grading step awards. MasteryDelta is always
// >= 0: failed attempts never reduce mastery.
type Result struct {
	Correct      bool
	Points       int
	MasteryDelta int
}

// Grader evaluates vocabulary answers using the semantic judge.
type Grader struct {
	judge *judge.Judge
}

// New creates a Grader. A nil judge is allowed; the judge path then
// always degrades to the multiple-choice fallback.
func New(j *judge.Judge) *Grader {
	return &Grader{judge: j}
}

// GradeFreeText evaluates a free-text definition attempt.
//
// A judge verdict of Unavailable is treated as not-equivalent: the player
// falls through to multiple choice rather than seeing an error.
func (g *Grader) GradeFreeText(ctx context.Context, item content.VocabularyItem, answer string) FreeTextOutcome {
	norm := normalize(answer)

	// Repeating the prompt is not a definition.
	if norm == normalize(item.Word) {
		return OutcomeRejectedWord
	}

	if len([]rune(norm)) < minAnswerRunes {
		return OutcomeFallback
	}

	if norm == normalize(item.Definition) {
		return OutcomeCorrect
	}

	if g.judge.Equivalent(ctx, answer, item.Definition) == judge.Equivalent {
		return OutcomeCorrect
	}

	return OutcomeFallback
}

// FreeTextResult converts a free-text outcome into its award.
// OutcomeFallback has no award; the turn is not terminal yet.
func FreeTextResult(outcome FreeTextOutcome) Result {
	if outcome == OutcomeCorrect {
		return Result{Correct: true, Points: FreeTextPoints, MasteryDelta: FreeTextPoints}
	}
	return Result{}
}

// BuildMultipleChoice assembles the fallback option set: the canonical
// definition plus up to three decoy definitions sampled without
// replacement from the other items. Returns the shuffled options and the
// correct option's position.
func BuildMultipleChoice(rng *rand.Rand, item content.VocabularyItem, all []content.VocabularyItem) ([]string, int) {
	var pool []string
	for _, other := range all {
		if other.Definition == item.Definition {
			continue
		}
		pool = append(pool, other.Definition)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	decoys := choiceOptionCount - 1
	if decoys > len(pool) {
		decoys = len(pool)
	}

	options := append([]string{item.Definition}, pool[:decoys]...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, opt := range options {
		if opt == item.Definition {
			correct = i
			break
		}
	}
	return options, correct
}

// GradeChoice evaluates a multiple-choice selection for vocabulary.
// An out-of-range selection is simply incorrect here; callers reject
// invalid indices before awarding a turn.
func GradeChoice(selected, correctIndex int) Result {
	if selected == correctIndex {
		return Result{Correct: true, Points: ChoicePoints, MasteryDelta: ChoicePoints}
	}
	return Result{}
}

// GradeArithmetic evaluates a multiple-choice selection for arithmetic.
// Score-only: arithmetic has no per-item mastery.
func GradeArithmetic(selected, correctIndex int) Result {
	if selected == correctIndex {
		return Result{Correct: true, Points: ArithmeticPoints}
	}
	return Result{}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
