package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatraina/word-quest-game/internal/config"
	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/grading"
	"github.com/rajatraina/word-quest-game/internal/judge"
	"github.com/rajatraina/word-quest-game/internal/llm"
	"github.com/rajatraina/word-quest-game/internal/minigame"
	"github.com/rajatraina/word-quest-game/internal/store"
)

func testVocabulary() []content.VocabularyItem {
	return []content.VocabularyItem{
		{Word: "gregarious", Definition: "fond of company; sociable"},
		{Word: "ephemeral", Definition: "lasting a very short time"},
		{Word: "lucid", Definition: "clear and easy to understand"},
		{Word: "arduous", Definition: "requiring great effort"},
	}
}

type testEnv struct {
	eng     *Engine
	players *store.PlayerRepo
	mock    *llm.MockProvider
}

func newTestEnv(t *testing.T, responses ...llm.MockResponse) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(responses...)
	cfg := config.Default()
	players := st.Players()

	eng := New(Options{
		Items:   testVocabulary(),
		Config:  cfg,
		Grader:  grading.New(judge.New(mock, time.Second)),
		Players: players,
		Events:  st.Events(),
		Games: minigame.New(map[string][]string{
			"jackpot": {"sh", "-c", `echo "BONUS RESULT: 50"`},
			"dud":     {"sh", "-c", `echo "no result"`},
		}, cfg.Bonus.Cap, 10*time.Second),
		Source: rand.NewPCG(1, 2),
	})

	return &testEnv{eng: eng, players: players, mock: mock}
}

func definitionOf(t *testing.T, word string) string {
	t.Helper()
	for _, item := range testVocabulary() {
		if item.Word == word {
			return item.Definition
		}
	}
	t.Fatalf("unknown test word %q", word)
	return ""
}

func TestStartSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	info, err := env.eng.StartSession(ctx, "Maya", SubjectVocabulary)
	require.NoError(t, err)
	assert.NotEmpty(t, info.SessionID)
	assert.Zero(t, info.Score)
	assert.Len(t, info.Progression, 2)

	_, err = env.eng.StartSession(ctx, "Maya", Subject("history"))
	require.ErrorIs(t, err, ErrUnknownSubject)
}

func TestVocabularyTurn_FreeTextCorrect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)
	assert.Equal(t, SubjectVocabulary, q.Subject)
	assert.NotEmpty(t, q.Word)
	assert.Empty(t, q.Options, "a vocabulary question exposes only the word")

	res, err := env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, definitionOf(t, q.Word))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, grading.FreeTextPoints, res.Points)
	assert.Equal(t, grading.FreeTextPoints, res.NewScore)
	assert.Len(t, res.Progression, 2)

	rec, err := env.players.Get(ctx, "maya")
	require.NoError(t, err)
	assert.Equal(t, grading.FreeTextPoints, rec.WordMastery[q.Word])

	// The turn is consumed.
	_, err = env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, "again")
	require.ErrorIs(t, err, ErrNoPendingQuestion)
}

func TestVocabularyTurn_WordMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)

	_, err = env.eng.SubmitFreeTextAnswer(ctx, "maya", "some-other-word", "whatever")
	require.ErrorIs(t, err, ErrWordMismatch)
}

func TestVocabularyTurn_NoPendingQuestion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.SubmitFreeTextAnswer(context.Background(), "maya", "gregarious", "whatever")
	require.ErrorIs(t, err, ErrNoPendingQuestion)
}

func TestVocabularyTurn_FallbackToChoiceCorrect(t *testing.T) {
	// Empty mock: the judge is unavailable, so a non-literal answer
	// falls through to multiple choice.
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)

	res, err := env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, "not the right definition")
	require.NoError(t, err)
	assert.True(t, res.ShowMultipleChoice)
	assert.False(t, res.Correct)
	require.NotEmpty(t, res.Options)
	assert.Contains(t, res.Options, definitionOf(t, q.Word))

	// A second free-text attempt is not allowed mid-fallback.
	_, err = env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, "another try")
	require.ErrorIs(t, err, ErrNoPendingQuestion)

	correct := -1
	for i, opt := range res.Options {
		if opt == definitionOf(t, q.Word) {
			correct = i
		}
	}
	require.GreaterOrEqual(t, correct, 0)

	final, err := env.eng.SubmitMultipleChoice(ctx, "maya", correct)
	require.NoError(t, err)
	assert.True(t, final.Correct)
	assert.Equal(t, grading.ChoicePoints, final.Points)
	assert.Equal(t, grading.ChoicePoints, final.NewScore)

	rec, err := env.players.Get(ctx, "maya")
	require.NoError(t, err)
	assert.Equal(t, grading.ChoicePoints, rec.WordMastery[q.Word])
}

func TestVocabularyTurn_FallbackIncorrectRevealsDefinition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)

	res, err := env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, "not the right definition")
	require.NoError(t, err)
	require.True(t, res.ShowMultipleChoice)

	wrong := 0
	for i, opt := range res.Options {
		if opt != definitionOf(t, q.Word) {
			wrong = i
			break
		}
	}

	final, err := env.eng.SubmitMultipleChoice(ctx, "maya", wrong)
	require.NoError(t, err)
	assert.False(t, final.Correct)
	assert.Zero(t, final.Points)
	assert.Equal(t, definitionOf(t, q.Word), final.RevealedAnswer)

	// The miss still counts as an attempt: mastery entry at zero.
	rec, err := env.players.Get(ctx, "maya")
	require.NoError(t, err)
	mastery, attempted := rec.WordMastery[q.Word]
	assert.True(t, attempted)
	assert.Zero(t, mastery)
}

func TestVocabularyTurn_JudgeAcceptsParaphrase(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{
		Content: json.RawMessage(`{"equivalent":true}`),
	})
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)

	res, err := env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, "a rough paraphrase of the meaning")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, grading.FreeTextPoints, res.Points)
	assert.Equal(t, 1, env.mock.CallCount())
}

func TestVocabularyTurn_LiteralWordRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "maya", SubjectVocabulary)
	require.NoError(t, err)

	res, err := env.eng.SubmitFreeTextAnswer(ctx, "maya", q.Word, q.Word)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Points)
	assert.False(t, res.ShowMultipleChoice, "the literal word is terminal, no second chance")

	// No attempt is recorded for the rejected word.
	rec, err := env.players.Get(ctx, "maya")
	require.NoError(t, err)
	_, attempted := rec.WordMastery[q.Word]
	assert.False(t, attempted)
}

func TestArithmeticTurn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "theo", SubjectArithmetic)
	require.NoError(t, err)
	assert.Equal(t, SubjectArithmetic, q.Subject)
	assert.NotEmpty(t, q.Prompt)
	require.Len(t, q.Options, 4)

	// The correct index never leaves the engine; reach into the pending
	// table to grade the happy path.
	env.eng.mu.Lock()
	correct := env.eng.pending["theo"].correctIndex
	env.eng.mu.Unlock()

	res, err := env.eng.SubmitMultipleChoice(ctx, "theo", correct)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, grading.ArithmeticPoints, res.Points)
	assert.Equal(t, grading.ArithmeticPoints, res.NewScore)
	assert.Empty(t, res.RevealedAnswer)

	rec, err := env.players.Get(ctx, "theo")
	require.NoError(t, err)
	assert.Equal(t, grading.ArithmeticPoints, rec.MathScore)
	assert.Zero(t, rec.VocabScore)
}

func TestArithmeticTurn_IncorrectRevealsAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q, err := env.eng.NextQuestion(ctx, "theo", SubjectArithmetic)
	require.NoError(t, err)

	env.eng.mu.Lock()
	correct := env.eng.pending["theo"].correctIndex
	env.eng.mu.Unlock()

	wrong := (correct + 1) % len(q.Options)
	res, err := env.eng.SubmitMultipleChoice(ctx, "theo", wrong)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Points)
	assert.Equal(t, q.Options[correct], res.RevealedAnswer)
}

func TestSubmitMultipleChoice_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.eng.SubmitMultipleChoice(ctx, "theo", 0)
	require.ErrorIs(t, err, ErrNoPendingQuestion)

	_, err = env.eng.NextQuestion(ctx, "theo", SubjectArithmetic)
	require.NoError(t, err)

	_, err = env.eng.SubmitMultipleChoice(ctx, "theo", 17)
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSubmitMultipleChoice_NoSelectionGradesIncorrect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.eng.NextQuestion(ctx, "theo", SubjectArithmetic)
	require.NoError(t, err)

	res, err := env.eng.SubmitMultipleChoice(ctx, "theo", NoSelection)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.NotEmpty(t, res.RevealedAnswer)
}

func TestRunBonusMinigame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.eng.RunBonusMinigame(ctx, "maya", "jackpot")
	require.ErrorIs(t, err, ErrBonusLocked)

	_, err = env.players.UpdatePlayer(ctx, "maya", func(r *store.PlayerRecord) {
		r.VocabScore = 40
	})
	require.NoError(t, err)

	ok, err := env.eng.BonusAvailable(ctx, "maya")
	require.NoError(t, err)
	assert.True(t, ok)

	out, err := env.eng.RunBonusMinigame(ctx, "maya", "jackpot")
	require.NoError(t, err)
	assert.Equal(t, 15, out.Applied, "the reported 50 is capped")
	assert.Equal(t, 55, out.NewScore)
	assert.Len(t, out.Progression, 2)

	_, err = env.eng.RunBonusMinigame(ctx, "maya", "ghost")
	require.ErrorIs(t, err, minigame.ErrUnknownGame)
}

func TestRunBonusMinigame_DudGameCostsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.players.UpdatePlayer(ctx, "maya", func(r *store.PlayerRecord) {
		r.VocabScore = 30
	})
	require.NoError(t, err)

	out, err := env.eng.RunBonusMinigame(ctx, "maya", "dud")
	require.NoError(t, err)
	assert.Zero(t, out.Applied)
	assert.Equal(t, 30, out.NewScore)
}

func TestConcurrentTurns_IndependentPlayers(t *testing.T) {
	// Several players drive full turns at once; the shared rng behind
	// scheduling and option shuffling must hold up under -race, and each
	// player's score must come out exactly as if they played alone.
	env := newTestEnv(t)
	ctx := context.Background()

	const players = 8
	const turns = 10

	var wg sync.WaitGroup
	errs := make(chan error, players)
	for p := range players {
		name := fmt.Sprintf("player%d", p)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range turns {
				q, err := env.eng.NextQuestion(ctx, name, SubjectVocabulary)
				if err != nil {
					errs <- err
					return
				}
				if _, err := env.eng.SubmitFreeTextAnswer(ctx, name, q.Word, definitionOf(t, q.Word)); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent turn failed: %v", err)
	}

	for p := range players {
		rec, err := env.players.Get(ctx, fmt.Sprintf("player%d", p))
		require.NoError(t, err)
		assert.Equal(t, turns*grading.FreeTextPoints, rec.VocabScore)
	}
}

func TestGames(t *testing.T) {
	env := newTestEnv(t)
	assert.ElementsMatch(t, []string{"jackpot", "dud"}, env.eng.Games())
}
