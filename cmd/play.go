package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/engine"
	"github.com/rajatraina/word-quest-game/internal/grading"
	"github.com/rajatraina/word-quest-game/internal/judge"
	"github.com/rajatraina/word-quest-game/internal/llm"
	"github.com/rajatraina/word-quest-game/internal/minigame"
	"github.com/rajatraina/word-quest-game/internal/progression"
	"github.com/rajatraina/word-quest-game/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Missing vocabulary is fatal: there is no game without content.
	items, err := content.LoadVocabulary(cfg.WordsFile)
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.OpenOrRecover(dbPath)
	if err != nil {
		return fmt.Errorf("open player store: %w", err)
	}
	defer st.Close()

	// The judge is optional: without it, free-text grading degrades to
	// literal match plus the multiple-choice fallback.
	var j *judge.Judge
	provider, err := llm.NewProviderFromEnv(ctx, st.Events())
	if err != nil {
		fmt.Fprintln(os.Stderr, "semantic judge not configured:", err)
		fmt.Fprintln(os.Stderr, "free-text answers will only match exact definitions.")
	} else {
		j = judge.New(provider, llm.ConfigFromEnv().Timeout)
		j.Warm(ctx)
	}

	eng := engine.New(engine.Options{
		Items:   items,
		Config:  cfg,
		Grader:  grading.New(j),
		Players: st.Players(),
		Events:  st.Events(),
		Games:   minigame.New(cfg.Bonus.Games, cfg.Bonus.Cap, cfg.GameTimeout()),
	})

	return playLoop(ctx, eng)
}

func playLoop(ctx context.Context, eng *engine.Engine) error {
	in := bufio.NewScanner(os.Stdin)

	fmt.Print("Enter your name, explorer: ")
	name, ok := readLine(in)
	if !ok || name == "" {
		return nil
	}

	subject := chooseSubject(in)

	session, err := eng.StartSession(ctx, name, subject)
	if err != nil {
		return err
	}
	fmt.Printf("\nWelcome back, %s! Score: %d\n", name, session.Score)
	printProgression(session.Progression)

	for {
		q, err := eng.NextQuestion(ctx, name, subject)
		if err != nil {
			return err
		}

		var result *engine.TurnResult
		if subject == engine.SubjectVocabulary {
			result, err = vocabularyTurn(ctx, eng, in, name, q)
		} else {
			result, err = choiceTurn(ctx, eng, in, name, q.Prompt, q.Options)
		}
		if err != nil {
			return err
		}
		if result == nil {
			return nil // EOF
		}

		fmt.Printf("⭐ Score: %d\n", result.NewScore)
		printProgression(result.Progression)
		fmt.Println("----------------------------------")

		if subject == engine.SubjectVocabulary {
			if done, err := maybeBonus(ctx, eng, in, name); err != nil {
				return err
			} else if done {
				return nil
			}
		}
	}
}

// vocabularyTurn runs one free-text attempt plus the multiple-choice
// fallback when needed. Returns nil on EOF.
func vocabularyTurn(ctx context.Context, eng *engine.Engine, in *bufio.Scanner, name string, q *engine.Question) (*engine.TurnResult, error) {
	fmt.Printf("\nDefine: %s\n> ", strings.ToUpper(q.Word))
	answer, ok := readLine(in)
	if !ok {
		return nil, nil
	}

	result, err := eng.SubmitFreeTextAnswer(ctx, name, q.Word, answer)
	if err != nil {
		return nil, err
	}

	if !result.ShowMultipleChoice {
		if result.Correct {
			fmt.Printf("✅ +%d points\n", result.Points)
		} else {
			fmt.Println("🚫 You can't just enter the word! No points this time.")
		}
		return result, nil
	}

	fmt.Println("❌ Not quite. Let's try multiple choice!")
	return choiceTurn(ctx, eng, in, name, "", result.Options)
}

// choiceTurn renders options, reads a letter, and submits the selection.
// Unparseable input grades as incorrect rather than erroring. Returns nil
// on EOF.
func choiceTurn(ctx context.Context, eng *engine.Engine, in *bufio.Scanner, name, prompt string, options []string) (*engine.TurnResult, error) {
	if prompt != "" {
		fmt.Printf("\n%s\n", prompt)
	}
	for i, opt := range options {
		fmt.Printf("%c) %s\n", 'A'+i, opt)
	}
	fmt.Print("> ")

	line, ok := readLine(in)
	if !ok {
		return nil, nil
	}

	result, err := eng.SubmitMultipleChoice(ctx, name, parseSelection(line, len(options)))
	if err != nil {
		return nil, err
	}

	if result.Correct {
		fmt.Printf("✅ +%d points\n", result.Points)
	} else {
		fmt.Printf("❌ The correct answer was: %s\n", result.RevealedAnswer)
	}
	return result, nil
}

// maybeBonus offers a bonus game when the threshold is reached. Returns
// true when the player chose to stop playing (EOF).
func maybeBonus(ctx context.Context, eng *engine.Engine, in *bufio.Scanner, name string) (bool, error) {
	available, err := eng.BonusAvailable(ctx, name)
	if err != nil || !available {
		return false, err
	}

	games := eng.Games()
	sort.Strings(games)

	fmt.Println("🎉 You've unlocked a bonus game! Choose one (or press Enter to skip):")
	for i, id := range games {
		fmt.Printf("%c) %s\n", 'a'+i, id)
	}
	fmt.Print("> ")

	line, ok := readLine(in)
	if !ok {
		return true, nil
	}
	idx := parseSelection(line, len(games))
	if idx < 0 {
		return false, nil
	}

	outcome, err := eng.RunBonusMinigame(ctx, name, games[idx])
	if errors.Is(err, engine.ErrBonusLocked) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	fmt.Printf("🎁 Bonus: +%d points! Score: %d\n", outcome.Applied, outcome.NewScore)
	return false, nil
}

// parseSelection maps a typed letter or number to an option index, or
// engine.NoSelection when the input names no option.
func parseSelection(line string, numOptions int) int {
	line = strings.ToLower(strings.TrimSpace(line))
	if len(line) != 1 {
		return engine.NoSelection
	}

	c := line[0]
	switch {
	case c >= 'a' && int(c-'a') < numOptions:
		return int(c - 'a')
	case c >= '1' && c <= '9' && int(c-'1') < numOptions:
		return int(c - '1')
	default:
		return engine.NoSelection
	}
}

func chooseSubject(in *bufio.Scanner) engine.Subject {
	fmt.Print("Vocabulary or arithmetic? [v/a]: ")
	line, _ := readLine(in)
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "a") {
		return engine.SubjectArithmetic
	}
	return engine.SubjectVocabulary
}

func printProgression(states []progression.State) {
	for _, s := range states {
		if s.NextThreshold != nil {
			fmt.Printf("  %s: tier %d — %s (%s), %.0f%% to next\n",
				s.Track, s.TierIndex, s.Payload.Label, s.Payload.Detail, s.Progress*100)
		} else {
			fmt.Printf("  %s: tier %d — %s (%s), track complete!\n",
				s.Track, s.TierIndex, s.Payload.Label, s.Payload.Detail)
		}
	}
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}
