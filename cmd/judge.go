package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajatraina/word-quest-game/internal/judge"
	"github.com/rajatraina/word-quest-game/internal/llm"
)

var judgeCmd = &cobra.Command{
	Use:   "judge [answer] [definition]",
	Short: "Check the equivalence oracle, or judge a pair of definitions",
	Long: "With no arguments, runs a connectivity smoke test against the\n" +
		"configured model provider. With two arguments, asks the oracle\n" +
		"whether the answer and the canonical definition mean the same thing.",
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return fmt.Errorf("judge takes zero or two arguments")
		}

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := context.Background()
		provider, err := llm.NewProvider(ctx, cfg, nil)
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		answer, canonical := "a large wild cat with a mane", "the king of the jungle, a big maned feline"
		if len(args) == 2 {
			answer, canonical = args[0], args[1]
		}

		fmt.Printf("Provider: %s (%s)\n", cfg.Provider, provider.ModelID())
		fmt.Printf("A: %s\nB: %s\n", answer, canonical)

		j := judge.New(provider, cfg.Timeout)
		start := time.Now()
		verdict := j.Equivalent(ctx, answer, canonical)
		elapsed := time.Since(start).Round(time.Millisecond)

		fmt.Printf("Verdict: %s (%s)\n", verdict, elapsed)
		if verdict == judge.Unavailable {
			return fmt.Errorf("oracle unreachable; check the provider settings")
		}
		return nil
	},
}
