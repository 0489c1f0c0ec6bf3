package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajatraina/word-quest-game/internal/content"
	"github.com/rajatraina/word-quest-game/internal/progression"
	"github.com/rajatraina/word-quest-game/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [player]",
	Short: "Show player scores, accuracy, and unlock standing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		players := st.Players()
		events := st.Events()

		var records []*store.PlayerRecord
		if len(args) == 1 {
			rec, err := players.Get(ctx, args[0])
			if err != nil {
				return err
			}
			records = append(records, rec)
		} else {
			records, err = players.AllPlayers(ctx)
			if err != nil {
				return err
			}
		}

		if len(records) == 0 {
			fmt.Println("No players yet. Run `wordquest play` to start.")
			return nil
		}

		for i, rec := range records {
			if i > 0 {
				fmt.Println()
			}
			total, correct, err := events.AnswerCounts(ctx, rec.PlayerID)
			if err != nil {
				return err
			}
			printPlayerStats(cfg.VisibleTracks(rec.PlayerID, content.TrackNames()), rec, total, correct)
		}
		return nil
	},
}

func printPlayerStats(trackNames []string, rec *store.PlayerRecord, total, correct int) {
	fmt.Printf("Player: %s\n", rec.PlayerID)
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("  Vocabulary score:  %d\n", rec.VocabScore)
	fmt.Printf("  Arithmetic score:  %d\n", rec.MathScore)
	if total > 0 {
		fmt.Printf("  Answers:           %d/%d correct (%.0f%%)\n",
			correct, total, 100*float64(correct)/float64(total))
	}

	if len(rec.WordMastery) > 0 {
		words := make([]string, 0, len(rec.WordMastery))
		for w := range rec.WordMastery {
			words = append(words, w)
		}
		sort.Slice(words, func(i, j int) bool {
			if rec.WordMastery[words[i]] != rec.WordMastery[words[j]] {
				return rec.WordMastery[words[i]] < rec.WordMastery[words[j]]
			}
			return words[i] < words[j]
		})

		fmt.Printf("  Words attempted:   %d\n", len(words))
		weakest := words
		if len(weakest) > 5 {
			weakest = weakest[:5]
		}
		fmt.Print("  Weakest words:     ")
		parts := make([]string, 0, len(weakest))
		for _, w := range weakest {
			parts = append(parts, fmt.Sprintf("%s (%d)", w, rec.WordMastery[w]))
		}
		fmt.Println(strings.Join(parts, ", "))
	}

	for _, state := range progression.Snapshot(trackNames, rec.VocabScore) {
		line := fmt.Sprintf("  %-18s %s", state.Track+":", state.Payload.Label)
		if state.NextThreshold != nil {
			line += fmt.Sprintf("  (next at %d points)", *state.NextThreshold)
		} else {
			line += "  (maxed out)"
		}
		fmt.Println(line)
	}
}
