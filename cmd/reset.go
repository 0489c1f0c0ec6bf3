package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajatraina/word-quest-game/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <player>",
	Short: "Delete a player's scores and word mastery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := store.NormalizeID(args[0])
		if id == "" {
			return fmt.Errorf("empty player name")
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete all data for %q? This cannot be undone. [y/N] ", id)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

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

		if err := st.Players().Delete(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Player %q reset.\n", id)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
