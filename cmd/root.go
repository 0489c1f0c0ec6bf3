package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rajatraina/word-quest-game/internal/config"
	"github.com/rajatraina/word-quest-game/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wordquest",
	Short: "Family vocabulary and arithmetic quiz game",
	Long: "Word Quest — a terminal quiz game that adapts to each player,\n" +
		"grades free-text definitions with a semantic judge, and unlocks\n" +
		"elements and cat breeds as scores grow.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "wordquest.yaml", "Path to the game config file")
	rootCmd.PersistentFlags().String("db", "", "Path to the player database (overrides WORDQUEST_DB)")
	rootCmd.PersistentFlags().String("words", "", "Path to the vocabulary file (overrides the config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, layered over
// defaults, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if w, _ := cmd.Flags().GetString("words"); w != "" {
		cfg.WordsFile = w
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}
	return cfg, nil
}

// resolveDBPath returns the database path: --db flag or config value
// first, then WORDQUEST_DB, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
