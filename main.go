package main

import (
	"os"

	"github.com/rajatraina/word-quest-game/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
