// Package minigame launches the external arcade games and harvests their
// bonus scores. The games are isolated processes behind one narrow
// contract: run, then print "BONUS RESULT: <n>" on stdout. Nothing a game
// does — crash, hang, garbage output — is allowed to surface as a fatal
// error in the scoring flow.
package minigame

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// resultPrefix is the wire line a minigame prints when it exits.
const resultPrefix = "BONUS RESULT:"

// ErrUnknownGame means the requested game ID is not configured. This is
// a caller error and is rejected rather than swallowed.
var ErrUnknownGame = errors.New("unknown minigame")

// Gateway launches configured minigames.
type Gateway struct {
	games   map[string][]string
	cap     int
	timeout time.Duration
}

// New creates a Gateway. games maps a game ID to its launch argv; maxBonus
// caps the points any single run can yield.
func New(games map[string][]string, maxBonus int, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Gateway{games: games, cap: maxBonus, timeout: timeout}
}

// Games returns the configured game IDs, for menus and validation.
func (g *Gateway) Games() []string {
	out := make([]string, 0, len(g.games))
	for id := range g.games {
		out = append(out, id)
	}
	return out
}

// Result is the outcome of one bonus run. Raw is what the game reported;
// Points is the capped value to apply to the score. A failed launch is
// the zero Result, not an error.
type Result struct {
	Raw    int
	Points int
}

// RunBonus launches the named game, waits for it to finish (bounded by
// the gateway timeout), and returns the capped bonus. Launch failures,
// timeouts and unparseable output all yield zero bonus with a warning;
// only an unknown game ID is returned as an error.
func (g *Gateway) RunBonus(ctx context.Context, gameID string) (Result, error) {
	argv, ok := g.games[gameID]
	if !ok || len(argv) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownGame, gameID)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// The games draw on the terminal; leave stderr and stdin attached so
	// interactive play works under the CLI embedding.
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: minigame %q failed, no bonus awarded: %v\n", gameID, err)
		return Result{}, nil
	}

	bonus, ok := parseBonus(&stdout)
	if !ok {
		fmt.Fprintf(os.Stderr, "warning: minigame %q produced no bonus result, no bonus awarded\n", gameID)
		return Result{}, nil
	}

	return Result{Raw: bonus, Points: g.capBonus(bonus)}, nil
}

// Cap returns the configured per-run bonus ceiling.
func (g *Gateway) Cap() int {
	return g.cap
}

func (g *Gateway) capBonus(bonus int) int {
	if bonus < 0 {
		return 0
	}
	if bonus > g.cap {
		return g.cap
	}
	return bonus
}

// parseBonus scans process output for the result line and extracts the
// integer. Returns false if no parseable result line is present.
func parseBonus(output *bytes.Buffer) (int, bool) {
	scanner := bufio.NewScanner(output)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, resultPrefix) {
			continue
		}
		raw := strings.TrimSpace(line[strings.Index(line, resultPrefix)+len(resultPrefix):])
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}
