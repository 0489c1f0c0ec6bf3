// Package progression maps cumulative score to unlock tiers on the
// leveling tracks. Everything here is a pure function of the score and
// the static tier tables; nothing is persisted.
package progression

import "github.com/rajatraina/word-quest-game/internal/content"

// State is the derived standing on one track for a given score.
type State struct {
	Track     string
	TierIndex int

	// Progress is the fraction of the way through the current tier's
	// band, in [0,1]. It keeps advancing inside the final tier and caps
	// at 1.0 once the score passes the band.
	Progress float64

	// NextThreshold is the score that unlocks the next tier, nil at the
	// final tier.
	NextThreshold *int

	// Payload is the display data of the currently unlocked tier.
	Payload content.TierPayload
}

// TierFor computes the standing on a track for a score. Progression is
// clamped at the top of the table: scores past the final tier's band stay
// at the final tier, with Progress still measured within the band and
// capped at 1.0.
func TierFor(track content.Track, score int) State {
	if score < 0 {
		score = 0
	}

	last := len(track.Tiers) - 1
	idx := score / content.TierWidth
	if idx >= last {
		frac := float64(score-track.Tiers[last].Threshold) / float64(content.TierWidth)
		if frac > 1.0 {
			frac = 1.0
		}
		return State{
			Track:     track.Name,
			TierIndex: last,
			Progress:  frac,
			Payload:   track.Tiers[last].Payload,
		}
	}

	next := track.Tiers[idx+1].Threshold
	return State{
		Track:         track.Name,
		TierIndex:     idx,
		Progress:      float64(score-track.Tiers[idx].Threshold) / float64(content.TierWidth),
		NextThreshold: &next,
		Payload:       track.Tiers[idx].Payload,
	}
}

// Snapshot computes the standing on every named track for a score.
// Unknown track names are skipped.
func Snapshot(trackNames []string, score int) []State {
	out := make([]State, 0, len(trackNames))
	for _, name := range trackNames {
		track, ok := content.TrackByName(name)
		if !ok {
			continue
		}
		out = append(out, TierFor(track, score))
	}
	return out
}
