package progression

import (
	"testing"

	"github.com/rajatraina/word-quest-game/internal/content"
)

func TestTierFor_ZeroScore(t *testing.T) {
	st := TierFor(content.ChemistryTrack(), 0)
	if st.TierIndex != 0 {
		t.Fatalf("tier = %d, want 0", st.TierIndex)
	}
	if st.Progress != 0 {
		t.Fatalf("progress = %f, want 0", st.Progress)
	}
	if st.NextThreshold == nil || *st.NextThreshold != content.TierWidth {
		t.Fatalf("next threshold = %v, want %d", st.NextThreshold, content.TierWidth)
	}
}

func TestTierFor_MidTier(t *testing.T) {
	st := TierFor(content.ChemistryTrack(), 47)
	if st.TierIndex != 4 {
		t.Fatalf("tier = %d, want 4", st.TierIndex)
	}
	if st.Progress != 0.7 {
		t.Fatalf("progress = %f, want 0.7", st.Progress)
	}
	if st.NextThreshold == nil || *st.NextThreshold != 50 {
		t.Fatalf("next threshold = %v, want 50", st.NextThreshold)
	}
}

// shortTrack builds a 5-tier track (thresholds 0, 10, 20, 30, 40) so the
// final band is reachable with small scores.
func shortTrack() content.Track {
	tiers := make([]content.Tier, 5)
	for i := range tiers {
		tiers[i] = content.Tier{
			Index:     i,
			Threshold: i * content.TierWidth,
			Payload:   content.TierPayload{Label: string(rune('A' + i))},
		}
	}
	return content.Track{Name: "short", Tiers: tiers}
}

func TestTierFor_FinalTierBand(t *testing.T) {
	track := shortTrack()
	tests := []struct {
		score        int
		wantTier     int
		wantProgress float64
	}{
		{40, 4, 0.0},
		{47, 4, 0.7},
		{50, 4, 1.0},
		{100000, 4, 1.0},
	}
	for _, tt := range tests {
		st := TierFor(track, tt.score)
		if st.TierIndex != tt.wantTier {
			t.Fatalf("score %d: tier = %d, want %d", tt.score, st.TierIndex, tt.wantTier)
		}
		if st.Progress != tt.wantProgress {
			t.Fatalf("score %d: progress = %f, want %f", tt.score, st.Progress, tt.wantProgress)
		}
		if st.NextThreshold != nil {
			t.Fatalf("score %d: expected nil next threshold at the final tier", tt.score)
		}
	}
}

func TestTierFor_ClampsPastFinalBand(t *testing.T) {
	track := content.ChemistryTrack()
	last := len(track.Tiers) - 1

	st := TierFor(track, 100000)
	if st.TierIndex != last {
		t.Fatalf("tier = %d, want %d", st.TierIndex, last)
	}
	if st.Progress != 1.0 {
		t.Fatalf("progress = %f, want 1.0", st.Progress)
	}
	if st.NextThreshold != nil {
		t.Fatal("expected nil next threshold")
	}
}

func TestTierFor_NegativeScoreClampsToZero(t *testing.T) {
	st := TierFor(content.CatTrack(), -5)
	if st.TierIndex != 0 || st.Progress != 0 {
		t.Fatalf("negative score should pin tier 0, got tier %d progress %f", st.TierIndex, st.Progress)
	}
}

func TestTierFor_PayloadMatchesTier(t *testing.T) {
	track := content.CatTrack()
	st := TierFor(track, 25)
	if st.Payload != track.Tiers[2].Payload {
		t.Fatalf("payload = %+v, want tier 2 payload", st.Payload)
	}
}

func TestSnapshot(t *testing.T) {
	states := Snapshot(content.TrackNames(), 12)
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	for _, st := range states {
		if st.TierIndex != 1 {
			t.Fatalf("track %q tier = %d, want 1", st.Track, st.TierIndex)
		}
	}
}

func TestSnapshot_SkipsUnknownTracks(t *testing.T) {
	states := Snapshot([]string{"dinosaurs", content.CatTrack().Name}, 0)
	if len(states) != 1 {
		t.Fatalf("expected 1 state, got %d", len(states))
	}
}
