package content

import "fmt"

// TierWidth is the number of points between consecutive unlock tiers.
const TierWidth = 10

// Tier is one unlock step in a leveling track.
type Tier struct {
	Index     int
	Threshold int
	Payload   TierPayload
}

// TierPayload is the cosmetic display data attached to a tier.
type TierPayload struct {
	Label  string // e.g. element name or cat breed
	Detail string // e.g. element symbol or a breed fact
}

// Track is an ordered sequence of tiers unlocked by score. Thresholds are
// strictly increasing and tier 0 starts at threshold 0.
type Track struct {
	Name  string
	Tiers []Tier
}

// Validate checks the track invariants.
func (t Track) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("track %q has no tiers", t.Name)
	}
	if t.Tiers[0].Threshold != 0 {
		return fmt.Errorf("track %q tier 0 threshold is %d, want 0", t.Name, t.Tiers[0].Threshold)
	}
	for i, tier := range t.Tiers {
		if tier.Index != i {
			return fmt.Errorf("track %q tier %d has index %d", t.Name, i, tier.Index)
		}
		if i > 0 && tier.Threshold <= t.Tiers[i-1].Threshold {
			return fmt.Errorf("track %q thresholds not strictly increasing at tier %d", t.Name, i)
		}
	}
	return nil
}

// buildTrack assembles a track from payloads, assigning indices and
// thresholds at TierWidth intervals.
func buildTrack(name string, payloads []TierPayload) Track {
	tiers := make([]Tier, len(payloads))
	for i, p := range payloads {
		tiers[i] = Tier{
			Index:     i,
			Threshold: i * TierWidth,
			Payload:   p,
		}
	}
	return Track{Name: name, Tiers: tiers}
}

// AllTracks returns the leveling tracks in display order.
func AllTracks() []Track {
	return []Track{ChemistryTrack(), CatTrack()}
}

// TrackNames returns the names of the leveling tracks in display order.
func TrackNames() []string {
	tracks := AllTracks()
	names := make([]string, len(tracks))
	for i, t := range tracks {
		names[i] = t.Name
	}
	return names
}

// TrackByName looks up a track by name.
func TrackByName(name string) (Track, bool) {
	for _, t := range AllTracks() {
		if t.Name == name {
			return t, true
		}
	}
	return Track{}, false
}
