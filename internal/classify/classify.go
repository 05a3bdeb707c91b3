// Package classify maps catalog category tags to a play mode.
package classify

import "strings"

// Mode is the play-mode classification of a game.
type Mode int

const (
	// ModeUnknown means the tags carried no recognized play-mode signal.
	// Unknown submissions are rejected and never stored.
	ModeUnknown Mode = iota
	// ModeSingle is a single-player only game.
	ModeSingle
	// ModeMulti is anything with multiplayer capability.
	ModeMulti
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// multiSignals are matched as substrings so variants like "Online Co-op",
// "Cross-Platform Multiplayer" and "LAN Co-op" all count.
var multiSignals = []string{"multiplayer", "co-op", "cross-platform"}

// Classify determines the play mode from a set of category tags.
// Multiplayer capability always wins: a game tagged both "Single-player"
// and "Co-op" is filed as multiplayer only.
func Classify(categories []string) Mode {
	var isSingle, isMulti bool

	for _, tag := range categories {
		tag = strings.ToLower(tag)
		if tag == "single-player" {
			isSingle = true
		}
		for _, signal := range multiSignals {
			if strings.Contains(tag, signal) {
				isMulti = true
				break
			}
		}
	}

	switch {
	case isMulti:
		return ModeMulti
	case isSingle:
		return ModeSingle
	default:
		return ModeUnknown
	}
}
