// Package transform implements the event-level normalization passes: meta
// command rewriting, track pruning, loudness filtering, loop state
// materialization and redundant event elimination. Every pass mutates its
// track in place and restores tick order before returning.
package transform

// Options is the configuration threaded through the passes. There is no
// package-level state; per-track passes stay independent across tracks.
type Options struct {
	MasterVolume int // 0..128
	NaturalScale bool
}

// Globals holds the song-wide values the meta pass discovers while scanning
// annotations. They are consumed once the scan is complete.
type Globals struct {
	ModScale float64 // modulation depth scale, 1.0 when unset

	ModType, LfoSpeed, LfoDelay          byte
	HasModType, HasLfoSpeed, HasLfoDelay bool

	LoopStart, LoopEnd       uint32
	HasLoopStart, HasLoopEnd bool
}
