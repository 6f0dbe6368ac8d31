package transform

import (
	"midi2agb/score"
)

// Apply runs the whole normalization chain sequentially: meta rewriting and
// pruning over the song, then the per-track passes in track order. The
// pipeline fans the per-track part out instead; this is the single-threaded
// reference used by tests.
func Apply(tracks []*score.Track, opt Options) ([]*score.Track, Globals, error) {
	g, err := RewriteMeta(tracks)
	if err != nil {
		return nil, g, err
	}
	tracks, err = Prune(tracks)
	if err != nil {
		return nil, g, err
	}
	for i, trk := range tracks {
		ApplyTrack(trk, i == 0, opt, g)
	}
	return tracks, g, nil
}

// ApplyTrack runs the per-track passes (filter, loop materializer,
// eliminator) on one track. Reads and mutates only that track, so calls are
// independent across tracks.
func ApplyTrack(trk *score.Track, reference bool, opt Options, g Globals) {
	FilterTrack(trk, opt, g)
	MaterializeLoop(trk, reference)
	Eliminate(trk)
}
