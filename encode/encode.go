package encode

import (
	"midi2agb/agb"
	"midi2agb/score"
)

// Encode builds the full op representation sequentially: bars per track,
// bar-local optimization, then cross-track compression. The first track is
// the reference for bar boundaries. The pipeline fans the per-track part out
// instead; this is the single-threaded form used by tests.
func Encode(tracks []*score.Track, exactGate bool) (*agb.Song, error) {
	clock := NewBarClock(tracks[0])
	song := &agb.Song{}
	for _, trk := range tracks {
		at, err := BuildTrack(trk, clock, exactGate)
		if err != nil {
			return nil, err
		}
		OptimizeTrack(at)
		song.Tracks = append(song.Tracks, at)
	}
	song.Freeze()
	Compress(song)
	return song, nil
}
