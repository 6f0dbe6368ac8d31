// Package pipeline wires the conversion stages together: normalization over
// the score, bar building per track, cross-track compression and emission.
package pipeline

import (
	"os"
	"sync"

	"midi2agb/agb"
	"midi2agb/encode"
	"midi2agb/parse"
	"midi2agb/score"
	"midi2agb/serialize"
	"midi2agb/transform"
)

// Options configures the core conversion.
type Options struct {
	MasterVolume int // 0..128
	NaturalScale bool
	ExactGate    bool
}

// Config extends Options with the emission-side values.
type Config struct {
	Options
	Symbol     string
	Voicegroup string
	Priority   int // 0..127
	Reverb     int // 0..127
}

// Convert runs the whole core pipeline over the decoded score and returns
// the compressed op song. The song-level passes (meta rewriting, pruning)
// run first; the per-track passes fan out, with a barrier before bar
// building (boundaries need the frozen reference track) and another before
// compression, the only cross-track stage.
func Convert(tracks []*score.Track, opt Options) (*agb.Song, error) {
	if len(tracks) == 0 {
		return nil, score.Structuralf("no tracks in input")
	}

	g, err := transform.RewriteMeta(tracks)
	if err != nil {
		return nil, err
	}
	tracks, err = transform.Prune(tracks)
	if err != nil {
		return nil, err
	}

	topt := transform.Options{MasterVolume: opt.MasterVolume, NaturalScale: opt.NaturalScale}
	var wg sync.WaitGroup
	for i, trk := range tracks {
		wg.Add(1)
		go func(i int, trk *score.Track) {
			defer wg.Done()
			transform.ApplyTrack(trk, i == 0, topt, g)
		}(i, trk)
	}
	wg.Wait()

	clock := encode.NewBarClock(tracks[0])
	agbTracks := make([]*agb.Track, len(tracks))
	errs := make([]error, len(tracks))
	for i, trk := range tracks {
		wg.Add(1)
		go func(i int, trk *score.Track) {
			defer wg.Done()
			at, err := encode.BuildTrack(trk, clock, opt.ExactGate)
			if err != nil {
				errs[i] = err
				return
			}
			encode.OptimizeTrack(at)
			agbTracks[i] = at
		}(i, trk)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	song := &agb.Song{Tracks: agbTracks}
	song.Freeze()
	encode.Compress(song)
	return song, nil
}

// Run converts one SMF file into one driver assembly file.
func Run(input, output string, cfg Config) error {
	tracks, err := parse.File(input)
	if err != nil {
		return err
	}
	song, err := Convert(tracks, cfg.Options)
	if err != nil {
		return err
	}
	data := serialize.Serialize(song, serialize.Config{
		Symbol:       cfg.Symbol,
		Voicegroup:   cfg.Voicegroup,
		Priority:     cfg.Priority,
		Reverb:       cfg.Reverb,
		MasterVolume: cfg.MasterVolume,
	})
	return os.WriteFile(output, data, 0644)
}
