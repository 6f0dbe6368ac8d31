// Package parse decodes an SMF file into the score model: one track per
// channel, ticks rescaled to the driver's 24 clocks per quarter note.
package parse

import (
	"fmt"
	"math/bits"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"midi2agb/score"
)

// TicksPerQuarter is the driver clock base every input is rescaled to.
const TicksPerQuarter = 24

// File reads and decodes one SMF file.
func File(path string) ([]*score.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := smf.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromSMF(m)
}

// FromSMF converts decoded SMF data into score tracks. Each SMF track is
// split by channel; channel-less meta events stay with the first resulting
// track (or form a conductor-only track), which pruning later consolidates.
func FromSMF(m *smf.SMF) ([]*score.Track, error) {
	ticks, ok := m.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, score.Parsef("unsupported SMF time format %v", m.TimeFormat)
	}
	tpq := uint64(ticks)
	if tpq == 0 {
		return nil, score.Parsef("zero ticks per quarter note")
	}
	rescale := func(abs uint64) uint32 {
		return uint32((abs*TicksPerQuarter + tpq/2) / tpq)
	}

	var all []*score.Track
	for _, t := range m.Tracks {
		all = append(all, splitTrack(t, rescale)...)
	}
	return all, nil
}

func splitTrack(t smf.Track, rescale func(uint64) uint32) []*score.Track {
	byChannel := make(map[uint8]*score.Track)
	var order []*score.Track
	var meta []score.Event

	channel := func(ch uint8) *score.Track {
		trk := byChannel[ch]
		if trk == nil {
			trk = &score.Track{Channel: ch}
			byChannel[ch] = trk
			order = append(order, trk)
		}
		return trk
	}

	var abs uint64
	for _, ev := range t {
		abs += uint64(ev.Delta)
		tick := rescale(abs)
		msg := ev.Message

		var ch, a, b uint8
		var rel int16
		var absBend uint16
		var bpm float64
		var num, denom, cpt, dsq uint8
		var text string

		switch {
		case msg.GetNoteStart(&ch, &a, &b):
			channel(ch).Events = append(channel(ch).Events,
				score.Event{Tick: tick, Kind: score.NoteOn, Key: a, Vel: b})
		case msg.GetNoteEnd(&ch, &a):
			channel(ch).Events = append(channel(ch).Events,
				score.Event{Tick: tick, Kind: score.NoteOff, Key: a})
		case msg.GetControlChange(&ch, &a, &b):
			channel(ch).Events = append(channel(ch).Events,
				score.Event{Tick: tick, Kind: score.Controller, Ctrl: a, Val: b})
		case msg.GetProgramChange(&ch, &a):
			channel(ch).Events = append(channel(ch).Events,
				score.Event{Tick: tick, Kind: score.ProgramChange, Val: a})
		case msg.GetPitchBend(&ch, &rel, &absBend):
			channel(ch).Events = append(channel(ch).Events,
				score.Event{Tick: tick, Kind: score.PitchBend, Bend: rel})
		case msg.GetMetaTempo(&bpm):
			meta = append(meta, score.Event{Tick: tick, Kind: score.Tempo, BPM: bpm})
		case msg.GetMetaTimeSig(&num, &denom, &cpt, &dsq):
			if denom > 0 {
				meta = append(meta, score.Event{
					Tick: tick, Kind: score.TimeSig,
					Val: num, Denom: byte(bits.TrailingZeros8(denom)),
				})
			}
		case msg.GetMetaText(&text), msg.GetMetaMarker(&text), msg.GetMetaCuepoint(&text):
			meta = append(meta, score.Event{Tick: tick, Kind: score.Text, Str: text})
		}
	}

	if len(meta) > 0 {
		host := &score.Track{}
		if len(order) > 0 {
			host = order[0]
		} else {
			order = append(order, host)
		}
		host.Events = append(host.Events, meta...)
		host.SortByTick()
	}
	return order
}
