package encode

import (
	"slices"

	"midi2agb/agb"
)

// OptimizeBar hoists every end-of-tie op to the front of its tick group,
// immediately after the nearest preceding Wait (or the bar start). The
// driver then frees the note slot before processing new parameter or note
// ops at that instant. Relative order among hoisted ops is preserved.
func OptimizeBar(b *agb.Bar) {
	out := make([]agb.Event, 0, len(b.Events))
	eotPos := 0
	for _, ev := range b.Events {
		switch ev.Op {
		case agb.Wait:
			out = append(out, ev)
			eotPos = len(out)
		case agb.EndOfTie:
			out = slices.Insert(out, eotPos, ev)
			eotPos++
		default:
			out = append(out, ev)
		}
	}
	b.Events = out
}

// OptimizeTrack runs the bar-local reordering over a whole track.
func OptimizeTrack(trk *agb.Track) {
	for _, bar := range trk.Bars {
		OptimizeBar(bar)
	}
}
