package transform

import (
	"sort"

	"midi2agb/score"
)

// Prune drops every track without a single note-on, first extracting its
// tempo and time-signature events so they survive on the first remaining
// track. The merged side buffer is tick-sorted and same-tick duplicates
// collapse to the first occurrence.
func Prune(tracks []*score.Track) ([]*score.Track, error) {
	var side []score.Event
	kept := make([]*score.Track, 0, len(tracks))
	for _, trk := range tracks {
		if trk.HasNotes() {
			kept = append(kept, trk)
			continue
		}
		for _, ev := range trk.Events {
			if ev.Kind == score.Tempo || ev.Kind == score.TimeSig {
				side = append(side, ev)
			}
		}
	}
	if len(kept) == 0 {
		return nil, score.Structuralf("no tracks with notes left after pruning")
	}

	sort.SliceStable(side, func(i, j int) bool { return side[i].Tick < side[j].Tick })
	for _, ev := range dropSameTickDuplicates(side) {
		kept[0].InsertAfter(ev)
	}
	return kept, nil
}

func dropSameTickDuplicates(evs []score.Event) []score.Event {
	out := evs[:0]
	for _, ev := range evs {
		dup := false
		for _, prev := range out {
			if prev.Tick == ev.Tick && prev.Kind == ev.Kind {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, ev)
		}
	}
	return out
}
