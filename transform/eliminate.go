package transform

import (
	"midi2agb/score"
)

// Eliminate drops state-setting events that cannot change effective driver
// state: values equal to the running shadow (seeded with the implicit driver
// defaults where one exists), and events overwritten by a later same-tick
// event of the same class. Event kinds with no driver op are deleted
// outright. Applying the pass twice yields the same track as once.
func Eliminate(trk *score.Track) {
	var shadow [prmCount]int
	var seeded [prmCount]bool
	for cls, def := range paramDefaults {
		shadow[cls] = def
		seeded[cls] = true
	}

	kept := trk.Events[:0]
	for i, ev := range trk.Events {
		switch ev.Kind {
		case score.NoteOn, score.NoteOff, score.TimeSig:
			kept = append(kept, ev)
			continue
		case score.Text:
			continue
		}
		if ev.Kind == score.Controller && (ev.Ctrl == score.CtrlLoopStart || ev.Ctrl == score.CtrlLoopEnd) {
			kept = append(kept, ev)
			continue
		}

		cls, val, ok := classOf(ev)
		if !ok {
			continue
		}
		if overwrittenLater(trk.Events[i+1:], ev.Tick, cls) {
			continue
		}
		if seeded[cls] && shadow[cls] == val {
			continue
		}
		shadow[cls] = val
		seeded[cls] = true
		kept = append(kept, ev)
	}
	trk.Events = kept
}

// overwrittenLater reports whether a later event at the same tick sets the
// same parameter class, in which case the earlier write is dead.
func overwrittenLater(rest []score.Event, tick uint32, cls paramClass) bool {
	for _, ev := range rest {
		if ev.Tick != tick {
			return false
		}
		if c, _, ok := classOf(ev); ok && c == cls {
			return true
		}
	}
	return false
}
