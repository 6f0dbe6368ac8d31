package encode

import (
	"math"

	"midi2agb/agb"
	"midi2agb/score"
)

type sigChange struct {
	tick   uint32
	barLen int
}

// BarClock derives bar boundaries from the reference track's time-signature
// stream. Nominal bar length is numerator*96 >> denominator exponent; a bar
// ends early when a signature change falls inside it, never late.
type BarClock struct {
	sigs []sigChange
}

func NewBarClock(ref *score.Track) *BarClock {
	c := &BarClock{sigs: []sigChange{{0, 96}}} // 4/4 until the first signature
	for _, ev := range ref.Events {
		if ev.Kind != score.TimeSig {
			continue
		}
		l := int(ev.Val) * 96 >> ev.Denom
		if l < 1 {
			continue
		}
		c.sigs = append(c.sigs, sigChange{ev.Tick, l})
	}
	return c
}

// LenAt returns the nominal bar length in force at tick.
func (c *BarClock) LenAt(tick uint32) int {
	l := c.sigs[0].barLen
	for _, s := range c.sigs {
		if s.tick > tick {
			break
		}
		l = s.barLen
	}
	return l
}

// BarEnd returns the tick at which the bar beginning at barStart ends.
func (c *BarClock) BarEnd(barStart uint32) uint32 {
	end := barStart + uint32(c.LenAt(barStart))
	for _, s := range c.sigs {
		if s.tick > barStart && s.tick < end {
			return s.tick
		}
	}
	return end
}

// BuildTrack converts one normalized track into its bar-quantized op
// sequence. Gaps between events become Wait ops, split at bar boundaries and
// quantized against the driver duration table with the remainder re-emitted.
// Note-on events resolve against their matching unclaimed note-off: spans
// over 96 ticks become a Tie terminated by an explicit end-of-tie op, shorter
// spans a direct Note op.
func BuildTrack(trk *score.Track, clock *BarClock, exactGate bool) (*agb.Track, error) {
	durs, tieEnd, err := pairNotes(trk)
	if err != nil {
		return nil, err
	}

	out := &agb.Track{}
	cur := &agb.Bar{NominalLen: clock.LenAt(0)}
	barStart, pos := uint32(0), uint32(0)

	advance := func(to uint32) {
		for pos < to {
			end := clock.BarEnd(barStart)
			limit := to
			if end < limit {
				limit = end
			}
			w := quantizeLen(int(limit - pos))
			cur.Events = append(cur.Events, agb.Event{Op: agb.Wait, Len: byte(w)})
			pos += uint32(w)
			if pos == end {
				out.Bars = append(out.Bars, cur)
				barStart = pos
				cur = &agb.Bar{NominalLen: clock.LenAt(pos)}
			}
		}
	}

	for i, ev := range trk.Events {
		advance(ev.Tick)
		switch ev.Kind {
		case score.NoteOn:
			d := durs[i]
			if d < 0 {
				cur.Events = append(cur.Events, agb.Event{Op: agb.Tie, Key: ev.Key, Vel: ev.Vel})
				break
			}
			ln := quantizeLen(d)
			if ln < 1 {
				ln = 1
			}
			gate := 0
			if g := d - ln; exactGate && g >= 1 && g <= 3 {
				gate = g
			}
			cur.Events = append(cur.Events, agb.Event{
				Op: agb.Note, Len: byte(ln), Key: ev.Key, Vel: ev.Vel, Gate: byte(gate),
			})
		case score.NoteOff:
			if tieEnd[i] {
				cur.Events = append(cur.Events, agb.Event{Op: agb.EndOfTie, Key: ev.Key})
			}
		case score.TimeSig:
			// consumed by the bar clock
		default:
			if op, ok := opFor(ev); ok {
				cur.Events = append(cur.Events, op)
			}
		}
	}
	if len(cur.Events) > 0 || len(out.Bars) == 0 {
		out.Bars = append(out.Bars, cur)
	}
	return out, nil
}

// pairNotes claims, for every note-on, the first unclaimed same-key note-off
// and records the resulting duration (-1 marks a tie). Every note-off must
// end up claimed and every note-on resolved.
func pairNotes(trk *score.Track) (map[int]int, map[int]bool, error) {
	durs := make(map[int]int)
	tieEnd := make(map[int]bool)
	claimed := make([]bool, len(trk.Events))
	for i, ev := range trk.Events {
		if ev.Kind != score.NoteOn {
			continue
		}
		match := -1
		for j := i + 1; j < len(trk.Events); j++ {
			e2 := trk.Events[j]
			if e2.Kind == score.NoteOff && e2.Key == ev.Key && !claimed[j] {
				match = j
				break
			}
		}
		if match < 0 {
			return nil, nil, score.Structuralf("unterminated note-on key %d at tick %d", ev.Key, ev.Tick)
		}
		claimed[match] = true
		if d := int(trk.Events[match].Tick - ev.Tick); d > 96 {
			durs[i] = -1
			tieEnd[match] = true
		} else {
			durs[i] = d
		}
	}
	for j, ev := range trk.Events {
		if ev.Kind == score.NoteOff && !claimed[j] {
			return nil, nil, score.Structuralf("orphan note-off key %d at tick %d", ev.Key, ev.Tick)
		}
	}
	return durs, tieEnd, nil
}

// opFor maps a non-note event to its driver op. Pan, bend and tune operands
// are centered on 0x40 (c_v); tempo is halved to the driver's beat unit.
func opFor(ev score.Event) (agb.Event, bool) {
	switch ev.Kind {
	case score.Tempo:
		return agb.Event{Op: agb.Tempo, Val: byte(int(math.Round(ev.BPM / 2)))}, true
	case score.ProgramChange:
		return agb.Event{Op: agb.Voice, Val: ev.Val}, true
	case score.PitchBend:
		return agb.Event{Op: agb.Bend, Val: byte(64 + int(ev.Bend>>7))}, true
	case score.Controller:
		var op agb.Op
		switch ev.Ctrl {
		case score.CtrlVolume:
			op = agb.Vol
		case score.CtrlPan:
			op = agb.Pan
		case score.CtrlModDepth:
			op = agb.Mod
		case score.CtrlBendRange:
			op = agb.BendRange
		case score.CtrlModType:
			op = agb.ModType
		case score.CtrlTune:
			op = agb.Tune
		case score.CtrlPrio:
			op = agb.Prio
		case score.CtrlLfoSpeed:
			op = agb.LfoSpeed
		case score.CtrlLfoDelay:
			op = agb.LfoDelay
		case score.CtrlLoopStart:
			return agb.Event{Op: agb.LoopStart}, true
		case score.CtrlLoopEnd:
			return agb.Event{Op: agb.LoopEnd}, true
		default:
			return agb.Event{}, false
		}
		return agb.Event{Op: op, Val: ev.Val}, true
	}
	return agb.Event{}, false
}
