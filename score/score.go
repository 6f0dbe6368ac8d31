// Package score holds the mutable event model the conversion passes operate
// on: tick-stamped events grouped into single-channel tracks.
package score

import (
	"sort"
)

// Kind enumerates the event variants the converter understands. Switches over
// Kind are exhaustive; anything a pass does not handle is dropped by the
// redundant event eliminator.
type Kind uint8

const (
	Tempo Kind = iota
	TimeSig
	ProgramChange
	PitchBend
	Controller
	NoteOn
	NoteOff
	Text
)

// Standard MIDI controller ids interpreted by the pipeline.
const (
	CtrlModDepth   byte = 1
	CtrlDataEntry  byte = 6
	CtrlVolume     byte = 7
	CtrlPan        byte = 10
	CtrlExpression byte = 11
	CtrlRPNLsb     byte = 100
	CtrlRPNMsb     byte = 101
)

// Extended controller band. Ids above 0x7F cannot occur in source data, so
// the meta rewriter can park driver-specific state here without colliding
// with real controllers.
const (
	CtrlBendRange byte = 0x80 + iota
	CtrlTune
	CtrlLfoSpeed
	CtrlLfoDelay
	CtrlModType
	CtrlPrio
	CtrlLoopStart
	CtrlLoopEnd
)

// Event is one tick-stamped score event. Field use depends on Kind:
//
//	Tempo          BPM
//	TimeSig        Val (numerator), Denom (denominator exponent)
//	ProgramChange  Val
//	PitchBend      Bend (-8192..8191)
//	Controller     Ctrl, Val
//	NoteOn/NoteOff Key, Vel
//	Text           Str
type Event struct {
	Tick  uint32
	Kind  Kind
	Key   byte
	Vel   byte
	Ctrl  byte
	Val   byte
	Denom byte
	Bend  int16
	BPM   float64
	Str   string
}

// Track is the ordered event sequence of exactly one channel. Tick order is
// an invariant: every pass that inserts events restores it before returning.
type Track struct {
	Channel byte
	Events  []Event
}

func (t *Track) SortByTick() {
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].Tick < t.Events[j].Tick
	})
}

func (t *Track) HasNotes() bool {
	for _, ev := range t.Events {
		if ev.Kind == NoteOn {
			return true
		}
	}
	return false
}

// InsertBefore places ev at the lower bound of its tick: ahead of any events
// already carrying the same tick.
func (t *Track) InsertBefore(ev Event) {
	i := sort.Search(len(t.Events), func(i int) bool {
		return t.Events[i].Tick >= ev.Tick
	})
	t.insert(i, ev)
}

// InsertAfter places ev at the upper bound of its tick: after any events
// already carrying the same tick.
func (t *Track) InsertAfter(ev Event) {
	i := sort.Search(len(t.Events), func(i int) bool {
		return t.Events[i].Tick > ev.Tick
	})
	t.insert(i, ev)
}

func (t *Track) insert(i int, ev Event) {
	t.Events = append(t.Events, Event{})
	copy(t.Events[i+1:], t.Events[i:])
	t.Events[i] = ev
}
