package serialize

import (
	"bytes"
	"fmt"

	"midi2agb/agb"
)

// Config is the emission-side configuration: song symbol and the header
// values the driver reads at load time.
type Config struct {
	Symbol       string
	Voicegroup   string
	Priority     int
	Reverb       int
	MasterVolume int
}

// Serialize writes the whole song as driver assembly: one record per op for
// canonical bars, a single call record for referencing bars, label and
// return records around referenced bars, and an explicit terminator per
// track.
func Serialize(song *agb.Song, cfg Config) []byte {
	e := &emitter{song: song, cfg: cfg, labels: make(map[int]string)}
	e.assignLabels()
	e.header()
	for t := range song.Tracks {
		e.track(t)
	}
	e.trailer()
	return e.buf.Bytes()
}

type emitter struct {
	buf    bytes.Buffer
	song   *agb.Song
	cfg    Config
	labels map[int]string
}

// recordState is the local emission state: the previously emitted record's
// full form. Reset at every point the player can enter with unknown state.
type recordState struct {
	valid    bool
	mnemonic string
	operands []string
}

// elide decides the emitted form of the next op purely from the previous
// record and the op's full form. A matching mnemonic is dropped; equal
// trailing operands are dropped after it, down to a single token, and carry
// over implicitly in the player.
func elide(st *recordState, spec opSpec, mn string, ops []string) []string {
	if !spec.elide || !st.valid || st.mnemonic != mn {
		return append([]string{mn}, ops...)
	}
	cut := len(ops)
	if len(ops) == len(st.operands) {
		for cut > 1 && ops[cut-1] == st.operands[cut-1] {
			cut--
		}
	}
	return ops[:cut]
}

// assignLabels gives every referenced bar a stable unique label derived from
// its canonical position (track then bar index).
func (e *emitter) assignLabels() {
	for ti, trk := range e.song.Tracks {
		for bi, bar := range trk.Bars {
			if bar.IsReferenced {
				e.labels[bar.ID] = fmt.Sprintf("%s_%d_%03d", e.cfg.Symbol, ti+1, bi)
			}
		}
	}
}

func (e *emitter) track(ti int) {
	trk := e.song.Tracks[ti]
	fmt.Fprintf(&e.buf, "\n%s_%d:\n", e.cfg.Symbol, ti+1)
	e.record("KEYSH", e.cfg.Symbol+"_key+0")

	var st recordState
	for _, bar := range trk.Bars {
		if bar.DoesReference {
			e.record("PATT")
			e.word(e.labels[bar.RefID])
			st = recordState{}
			continue
		}
		if lbl, ok := e.labels[bar.ID]; ok {
			fmt.Fprintf(&e.buf, "%s:\n", lbl)
			st = recordState{}
		}
		for _, op := range bar.Events {
			e.op(ti, op, &st)
		}
		if _, ok := e.labels[bar.ID]; ok {
			e.record("PEND")
			st = recordState{}
		}
	}
	e.record("FINE")
}

func (e *emitter) op(ti int, op agb.Event, st *recordState) {
	switch op.Op {
	case agb.LoopStart:
		fmt.Fprintf(&e.buf, "%s_%d_loop:\n", e.cfg.Symbol, ti+1)
		*st = recordState{}
		return
	case agb.LoopEnd:
		e.record("GOTO")
		e.word(fmt.Sprintf("%s_%d_loop", e.cfg.Symbol, ti+1))
		*st = recordState{}
		return
	}
	spec := opTable[op.Op]
	mn := spec.mnemonic(op)
	ops := spec.operands(op)
	e.record(elide(st, spec, mn, ops)...)
	*st = recordState{valid: true, mnemonic: mn, operands: ops}
}

func (e *emitter) record(tokens ...string) {
	e.buf.WriteString("\t.byte\t")
	for i, tok := range tokens {
		if i == 0 && len(tokens) > 1 {
			fmt.Fprintf(&e.buf, "%-5s", tok)
			continue
		}
		if i > 0 {
			e.buf.WriteString(" , ")
		}
		e.buf.WriteString(tok)
	}
	e.buf.WriteByte('\n')
}

func (e *emitter) word(label string) {
	fmt.Fprintf(&e.buf, "\t .word\t%s\n", label)
}

func (e *emitter) header() {
	s := e.cfg.Symbol
	fmt.Fprintf(&e.buf, "\t.include \"MPlayDef.s\"\n\n")
	fmt.Fprintf(&e.buf, "\t.equ\t%s_grp, %s\n", s, e.cfg.Voicegroup)
	fmt.Fprintf(&e.buf, "\t.equ\t%s_pri, %d\n", s, e.cfg.Priority)
	fmt.Fprintf(&e.buf, "\t.equ\t%s_rev, %d\n", s, e.cfg.Reverb)
	fmt.Fprintf(&e.buf, "\t.equ\t%s_mvl, %d\n", s, e.cfg.MasterVolume)
	fmt.Fprintf(&e.buf, "\t.equ\t%s_key, 0\n\n", s)
	fmt.Fprintf(&e.buf, "\t.section .rodata\n\t.global\t%s\n\t.align\t2\n", s)
}

func (e *emitter) trailer() {
	s := e.cfg.Symbol
	fmt.Fprintf(&e.buf, "\n\t.align\t2\n%s:\n", s)
	fmt.Fprintf(&e.buf, "\t.byte\t%d\t@ NumTrks\n", len(e.song.Tracks))
	fmt.Fprintf(&e.buf, "\t.byte\t0\t@ NumBlks\n")
	fmt.Fprintf(&e.buf, "\t.byte\t%s_pri\t@ Priority\n", s)
	fmt.Fprintf(&e.buf, "\t.byte\t%s_rev\t@ Reverb\n\n", s)
	fmt.Fprintf(&e.buf, "\t.word\t%s_grp\n\n", s)
	for t := range e.song.Tracks {
		fmt.Fprintf(&e.buf, "\t.word\t%s_%d\n", s, t+1)
	}
	e.buf.WriteString("\n\t.end\n")
}
