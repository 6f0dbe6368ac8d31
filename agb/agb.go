// Package agb defines the op intermediate representation consumed by the
// emitter: driver ops grouped into bars, bars into tracks, tracks into one
// song per run.
package agb

// Op enumerates the driver op kinds.
type Op uint8

const (
	Wait Op = iota
	LoopStart
	LoopEnd
	Prio
	Tempo
	Voice
	Vol
	Pan
	Bend
	BendRange
	LfoSpeed
	LfoDelay
	Mod
	ModType
	Tune
	Note
	Tie
	EndOfTie
)

// Event is one driver op. Field use depends on Op: Len carries the wait
// duration or quantized note length in ticks, Val the parameter operand,
// Gate the exact-gate remainder (0 when unused). Equality is structural.
type Event struct {
	Op   Op
	Len  byte
	Key  byte
	Vel  byte
	Gate byte
	Val  byte
}

// EncodedSize is the deterministic byte length of the op's full encoded
// form, before operand elision.
func (e Event) EncodedSize() int {
	switch e.Op {
	case Wait:
		return 1
	case LoopStart:
		return 0 // jump target only
	case LoopEnd:
		return 5 // jump op plus target word
	case Note:
		if e.Gate > 0 {
			return 4
		}
		return 3
	case Tie:
		return 3
	case EndOfTie:
		return 2
	default:
		return 2
	}
}
