package transform

import (
	"math"

	"midi2agb/score"
)

// Parameter classes shadowed by the loop materializer and the eliminator.
type paramClass int

const (
	prmTempo paramClass = iota
	prmVoice
	prmVol
	prmPan
	prmBend
	prmBendRange
	prmMod
	prmModType
	prmTune
	prmPrio
	prmLfoSpeed
	prmLfoDelay
	prmCount
)

// classOf maps a state-setting event to its parameter class and the value
// used for redundancy comparison. Tempo and pitch bend are compared with the
// quantization applied at emission time, so quantization-equivalent
// duplicates compare equal.
func classOf(ev score.Event) (paramClass, int, bool) {
	switch ev.Kind {
	case score.Tempo:
		return prmTempo, quantizeTempo(ev.BPM), true
	case score.ProgramChange:
		return prmVoice, int(ev.Val), true
	case score.PitchBend:
		return prmBend, quantizeBend(ev.Bend), true
	case score.Controller:
		switch ev.Ctrl {
		case score.CtrlVolume:
			return prmVol, int(ev.Val), true
		case score.CtrlPan:
			return prmPan, int(ev.Val), true
		case score.CtrlModDepth:
			return prmMod, int(ev.Val), true
		case score.CtrlBendRange:
			return prmBendRange, int(ev.Val), true
		case score.CtrlModType:
			return prmModType, int(ev.Val), true
		case score.CtrlTune:
			return prmTune, int(ev.Val), true
		case score.CtrlPrio:
			return prmPrio, int(ev.Val), true
		case score.CtrlLfoSpeed:
			return prmLfoSpeed, int(ev.Val), true
		case score.CtrlLfoDelay:
			return prmLfoDelay, int(ev.Val), true
		}
	}
	return 0, 0, false
}

// quantizeTempo yields the byte operand of the driver tempo op.
func quantizeTempo(bpm float64) int {
	return int(math.Round(bpm / 2))
}

// quantizeBend yields the signed 7-bit operand of the driver bend op.
func quantizeBend(bend int16) int {
	return int(bend >> 7)
}

// Implicit driver defaults per class. Classes without an entry (tempo,
// voice) have no fixed default: their first occurrence is always emitted.
var paramDefaults = map[paramClass]int{
	prmVol:       127,
	prmPan:       0x40,
	prmBend:      0,
	prmBendRange: 2,
	prmMod:       0,
	prmModType:   0,
	prmTune:      0x40,
	prmPrio:      0,
	prmLfoSpeed:  22,
	prmLfoDelay:  0,
}

// synthEvent builds the event re-establishing a parameter class at the given
// tick, used when closing a loop region.
func synthEvent(cls paramClass, val int, tick uint32) score.Event {
	ev := score.Event{Tick: tick}
	switch cls {
	case prmTempo:
		ev.Kind = score.Tempo
		ev.BPM = float64(val) * 2
	case prmVoice:
		ev.Kind = score.ProgramChange
		ev.Val = byte(val)
	case prmBend:
		ev.Kind = score.PitchBend
		ev.Bend = int16(val) << 7
	default:
		ev.Kind = score.Controller
		ev.Val = byte(val)
		switch cls {
		case prmVol:
			ev.Ctrl = score.CtrlVolume
		case prmPan:
			ev.Ctrl = score.CtrlPan
		case prmMod:
			ev.Ctrl = score.CtrlModDepth
		case prmBendRange:
			ev.Ctrl = score.CtrlBendRange
		case prmModType:
			ev.Ctrl = score.CtrlModType
		case prmTune:
			ev.Ctrl = score.CtrlTune
		case prmPrio:
			ev.Ctrl = score.CtrlPrio
		case prmLfoSpeed:
			ev.Ctrl = score.CtrlLfoSpeed
		case prmLfoDelay:
			ev.Ctrl = score.CtrlLfoDelay
		}
	}
	return ev
}
