package transform

import (
	"slices"

	"midi2agb/score"
)

// Loop-shadowed classes: everything up to and including priority. LFO speed
// and delay are driver-latched and not re-established at the loop point.
const loopShadowed = prmPrio

// MaterializeLoop snapshots per-parameter state at the loop start tick and
// re-emits it immediately before the loop end marker, so repeated jumps back
// to the loop start begin from fully defined state. A loop end with no
// preceding loop start is inert. Only one loop region per track is assumed.
//
// Tempo is shadowed only on the reference track: consolidation left tempo
// events nowhere else.
func MaterializeLoop(trk *score.Track, reference bool) {
	startTick, ok := findLoopStart(trk)
	if !ok {
		return
	}

	var shadow [prmCount]int
	for cls := paramClass(0); cls <= loopShadowed; cls++ {
		if def, ok := paramDefaults[cls]; ok {
			shadow[cls] = def
		}
	}
	shadow[prmTempo] = quantizeTempo(150)
	shadow[prmVoice] = 0

	for i := 0; i < len(trk.Events); i++ {
		ev := trk.Events[i]
		if ev.Kind == score.Controller && ev.Ctrl == score.CtrlLoopEnd {
			synth := make([]score.Event, 0, int(loopShadowed)+1)
			for cls := paramClass(0); cls <= loopShadowed; cls++ {
				if cls == prmTempo && !reference {
					continue
				}
				synth = append(synth, synthEvent(cls, shadow[cls], ev.Tick))
			}
			trk.Events = slices.Insert(trk.Events, i, synth...)
			return
		}
		if ev.Tick > startTick {
			continue
		}
		if cls, val, ok := classOf(ev); ok && cls <= loopShadowed {
			shadow[cls] = val
		}
	}
}

func findLoopStart(trk *score.Track) (uint32, bool) {
	for _, ev := range trk.Events {
		if ev.Kind == score.Controller && ev.Ctrl == score.CtrlLoopStart {
			return ev.Tick, true
		}
	}
	return 0, false
}
