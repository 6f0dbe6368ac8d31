package transform

import (
	"log/slog"
	"strconv"
	"strings"

	"midi2agb/score"
)

// RewriteMeta turns textual annotation events into typed extended controller
// events and collects the song-wide values (globals, loop bounds). Loop ticks
// are recorded once song-wide, first occurrence wins. After the scan the
// globals are appended to every channel-bearing track and the RPN bend-range
// sequences are folded into the extended bend-range controller.
func RewriteMeta(tracks []*score.Track) (Globals, error) {
	g := Globals{ModScale: 1}
	for _, trk := range tracks {
		if err := rewriteTrackMeta(trk, &g); err != nil {
			return g, err
		}
	}
	for _, trk := range tracks {
		rewriteBendRange(trk)
	}
	applyGlobals(tracks, &g)
	return g, nil
}

func rewriteTrackMeta(trk *score.Track, g *Globals) error {
	kept := trk.Events[:0]
	for _, ev := range trk.Events {
		if ev.Kind != score.Text {
			kept = append(kept, ev)
			continue
		}
		drop, err := rewriteAnnotation(&ev, g)
		if err != nil {
			return err
		}
		if !drop {
			kept = append(kept, ev)
		}
	}
	trk.Events = kept
	return nil
}

// rewriteAnnotation interprets one text payload. It either rewrites the event
// in place into a ControllerChange, asks for it to be dropped (loop tokens
// and global keys, which are re-materialized per track later), or leaves it
// untouched for the eliminator to discard.
func rewriteAnnotation(ev *score.Event, g *Globals) (drop bool, err error) {
	txt := strings.TrimSpace(ev.Str)

	switch txt {
	case "[", "loopStart":
		if !g.HasLoopStart {
			g.LoopStart = ev.Tick
			g.HasLoopStart = true
		}
		return true, nil
	case "]", "loopEnd":
		if !g.HasLoopEnd {
			g.LoopEnd = ev.Tick
			g.HasLoopEnd = true
		}
		return true, nil
	}

	key, val, ok := strings.Cut(txt, "=")
	if !ok {
		return false, nil
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)

	if key == "modscale_global" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return false, score.Parsef("modscale_global: bad payload %q", val)
		}
		g.ModScale = clampFloat(f, 0, 16, "modscale_global")
		return true, nil
	}

	global := strings.HasSuffix(key, "_global")
	n, perr := strconv.Atoi(val)

	setCtrl := func(ctrl byte, lo, hi int) {
		ev.Kind = score.Controller
		ev.Ctrl = ctrl
		ev.Val = byte(clampInt(n, lo, hi, key))
		ev.Str = ""
	}

	switch strings.TrimSuffix(key, "_global") {
	case "modt":
		if perr != nil {
			return false, score.Parsef("%s: bad payload %q", key, val)
		}
		if global {
			g.ModType = byte(clampInt(n, 0, 2, key))
			g.HasModType = true
			return true, nil
		}
		setCtrl(score.CtrlModType, 0, 2)
	case "tune":
		if global {
			return false, nil
		}
		if perr != nil {
			return false, score.Parsef("%s: bad payload %q", key, val)
		}
		// stored biased around 0x40 so the emitted operand is c_v relative
		ev.Kind = score.Controller
		ev.Ctrl = score.CtrlTune
		ev.Val = byte(clampInt(n, -64, 63, key) + 64)
		ev.Str = ""
	case "lfos":
		if perr != nil {
			return false, score.Parsef("%s: bad payload %q", key, val)
		}
		if global {
			g.LfoSpeed = byte(clampInt(n, 0, 127, key))
			g.HasLfoSpeed = true
			return true, nil
		}
		setCtrl(score.CtrlLfoSpeed, 0, 127)
	case "lfodl":
		if perr != nil {
			return false, score.Parsef("%s: bad payload %q", key, val)
		}
		if global {
			g.LfoDelay = byte(clampInt(n, 0, 127, key))
			g.HasLfoDelay = true
			return true, nil
		}
		setCtrl(score.CtrlLfoDelay, 0, 127)
	case "prio":
		if global {
			return false, nil
		}
		if perr != nil {
			return false, score.Parsef("%s: bad payload %q", key, val)
		}
		setCtrl(score.CtrlPrio, 0, 127)
	}
	return false, nil
}

// rewriteBendRange folds the RPN-then-data-entry sequence selecting pitch
// bend range (RPN 0,0) into the extended bend-range controller. The stale
// RPN select events fall to the eliminator.
func rewriteBendRange(trk *score.Track) {
	rpnMsb, rpnLsb := byte(0x7F), byte(0x7F)
	for i := range trk.Events {
		ev := &trk.Events[i]
		if ev.Kind != score.Controller {
			continue
		}
		switch ev.Ctrl {
		case score.CtrlRPNMsb:
			rpnMsb = ev.Val
		case score.CtrlRPNLsb:
			rpnLsb = ev.Val
		case score.CtrlDataEntry:
			if rpnMsb == 0 && rpnLsb == 0 {
				ev.Ctrl = score.CtrlBendRange
			}
		}
	}
}

// applyGlobals materializes the collected song-wide values: one event per
// channel-bearing track, at tick 0 for the *_global keys and at the recorded
// ticks for the loop markers. Loop start uses lower-bound placement, loop end
// upper-bound, so boundary state capture is deterministic.
func applyGlobals(tracks []*score.Track, g *Globals) {
	for _, trk := range tracks {
		if !trk.HasNotes() {
			continue
		}
		if g.HasModType {
			trk.InsertBefore(score.Event{Kind: score.Controller, Ctrl: score.CtrlModType, Val: g.ModType})
		}
		if g.HasLfoSpeed {
			trk.InsertBefore(score.Event{Kind: score.Controller, Ctrl: score.CtrlLfoSpeed, Val: g.LfoSpeed})
		}
		if g.HasLfoDelay {
			trk.InsertBefore(score.Event{Kind: score.Controller, Ctrl: score.CtrlLfoDelay, Val: g.LfoDelay})
		}
		if g.HasLoopStart {
			trk.InsertBefore(score.Event{Tick: g.LoopStart, Kind: score.Controller, Ctrl: score.CtrlLoopStart})
		}
		if g.HasLoopEnd {
			trk.InsertAfter(score.Event{Tick: g.LoopEnd, Kind: score.Controller, Ctrl: score.CtrlLoopEnd})
		}
	}
}

func clampInt(v, lo, hi int, what string) int {
	if v < lo {
		slog.Debug("clamped annotation value", "key", what, "value", v, "to", lo)
		return lo
	}
	if v > hi {
		slog.Debug("clamped annotation value", "key", what, "value", v, "to", hi)
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64, what string) float64 {
	if v < lo {
		slog.Debug("clamped annotation value", "key", what, "value", v, "to", lo)
		return lo
	}
	if v > hi {
		slog.Debug("clamped annotation value", "key", what, "value", v, "to", hi)
		return hi
	}
	return v
}
