package transform

import (
	"log/slog"
	"math"

	"midi2agb/score"
)

// FilterTrack normalizes loudness and modulation depth on one track.
//
// The driver has no expression channel, so volume and expression are folded
// into a single effective loudness: volume events are overwritten with it and
// expression events are rewritten into volume events carrying it. Note-on
// velocity passes through the same curve when the natural scale is enabled.
// Modulation depth is scaled by the song-wide factor.
func FilterTrack(trk *score.Track, opt Options, g Globals) {
	vol, expr := 100, 127
	for i := range trk.Events {
		ev := &trk.Events[i]
		switch ev.Kind {
		case score.Controller:
			switch ev.Ctrl {
			case score.CtrlVolume:
				vol = int(ev.Val)
				ev.Val = loudness(vol, expr, opt)
			case score.CtrlExpression:
				expr = int(ev.Val)
				ev.Ctrl = score.CtrlVolume
				ev.Val = loudness(vol, expr, opt)
			case score.CtrlModDepth:
				ev.Val = clampVal(math.Round(float64(ev.Val)*g.ModScale), "mod depth")
			}
		case score.NoteOn:
			if opt.NaturalScale {
				x := float64(ev.Vel) * float64(opt.MasterVolume) / (127.0 * 128.0)
				ev.Vel = clampVal(math.Round(127*math.Pow(x, 10.0/6.0)), "velocity")
			}
		}
	}
}

// loudness computes the effective driver volume for the running volume and
// expression values. Linear mode is the driver's native multiply; natural
// mode applies a power-law curve approximating perceptual loudness.
func loudness(vol, expr int, opt Options) byte {
	if opt.NaturalScale {
		x := float64(vol) * float64(expr) * float64(opt.MasterVolume) / (127.0 * 127.0 * 128.0)
		return clampVal(math.Round(127*math.Pow(x, 10.0/6.0)), "volume")
	}
	v := float64(vol) * float64(expr) * float64(opt.MasterVolume) / (127.0 * 128.0)
	return clampVal(math.Round(v), "volume")
}

func clampVal(v float64, what string) byte {
	if v < 0 {
		slog.Debug("clamped filter value", "what", what, "value", v)
		return 0
	}
	if v > 127 {
		slog.Debug("clamped filter value", "what", what, "value", v)
		return 127
	}
	return byte(v)
}
