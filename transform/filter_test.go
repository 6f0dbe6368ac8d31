package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi2agb/score"
)

func TestLoudnessLinear(t *testing.T) {
	opt := Options{MasterVolume: 128}
	assert.Equal(t, byte(100), loudness(100, 127, opt))
	assert.Equal(t, byte(127), loudness(127, 127, opt))
	assert.Equal(t, byte(0), loudness(0, 127, opt))

	half := Options{MasterVolume: 64}
	assert.Equal(t, byte(64), loudness(127, 127, half))
}

func TestLoudnessNatural(t *testing.T) {
	opt := Options{MasterVolume: 128, NaturalScale: true}
	assert.Equal(t, byte(127), loudness(127, 127, opt))
	assert.Equal(t, byte(0), loudness(0, 127, opt))

	// power-law curve lies below the linear one in the midrange
	lin := Options{MasterVolume: 128}
	assert.Less(t, loudness(64, 127, opt), loudness(64, 127, lin))
}

func TestLoudnessMonotonic(t *testing.T) {
	for _, opt := range []Options{
		{MasterVolume: 128},
		{MasterVolume: 128, NaturalScale: true},
		{MasterVolume: 90},
		{MasterVolume: 90, NaturalScale: true},
	} {
		prev := byte(0)
		for vol := 0; vol <= 127; vol++ {
			cur := loudness(vol, 127, opt)
			require.GreaterOrEqual(t, cur, prev, "vol=%d natural=%v", vol, opt.NaturalScale)
			prev = cur
		}
	}
}

func TestFilterRewritesExpression(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.Controller, Ctrl: score.CtrlVolume, Val: 100},
		{Tick: 10, Kind: score.Controller, Ctrl: score.CtrlExpression, Val: 64},
	}}
	FilterTrack(trk, Options{MasterVolume: 128}, Globals{ModScale: 1})

	require.Len(t, trk.Events, 2)
	assert.Equal(t, score.CtrlVolume, trk.Events[1].Ctrl, "expression becomes a volume event")
	assert.Equal(t, byte(50), trk.Events[1].Val) // round(100*64*128/(127*128))
}

func TestFilterModScale(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.Controller, Ctrl: score.CtrlModDepth, Val: 50},
		{Tick: 1, Kind: score.Controller, Ctrl: score.CtrlModDepth, Val: 70},
	}}
	FilterTrack(trk, Options{MasterVolume: 128}, Globals{ModScale: 2})

	assert.Equal(t, byte(100), trk.Events[0].Val)
	assert.Equal(t, byte(127), trk.Events[1].Val, "scaled depth clamps at 127")
}

func TestFilterVelocity(t *testing.T) {
	linear := &score.Track{Events: []score.Event{{Kind: score.NoteOn, Key: 60, Vel: 100}}}
	FilterTrack(linear, Options{MasterVolume: 128}, Globals{ModScale: 1})
	assert.Equal(t, byte(100), linear.Events[0].Vel, "linear mode leaves velocity alone")

	natural := &score.Track{Events: []score.Event{
		{Kind: score.NoteOn, Key: 60, Vel: 127},
		{Tick: 1, Kind: score.NoteOn, Key: 62, Vel: 64},
	}}
	FilterTrack(natural, Options{MasterVolume: 128, NaturalScale: true}, Globals{ModScale: 1})
	assert.Equal(t, byte(127), natural.Events[0].Vel)
	assert.Less(t, natural.Events[1].Vel, byte(64), "midrange velocity drops under the curve")
}
