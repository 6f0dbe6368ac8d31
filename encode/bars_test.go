package encode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi2agb/agb"
	"midi2agb/score"
)

func TestBarClock(t *testing.T) {
	ref := &score.Track{Events: []score.Event{
		{Tick: 192, Kind: score.TimeSig, Val: 3, Denom: 2}, // 3/4
	}}
	clock := NewBarClock(ref)

	assert.Equal(t, 96, clock.LenAt(0))
	assert.Equal(t, 96, clock.LenAt(191))
	assert.Equal(t, 72, clock.LenAt(192))
	assert.Equal(t, uint32(96), clock.BarEnd(0))
	assert.Equal(t, uint32(264), clock.BarEnd(192))
}

func TestBarClockCutShort(t *testing.T) {
	ref := &score.Track{Events: []score.Event{
		{Tick: 48, Kind: score.TimeSig, Val: 3, Denom: 2},
	}}
	clock := NewBarClock(ref)
	assert.Equal(t, uint32(48), clock.BarEnd(0), "signature change inside a bar ends it early")
}

func TestBuildTrackSingleNote(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 48, Vel: 100},
		{Tick: 48, Kind: score.NoteOff, Key: 48},
	}}
	out, err := BuildTrack(trk, NewBarClock(trk), false)
	require.NoError(t, err)

	require.Len(t, out.Bars, 1)
	require.Equal(t, []agb.Event{
		{Op: agb.Note, Len: 48, Key: 48, Vel: 100},
		{Op: agb.Wait, Len: 48},
	}, out.Bars[0].Events)
	assert.Equal(t, 96, out.Bars[0].NominalLen)
}

func TestBuildTrackWaitQuantization(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
		{Tick: 3, Kind: score.NoteOff, Key: 60},
		{Tick: 30, Kind: score.Controller, Ctrl: score.CtrlVolume, Val: 80},
	}}
	out, err := BuildTrack(trk, NewBarClock(trk), false)
	require.NoError(t, err)

	require.Len(t, out.Bars, 1)
	assert.Equal(t, []agb.Event{
		{Op: agb.Note, Len: 3, Key: 60, Vel: 100},
		{Op: agb.Wait, Len: 3},
		{Op: agb.Wait, Len: 24},
		{Op: agb.Wait, Len: 3},
		{Op: agb.Vol, Val: 80},
	}, out.Bars[0].Events)
}

func TestBuildTrackBarSplit(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
		{Tick: 96, Kind: score.NoteOff, Key: 60},
		{Tick: 96, Kind: score.NoteOn, Key: 62, Vel: 100},
		{Tick: 144, Kind: score.NoteOff, Key: 62},
	}}
	out, err := BuildTrack(trk, NewBarClock(trk), false)
	require.NoError(t, err)

	require.Len(t, out.Bars, 2)
	waits := 0
	for _, ev := range out.Bars[0].Events {
		if ev.Op == agb.Wait {
			waits += int(ev.Len)
		}
	}
	assert.Equal(t, out.Bars[0].NominalLen, waits, "non-final bar waits fill the bar exactly")
	assert.Equal(t, agb.Note, out.Bars[1].Events[0].Op)
	assert.Equal(t, byte(62), out.Bars[1].Events[0].Key)
}

func TestBuildTrackTie(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
		{Tick: 120, Kind: score.NoteOff, Key: 60},
	}}
	out, err := BuildTrack(trk, NewBarClock(trk), false)
	require.NoError(t, err)

	require.Len(t, out.Bars, 2)
	assert.Equal(t, []agb.Event{
		{Op: agb.Tie, Key: 60, Vel: 100},
		{Op: agb.Wait, Len: 96},
	}, out.Bars[0].Events)
	assert.Equal(t, []agb.Event{
		{Op: agb.Wait, Len: 24},
		{Op: agb.EndOfTie, Key: 60},
	}, out.Bars[1].Events)
}

func TestBuildTrackExactGate(t *testing.T) {
	trk := &score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
		{Tick: 26, Kind: score.NoteOff, Key: 60}, // 26 quantizes to 24, shortfall 2
	}}
	out, err := BuildTrack(trk, NewBarClock(trk), true)
	require.NoError(t, err)

	note := out.Bars[0].Events[0]
	assert.Equal(t, byte(24), note.Len)
	assert.Equal(t, byte(2), note.Gate)

	out, err = BuildTrack(trk, NewBarClock(trk), false)
	require.NoError(t, err)
	assert.Equal(t, byte(0), out.Bars[0].Events[0].Gate, "gate modifiers only in exact mode")
}

func TestBuildTrackErrors(t *testing.T) {
	var serr *score.StructuralError

	_, err := BuildTrack(&score.Track{Events: []score.Event{
		{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
	}}, NewBarClock(&score.Track{}), false)
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))

	_, err = BuildTrack(&score.Track{Events: []score.Event{
		{Tick: 10, Kind: score.NoteOff, Key: 60},
	}}, NewBarClock(&score.Track{}), false)
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))
}

func TestQuantizeLen(t *testing.T) {
	assert.Equal(t, 24, quantizeLen(27))
	assert.Equal(t, 96, quantizeLen(500))
	assert.Equal(t, 0, quantizeLen(0))
	assert.Equal(t, 28, quantizeLen(29))
}
