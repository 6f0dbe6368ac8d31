package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi2agb/agb"
	"midi2agb/score"
)

func TestEncode(t *testing.T) {
	mk := func() *score.Track {
		return &score.Track{Events: []score.Event{
			{Tick: 0, Kind: score.NoteOn, Key: 60, Vel: 100},
			{Tick: 48, Kind: score.NoteOff, Key: 60},
			{Tick: 48, Kind: score.NoteOn, Key: 62, Vel: 100},
			{Tick: 96, Kind: score.NoteOff, Key: 62},
		}}
	}
	song, err := Encode([]*score.Track{mk(), mk()}, false)
	require.NoError(t, err)
	require.Len(t, song.Tracks, 2)

	require.Len(t, song.Tracks[0].Bars, 1)
	assert.Equal(t, []agb.Event{
		{Op: agb.Note, Len: 48, Key: 60, Vel: 100},
		{Op: agb.Wait, Len: 48},
		{Op: agb.Note, Len: 48, Key: 62, Vel: 100},
		{Op: agb.Wait, Len: 48},
	}, song.Tracks[0].Bars[0].Events)

	assert.True(t, song.Tracks[0].Bars[0].IsReferenced)
	require.True(t, song.Tracks[1].Bars[0].DoesReference)
	assert.Equal(t, song.Tracks[0].Bars[0].ID, song.Tracks[1].Bars[0].RefID)
}
