package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi2agb/agb"
)

func TestKeyName(t *testing.T) {
	assert.Equal(t, "Cn3", keyName(60))
	assert.Equal(t, "An2", keyName(57))
	assert.Equal(t, "CnM2", keyName(0))
	assert.Equal(t, "BnM1", keyName(23))
	assert.Equal(t, "Gn8", keyName(127))
}

func TestCentered(t *testing.T) {
	assert.Equal(t, "c_v+0", centered(64))
	assert.Equal(t, "c_v-64", centered(0))
	assert.Equal(t, "c_v+63", centered(127))
}

func TestElide(t *testing.T) {
	emit := func(st *recordState, ev agb.Event) []string {
		spec := opTable[ev.Op]
		mn := spec.mnemonic(ev)
		ops := spec.operands(ev)
		out := elide(st, spec, mn, ops)
		*st = recordState{valid: true, mnemonic: mn, operands: ops}
		return out
	}

	var st recordState
	got := emit(&st, agb.Event{Op: agb.Note, Len: 24, Key: 60, Vel: 100})
	assert.Equal(t, []string{"N24", "Cn3", "v100"}, got, "first record always full")

	got = emit(&st, agb.Event{Op: agb.Note, Len: 24, Key: 62, Vel: 100})
	assert.Equal(t, []string{"Dn3"}, got, "matching mnemonic and trailing operands drop")

	got = emit(&st, agb.Event{Op: agb.Note, Len: 24, Key: 62, Vel: 115})
	assert.Equal(t, []string{"Dn3", "v115"}, got, "changed trailing operand forces both")

	got = emit(&st, agb.Event{Op: agb.Note, Len: 48, Key: 62, Vel: 115})
	assert.Equal(t, []string{"N48", "Dn3", "v115"}, got, "length change is a new mnemonic")
}

func TestElideArityMismatch(t *testing.T) {
	st := recordState{valid: true, mnemonic: "N24", operands: []string{"Cn3", "v100"}}
	spec := opTable[agb.Note]
	got := elide(&st, spec, "N24", []string{"Cn3", "v100", "gtp2"})
	assert.Equal(t, []string{"Cn3", "v100", "gtp2"}, got, "operand count change keeps all operands")
}

func TestElideWaitNever(t *testing.T) {
	st := recordState{valid: true, mnemonic: "W24", operands: nil}
	spec := opTable[agb.Wait]
	got := elide(&st, spec, "W24", nil)
	assert.Equal(t, []string{"W24"}, got)
}

func testSong() *agb.Song {
	bar := func() *agb.Bar {
		return &agb.Bar{NominalLen: 96, Events: []agb.Event{
			{Op: agb.Note, Len: 48, Key: 60, Vel: 100},
			{Op: agb.Note, Len: 48, Key: 62, Vel: 100},
			{Op: agb.Wait, Len: 96},
		}}
	}
	song := &agb.Song{Tracks: []*agb.Track{
		{Bars: []*agb.Bar{bar()}},
		{Bars: []*agb.Bar{bar()}},
	}}
	song.Freeze()
	song.Tracks[0].Bars[0].IsReferenced = true
	song.Tracks[1].Bars[0].DoesReference = true
	song.Tracks[1].Bars[0].RefID = song.Tracks[0].Bars[0].ID
	return song
}

func TestSerialize(t *testing.T) {
	out := string(Serialize(testSong(), Config{
		Symbol: "song", Voicegroup: "voicegroup000", Priority: 1, Reverb: 2, MasterVolume: 128,
	}))

	assert.True(t, strings.HasPrefix(out, "\t.include \"MPlayDef.s\"\n"))
	assert.Contains(t, out, "\t.equ\tsong_grp, voicegroup000\n")
	assert.Contains(t, out, "\t.equ\tsong_mvl, 128\n")

	assert.Contains(t, out, "\nsong_1:\n")
	assert.Contains(t, out, "\t.byte\tKEYSH , song_key+0\n")
	assert.Contains(t, out, "song_1_000:\n")
	assert.Contains(t, out, "\t.byte\tN48   , Cn3 , v100\n")
	assert.Contains(t, out, "\t.byte\tDn3\n", "running status elides inside the bar")
	assert.Contains(t, out, "\t.byte\tPEND\n")

	assert.Contains(t, out, "\t.byte\tPATT\n\t .word\tsong_1_000\n")
	assert.Equal(t, 2, strings.Count(out, "\t.byte\tFINE\n"))

	assert.Contains(t, out, "\t.byte\t2\t@ NumTrks\n")
	assert.Contains(t, out, "\t.word\tsong_grp\n")
	assert.Contains(t, out, "\t.word\tsong_2\n")
	assert.True(t, strings.HasSuffix(out, "\n\t.end\n"))
}

func TestSerializeLoop(t *testing.T) {
	song := &agb.Song{Tracks: []*agb.Track{
		{Bars: []*agb.Bar{{NominalLen: 96, Events: []agb.Event{
			{Op: agb.LoopStart},
			{Op: agb.Note, Len: 96, Key: 60, Vel: 100},
			{Op: agb.Wait, Len: 96},
			{Op: agb.LoopEnd},
		}}}},
	}}
	song.Freeze()

	out := string(Serialize(song, Config{Symbol: "song", Voicegroup: "voicegroup000", MasterVolume: 128}))
	require.Contains(t, out, "song_1_loop:\n")
	assert.Contains(t, out, "\t.byte\tGOTO\n\t .word\tsong_1_loop\n")
}

func TestSerializeGate(t *testing.T) {
	song := &agb.Song{Tracks: []*agb.Track{
		{Bars: []*agb.Bar{{NominalLen: 96, Events: []agb.Event{
			{Op: agb.Note, Len: 24, Key: 60, Vel: 100, Gate: 2},
			{Op: agb.Wait, Len: 96},
		}}}},
	}}
	song.Freeze()

	out := string(Serialize(song, Config{Symbol: "song", Voicegroup: "voicegroup000", MasterVolume: 128}))
	assert.Contains(t, out, "\t.byte\tN24   , Cn3 , v100 , gtp2\n")
}
