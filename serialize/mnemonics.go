// Package serialize walks the frozen op song and writes the driver's
// assembly records, eliding operands the player's running status carries
// over implicitly.
package serialize

import (
	"fmt"
	"strconv"

	"midi2agb/agb"
)

var noteNames = [12]string{"Cn", "Cs", "Dn", "Ds", "En", "Fn", "Fs", "Gn", "Gs", "An", "As", "Bn"}

// keyName renders a key number in driver notation: middle C (60) is Cn3,
// negative octaves use the M prefix (key 0 is CnM2).
func keyName(key byte) string {
	oct := int(key)/12 - 2
	if oct < 0 {
		return fmt.Sprintf("%sM%d", noteNames[key%12], -oct)
	}
	return fmt.Sprintf("%s%d", noteNames[key%12], oct)
}

func velName(v byte) string { return fmt.Sprintf("v%03d", v) }

// centered renders operands whose driver encoding is relative to the center
// value constant (pan, bend, tune).
func centered(v byte) string { return fmt.Sprintf("c_v%+d", int(v)-64) }

// opSpec is one row of the emission table: the record's full form and
// whether running status may elide its mnemonic.
type opSpec struct {
	mnemonic func(agb.Event) string
	operands func(agb.Event) []string
	elide    bool
}

func fixed(s string) func(agb.Event) string {
	return func(agb.Event) string { return s }
}

func plainVal(ev agb.Event) []string { return []string{strconv.Itoa(int(ev.Val))} }
func centerVal(ev agb.Event) []string { return []string{centered(ev.Val)} }
func noOperands(agb.Event) []string  { return nil }

// opTable drives the emission state machine. LoopStart and LoopEnd are
// label/jump records handled outside the table; waits are never elided,
// every one is load-bearing.
var opTable = map[agb.Op]opSpec{
	agb.Wait: {
		mnemonic: func(ev agb.Event) string { return fmt.Sprintf("W%02d", ev.Len) },
		operands: noOperands,
	},
	agb.Tempo:     {mnemonic: fixed("TEMPO"), operands: plainVal, elide: true},
	agb.Voice:     {mnemonic: fixed("VOICE"), operands: plainVal, elide: true},
	agb.Vol:       {mnemonic: fixed("VOL"), operands: plainVal, elide: true},
	agb.Pan:       {mnemonic: fixed("PAN"), operands: centerVal, elide: true},
	agb.Bend:      {mnemonic: fixed("BEND"), operands: centerVal, elide: true},
	agb.BendRange: {mnemonic: fixed("BENDR"), operands: plainVal, elide: true},
	agb.LfoSpeed:  {mnemonic: fixed("LFOS"), operands: plainVal, elide: true},
	agb.LfoDelay:  {mnemonic: fixed("LFODL"), operands: plainVal, elide: true},
	agb.Mod:       {mnemonic: fixed("MOD"), operands: plainVal, elide: true},
	agb.ModType:   {mnemonic: fixed("MODT"), operands: plainVal, elide: true},
	agb.Tune:      {mnemonic: fixed("TUNE"), operands: centerVal, elide: true},
	agb.Prio:      {mnemonic: fixed("PRIO"), operands: plainVal, elide: true},
	agb.Note: {
		mnemonic: func(ev agb.Event) string { return fmt.Sprintf("N%02d", ev.Len) },
		operands: func(ev agb.Event) []string {
			ops := []string{keyName(ev.Key), velName(ev.Vel)}
			if ev.Gate > 0 {
				ops = append(ops, fmt.Sprintf("gtp%d", ev.Gate))
			}
			return ops
		},
		elide: true,
	},
	agb.Tie: {
		mnemonic: fixed("TIE"),
		operands: func(ev agb.Event) []string { return []string{keyName(ev.Key), velName(ev.Vel)} },
		elide:    true,
	},
	agb.EndOfTie: {
		mnemonic: fixed("EOT"),
		operands: func(ev agb.Event) []string { return []string{keyName(ev.Key)} },
		elide:    true,
	},
}
