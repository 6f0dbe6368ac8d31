package encode

import (
	"midi2agb/agb"
)

// Bars at or below this encoded size gain nothing from a reference record.
const minCompressSize = 5

// Compress deduplicates structurally identical bars across the whole song.
// The first occurrence (track then bar index ascending) becomes canonical;
// later duplicates are rewritten into references to it. Greedy by design:
// canonical choice ignores the byte savings operand elision would produce
// for alternative assignments. Bars carrying loop markers are never
// compressed, their labels must stay inline.
//
// Must run after every track has reached bar form and the song is frozen;
// the dedup map is the only cross-track shared state in the pipeline.
func Compress(song *agb.Song) {
	canon := make(map[string]int)
	for _, trk := range song.Tracks {
		for _, bar := range trk.Bars {
			if bar.EncodedSize() <= minCompressSize || bar.HasLoopMarker() {
				continue
			}
			key := bar.Key()
			if id, ok := canon[key]; ok {
				bar.DoesReference = true
				bar.RefID = id
				song.Bar(id).IsReferenced = true
			} else {
				canon[key] = bar.ID
			}
		}
	}
}
