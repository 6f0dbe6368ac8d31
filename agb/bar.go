package agb

// Bar is one fixed-duration segment of a track's op stream. Two bars are
// equal iff their op sequences are element-wise equal. IsReferenced and
// DoesReference are mutually exclusive; the reference relation is acyclic
// and at most one hop deep.
type Bar struct {
	Events     []Event
	NominalLen int // nominal bar length in ticks in force at this bar

	ID            int // arena id, assigned by Song.Freeze
	IsReferenced  bool
	DoesReference bool
	RefID         int // canonical bar when DoesReference
}

func (b *Bar) EncodedSize() int {
	n := 0
	for _, ev := range b.Events {
		n += ev.EncodedSize()
	}
	return n
}

// Key is the order-sensitive structural identity of the bar's op sequence.
// Equal keys imply element-wise equal bars.
func (b *Bar) Key() string {
	buf := make([]byte, 0, len(b.Events)*6)
	for _, ev := range b.Events {
		buf = append(buf, byte(ev.Op), ev.Len, ev.Key, ev.Vel, ev.Gate, ev.Val)
	}
	return string(buf)
}

func (b *Bar) HasLoopMarker() bool {
	for _, ev := range b.Events {
		if ev.Op == LoopStart || ev.Op == LoopEnd {
			return true
		}
	}
	return false
}

// Track is the ordered bar sequence of one source track.
type Track struct {
	Bars []*Bar
}

// Song is the whole-score op representation: built once, consumed once by
// emission. Freeze assigns every bar a stable integer id in an arena so the
// compressor can reference bars without aliasing mutable state.
type Song struct {
	Tracks []*Track

	arena []*Bar
}

func (s *Song) Freeze() {
	s.arena = s.arena[:0]
	for _, trk := range s.Tracks {
		for _, bar := range trk.Bars {
			bar.ID = len(s.arena)
			s.arena = append(s.arena, bar)
		}
	}
}

func (s *Song) Bar(id int) *Bar {
	return s.arena[id]
}
