// internal/gc/state.go
package gc

// State is the running window state for a single record. It is created at
// the start of a record, mutated once per base and discarded at the end;
// nothing else holds a reference to it.
//
// The ring keeps the GC flag of the last Size bases so the sliding GC count
// is updated in O(1) per base whatever the overlap between windows.
type State struct {
	w       Window
	ring    []uint8
	head    int // next ring slot to overwrite
	seen    int // bases consumed
	gc      int // GC among the last min(seen, Size) bases
	emitted int // full windows emitted
}

// NewState returns a fresh state for w. The caller validates w.
func NewState(w Window) State {
	return State{w: w, ring: make([]uint8, w.Size)}
}

// Seen is the number of bases consumed so far.
func (s *State) Seen() int { return s.seen }

// Push consumes one byte. Whitespace is ignored. When b completes a window
// the window's sample is returned with ok=true.
func (s *State) Push(b byte) (Sample, bool) {
	if IsSpace(b) {
		return Sample{}, false
	}
	var f uint8
	if IsGC(b) {
		f = 1
	}
	if s.seen >= s.w.Size {
		s.gc -= int(s.ring[s.head])
	}
	s.ring[s.head] = f
	s.gc += int(f)
	s.head++
	if s.head == len(s.ring) {
		s.head = 0
	}
	s.seen++

	// Window k covers 0-based [k*Shift, k*Shift+Size). When its last base
	// arrives the ring holds exactly that span.
	start := s.emitted * s.w.Shift
	if s.seen != start+s.w.Size {
		return Sample{}, false
	}
	s.emitted++
	return Sample{Start: start + 1, Bases: s.w.Size, GC: s.gc}, true
}

// Tail returns the trailing partial window once the record is exhausted:
// the bases from the next window start to the end of the record, even when
// they were already part of an emitted window. It reports ok=false when
// OmitTail is set or the next window would start past the end.
func (s *State) Tail() (Sample, bool) {
	if s.w.OmitTail {
		return Sample{}, false
	}
	start := s.emitted * s.w.Shift
	if start >= s.seen {
		return Sample{}, false
	}
	n := s.seen - start // < Size, otherwise Push would have emitted it
	gc := 0
	i := s.head
	for k := 0; k < n; k++ {
		i--
		if i < 0 {
			i = len(s.ring) - 1
		}
		gc += int(s.ring[i])
	}
	return Sample{Start: start + 1, Bases: n, GC: gc}, true
}
