// internal/gc/window.go
package gc

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a Window has a non-positive size or shift.
var ErrInvalidWindow = errors.New("invalid window")

// Window describes how samples are laid over a sequence.
type Window struct {
	Size     int  // bases per window (>=1)
	Shift    int  // distance between window starts (>=1); may exceed Size
	OmitTail bool // drop the trailing partial window
}

// Validate reports whether w can drive a scan.
func (w Window) Validate() error {
	if w.Size < 1 {
		return fmt.Errorf("%w: size %d must be >= 1", ErrInvalidWindow, w.Size)
	}
	if w.Shift < 1 {
		return fmt.Errorf("%w: shift %d must be >= 1", ErrInvalidWindow, w.Shift)
	}
	return nil
}

// Overlap is the number of bases two consecutive windows share.
func (w Window) Overlap() int {
	if w.Shift >= w.Size {
		return 0
	}
	return w.Size - w.Shift
}

// Sample is one emitted window.
type Sample struct {
	Start int // 1-based position of the first base
	Bases int // bases in the window; < Window.Size only for the tail
	GC    int // G/C bases among them
}

// End is the 1-based position of the last base.
func (s Sample) End() int { return s.Start + s.Bases - 1 }

// Percent is the exact GC percentage in [0,100].
func (s Sample) Percent() float64 {
	if s.Bases == 0 {
		return 0
	}
	return float64(s.GC) * 100 / float64(s.Bases)
}

// Value is Percent truncated toward zero; this is what every sink writes.
func (s Sample) Value() int { return int(s.Percent()) }

// Summary describes one finished record.
type Summary struct {
	Bases   int // non-whitespace bases consumed
	Samples int // samples emitted, tail included
	Tail    bool
}
