// internal/gc/scan.go
package gc

import (
	"bytes"
	"context"
	"io"
)

// ctxCheckEvery is how many bytes are read between context checks.
const ctxCheckEvery = 1 << 16

// Scanner pulls samples lazily from one record. It is finite and not
// restartable: it consumes r.
type Scanner struct {
	ctx   context.Context
	r     io.ByteReader
	st    State
	sum   Summary
	reads int
	done  bool
	err   error
}

// NewScanner validates w and returns a Scanner over r. r must return io.EOF
// at the end of the record.
func NewScanner(ctx context.Context, r io.ByteReader, w Window) (*Scanner, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{ctx: ctx, r: r, st: NewState(w)}, nil
}

// Next returns the next sample, or io.EOF once the record (and its tail)
// has been emitted. Any other error is sticky.
func (sc *Scanner) Next() (Sample, error) {
	if sc.err != nil {
		return Sample{}, sc.err
	}
	if sc.done {
		return Sample{}, io.EOF
	}
	for {
		if sc.reads++; sc.reads == ctxCheckEvery {
			sc.reads = 0
			if err := sc.ctx.Err(); err != nil {
				sc.err = err
				return Sample{}, err
			}
		}
		b, err := sc.r.ReadByte()
		if err == io.EOF {
			sc.done = true
			if s, ok := sc.st.Tail(); ok {
				sc.sum.Samples++
				sc.sum.Tail = true
				return s, nil
			}
			return Sample{}, io.EOF
		}
		if err != nil {
			sc.err = err
			return Sample{}, err
		}
		if s, ok := sc.st.Push(b); ok {
			sc.sum.Samples++
			return s, nil
		}
	}
}

// Summary describes what has been consumed so far; it is final after Next
// returns io.EOF.
func (sc *Scanner) Summary() Summary {
	s := sc.sum
	s.Bases = sc.st.Seen()
	return s
}

// Scan streams one record from r through w and calls emit for every sample
// in position order. emit errors stop the scan and are returned as-is.
func Scan(ctx context.Context, r io.ByteReader, w Window, emit func(Sample) error) (Summary, error) {
	sc, err := NewScanner(ctx, r, w)
	if err != nil {
		return Summary{}, err
	}
	for {
		s, err := sc.Next()
		if err == io.EOF {
			return sc.Summary(), nil
		}
		if err != nil {
			return sc.Summary(), err
		}
		if err := emit(s); err != nil {
			return sc.Summary(), err
		}
	}
}

// ScanBytes is Scan over an in-memory sequence.
func ScanBytes(seq []byte, w Window) ([]Sample, error) {
	var out []Sample
	_, err := Scan(context.Background(), bytes.NewReader(seq), w, func(s Sample) error {
		out = append(out, s)
		return nil
	})
	return out, err
}
