// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Source yields records one at a time. After Next returns a header,
// ReadByte yields that record's raw sequence bytes (line breaks included)
// and returns io.EOF at the record boundary. Next returns io.EOF when no
// records remain.
type Source interface {
	Next() (Header, error)
	io.ByteReader
	io.Closer
}

// Reader streams a FASTA file without holding a record in memory.
type Reader struct {
	name    string
	br      *bufio.Reader
	closer  io.Closer
	started bool
	pending bool // a '>' has been consumed; its header line is next
	inRec   bool
	bol     bool // at beginning of line
	records int
}

// NewReader wraps r. name is used in error messages only.
func NewReader(r io.Reader, name string) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 1<<16)
	}
	return &Reader{name: name, br: br}
}

// Open opens path ("-" for stdin, gzip/zstd detected) as a streaming Reader.
func Open(path string) (*Reader, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(rc, path)
	r.closer = rc
	return r, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Records is how many headers Next has returned.
func (r *Reader) Records() int { return r.records }

// Next skips whatever is left of the current record and returns the next
// header. On a fresh reader it fails fast with a *FormatError when the first
// non-blank byte is not '>', and with ErrEmptyInput when there is nothing.
func (r *Reader) Next() (Header, error) {
	if !r.started {
		r.started = true
		if err := r.expectMarker(); err != nil {
			return Header{}, err
		}
	}
	for r.inRec {
		if _, err := r.ReadByte(); err == io.EOF {
			break
		} else if err != nil {
			return Header{}, err
		}
	}
	if !r.pending {
		return Header{}, io.EOF
	}
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return Header{}, fmt.Errorf("%s: read header: %w", r.name, err)
	}
	r.pending = false
	r.inRec = true
	r.bol = true
	r.records++

	h := ParseHeader(line)
	if h.ID == "" {
		h.ID = fmt.Sprintf("seq%d", r.records)
	}
	return h, nil
}

func (r *Reader) expectMarker() error {
	var off int64
	for {
		b, err := r.br.ReadByte()
		if err == io.EOF {
			return fmt.Errorf("%s: %w", r.name, ErrEmptyInput)
		}
		if err != nil {
			return err
		}
		if strings.IndexByte(" \t\r\n", b) < 0 {
			if b != '>' {
				return &FormatError{Source: r.name, Offset: off, Found: b}
			}
			r.pending = true
			return nil
		}
		off++
	}
}

// ReadByte returns the next raw byte of the current record, or io.EOF at
// the end of the record (a '>' at the start of a line, or end of input).
func (r *Reader) ReadByte() (byte, error) {
	if !r.inRec {
		return 0, io.EOF
	}
	b, err := r.br.ReadByte()
	if err == io.EOF {
		r.inRec = false
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}
	if r.bol && b == '>' {
		r.inRec = false
		r.pending = true
		return 0, io.EOF
	}
	r.bol = b == '\n'
	return b, nil
}
