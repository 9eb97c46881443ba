// internal/fasta/faidx.go
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// IndexEntry is one line of a samtools .fai index.
type IndexEntry struct {
	Name      string
	Length    int64 // bases
	Offset    int64 // byte offset of the first base
	LineBases int64
	LineWidth int64 // bytes per line including the terminator
}

// span is the number of bytes the sequence occupies on disk.
func (e IndexEntry) span() int64 {
	if e.LineBases <= 0 {
		return e.Length
	}
	full, rest := e.Length/e.LineBases, e.Length%e.LineBases
	return full*e.LineWidth + rest
}

// ReadIndex parses a .fai index.
func ReadIndex(r io.Reader) ([]IndexEntry, error) {
	var out []IndexEntry
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < 5 {
			return nil, fmt.Errorf("fai line %d: want 5 fields, got %d", ln, len(f))
		}
		e := IndexEntry{Name: f[0]}
		for i, dst := range []*int64{&e.Length, &e.Offset, &e.LineBases, &e.LineWidth} {
			v, err := strconv.ParseInt(f[i+1], 10, 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("fai line %d: bad field %d %q", ln, i+2, f[i+1])
			}
			*dst = v
		}
		if e.LineBases > 0 && e.LineWidth < e.LineBases {
			return nil, fmt.Errorf("fai line %d: line width %d < line bases %d", ln, e.LineWidth, e.LineBases)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fai scan: %w", err)
	}
	return out, nil
}

// LoadIndex reads the index at path.
func LoadIndex(path string) ([]IndexEntry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadIndex(fh)
}

// IndexedReader walks the records named in a .fai index, reading each
// sequence through a bounded section of the file. Headers carry the record
// length up front.
type IndexedReader struct {
	name    string
	ra      io.ReaderAt
	closer  io.Closer
	entries []IndexEntry
	next    int
	cur     *bufio.Reader
}

// NewIndexedReader reads records from ra laid out as entries describe.
func NewIndexedReader(ra io.ReaderAt, entries []IndexEntry, name string) (*IndexedReader, error) {
	r := &IndexedReader{name: name, ra: ra, entries: entries}
	if err := r.checkMarker(); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenIndexed opens path using the index at path+".fai".
func OpenIndexed(path string) (*IndexedReader, error) {
	entries, err := LoadIndex(path + ".fai")
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewIndexedReader(fh, entries, path)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	r.closer = fh
	return r, nil
}

func (r *IndexedReader) checkMarker() error {
	br := bufio.NewReader(io.NewSectionReader(r.ra, 0, 1<<20))
	var off int64
	for {
		b, err := br.ReadByte()
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
			if len(r.entries) == 0 {
				return fmt.Errorf("%s: index lists no records: %w", r.name, ErrEmptyInput)
			}
			return nil
		}
		off++
	}
}

// Close releases the underlying file, if any.
func (r *IndexedReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Next positions the reader on the next indexed record.
func (r *IndexedReader) Next() (Header, error) {
	if r.next >= len(r.entries) {
		r.cur = nil
		return Header{}, io.EOF
	}
	e := r.entries[r.next]
	var prevEnd int64
	if r.next > 0 {
		p := r.entries[r.next-1]
		prevEnd = p.Offset + p.span()
	}
	r.next++

	h, err := r.header(prevEnd, e)
	if err != nil {
		return Header{}, err
	}
	r.cur = bufio.NewReaderSize(io.NewSectionReader(r.ra, e.Offset, e.span()), 1<<16)
	return h, nil
}

// header re-reads the definition line that sits between the previous
// record's sequence and this one, so the description survives indexing.
func (r *IndexedReader) header(from int64, e IndexEntry) (Header, error) {
	h := Header{ID: e.Name, Length: int(e.Length)}
	if e.Offset <= from {
		return h, nil
	}
	buf := make([]byte, e.Offset-from)
	if _, err := r.ra.ReadAt(buf, from); err != nil && err != io.EOF {
		return Header{}, fmt.Errorf("%s: read header of %s: %w", r.name, e.Name, err)
	}
	// the definition line is the first line starting with '>'; the
	// description itself may contain '>'
	text := "\n" + string(buf)
	i := strings.Index(text, "\n>")
	if i < 0 {
		return h, nil
	}
	line := text[i+1:]
	if j := strings.IndexByte(line, '\n'); j >= 0 {
		line = line[:j]
	}
	if p := ParseHeader(line); p.ID == e.Name {
		h.Description = p.Description
	}
	return h, nil
}

// ReadByte returns the next raw byte of the current record.
func (r *IndexedReader) ReadByte() (byte, error) {
	if r.cur == nil {
		return 0, io.EOF
	}
	return r.cur.ReadByte()
}

// OpenSource picks the indexed reader when an uncompressed file has a .fai
// beside it and the streaming reader otherwise.
func OpenSource(path string) (Source, error) {
	if path != "-" {
		if _, err := os.Stat(path + ".fai"); err == nil {
			compressed, err := isCompressed(path)
			if err != nil {
				return nil, err
			}
			if !compressed {
				return OpenIndexed(path)
			}
		}
	}
	return Open(path)
}
