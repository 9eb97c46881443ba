// internal/writers/bigwig.go
package writers

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/klauspost/compress/zlib"

	"gcwig/internal/gc"
)

var (
	// ErrNotSeekable is returned when a bigWig is opened on a pipe or buffer.
	ErrNotSeekable = errors.New("bigwig needs a seekable destination")
	// ErrOverlap is returned when a window starts inside the previous one.
	ErrOverlap = errors.New("bigwig cannot hold overlapping windows")
)

const (
	bigWigMagic   = 0x888FFC26
	bptMagic      = 0x78CA8C91
	cirTreeMagic  = 0x2468ACE0
	bigWigVersion = 4

	bwHeaderSize  = 64
	bwSummarySize = 40
	bwDataOffset  = bwHeaderSize + bwSummarySize

	itemsPerSlot = 1024
	treeBlock    = 256
	bedGraphType = 1
)

var le = binary.LittleEndian

func init() {
	Register(FormatBigWig, ".bw", newBigWig)
}

type bwItem struct {
	start, end uint32 // 0-based half-open
	value      float32
}

type bwSection struct {
	chrom        uint32
	start, end   uint32
	offset, size uint64
}

type bwChrom struct {
	name string
	id   uint32
	size uint32
}

type bwTotals struct {
	bases                uint64
	min, max, sum, sumSq float64
}

// countingWriter tracks the file offset of buffered writes.
type countingWriter struct {
	w *bufio.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// bigWigSink writes a version 4 bigWig with bedGraph sections, no zoom
// levels, a chromosome B+ tree and an R-tree index. Sections are streamed as
// samples arrive; the trees and header are written on Close.
type bigWigSink struct {
	ws       io.WriteSeeker
	out      *countingWriter
	chroms   []bwChrom
	seen     map[string]bool
	cur      int // index into chroms; -1 between tracks
	items    []bwItem
	sections []bwSection
	lastEnd  uint32
	maxRaw   int
	totals   bwTotals
	raw      bytes.Buffer
	z        bytes.Buffer
	zw       *zlib.Writer
	closed   bool
}

func newBigWig(dst io.Writer) (Sink, error) {
	ws, ok := dst.(io.WriteSeeker)
	if !ok {
		return nil, ErrNotSeekable
	}
	// *os.File satisfies io.WriteSeeker even when it is a pipe.
	if _, err := ws.Seek(0, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	s := &bigWigSink{
		ws:     ws,
		out:    &countingWriter{w: bufio.NewWriterSize(ws, 1<<16)},
		seen:   map[string]bool{},
		cur:    -1,
		items:  make([]bwItem, 0, itemsPerSlot),
		totals: bwTotals{min: math.Inf(1), max: math.Inf(-1)},
	}
	s.zw = zlib.NewWriter(&s.z)
	// header, total summary and section count are patched on Close
	if _, err := s.out.Write(make([]byte, bwDataOffset+8)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *bigWigSink) Begin(t Track) error {
	if s.cur >= 0 {
		return fmt.Errorf("bigwig: Begin(%q) inside an open track", t.Chrom)
	}
	if s.seen[t.Chrom] {
		return fmt.Errorf("bigwig: chromosome %q appears twice", t.Chrom)
	}
	s.seen[t.Chrom] = true
	c := bwChrom{name: t.Chrom, id: uint32(len(s.chroms))}
	if t.Length > 0 {
		c.size = uint32(t.Length)
	}
	s.chroms = append(s.chroms, c)
	s.cur = len(s.chroms) - 1
	s.lastEnd = 0
	return nil
}

func (s *bigWigSink) Emit(x gc.Sample) error {
	if s.cur < 0 {
		return errors.New("bigwig: Emit outside a track")
	}
	start := uint32(x.Start - 1)
	end := start + uint32(x.Bases)
	if start < s.lastEnd {
		return fmt.Errorf("%w: window at %d starts before %d", ErrOverlap, x.Start, s.lastEnd+1)
	}
	s.lastEnd = end

	v := float32(x.Value())
	s.items = append(s.items, bwItem{start: start, end: end, value: v})

	fv, n := float64(v), float64(x.Bases)
	s.totals.bases += uint64(x.Bases)
	s.totals.sum += fv * n
	s.totals.sumSq += fv * fv * n
	s.totals.min = math.Min(s.totals.min, fv)
	s.totals.max = math.Max(s.totals.max, fv)

	if len(s.items) == itemsPerSlot {
		return s.flushSection()
	}
	return nil
}

func (s *bigWigSink) End(sum gc.Summary) error {
	if s.cur < 0 {
		return nil
	}
	if err := s.flushSection(); err != nil {
		return err
	}
	c := &s.chroms[s.cur]
	if n := uint32(sum.Bases); n > c.size {
		c.size = n
	}
	if s.lastEnd > c.size {
		c.size = s.lastEnd
	}
	s.cur = -1
	return nil
}

// flushSection writes the pending items as one zlib-compressed bedGraph
// section.
func (s *bigWigSink) flushSection() error {
	if len(s.items) == 0 {
		return nil
	}
	first, last := s.items[0], s.items[len(s.items)-1]
	chrom := s.chroms[s.cur].id

	var hdr [24]byte
	le.PutUint32(hdr[0:], chrom)
	le.PutUint32(hdr[4:], first.start)
	le.PutUint32(hdr[8:], last.end)
	le.PutUint32(hdr[12:], 0) // itemStep
	le.PutUint32(hdr[16:], 0) // itemSpan
	hdr[20] = bedGraphType
	le.PutUint16(hdr[22:], uint16(len(s.items)))

	s.raw.Reset()
	s.raw.Write(hdr[:])
	var it [12]byte
	for _, x := range s.items {
		le.PutUint32(it[0:], x.start)
		le.PutUint32(it[4:], x.end)
		le.PutUint32(it[8:], math.Float32bits(x.value))
		s.raw.Write(it[:])
	}
	if s.raw.Len() > s.maxRaw {
		s.maxRaw = s.raw.Len()
	}

	s.z.Reset()
	s.zw.Reset(&s.z)
	if _, err := s.zw.Write(s.raw.Bytes()); err != nil {
		return err
	}
	if err := s.zw.Close(); err != nil {
		return err
	}
	off := s.out.n
	if _, err := s.out.Write(s.z.Bytes()); err != nil {
		return err
	}
	s.sections = append(s.sections, bwSection{
		chrom: chrom, start: first.start, end: last.end,
		offset: off, size: uint64(s.z.Len()),
	})
	s.items = s.items[:0]
	return nil
}

func (s *bigWigSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.End(gc.Summary{}); err != nil {
		return err
	}
	chromTree := s.out.n
	if err := s.writeChromTree(); err != nil {
		return err
	}
	index := s.out.n
	if err := s.writeIndex(); err != nil {
		return err
	}
	if _, err := s.out.Write(le.AppendUint32(nil, bigWigMagic)); err != nil {
		return err
	}
	if err := s.out.w.Flush(); err != nil {
		return err
	}

	h := make([]byte, 0, bwDataOffset+8)
	h = le.AppendUint32(h, bigWigMagic)
	h = le.AppendUint16(h, bigWigVersion)
	h = le.AppendUint16(h, 0) // zoom levels
	h = le.AppendUint64(h, chromTree)
	h = le.AppendUint64(h, bwDataOffset)
	h = le.AppendUint64(h, index)
	h = le.AppendUint16(h, 0) // field count
	h = le.AppendUint16(h, 0) // defined field count
	h = le.AppendUint64(h, 0) // autoSql
	h = le.AppendUint64(h, bwHeaderSize)
	h = le.AppendUint32(h, uint32(s.maxRaw))
	h = le.AppendUint64(h, 0) // extension

	t := s.totals
	if t.bases == 0 {
		t.min, t.max = 0, 0
	}
	h = le.AppendUint64(h, t.bases)
	h = le.AppendUint64(h, math.Float64bits(t.min))
	h = le.AppendUint64(h, math.Float64bits(t.max))
	h = le.AppendUint64(h, math.Float64bits(t.sum))
	h = le.AppendUint64(h, math.Float64bits(t.sumSq))
	h = le.AppendUint64(h, uint64(len(s.sections)))

	if _, err := s.ws.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := s.ws.Write(h); err != nil {
		return err
	}
	_, err := s.ws.Seek(0, io.SeekEnd)
	return err
}

func (s *bigWigSink) writeChromTree() error {
	chroms := append([]bwChrom(nil), s.chroms...)
	sort.Slice(chroms, func(i, j int) bool { return chroms[i].name < chroms[j].name })
	keySize := 1
	for _, c := range chroms {
		if len(c.name) > keySize {
			keySize = len(c.name)
		}
	}
	n := len(chroms)
	block := min(max(n, 1), treeBlock)

	hdr := make([]byte, 0, 32)
	hdr = le.AppendUint32(hdr, bptMagic)
	hdr = le.AppendUint32(hdr, uint32(block))
	hdr = le.AppendUint32(hdr, uint32(keySize))
	hdr = le.AppendUint32(hdr, 8)
	hdr = le.AppendUint64(hdr, uint64(n))
	hdr = le.AppendUint64(hdr, 0)
	if _, err := s.out.Write(hdr); err != nil {
		return err
	}

	key := func(b []byte, name string) []byte {
		b = append(b, name...)
		for i := len(name); i < keySize; i++ {
			b = append(b, 0)
		}
		return b
	}
	t := newTreeLayout(n, block, s.out.n, keySize+8, keySize+8)
	return t.write(s.out, func(b []byte, level, idx int) []byte {
		if level == 0 {
			c := chroms[idx]
			b = key(b, c.name)
			b = le.AppendUint32(b, c.id)
			return le.AppendUint32(b, c.size)
		}
		first, _ := t.leafRange(level, idx)
		b = key(b, chroms[first].name)
		return le.AppendUint64(b, t.nodeOffset(level-1, idx))
	})
}

func (s *bigWigSink) writeIndex() error {
	secs := s.sections
	n := len(secs)
	block := min(max(n, 1), treeBlock)
	endOfData := s.out.n

	hdr := make([]byte, 0, 48)
	hdr = le.AppendUint32(hdr, cirTreeMagic)
	hdr = le.AppendUint32(hdr, uint32(block))
	hdr = le.AppendUint64(hdr, uint64(n))
	if n > 0 {
		hdr = le.AppendUint32(hdr, secs[0].chrom)
		hdr = le.AppendUint32(hdr, secs[0].start)
		hdr = le.AppendUint32(hdr, secs[n-1].chrom)
		hdr = le.AppendUint32(hdr, secs[n-1].end)
	} else {
		hdr = append(hdr, make([]byte, 16)...)
	}
	hdr = le.AppendUint64(hdr, endOfData)
	hdr = le.AppendUint32(hdr, itemsPerSlot)
	hdr = le.AppendUint32(hdr, 0)
	if _, err := s.out.Write(hdr); err != nil {
		return err
	}

	t := newTreeLayout(n, block, s.out.n, 32, 24)
	return t.write(s.out, func(b []byte, level, idx int) []byte {
		if level == 0 {
			x := secs[idx]
			b = le.AppendUint32(b, x.chrom)
			b = le.AppendUint32(b, x.start)
			b = le.AppendUint32(b, x.chrom)
			b = le.AppendUint32(b, x.end)
			b = le.AppendUint64(b, x.offset)
			return le.AppendUint64(b, x.size)
		}
		first, last := t.leafRange(level, idx)
		b = le.AppendUint32(b, secs[first].chrom)
		b = le.AppendUint32(b, secs[first].start)
		b = le.AppendUint32(b, secs[last].chrom)
		b = le.AppendUint32(b, secs[last].end)
		return le.AppendUint64(b, t.nodeOffset(level-1, idx))
	})
}
