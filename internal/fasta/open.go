// internal/fasta/open.go
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openReader opens path ("-" is stdin) and transparently decompresses gzip
// and zstd, detected by magic number or by suffix.
func openReader(path string) (io.ReadCloser, error) {
	var (
		fh  io.ReadCloser
		err error
	)
	if path == "-" {
		fh = io.NopCloser(os.Stdin)
	} else if fh, err = os.Open(path); err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(fh, 1<<16)
	sig, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	case bytes.HasPrefix(sig, zstdMagic) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		zc := closerFunc(func() error { zr.Close(); return nil })
		return &multiReadCloser{Reader: zr, closers: []io.Closer{zc, fh}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{fh}}, nil
}

// isCompressed reports whether the file at path starts with a known
// compression magic number.
func isCompressed(path string) (bool, error) {
	fh, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer fh.Close()
	sig := make([]byte, 4)
	n, _ := io.ReadFull(fh, sig)
	sig = sig[:n]
	return bytes.HasPrefix(sig, gzipMagic) || bytes.HasPrefix(sig, zstdMagic), nil
}
