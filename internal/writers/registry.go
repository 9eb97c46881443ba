// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"gcwig/internal/gc"
)

// Format names.
const (
	FormatWiggle = "wiggle"
	FormatGzip   = "gzip"
	FormatZstd   = "zstd"
	FormatBigWig = "bigwig"
)

// Track is the per-record metadata written before any sample.
type Track struct {
	Name        string
	Description string
	Chrom       string
	Length      int // -1 when unknown before the record is read
	Span        int // window size
}

// Sink receives one track section per record.
type Sink interface {
	Begin(t Track) error
	Emit(s gc.Sample) error
	End(sum gc.Summary) error
	Close() error
}

// Factory builds a Sink writing to dst.
type Factory func(dst io.Writer) (Sink, error)

// Sink registry (format → factory). Register in init() blocks from the
// format files.
var (
	factories  = map[string]Factory{}
	extensions = map[string]string{}
	aliases    = map[string]string{
		"wig": FormatWiggle,
		"gz":  FormatGzip,
		"zst": FormatZstd,
		"bw":  FormatBigWig,
	}
)

// Register adds (or replaces) a format; ext is the conventional file suffix.
func Register(format, ext string, f Factory) {
	factories[format] = f
	extensions[format] = ext
}

// Canonical maps aliases to registered names.
func Canonical(format string) (string, bool) {
	if a, ok := aliases[format]; ok {
		format = a
	}
	_, ok := factories[format]
	return format, ok
}

// Extension is the file suffix for format, e.g. ".wig.gz".
func Extension(format string) string {
	format, _ = Canonical(format)
	return extensions[format]
}

// Formats lists registered names, sorted.
func Formats() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open dispatches to the registered factory.
func Open(format string, dst io.Writer) (Sink, error) {
	name, ok := Canonical(format)
	if !ok {
		return nil, fmt.Errorf("unknown track format %q (no writer registered)", format)
	}
	return factories[name](dst)
}
