// internal/writers/compressed.go
package writers

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compressed sinks are the wiggle encoding inside a compressed byte stream.
func init() {
	Register(FormatGzip, ".wig.gz", func(dst io.Writer) (Sink, error) {
		zw := gzip.NewWriter(dst)
		return newWiggle(zw, zw), nil
	})
	Register(FormatZstd, ".wig.zst", func(dst io.Writer) (Sink, error) {
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return nil, err
		}
		return newWiggle(zw, zw), nil
	})
}
