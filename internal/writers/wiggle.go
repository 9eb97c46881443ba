// internal/writers/wiggle.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gcwig/internal/gc"
)

func init() {
	Register(FormatWiggle, ".wig", func(dst io.Writer) (Sink, error) {
		return newWiggle(dst, nil), nil
	})
}

// wiggleSink writes variableStep wiggle text:
//
//	track type=wiggle_0 name="<id>" description="<desc>"
//	variableStep span=<window> chrom=<chrom>
//	<start>  <percent>
type wiggleSink struct {
	bw      *bufio.Writer
	inner   io.Closer // compressor to finish on Close, if any
	scratch []byte
	open    bool
}

func newWiggle(dst io.Writer, inner io.Closer) *wiggleSink {
	return &wiggleSink{bw: bufio.NewWriterSize(dst, 1<<16), inner: inner, scratch: make([]byte, 0, 32)}
}

// quoteAttr drops characters that would end a quoted wiggle attribute.
func quoteAttr(s string) string {
	return strings.NewReplacer(`"`, "'", "\n", " ", "\r", "").Replace(s)
}

func (w *wiggleSink) Begin(t Track) error {
	if w.open {
		return fmt.Errorf("wiggle: Begin(%q) inside an open track", t.Name)
	}
	w.open = true
	_, err := fmt.Fprintf(w.bw, "track type=wiggle_0 name=\"%s\" description=\"%s\"\nvariableStep span=%d chrom=%s\n",
		quoteAttr(t.Name), quoteAttr(t.Description), t.Span, t.Chrom)
	return err
}

func (w *wiggleSink) Emit(s gc.Sample) error {
	b := strconv.AppendInt(w.scratch[:0], int64(s.Start), 10)
	b = append(b, ' ', ' ')
	b = strconv.AppendInt(b, int64(s.Value()), 10)
	b = append(b, '\n')
	_, err := w.bw.Write(b)
	return err
}

func (w *wiggleSink) End(gc.Summary) error {
	w.open = false
	return nil
}

func (w *wiggleSink) Close() error {
	err := w.bw.Flush()
	if w.inner != nil {
		if cerr := w.inner.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
