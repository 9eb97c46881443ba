package gc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustScan(t *testing.T, seq string, w Window) []Sample {
	t.Helper()
	got, err := ScanBytes([]byte(seq), w)
	if err != nil {
		t.Fatalf("ScanBytes(%q, %+v): %v", seq, w, err)
	}
	return got
}

// naive recomputes every window from scratch.
func naive(seq string, w Window) []Sample {
	var bases []byte
	for i := 0; i < len(seq); i++ {
		if !IsSpace(seq[i]) {
			bases = append(bases, seq[i])
		}
	}
	count := func(b []byte) int {
		n := 0
		for _, c := range b {
			if IsGC(c) {
				n++
			}
		}
		return n
	}
	var out []Sample
	start := 0
	for ; start+w.Size <= len(bases); start += w.Shift {
		out = append(out, Sample{Start: start + 1, Bases: w.Size, GC: count(bases[start : start+w.Size])})
	}
	if !w.OmitTail && start < len(bases) {
		out = append(out, Sample{Start: start + 1, Bases: len(bases) - start, GC: count(bases[start:])})
	}
	return out
}

func TestScan_Examples(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		w    Window
		want []Sample
	}{
		{
			name: "overlapping windows end flush, overlap becomes the tail",
			seq:  "GCGCAAAA",
			w:    Window{Size: 4, Shift: 2},
			want: []Sample{{1, 4, 4}, {3, 4, 2}, {5, 4, 0}, {7, 2, 0}},
		},
		{
			name: "overlapping windows with tail",
			seq:  "GCGCAAAAG",
			w:    Window{Size: 4, Shift: 2},
			want: []Sample{{1, 4, 4}, {3, 4, 2}, {5, 4, 0}, {7, 3, 1}},
		},
		{
			name: "disjoint windows with tail",
			seq:  "GCGCA",
			w:    Window{Size: 2, Shift: 2},
			want: []Sample{{1, 2, 2}, {3, 2, 2}, {5, 1, 0}},
		},
		{
			name: "gapped windows",
			seq:  "GGAAACCAAATT",
			w:    Window{Size: 2, Shift: 5},
			want: []Sample{{1, 2, 2}, {6, 2, 2}, {11, 2, 0}},
		},
		{
			name: "gapped windows with tail",
			seq:  "GGAAACCAAAT",
			w:    Window{Size: 2, Shift: 5},
			want: []Sample{{1, 2, 2}, {6, 2, 2}, {11, 1, 0}},
		},
		{
			name: "gap swallows the remainder",
			seq:  "GGAAACCAA",
			w:    Window{Size: 2, Shift: 5},
			want: []Sample{{1, 2, 2}, {6, 2, 2}},
		},
		{
			name: "window longer than sequence",
			seq:  "GCA",
			w:    Window{Size: 5, Shift: 5},
			want: []Sample{{1, 3, 2}},
		},
		{
			name: "window longer than sequence, tail omitted",
			seq:  "GCA",
			w:    Window{Size: 5, Shift: 5, OmitTail: true},
			want: nil,
		},
		{
			name: "overlap tail after the last full window",
			seq:  "GGGCC",
			w:    Window{Size: 3, Shift: 1},
			want: []Sample{{1, 3, 3}, {2, 3, 3}, {3, 3, 3}, {4, 2, 2}},
		},
		{
			name: "end-flush tail omitted",
			seq:  "GCGCAAAA",
			w:    Window{Size: 4, Shift: 2, OmitTail: true},
			want: []Sample{{1, 4, 4}, {3, 4, 2}, {5, 4, 0}},
		},
		{
			name: "tail omitted",
			seq:  "GCGCAAAAG",
			w:    Window{Size: 4, Shift: 2, OmitTail: true},
			want: []Sample{{1, 4, 4}, {3, 4, 2}, {5, 4, 0}},
		},
		{
			name: "line breaks and blanks are not bases",
			seq:  "GC\nGC\r\n AA\tAA\n",
			w:    Window{Size: 4, Shift: 2},
			want: []Sample{{1, 4, 4}, {3, 4, 2}, {5, 4, 0}, {7, 2, 0}},
		},
		{
			name: "soft-masked bases count",
			seq:  "gcatNNNN",
			w:    Window{Size: 4, Shift: 4},
			want: []Sample{{1, 4, 2}, {5, 4, 0}},
		},
		{
			name: "empty record",
			seq:  "",
			w:    Window{Size: 4, Shift: 2},
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustScan(t, tc.seq, tc.w)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScan_MatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const alphabet = "ACGTNacgt\n"
	for iter := 0; iter < 300; iter++ {
		n := rng.Intn(200)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		w := Window{Size: 1 + rng.Intn(20), Shift: 1 + rng.Intn(25), OmitTail: rng.Intn(2) == 0}
		seq := b.String()
		if diff := cmp.Diff(naive(seq, w), mustScan(t, seq, w)); diff != "" {
			t.Fatalf("seq=%q w=%+v (-naive +scan):\n%s", seq, w, diff)
		}
	}
}

func TestScan_PositionsStepByShift(t *testing.T) {
	seq := strings.Repeat("ACGGTCA", 50)
	for _, w := range []Window{{Size: 10, Shift: 3}, {Size: 7, Shift: 7}, {Size: 4, Shift: 9}} {
		got := mustScan(t, seq, w)
		if len(got) == 0 {
			t.Fatalf("w=%+v: no samples", w)
		}
		for i := 1; i < len(got); i++ {
			if d := got[i].Start - got[i-1].Start; d != w.Shift {
				t.Fatalf("w=%+v: sample %d step %d, want %d", w, i, d, w.Shift)
			}
		}
		for i, s := range got {
			if i < len(got)-1 && s.Bases != w.Size {
				t.Fatalf("w=%+v: sample %d has %d bases", w, i, s.Bases)
			}
			if s.Bases > w.Size || s.GC > s.Bases {
				t.Fatalf("w=%+v: inconsistent sample %+v", w, s)
			}
		}
	}
}

func TestScan_GCPlusOtherEqualsBases(t *testing.T) {
	seq := "GGCATTACGATCGNNAGCTTAGC"
	got := mustScan(t, seq, Window{Size: 6, Shift: 4})
	for _, s := range got {
		other := 0
		for _, c := range []byte(seq[s.Start-1 : s.End()]) {
			if !IsGC(c) {
				other++
			}
		}
		if s.GC+other != s.Bases {
			t.Fatalf("sample %+v: gc %d + other %d != %d", s, s.GC, other, s.Bases)
		}
	}
}

func TestScan_Idempotent(t *testing.T) {
	seq := strings.Repeat("GATTACAGGCC", 31)
	w := Window{Size: 13, Shift: 5}
	if diff := cmp.Diff(mustScan(t, seq, w), mustScan(t, seq, w)); diff != "" {
		t.Fatalf("second run differs:\n%s", diff)
	}
}

func TestSample_PercentUsesRealDivision(t *testing.T) {
	s := Sample{Start: 1, Bases: 1000, GC: 1}
	if s.Percent() != 0.1 {
		t.Fatalf("Percent = %v, want 0.1", s.Percent())
	}
	if s.Value() != 0 {
		t.Fatalf("Value = %d, want 0 (truncated)", s.Value())
	}
	if v := (Sample{Bases: 3, GC: 2}).Value(); v != 66 {
		t.Fatalf("2/3 truncates to %d, want 66", v)
	}
	if v := (Sample{Bases: 100, GC: 29}).Value(); v != 29 {
		t.Fatalf("29/100 = %d, want 29", v)
	}
}

func TestScan_InvalidWindow(t *testing.T) {
	for _, w := range []Window{{Size: 0, Shift: 1}, {Size: 3, Shift: 0}, {Size: -1, Shift: -1}} {
		_, err := ScanBytes([]byte("ACGT"), w)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("w=%+v: want ErrInvalidWindow, got %v", w, err)
		}
	}
}

func TestScan_EmitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, err := Scan(context.Background(), bytes.NewReader([]byte("GCGCGCGC")), Window{Size: 2, Shift: 2}, func(Sample) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("want stop after 1 call, got err=%v calls=%d", err, calls)
	}
}

func TestScan_Summary(t *testing.T) {
	sum, err := Scan(context.Background(), bytes.NewReader([]byte("GCGC\nAAAAG\n")), Window{Size: 4, Shift: 2}, func(Sample) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{Bases: 9, Samples: 4, Tail: true}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Fatalf("summary (-want +got):\n%s", diff)
	}
}

func TestScanner_ExhaustedStaysEOF(t *testing.T) {
	sc, err := NewScanner(context.Background(), bytes.NewReader([]byte("GC")), Window{Size: 2, Shift: 2})
	if err != nil {
		t.Fatal(err)
	}
	if s, err := sc.Next(); err != nil || s.Value() != 100 {
		t.Fatalf("first Next = %+v, %v", s, err)
	}
	for i := 0; i < 2; i++ {
		if _, err := sc.Next(); err != io.EOF {
			t.Fatalf("Next after end = %v, want io.EOF", err)
		}
	}
}

func TestScan_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	seq := bytes.Repeat([]byte("ACGT"), ctxCheckEvery)
	_, err := Scan(ctx, bytes.NewReader(seq), Window{Size: 10, Shift: 10}, func(Sample) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestWindow_Overlap(t *testing.T) {
	for _, tc := range []struct {
		w    Window
		want int
	}{
		{Window{Size: 4, Shift: 2}, 2},
		{Window{Size: 4, Shift: 4}, 0},
		{Window{Size: 2, Shift: 5}, 0},
	} {
		if got := tc.w.Overlap(); got != tc.want {
			t.Errorf("%+v.Overlap() = %d, want %d", tc.w, got, tc.want)
		}
	}
}
