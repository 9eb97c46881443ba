package fasta

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ">a first\nACGTA\nCG\n>b\nTTTTT\nTTTTT\nT\n" indexed with 5 bases per line.
const indexedFasta = ">a first\nACGTA\nCG\n>b\nTTTTT\nTTTTT\nT\n"
const indexedFai = "a\t7\t9\t5\t6\nb\t11\t21\t5\t6\n"

func TestReadIndex(t *testing.T) {
	got, err := ReadIndex(strings.NewReader(indexedFai))
	if err != nil {
		t.Fatal(err)
	}
	want := []IndexEntry{
		{Name: "a", Length: 7, Offset: 9, LineBases: 5, LineWidth: 6},
		{Name: "b", Length: 11, Offset: 21, LineBases: 5, LineWidth: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if got[0].span() != 8 || got[1].span() != 13 {
		t.Fatalf("spans %d %d", got[0].span(), got[1].span())
	}
}

func TestReadIndex_Bad(t *testing.T) {
	for _, in := range []string{"a\t1\t2\n", "a\tx\t0\t1\t2\n", "a\t1\t0\t5\t4\n"} {
		if _, err := ReadIndex(strings.NewReader(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestIndexedReader_Records(t *testing.T) {
	r, err := NewIndexedReader(strings.NewReader(indexedFasta), mustIndex(t), "idx")
	if err != nil {
		t.Fatal(err)
	}
	got := drain(t, r)
	want := []rec{
		{H: Header{ID: "a", Description: "first", Length: 7}, Seq: "ACGTACG"},
		{H: Header{ID: "b", Length: 11}, Seq: "TTTTTTTTTTT"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestIndexedReader_FormatError(t *testing.T) {
	_, err := NewIndexedReader(strings.NewReader("ACGT\n"), mustIndex(t), "idx")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("want ErrFormat, got %v", err)
	}
}

func TestOpenSource_PrefersIndex(t *testing.T) {
	fa := writeFile(t, "g.fa", []byte(indexedFasta))
	if err := os.WriteFile(fa+".fai", []byte(indexedFai), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenSource(fa)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*IndexedReader); !ok {
		t.Fatalf("want *IndexedReader, got %T", s)
	}
	if h, err := s.Next(); err != nil || h.Length != 7 {
		t.Fatalf("Next = %+v, %v", h, err)
	}
}

func TestOpenSource_StreamsWithoutIndex(t *testing.T) {
	s, err := OpenSource(writeFile(t, "g.fa", []byte(indexedFasta)))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*Reader); !ok {
		t.Fatalf("want *Reader, got %T", s)
	}
}

func mustIndex(t *testing.T) []IndexEntry {
	t.Helper()
	e, err := ReadIndex(strings.NewReader(indexedFai))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestIndexedReader_DescriptionWithMarker(t *testing.T) {
	const fa = ">a len>5 <i>x</i>\nACGT\n>b 1>0\nGG\n"
	const fai = "a\t4\t18\t4\t5\nb\t2\t30\t2\t3\n"
	entries, err := ReadIndex(strings.NewReader(fai))
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewIndexedReader(strings.NewReader(fa), entries, "idx")
	if err != nil {
		t.Fatal(err)
	}
	got := drain(t, r)
	want := []rec{
		{H: Header{ID: "a", Description: "len>5 <i>x</i>", Length: 4}, Seq: "ACGT"},
		{H: Header{ID: "b", Description: "1>0", Length: 2}, Seq: "GG"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
