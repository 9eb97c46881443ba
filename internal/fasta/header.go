package fasta

import (
	"strings"
)

// Header is the parsed definition line of a record.
type Header struct {
	ID          string // first word after '>'
	Description string // the rest of the line, trimmed
	Length      int    // bases in the record; -1 when unknown until read
}

// ParseHeader splits a definition line (with or without the leading '>').
func ParseHeader(line string) Header {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ">"))
	h := Header{Length: -1}
	if line == "" {
		return h
	}
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		h.ID = line[:i]
		h.Description = strings.TrimSpace(line[i+1:])
	} else {
		h.ID = line
	}
	return h
}

// Chrom derives a browser chromosome name from a header such as
// ">NC_000001.11 Homo sapiens chromosome 1, GRCh38.p14". It returns "chr1"
// and true when a "chromosome <name>" pair is present.
func (h Header) Chrom() (string, bool) {
	fields := strings.Fields(h.ID + " " + h.Description)
	for i := 0; i+1 < len(fields); i++ {
		if !strings.EqualFold(fields[i], "chromosome") {
			continue
		}
		name := strings.TrimRight(fields[i+1], ",;:.")
		if name == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), "chr") {
			return name, true
		}
		return "chr" + name, true
	}
	return "", false
}
