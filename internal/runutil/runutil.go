// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"gcwig/internal/gc"
	"gcwig/internal/writers"
)

// ResolveFormat decides which format a run can actually write and returns
// (format, warnings). Rules:
//   - aliases are mapped to canonical names
//   - bigwig with overlapping windows (size > shift) → wiggle
//   - bigwig to a non-seekable destination (stdout, pipes) → wiggle
//
// Unknown formats are returned unchanged for the caller to reject.
func ResolveFormat(format string, w gc.Window, seekable bool) (string, []string) {
	name, ok := writers.Canonical(format)
	if !ok || name != writers.FormatBigWig {
		return name, nil
	}
	var warns []string
	if w.Overlap() > 0 {
		warns = append(warns, fmt.Sprintf("bigwig cannot hold overlapping windows (window %d > shift %d); writing wiggle instead", w.Size, w.Shift))
		return writers.FormatWiggle, warns
	}
	if !seekable {
		warns = append(warns, "bigwig needs a regular output file (-o); writing wiggle to stdout instead")
		return writers.FormatWiggle, warns
	}
	return name, nil
}

// fastaExts are stripped from input names before a track suffix is added.
var fastaExts = []string{".gz", ".zst", ".fasta", ".fa", ".fna", ".fas", ".ffn", ".seq"}

// OutputPath derives the track file for input: "<dir>/<base><ext>", where
// base is the input name without FASTA/compression suffixes. An empty dir
// puts the output beside the input; stdin becomes "stdin<ext>".
func OutputPath(input, dir, ext string) string {
	base := "stdin"
	if input != "-" {
		base = filepath.Base(input)
		if dir == "" {
			dir = filepath.Dir(input)
		}
		for _, e := range fastaExts {
			if strings.HasSuffix(strings.ToLower(base), e) && len(base) > len(e) {
				base = base[:len(base)-len(e)]
			}
		}
	}
	return filepath.Join(dir, base+ext)
}

// EffectiveThreads maps 0 to all CPUs and never exceeds the number of jobs.
func EffectiveThreads(threads, jobs int) int {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if jobs > 0 && threads > jobs {
		threads = jobs
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}
