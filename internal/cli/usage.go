// internal/cli/usage.go
package cli

import (
	"flag"
	"fmt"

	"gcwig/internal/version"
	"gcwig/internal/writers"
)

// Usage installs the gcwig help text on fs.
func Usage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – sliding-window GC content tracks\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s -i genome.fa -w 1000 -s 500 > genome.wig\n", name)
		fmt.Fprintf(out, "  %s -w 5000 -s 5000 -f bigwig -o out/ chr*.fa.gz\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -i, --input file            FASTA file(s) (repeatable, .gz/.zst ok) or '-' for STDIN")
		fmt.Fprintln(out, "      --first-only            Process only the first record of each input")

		fmt.Fprintln(out, "\nWindow:")
		fmt.Fprintf(out, "  -w, --window int            Window size in bases [*] [%s]\n", def("window"))
		fmt.Fprintf(out, "  -s, --shift int             Distance between window starts [*] [%s]\n", def("shift"))
		fmt.Fprintf(out, "      --omit-tail, -ot        Drop the trailing partial window [%s]\n", def("omit-tail"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output path           File (one input) or directory (several) [stdout]\n")
		fmt.Fprintf(out, "  -f, --format string         %v [%s]\n", writers.Formats(), def("format"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           Inputs processed concurrently (0=all CPUs) [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --log-level string      trace | debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "      --log-format string     console | json [%s]\n", def("log-format"))
		fmt.Fprintln(out, "  -q, --quiet                 Suppress progress messages (warnings still shown)")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
		fmt.Fprintln(out, "\nEnvironment: GCWIG_WINDOW GCWIG_SHIFT GCWIG_FORMAT GCWIG_THREADS GCWIG_OMIT_TAIL GCWIG_LOG_LEVEL GCWIG_LOG_FORMAT (.env honoured)")
	}
}
