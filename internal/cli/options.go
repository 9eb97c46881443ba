// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"gcwig/internal/config"
	"gcwig/internal/gc"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input / output
	Inputs []string `flag:"input" validate:"min=1,dive,required"`
	Output string   `flag:"output"`

	// Window
	Window    int  `flag:"window" validate:"min=1"`
	Shift     int  `flag:"shift" validate:"min=1"`
	OmitTail  bool `flag:"omit-tail"`
	FirstOnly bool `flag:"first-only"`

	// Output format and performance
	Format  string `flag:"format" validate:"oneof=wiggle wig gzip gz zstd zst bigwig bw"`
	Threads int    `flag:"threads" validate:"min=0"`

	// Misc
	Quiet     bool
	LogLevel  string `flag:"log-level" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `flag:"log-format" validate:"oneof=console json"`
	Version   bool
}

// WindowSpec returns the scan parameters.
func (o Options) WindowSpec() gc.Window {
	return gc.Window{Size: o.Window, Shift: o.Shift, OmitTail: o.OmitTail}
}

// ErrVersion is returned by ParseArgs when -v/--version was given.
var ErrVersion = errors.New("version requested")

// sliceValue appends each value to a *[]string (for --input/-i).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// NewFlagSet returns a FlagSet with ContinueOnError and the gcwig usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	Usage(fs, name)
	return fs
}

// Register wires every flag onto fs with defaults taken from cfg.
func Register(fs *flag.FlagSet, o *Options, cfg config.Config) {
	in := &sliceValue{dst: &o.Inputs}
	fs.Var(in, "input", "FASTA file (repeatable) or '-' for STDIN")
	fs.Var(in, "i", "alias of --input")
	fs.StringVar(&o.Output, "output", "", "output file (one input) or directory (several)")
	fs.StringVar(&o.Output, "o", "", "alias of --output")

	fs.IntVar(&o.Window, "window", cfg.Window, "window size in bases [*]")
	fs.IntVar(&o.Window, "w", cfg.Window, "alias of --window")
	fs.IntVar(&o.Shift, "shift", cfg.Shift, "shift between window starts [*]")
	fs.IntVar(&o.Shift, "s", cfg.Shift, "alias of --shift")
	fs.BoolVar(&o.OmitTail, "omit-tail", cfg.OmitTail, "drop the trailing partial window")
	fs.BoolVar(&o.OmitTail, "ot", cfg.OmitTail, "alias of --omit-tail")
	fs.BoolVar(&o.FirstOnly, "first-only", false, "process only the first record of each input")

	fs.StringVar(&o.Format, "format", cfg.Format, "output: wiggle | gzip | zstd | bigwig")
	fs.StringVar(&o.Format, "f", cfg.Format, "alias of --format")
	fs.IntVar(&o.Threads, "threads", cfg.Threads, "inputs processed concurrently (0=all CPUs)")
	fs.IntVar(&o.Threads, "t", cfg.Threads, "alias of --threads")

	fs.BoolVar(&o.Quiet, "quiet", false, "suppress progress messages (warnings still shown)")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.StringVar(&o.LogLevel, "log-level", cfg.LogLevel, "trace | debug | info | warn | error")
	fs.StringVar(&o.LogFormat, "log-format", cfg.LogFormat, "console | json")
	fs.BoolVar(&o.Version, "v", false, "print version and exit")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
}

// ParseArgs registers and parses all flags (positionals may be mixed in and
// are treated as inputs), then validates. It returns flag.ErrHelp for
// -h/--help and ErrVersion for -v/--version.
func ParseArgs(fs *flag.FlagSet, argv []string, cfg config.Config) (Options, error) {
	var o Options
	Register(fs, &o, cfg)

	flagArgs, posArgs := splitArgs(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if o.Version {
		return o, ErrVersion
	}
	posArgs = append(posArgs, fs.Args()...)
	if len(posArgs) > 0 {
		exp, err := expandInputs(posArgs)
		if err != nil {
			return o, err
		}
		o.Inputs = append(o.Inputs, exp...)
	}
	return o, Validate(o)
}
