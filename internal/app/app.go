// internal/app/app.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"gcwig/internal/cli"
	"gcwig/internal/cmdutil"
	"gcwig/internal/config"
	"gcwig/internal/pipeline"
	"gcwig/internal/runutil"
	"gcwig/internal/version"
	"gcwig/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// RunContext runs gcwig with argv (without the program name) and returns
// the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: config: %v\n", err)
		return ExitUsage
	}

	fs := cli.NewFlagSet("gcwig")
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv, cfg)
	switch {
	case errors.Is(err, flag.ErrHelp):
		fs.SetOutput(stdout)
		fs.Usage()
		return ExitOK
	case errors.Is(err, cli.ErrVersion):
		if _, err := fmt.Fprintf(stdout, "gcwig version %s\n", version.Version); err != nil && !writers.IsBrokenPipe(err) {
			return ExitRuntime
		}
		return ExitOK
	case err != nil:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		_, _ = fmt.Fprintln(stderr, "run with --help for usage")
		return ExitUsage
	}

	log := cmdutil.NewLogger(stderr, opts.LogLevel, opts.LogFormat, opts.Quiet)
	jobs, err := plan(opts, log)
	if err != nil {
		log.Error().Err(err).Msg("invalid output")
		return ExitUsage
	}

	err = pipeline.Run(parent, pipeline.Config{
		Threads:   runutil.EffectiveThreads(opts.Threads, len(jobs)),
		Window:    opts.WindowSpec(),
		FirstOnly: opts.FirstOnly,
	}, jobs, stdout, log)
	return exitCode(err, log)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error, log zerolog.Logger) int {
	switch {
	case err == nil, writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	}
	log.Error().Err(err).Msg("failed")
	return ExitRuntime
}

// plan maps inputs to output destinations and resolves the format each can
// be written in. One input goes to -o (a file, or a directory to derive the
// name in) or stdout; several inputs need -o to be a directory, or no -o to
// write beside each input. Two inputs that would share an output file are
// rejected.
func plan(o cli.Options, log zerolog.Logger) ([]pipeline.Job, error) {
	dir, err := outputDir(o)
	if err != nil {
		return nil, err
	}
	jobs := make([]pipeline.Job, 0, len(o.Inputs))
	owner := make(map[string]string, len(o.Inputs))
	for _, in := range o.Inputs {
		j := pipeline.Job{Input: in}
		toStdout := len(o.Inputs) == 1 && o.Output == ""
		format, warns := runutil.ResolveFormat(o.Format, o.WindowSpec(), !toStdout)
		for _, w := range warns {
			cmdutil.Warn(log, w, map[string]any{"input": in})
		}
		j.Format = format
		switch {
		case toStdout:
		case dir != "" || len(o.Inputs) > 1:
			j.Output = runutil.OutputPath(in, dir, writers.Extension(format))
		default:
			j.Output = o.Output
		}
		if j.Output != "" {
			key := filepath.Clean(j.Output)
			if prev, ok := owner[key]; ok {
				return nil, fmt.Errorf("inputs %q and %q would both write %s; use separate runs or rename one", prev, in, j.Output)
			}
			owner[key] = in
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// outputDir returns -o when it names a directory (creating it for several
// inputs), and "" when -o is a file or absent.
func outputDir(o cli.Options) (string, error) {
	if o.Output == "" {
		return "", nil
	}
	fi, err := os.Stat(o.Output)
	switch {
	case err == nil && fi.IsDir():
		return o.Output, nil
	case err == nil && len(o.Inputs) > 1:
		return "", fmt.Errorf("--output %q must be a directory when several inputs are given", o.Output)
	case err == nil, len(o.Inputs) == 1:
		return "", nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(o.Output, 0o755); err != nil {
			return "", err
		}
		return o.Output, nil
	}
	return "", err
}
