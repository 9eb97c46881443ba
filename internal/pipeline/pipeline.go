// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gcwig/internal/fasta"
	"gcwig/internal/gc"
	"gcwig/internal/writers"
)

// Config controls the per-input workers.
type Config struct {
	Threads   int // inputs processed concurrently (>=1)
	Window    gc.Window
	FirstOnly bool // stop after the first record of each input
}

// Job is one input and where its track goes. An empty Output writes to the
// stdout passed to Run; at most one job may do so.
type Job struct {
	Input  string
	Output string
	Format string
}

// Run processes jobs concurrently and returns the first error (including
// context cancellation). Remaining jobs are cancelled on the first failure.
func Run(ctx context.Context, cfg Config, jobs []Job, stdout io.Writer, log zerolog.Logger) error {
	if err := cfg.Window.Validate(); err != nil {
		return err
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return runJob(ctx, cfg, j, stdout, log)
		})
	}
	return g.Wait()
}

func runJob(ctx context.Context, cfg Config, j Job, stdout io.Writer, log zerolog.Logger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := fasta.OpenSource(j.Input)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	// The first header is read before the output exists so a malformed
	// input never leaves a file behind.
	h, err := src.Next()
	if err != nil {
		return err
	}

	dst := stdout
	if j.Output != "" {
		var f *os.File
		if f, err = os.Create(j.Output); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(j.Output)
			}
		}()
		dst = f
	}

	sink, err := writers.Open(j.Format, dst)
	if err != nil {
		return fmt.Errorf("%s: %w", outputName(j), err)
	}
	records, err := writeRecords(ctx, cfg, j, src, h, sink, log)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%s: %w", outputName(j), cerr)
	}
	if err != nil {
		return err
	}
	log.Info().Str("input", j.Input).Str("output", outputName(j)).Int("records", records).Msg("track written")
	return nil
}

func writeRecords(ctx context.Context, cfg Config, j Job, src fasta.Source, h fasta.Header, sink writers.Sink, log zerolog.Logger) (int, error) {
	warnedChrom := false
	used := map[string]bool{}
	for n := 1; ; n++ {
		chrom, ok := h.Chrom()
		switch {
		case !ok:
			chrom = h.ID
			if !warnedChrom {
				warnedChrom = true
				log.Warn().Str("input", j.Input).Str("record", h.ID).
					Msg("no 'chromosome' in header; using record IDs as chromosome names")
			}
		case used[chrom]:
			// scaffolds such as "chromosome 1 unlocalized" share the name
			log.Warn().Str("input", j.Input).Str("record", h.ID).Str("chrom", chrom).
				Msg("chromosome name already used in this file; using the record ID")
			chrom = h.ID
		}
		used[chrom] = true
		t := writers.Track{
			Name:        h.ID,
			Description: h.Description,
			Chrom:       chrom,
			Length:      h.Length,
			Span:        cfg.Window.Size,
		}
		if err := sink.Begin(t); err != nil {
			return n - 1, err
		}
		sum, err := gc.Scan(ctx, src, cfg.Window, sink.Emit)
		if err != nil {
			return n - 1, fmt.Errorf("%s: record %s: %w", j.Input, h.ID, err)
		}
		if err := sink.End(sum); err != nil {
			return n, err
		}
		log.Debug().Str("input", j.Input).Str("record", h.ID).Str("chrom", chrom).
			Str("bases", humanize.Comma(int64(sum.Bases))).Int("samples", sum.Samples).Bool("tail", sum.Tail).
			Msg("record scanned")

		if err := ctx.Err(); err != nil {
			return n, err
		}
		next, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if cfg.FirstOnly {
			log.Warn().Str("input", j.Input).Str("skipped_from", next.ID).
				Msg("more than one sequence; only the first is processed")
			return n, nil
		}
		h = next
	}
}

func outputName(j Job) string {
	if j.Output == "" {
		return "stdout"
	}
	return j.Output
}
