package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Grabarrz90/ei-maper/internal/logger"
	"github.com/Grabarrz90/ei-maper/pkg/formats"
)

var errUnstable = errors.New("re-serialized document does not reproduce itself")

// verifyResult is the outcome for one file. Err is set when the file could
// not be parsed or re-serialized.
type verifyResult struct {
	Path      string
	Digest    string
	OutDigest string
	Identical bool
	Err       error
}

func cmdVerify(args []string) {
	var identical bool
	cfg, fs := setup("verify", args, func(fs *pflag.FlagSet) {
		fs.BoolVar(&identical, "identical", false, "Fail files whose re-serialized bytes differ")
	})
	if fs.NArg() < 1 {
		usage("mobtool verify <file.mob>... [-j workers]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("verifying",
		zap.Int("files", fs.NArg()),
		zap.Int("workers", cfg.Verify.Workers))

	results, err := verifyFiles(ctx, fs.Args(), codecOptions(cfg), cfg.Verify.Workers)
	if err != nil {
		fatal(err)
	}
	if failed := writeVerify(os.Stdout, results, identical); failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}

// verifyFiles checks paths in parallel. Per-file problems land in the
// results; the returned error is only set on cancellation.
func verifyFiles(ctx context.Context, paths []string, opts formats.MOBOptions, workers int) ([]verifyResult, error) {
	results := make([]verifyResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = verifyFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// verifyFile parses path, writes it back and checks the output parses to
// the same bytes again.
func verifyFile(path string, opts formats.MOBOptions) verifyResult {
	res := verifyResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Digest = digest(data)

	m, err := formats.ParseMOBWithOptions(data, opts)
	if err != nil {
		res.Err = err
		return res
	}
	out, err := m.BytesWithOptions(opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.OutDigest = digest(out)
	res.Identical = bytes.Equal(data, out)

	if !res.Identical {
		again, err := formats.ParseMOBWithOptions(out, opts)
		if err != nil {
			res.Err = fmt.Errorf("re-parsing output: %w", err)
			return res
		}
		stable, err := again.BytesWithOptions(opts)
		if err != nil {
			res.Err = err
			return res
		}
		if !bytes.Equal(out, stable) {
			res.Err = errUnstable
		}
	}

	logger.Debug("verified",
		zap.String("path", path),
		zap.Bool("identical", res.Identical),
		zap.Error(res.Err))
	return res
}

// writeVerify prints one line per result plus a summary and returns the
// number of failures. With strict set, differing bytes count as a failure.
func writeVerify(w io.Writer, results []verifyResult, strict bool) int {
	var same, rewritten, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL  %s: %v\n", r.Path, r.Err)
		case r.Identical:
			same++
			fmt.Fprintf(w, "OK    %s  %s\n", r.Path, short(r.Digest))
		default:
			rewritten++
			if strict {
				failed++
			}
			fmt.Fprintf(w, "DIFF  %s  %s != %s\n", r.Path, short(r.Digest), short(r.OutDigest))
		}
	}
	fmt.Fprintf(w, "\n%d files: %d identical, %d rewritten, %d failed\n",
		len(results), same, rewritten, failed)
	return failed
}

func short(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}
