// Package batch checks a set of Mieliepit source files concurrently,
// one goroutine per file, the way scripts/gen_vm_expects.go fans its own
// single-file work out under an errgroup.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/Ruan-pysoft/mieliepit/internal/flushio"
	"github.com/Ruan-pysoft/mieliepit/internal/lang"
	"github.com/Ruan-pysoft/mieliepit/internal/panicerr"
	"github.com/Ruan-pysoft/mieliepit/internal/runeio"
)

// Result is one file's outcome: its captured output, and the rendered
// error text if the file failed to interpret cleanly.
type Result struct {
	Path   string
	Output string
	Err    string
}

// Report collects every file's Result in input order, regardless of
// which goroutine finished first.
type Report struct {
	Results []Result
}

// Failed reports whether any file in the report latched an error.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Err != "" {
			return true
		}
	}
	return false
}

// Check interprets every named file against its own fresh State, built
// from newState (called once per file so bounded-capacity options don't
// leak shared storage between files), and returns a Report.
//
// If tee is non-nil, each file's output is additionally streamed to it
// live as each goroutine produces it (headed by the source's display
// name), rather than only becoming visible once the whole batch
// finishes and the caller walks the Report. Pass nil for no live
// streaming.
//
// A file that fails to open is a Check error (something wrong with the
// invocation); a file that opens but fails to interpret cleanly is
// recorded in its own Result instead, so one bad program doesn't stop
// the rest of the batch from being checked.
func Check(ctx context.Context, paths []string, newState func() (*lang.State, error), tee io.Writer) (Report, error) {
	results := make([]Result, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			res, err := checkOne(ctx, path, newState, tee)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}
	return Report{Results: results}, nil
}

func checkOne(ctx context.Context, path string, newState func() (*lang.State, error), tee io.Writer) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	var out bytes.Buffer
	state, err := newState()
	if err != nil {
		return Result{}, err
	}
	capture := flushio.NewWriteFlusher(&out)
	if tee != nil {
		name := runeio.NameOf(f)
		fmt.Fprintf(tee, "=== %s ===\n", name)
		state.Out = flushio.WriteFlushers(capture, flushio.NewWriteFlusher(tee))
	} else {
		state.Out = capture
	}

	sc := bufio.NewScanner(f)
	var firstErr *lang.Error
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		line := sc.Text()
		if err := panicerr.Recover(path, func() error {
			state.ClearError()
			state.RunLine(line)
			state.RenderError()
			return state.Out.Flush()
		}); err != nil {
			return Result{}, err
		}
		if firstErr == nil && state.Err != nil {
			firstErr = state.Err
		}
		if state.Quitting() {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Path: path, Output: out.String()}
	if firstErr != nil {
		res.Err = firstErr.Render()
	}
	return res, nil
}
