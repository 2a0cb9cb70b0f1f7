// Command mieliepit runs the Mieliepit interactive interpreter, or, with
// -check, batch-checks a list of source files concurrently.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Ruan-pysoft/mieliepit/internal/batch"
	"github.com/Ruan-pysoft/mieliepit/internal/lang"
	"github.com/Ruan-pysoft/mieliepit/internal/panicerr"
)

func main() {
	var (
		timeout   time.Duration
		trace     bool
		stackCap  int
		codeCap   int
		wordCap   int
		checkFlag bool
		verbose   bool
	)
	flag.DurationVar(&timeout, "timeout", 0, "stop after this long")
	flag.BoolVar(&trace, "trace", false, "log every primitive, word, and syntax dispatch")
	flag.IntVar(&stackCap, "stack-cap", 0, "bound the data stack (0 means growable)")
	flag.IntVar(&codeCap, "code-cap", 0, "bound the code buffer (0 means growable)")
	flag.IntVar(&wordCap, "word-cap", 0, "bound the word store (0 means growable)")
	flag.BoolVar(&checkFlag, "check", false, "batch-check the given files instead of starting a REPL")
	flag.BoolVar(&verbose, "verbose", false, "with -check, stream each file's output live as it runs")
	flag.Parse()

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := stateOptions(trace, stackCap, codeCap, wordCap)

	if checkFlag {
		if err := runCheck(ctx, flag.Args(), opts, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runREPL(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func stateOptions(trace bool, stackCap, codeCap, wordCap int) []lang.Option {
	var opts []lang.Option
	if stackCap != 0 || codeCap != 0 || wordCap != 0 {
		opts = append(opts, lang.WithCapacity(stackCap, codeCap, wordCap))
	}
	if trace {
		opts = append(opts, lang.WithLogf(func(mark, mess string, args ...interface{}) {
			log.Printf("[%s] "+mess, append([]interface{}{mark}, args...)...)
		}))
	}
	return opts
}

// runREPL reads lines from stdin until EOF, `exit`, `quit`, or ctx is
// done. It does not print a "> " prompt; terminal presentation is
// outside this package's scope, and stdin need not be a terminal at
// all (a pipe or redirected file works the same way). Each line runs
// under panicerr.Recover so a bug in a primitive can't take the whole
// process down mid-session.
func runREPL(ctx context.Context, opts []lang.Option) error {
	opts = append(opts, lang.WithOutput(os.Stdout))
	state, err := lang.New(opts...)
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		if err := panicerr.Recover("line", func() error {
			state.ClearError()
			state.RunLine(line)
			state.RenderError()
			return state.Out.Flush()
		}); err != nil {
			return err
		}
		if state.Quitting() {
			break
		}
	}
	return sc.Err()
}

func runCheck(ctx context.Context, paths []string, opts []lang.Option, verbose bool) error {
	var tee io.Writer
	if verbose {
		tee = os.Stdout
	}
	report, err := batch.Check(ctx, paths, func() (*lang.State, error) {
		return lang.New(opts...)
	}, tee)
	if err != nil {
		return err
	}
	if !verbose {
		for _, res := range report.Results {
			fmt.Printf("=== %s ===\n%s", res.Path, res.Output)
		}
	}
	for _, res := range report.Results {
		if res.Err != "" {
			fmt.Printf("FAIL: %s: %s\n", res.Path, res.Err)
		}
	}
	if report.Failed() {
		os.Exit(1)
	}
	return nil
}
