// seekcheck
// Checks that a buffered stream, the descriptor under it, a dup of that
// descriptor and a stream opened on the dup agree on the file offset after
// a seek. Cobra CLI, optional tcell phase board.
//
// Build:
//
//	go build -ldflags "-X main.buildDir=$PWD/build" -o seekcheck .
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"seekcheck/retrodfrg"
)

// usageError is a problem with the command line; usage is printed with it.
type usageError struct{ error }

func (u usageError) Unwrap() error { return u.error }

// reported is an error whose diagnostic has already been written.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

type runConfig struct {
	size int64
	dir  string
	opts checkOptions
}

// run provisions the test file, checks it and removes it. guard, if set, is
// given the file once it exists and returns a func that ends the guarding.
func run(cfg runConfig, stdout, stderr io.Writer, obs stepObserver, guard func(*tempFile) func()) error {
	if obs == nil {
		obs = nopObserver{}
	}

	path, err := createTestFile(cfg.dir, cfg.size)
	if err != nil {
		obs.stepFailed(stepCreate, err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		fmt.Fprintf(stderr, "Test file creation in %s failed!\n", cfg.dir)
		return reported{err}
	}
	tf := &tempFile{path: path}
	defer tf.remove()
	if guard != nil {
		release := guard(tf)
		defer release()
	}
	obs.stepPassed(stepCreate, cfg.size)

	fmt.Fprintf(stdout, "\nTest %d : %s\n", cfg.size, path)
	if err := checkFile(path, cfg.opts, obs, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fmt.Fprintln(stderr, "Test failed!")
		return reported{err}
	}
	return tf.remove()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		dir, via, logLevel string
		showUI             bool
	)

	root := &cobra.Command{
		Use:   "seekcheck <size>",
		Short: "Check that buffered and raw file positions agree after a seek",
		Long: "Create a zero-filled temporary file of <size> bytes (k/m/g suffixes allowed),\n" +
			"seek to three quarters of it, and verify that the stream, its descriptor,\n" +
			"a dup of the descriptor and a stream on the dup all report that offset.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return usageError{errors.New("test file size argument required")}
			case len(args) > 1:
				return usageError{fmt.Errorf("expected one size argument, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseSize(args[0])
			if err != nil {
				return usageError{err}
			}
			pv, err := parseVia(via)
			if err != nil {
				return usageError{err}
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			var held, heldErr heldOutput
			if showUI {
				out, errOut = &held, &heldErr
			}
			log, err := initLogger(logLevel, errOut)
			if err != nil {
				return usageError{err}
			}

			cfg := runConfig{
				size: size,
				dir:  resolveBaseDir(dir, os.Getenv),
				opts: checkOptions{Via: pv},
			}
			log.Info("starting", "size", size, "human", human(size), "dir", cfg.dir, "via", string(pv))

			obs := observers{logObserver{log: log}}
			var (
				ui       *retrodfrg.UI
				teardown func()
			)
			if showUI {
				ui, err = retrodfrg.NewUI()
				if err != nil {
					return fmt.Errorf("ui init: %w", err)
				}
				teardown = boardTeardown(ui.Close, &held, &heldErr, cmd.OutOrStdout(), cmd.ErrOrStderr())
				defer teardown()
				ui.SetTitle(fmt.Sprintf(" SEEKCHECK – %s (%d bytes) via %s ", human(size), size, pv))
				ui.SetSummaryLines([]string{
					fmt.Sprintf("Directory: %s", cfg.dir),
					fmt.Sprintf("Target offset: %d", targetOffset(size)),
				})
				ui.SetLegend([]string{"Legend:  [✓] passed   [✗] failed   [ ] not run | Q to quit"})
				ui.SetPhases(append([]string{stepCreate}, checkSteps...))
				ui.LayoutAndDraw()
				obs = append(obs, &boardObserver{ui: ui})
			}

			guard := func(tf *tempFile) func() {
				return removeOnSignal(tf, cmd.ErrOrStderr(), teardown, os.Exit)
			}
			err = run(cfg, out, errOut, obs, guard)
			if ui != nil {
				_ = retrodfrg.WaitWithStop(ui, 2*time.Second)
			}
			return err
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.Flags().StringVar(&dir, "dir", "", "directory for the test file (default $"+envBaseDir+", build dir, or system temp)")
	root.Flags().StringVar(&via, "via", string(viaStream), "handle that performs the seek: stream|fd")
	root.Flags().BoolVar(&showUI, "ui", false, "show a full-screen phase board while checking")
	root.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	return root
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	if !errors.As(err, new(reported)) {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	if errors.As(err, new(usageError)) {
		fmt.Fprint(stderr, root.UsageString())
	}
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
