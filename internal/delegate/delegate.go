// Package delegate runs an external, pre-built test smell detector as
// a child process and streams its output. It shares no types with the
// built-in engine: the detector's findings are passed through as text.
package delegate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultCommand launches the detector archive.
const DefaultCommand = "java"

// maxLineSize bounds a single line of detector output.
const maxLineSize = 1 << 20

// ErrDetectorNotFound is returned when the detector archive or the
// launcher executable does not exist.
var ErrDetectorNotFound = errors.New("external detector not found")

// ExitError reports that the detector ran to completion but exited
// with a non-zero status. Its output has already been streamed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("detector exited with code %d", e.Code)
}

// Options configures a detector run.
type Options struct {
	// Command is the launcher executable. Empty means DefaultCommand.
	Command string

	// Jar is the path to the detector archive. Required.
	Jar string

	// TestsDir is the directory handed to the detector. It is made
	// absolute before the process starts.
	TestsDir string

	// BaseDir is the child's working directory. Empty means the
	// current directory.
	BaseDir string
}

// Result describes a finished detector run.
type Result struct {
	// Args is the full command line that was executed.
	Args []string

	// Lines is the number of output lines streamed.
	Lines int

	// ExitCode is the child's exit status.
	ExitCode int
}

// Run starts "<command> -jar <jar> <abs tests dir>" in opts.BaseDir,
// merges the child's stderr into its stdout, and copies every output
// line to out as it arrives.
//
// A non-zero exit is reported as *ExitError alongside a populated
// Result. A line longer than 1 MiB stops streaming; the rest of the
// output is discarded and a wrapped bufio.ErrTooLong is returned.
// Failing to locate or start the process returns ErrDetectorNotFound
// or a wrapped start error and a nil Result.
func Run(ctx context.Context, opts Options, out io.Writer) (*Result, error) {
	args, err := commandLine(opts)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = opts.BaseDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attaching detector output: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting detector: %w", err)
	}

	res := &Result{Args: args}

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		res.Lines++
		if _, err := fmt.Fprintln(out, sc.Text()); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return nil, fmt.Errorf("writing detector output: %w", err)
		}
	}
	scanErr := sc.Err()
	if scanErr != nil {
		// Keep the pipe empty so the child can run to completion.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	if scanErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, fmt.Errorf("reading detector output: %w", scanErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Code: res.ExitCode}
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("detector interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("waiting for detector: %w", waitErr)
	}
	return res, nil
}

// commandLine resolves and validates the launcher, the archive and
// the tests directory.
func commandLine(opts Options) ([]string, error) {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}
	launcher, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: launcher %q: %v", ErrDetectorNotFound, command, err)
	}

	if opts.Jar == "" {
		return nil, fmt.Errorf("%w: no detector archive configured", ErrDetectorNotFound)
	}
	jar, err := filepath.Abs(opts.Jar)
	if err != nil {
		return nil, fmt.Errorf("resolving detector archive: %w", err)
	}
	if info, err := os.Stat(jar); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDetectorNotFound, jar)
	}

	testsDir, err := filepath.Abs(opts.TestsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving tests directory: %w", err)
	}

	return []string{launcher, "-jar", jar, testsDir}, nil
}
