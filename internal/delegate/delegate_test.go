package delegate_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/unbound-force/whiff/internal/delegate"
)

// fakeLauncher writes an executable shell script standing in for the
// java launcher and returns its path.
func fakeLauncher(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell launcher scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-java")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("writing launcher: %v", err)
	}
	return path
}

// fakeJar creates an empty archive file.
func fakeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TestSmellDetector.jar")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing jar: %v", err)
	}
	return path
}

func TestRun_StreamsMergedOutput(t *testing.T) {
	launcher := fakeLauncher(t, `echo "first"
echo "warning on stderr" >&2
echo "last"
`)
	var out bytes.Buffer
	res, err := delegate.Run(context.Background(), delegate.Options{
		Command:  launcher,
		Jar:      fakeJar(t),
		TestsDir: t.TempDir(),
	}, &out)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "first\nwarning on stderr\nlast\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if res.Lines != 3 {
		t.Errorf("Lines = %d, want 3", res.Lines)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestRun_PassesJarAndAbsoluteTestsDir(t *testing.T) {
	launcher := fakeLauncher(t, `for a in "$@"; do printf '%s\n' "$a"; done
`)
	jar := fakeJar(t)
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "tests"), 0o755); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	res, err := delegate.Run(context.Background(), delegate.Options{
		Command:  launcher,
		Jar:      jar,
		TestsDir: "relative/tests",
		BaseDir:  base,
	}, &out)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 args, got %q", lines)
	}
	if lines[0] != "-jar" {
		t.Errorf("arg 0 = %q, want -jar", lines[0])
	}
	if lines[1] != jar {
		t.Errorf("arg 1 = %q, want %q", lines[1], jar)
	}
	if want := filepath.Join(wd, "relative/tests"); lines[2] != want {
		t.Errorf("arg 2 = %q, want %q", lines[2], want)
	}
	if len(res.Args) != 4 || res.Args[1] != "-jar" {
		t.Errorf("Args = %v", res.Args)
	}
}

func TestRun_RunsInBaseDir(t *testing.T) {
	launcher := fakeLauncher(t, "pwd\n")
	base := t.TempDir()

	var out bytes.Buffer
	if _, err := delegate.Run(context.Background(), delegate.Options{
		Command: launcher,
		Jar:     fakeJar(t),
		BaseDir: base,
	}, &out); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	got, err := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(base)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("child cwd = %q, want %q", got, want)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	launcher := fakeLauncher(t, `echo "partial result"
exit 3
`)
	var out bytes.Buffer
	res, err := delegate.Run(context.Background(), delegate.Options{
		Command: launcher,
		Jar:     fakeJar(t),
	}, &out)

	var exitErr *delegate.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if res == nil || res.ExitCode != 3 {
		t.Errorf("Result = %+v, want ExitCode 3", res)
	}
	if out.String() != "partial result\n" {
		t.Errorf("output before failure was not streamed: %q", out.String())
	}
}

func TestRun_OverlongLineDrainsRemainingOutput(t *testing.T) {
	launcher := fakeLauncher(t, `echo "before"
head -c 2000000 /dev/zero | tr '\0' 'x'
echo
i=0
while [ $i -lt 5000 ]; do
  echo "trailing line $i"
  i=$((i+1))
done
exit 4
`)

	type outcome struct {
		res *delegate.Result
		err error
	}
	done := make(chan outcome, 1)
	opts := delegate.Options{
		Command:  launcher,
		Jar:      fakeJar(t),
		TestsDir: t.TempDir(),
	}
	var out bytes.Buffer
	go func() {
		res, err := delegate.Run(context.Background(), opts, &out)
		done <- outcome{res, err}
	}()

	var got outcome
	select {
	case got = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Run did not return after an overlong output line")
	}

	if !errors.Is(got.err, bufio.ErrTooLong) {
		t.Fatalf("Run() error = %v, want bufio.ErrTooLong", got.err)
	}
	if !strings.Contains(got.err.Error(), "reading detector output") {
		t.Errorf("unexpected error message: %v", got.err)
	}
	if got.res == nil {
		t.Fatal("expected a Result alongside the read error")
	}
	if got.res.Lines != 1 || out.String() != "before\n" {
		t.Errorf("streamed %d line(s) %q, want only the first line", got.res.Lines, out.String())
	}
	if got.res.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", got.res.ExitCode)
	}
}

func TestRun_MissingJar(t *testing.T) {
	launcher := fakeLauncher(t, "exit 0\n")
	_, err := delegate.Run(context.Background(), delegate.Options{
		Command: launcher,
		Jar:     filepath.Join(t.TempDir(), "absent.jar"),
	}, &bytes.Buffer{})
	if !errors.Is(err, delegate.ErrDetectorNotFound) {
		t.Errorf("Run() error = %v, want ErrDetectorNotFound", err)
	}
}

func TestRun_NoJarConfigured(t *testing.T) {
	launcher := fakeLauncher(t, "exit 0\n")
	_, err := delegate.Run(context.Background(), delegate.Options{
		Command: launcher,
	}, &bytes.Buffer{})
	if !errors.Is(err, delegate.ErrDetectorNotFound) {
		t.Errorf("Run() error = %v, want ErrDetectorNotFound", err)
	}
}

func TestRun_MissingLauncher(t *testing.T) {
	_, err := delegate.Run(context.Background(), delegate.Options{
		Command: "whiff-no-such-launcher",
		Jar:     fakeJar(t),
	}, &bytes.Buffer{})
	if !errors.Is(err, delegate.ErrDetectorNotFound) {
		t.Errorf("Run() error = %v, want ErrDetectorNotFound", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	launcher := fakeLauncher(t, "sleep 5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := delegate.Run(ctx, delegate.Options{
		Command: launcher,
		Jar:     fakeJar(t),
	}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	var exitErr *delegate.ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("cancellation should not be reported as ExitError: %v", err)
	}
}

func TestExitError_Message(t *testing.T) {
	err := &delegate.ExitError{Code: 2}
	if got := err.Error(); got != "detector exited with code 2" {
		t.Errorf("Error() = %q", got)
	}
}
