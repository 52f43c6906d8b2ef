package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/unbound-force/whiff/internal/config"
	"github.com/unbound-force/whiff/internal/loader"
)

// buildTree creates files under a temp dir and returns its path.
func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func paths(res *loader.Result) []string {
	out := make([]string, 0, len(res.Units))
	for _, u := range res.Units {
		out = append(out, u.Path)
	}
	return out
}

func TestLoad_FindsJavaSourcesSorted(t *testing.T) {
	root := buildTree(t, map[string]string{
		"com/acme/ZebraTest.java":   "class ZebraTest {}",
		"com/acme/AlphaTest.java":   "class AlphaTest {}",
		"com/acme/util/Helper.java": "class Helper {}",
		"com/acme/notes.txt":        "ignore me",
		"README.md":                 "# tests",
	})

	res, err := loader.Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{
		"com/acme/AlphaTest.java",
		"com/acme/ZebraTest.java",
		"com/acme/util/Helper.java",
	}
	got := paths(res)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Units[%d].Path = %q, want %q", i, got[i], want[i])
		}
	}
	if res.Units[0].Text != "class AlphaTest {}" {
		t.Errorf("Units[0].Text = %q", res.Units[0].Text)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("unexpected skipped files: %v", res.Skipped)
	}
}

func TestLoad_SkipsHiddenDirectories(t *testing.T) {
	root := buildTree(t, map[string]string{
		".git/objects/Blob.java": "class Blob {}",
		".idea/Cache.java":       "class Cache {}",
		"VisibleTest.java":       "class VisibleTest {}",
	})

	res, err := loader.Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := paths(res)
	if len(got) != 1 || got[0] != "VisibleTest.java" {
		t.Errorf("got %v, want [VisibleTest.java]", got)
	}
}

func TestLoad_DefaultExcludesBuildOutput(t *testing.T) {
	root := buildTree(t, map[string]string{
		"module/target/generated/GenTest.java": "class GenTest {}",
		"module/build/tmp/TmpTest.java":        "class TmpTest {}",
		"module/src/KeepTest.java":             "class KeepTest {}",
	})

	res, err := loader.Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := paths(res)
	if len(got) != 1 || got[0] != "module/src/KeepTest.java" {
		t.Errorf("got %v, want [module/src/KeepTest.java]", got)
	}
}

func TestLoad_IncludeAndExclude(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a/OrderTest.java":   "",
		"a/OrderIT.java":     "",
		"a/Fixtures.java":    "",
		"b/PaymentTest.java": "",
	})
	cfg := &config.ScanConfig{
		Include:    []string{"**/*Test.java", "**/*IT.java"},
		Exclude:    []string{"*IT.java"},
		Extensions: []string{".java"},
	}

	res, err := loader.Load(context.Background(), root, cfg)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := paths(res)
	want := []string{"a/OrderTest.java", "b/PaymentTest.java"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoad_EmptyFileIsLoaded(t *testing.T) {
	root := buildTree(t, map[string]string{"EmptyTest.java": ""})
	res, err := loader.Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(res.Units) != 1 || res.Units[0].Text != "" {
		t.Errorf("expected one empty unit, got %+v", res.Units)
	}
}

func TestLoad_UnreadableFileIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	root := buildTree(t, map[string]string{
		"LockedTest.java": "class LockedTest {}",
		"OpenTest.java":   "class OpenTest {}",
	})
	locked := filepath.Join(root, "LockedTest.java")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	res, err := loader.Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := paths(res)
	if len(got) != 1 || got[0] != "OpenTest.java" {
		t.Errorf("got %v, want [OpenTest.java]", got)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Path != "LockedTest.java" {
		t.Errorf("Skipped = %+v, want LockedTest.java", res.Skipped)
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_RootIsFile(t *testing.T) {
	root := buildTree(t, map[string]string{"OnlyTest.java": ""})
	_, err := loader.Load(context.Background(), filepath.Join(root, "OnlyTest.java"), nil)
	if !errors.Is(err, loader.ErrNotDirectory) {
		t.Errorf("Load() error = %v, want ErrNotDirectory", err)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	root := buildTree(t, map[string]string{"ATest.java": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, root, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_DeadlineExceeded(t *testing.T) {
	root := buildTree(t, map[string]string{"ATest.java": ""})
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	cfg := config.DefaultConfig().Scan
	cfg.Timeout = time.Minute

	_, err := loader.Load(ctx, root, &cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Load() error = %v, want context.DeadlineExceeded", err)
	}
}
