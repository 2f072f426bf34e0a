package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestCopyDir_MirrorsTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "mirror")

	writeFile(t, filepath.Join(src, "main.rb"), "puts 'hello'\n")
	writeFile(t, filepath.Join(src, "app", "game.rb"), "class Game; end\n")
	writeFile(t, filepath.Join(src, "sprites", "ship", "hull.png"), "png-bytes")

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	for rel, want := range map[string]string{
		"main.rb":               "puts 'hello'\n",
		"app/game.rb":           "class Game; end\n",
		"sprites/ship/hull.png": "png-bytes",
	} {
		got := mustRead(t, filepath.Join(dst, filepath.FromSlash(rel)))
		if got != want {
			t.Errorf("%s: got %q, want %q", rel, got, want)
		}
	}
}

func TestCopyDir_OverwritesCollidingFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "main.rb"), "new version")
	writeFile(t, filepath.Join(dst, "main.rb"), "old version")
	writeFile(t, filepath.Join(dst, "keep.txt"), "untouched")

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	if got := mustRead(t, filepath.Join(dst, "main.rb")); got != "new version" {
		t.Errorf("colliding file not overwritten: %q", got)
	}
	if got := mustRead(t, filepath.Join(dst, "keep.txt")); got != "untouched" {
		t.Errorf("non-colliding file modified: %q", got)
	}
}

func TestCopyDir_MissingSource(t *testing.T) {
	if err := CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyDir_SourceIsFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, src, "x")
	if err := CopyDir(src, t.TempDir()); err == nil {
		t.Fatal("expected error for non-directory source")
	}
}

func TestEnsureRemoved_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	writeFile(t, filepath.Join(dir, "logs", "run.log"), "stale")

	if err := EnsureRemoved(dir); err != nil {
		t.Fatalf("first removal: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("directory still present after removal")
	}

	// Removing an absent path succeeds and changes nothing.
	if err := EnsureRemoved(dir); err != nil {
		t.Fatalf("second removal: %v", err)
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "x")

	if !IsDir(dir) {
		t.Error("existing directory not recognized")
	}
	if IsDir(file) {
		t.Error("file reported as directory")
	}
	if IsDir(filepath.Join(dir, "missing")) {
		t.Error("missing path reported as directory")
	}
}
