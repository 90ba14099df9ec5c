package workspace

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestMaterializeFromDirectory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	mustWrite(t, filepath.Join(src, "README.md"), "hello")
	mustWrite(t, filepath.Join(src, "nested", "deep", "file.txt"), "nested content")
	if err := os.Symlink(filepath.Join(src, "README.md"), filepath.Join(src, "link")); err != nil {
		t.Skipf("cannot create symlinks: %v", err)
	}

	if err := Materialize(dst, src); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if got := mustRead(t, filepath.Join(dst, "README.md")); got != "hello" {
		t.Errorf("README.md = %q", got)
	}
	if got := mustRead(t, filepath.Join(dst, "nested", "deep", "file.txt")); got != "nested content" {
		t.Errorf("nested file = %q", got)
	}
	if _, err := os.Lstat(filepath.Join(dst, "link")); !os.IsNotExist(err) {
		t.Error("symlink should not be copied")
	}
}

func TestMaterializeMissingSource(t *testing.T) {
	err := Materialize(t.TempDir(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestMaterializeUnsupportedSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "archive.rar")
	mustWrite(t, src, "not really an archive")

	err := Materialize(t.TempDir(), src)
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("err = %v, want ErrUnsupportedSource", err)
	}
}

func writeTestZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("dir/inner.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("zipped")); err != nil {
		t.Fatal(err)
	}
	w, err = zw.Create("top.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("top level")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMaterializeFromZip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "snapshot.zip")
	writeTestZip(t, src)
	dst := t.TempDir()

	if err := Materialize(dst, src); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if got := mustRead(t, filepath.Join(dst, "dir", "inner.txt")); got != "zipped" {
		t.Errorf("inner.txt = %q", got)
	}
	if got := mustRead(t, filepath.Join(dst, "top.txt")); got != "top level" {
		t.Errorf("top.txt = %q", got)
	}
}

func writeTestTarGz(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	entries := []struct {
		name    string
		content string
	}{
		{"src/main.go", "package main"},
		{"notes.txt", "remember"},
	}
	for _, e := range entries {
		hdr := &tar.Header{
			Name: e.name,
			Mode: 0o644,
			Size: int64(len(e.content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMaterializeFromTarGz(t *testing.T) {
	for _, ext := range []string{".tar.gz", ".tgz"} {
		t.Run(ext, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "snapshot"+ext)
			writeTestTarGz(t, src)
			dst := t.TempDir()

			if err := Materialize(dst, src); err != nil {
				t.Fatalf("Materialize: %v", err)
			}
			if got := mustRead(t, filepath.Join(dst, "src", "main.go")); got != "package main" {
				t.Errorf("main.go = %q", got)
			}
			if got := mustRead(t, filepath.Join(dst, "notes.txt")); got != "remember" {
				t.Errorf("notes.txt = %q", got)
			}
		})
	}
}

func TestExtractTarGzRejectsTraversal(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil.tar.gz")
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	content := "pwned"
	hdr := &tar.Header{Name: "../../escape.txt", Mode: 0o644, Size: int64(len(content))}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gz.Close()
	f.Close()

	dst := t.TempDir()
	if err := Materialize(dst, src); err == nil {
		t.Fatal("expected error for path traversal entry")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "escape.txt")); !os.IsNotExist(err) {
		t.Error("traversal entry was written outside the destination")
	}
}

func TestCreateSessionDirs(t *testing.T) {
	sessionDir := filepath.Join(t.TempDir(), "session_test")
	if err := CreateSessionDirs(sessionDir); err != nil {
		t.Fatalf("CreateSessionDirs: %v", err)
	}
	for _, sub := range []string{"workspace", "runtime"} {
		info, err := os.Stat(filepath.Join(sessionDir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created", sub)
		}
	}
}
