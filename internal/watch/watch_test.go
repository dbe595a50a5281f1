package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("v 1 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	want, _ := filepath.Abs(path)
	select {
	case got := <-w.Changes:
		if got != want {
			t.Errorf("change = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.obj"), []byte("v 1 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changes:
		t.Errorf("unexpected change %q", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestAddAfterClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "x.obj")); err == nil {
		t.Error("Add() after Close() error = nil")
	}
}
