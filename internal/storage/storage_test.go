package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if err := store.Save("photo.jpg", strings.NewReader("jpeg bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("saved content = %q", data)
	}

	if got := store.URL("photo.jpg"); got != "/uploads/photo.jpg" {
		t.Errorf("URL = %q, want /uploads/photo.jpg", got)
	}

	if err := store.Delete("photo.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "photo.jpg")); !os.IsNotExist(err) {
		t.Error("file still exists after Delete")
	}

	// Deleting a missing file is not an error.
	if err := store.Delete("photo.jpg"); err != nil {
		t.Errorf("Delete of missing file: %v", err)
	}
}

func TestLocalStorageRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if err := store.Save("../escape.jpg", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The name is flattened to its base, never written outside dir.
	if _, err := os.Stat(filepath.Join(dir, "escape.jpg")); err != nil {
		t.Errorf("expected file inside storage dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.jpg")); !os.IsNotExist(err) {
		t.Error("file escaped the storage dir")
	}
}
