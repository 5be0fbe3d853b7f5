package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTempFile writes data to a fresh file under t.TempDir() and returns
// its path.
func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}
