package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save("VPL-001.jpg", strings.NewReader("image bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(store.Path("VPL-001.jpg"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "image bytes" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestSaveFlattensPathTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save("../../etc/passwd", strings.NewReader("nope")); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The write must land inside the upload directory under the base name.
	if _, err := os.Stat(store.Path("passwd")); err != nil {
		t.Fatalf("expected flattened file inside upload dir: %v", err)
	}
}
