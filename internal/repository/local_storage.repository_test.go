package repository

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileLocalStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	storage := NewFileLocalStorage(path)

	if _, ok, err := storage.Get("missing"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := storage.Set("dashboard-widget-order", `["news","clock"]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := storage.Set("other", "value"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	reopened := NewFileLocalStorage(path)
	got, ok, err := reopened.Get("dashboard-widget-order")
	if err != nil || !ok {
		t.Fatalf("expected stored value, got ok=%v err=%v", ok, err)
	}
	if got != `["news","clock"]` {
		t.Errorf("unexpected value %q", got)
	}
	if v, _, _ := reopened.Get("other"); v != "value" {
		t.Errorf("expected other key to survive, got %q", v)
	}
}

func TestFileLocalStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	storage := NewFileLocalStorage(path)
	if _, _, err := storage.Get("k"); err == nil {
		t.Fatal("expected parse error for corrupt file")
	}

	if err := storage.Set("k", "v"); err != nil {
		t.Fatalf("set should replace corrupt file: %v", err)
	}
	if v, ok, err := storage.Get("k"); err != nil || !ok || v != "v" {
		t.Errorf("expected v, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestMemoryLocalStorage(t *testing.T) {
	storage := NewMemoryLocalStorage()
	if _, ok, _ := storage.Get("k"); ok {
		t.Fatal("expected empty storage")
	}
	_ = storage.Set("k", "v")
	if v, ok, _ := storage.Get("k"); !ok || v != "v" {
		t.Errorf("expected v, got %q", v)
	}
}
