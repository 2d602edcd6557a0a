package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

func TestExporter_Export(t *testing.T) {
	s := NewInMemoryStore()
	s.Set("en_common", map[string]string{"hello": "Hello"})
	s.Set("de_common", map[string]string{"hello": "Hallo"})

	exporter := NewExporter(s)
	var buf bytes.Buffer

	err := exporter.Export(&buf, map[string]string{"source": "https://pb.example.com"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if len(export.Collections) != 2 {
		t.Errorf("Expected 2 collections, got %d", len(export.Collections))
	}
	if export.Collections["de_common"]["hello"] != "Hallo" {
		t.Errorf("Unexpected de_common mapping: %v", export.Collections["de_common"])
	}
	if export.Metadata["source"] != "https://pb.example.com" {
		t.Errorf("Expected metadata source, got %v", export.Metadata)
	}
}

func TestExporter_EmptyStore(t *testing.T) {
	exporter := NewExporter(NewInMemoryStore())

	var buf bytes.Buffer
	if err := exporter.Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	json.Unmarshal(buf.Bytes(), &export)

	if len(export.Collections) != 0 {
		t.Errorf("Expected 0 collections for empty store, got %d", len(export.Collections))
	}
}

func TestExporter_ExportToFile(t *testing.T) {
	s := NewInMemoryStore()
	s.Set("en_common", map[string]string{"a": "A"})

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := NewExporter(s).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if export.Collections["en_common"]["a"] != "A" {
		t.Errorf("Unexpected snapshot contents: %v", export.Collections)
	}
}

func TestExporter_ExportToFileMissingDir(t *testing.T) {
	s := NewInMemoryStore()
	path := filepath.Join(t.TempDir(), "missing", "snapshot.json")
	if err := NewExporter(s).ExportToFile(path, nil); err == nil {
		t.Error("ExportToFile should fail when the directory does not exist")
	}
}

func TestCloseFile_ReportsCloseError(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "snapshot.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	// Closing an already closed file fails; that failure must surface.
	if err := closeFile(f, nil); err == nil {
		t.Error("closeFile should return the close error")
	}

	writeErr := errors.New("encode failed")
	if err := closeFile(f, writeErr); err != writeErr {
		t.Errorf("closeFile = %v, want the write error", err)
	}
}
