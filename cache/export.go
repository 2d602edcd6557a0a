package cache

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// ExportFormat is the JSON snapshot written by Exporter.
type ExportFormat struct {
	Version     string                       `json:"version"`
	ExportedAt  string                       `json:"exported_at"`
	Collections map[string]map[string]string `json:"collections"`
	Metadata    map[string]string            `json:"metadata,omitempty"`
}

// Exporter writes store snapshots.
type Exporter struct {
	store Store
}

// NewExporter creates a new exporter for store.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Export writes every stored collection to w as indented JSON.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	collections := make(map[string]map[string]string)
	for _, name := range e.store.Collections() {
		translations, ok := e.store.Get(name)
		if !ok {
			continue // Expired between listing and reading
		}
		collections[name] = translations
	}

	export := ExportFormat{
		Version:     "1.0",
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Collections: collections,
		Metadata:    metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the store to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	return closeFile(f, e.Export(f, metadata))
}

// closeFile closes f and returns err, or the close error when err is nil.
func closeFile(f *os.File, err error) error {
	if cerr := f.Close(); cerr != nil && err == nil {
		return fmt.Errorf("closing file: %w", cerr)
	}
	return err
}
