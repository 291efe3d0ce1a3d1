// Package inventory provides sources of file health records for the
// analyzer. The canonical source is a report file produced by an external
// static-analysis collaborator; complexity is always an externally supplied
// number, never computed here.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

// Report is the on-disk inventory format. Both JSON and YAML are accepted;
// the extension decides the decoder.
type Report struct {
	// GeneratedAt is an optional free-form timestamp from the producer
	GeneratedAt string `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	// Files are the per-file health records
	Files []health.FileHealthRecord `json:"files" yaml:"files"`
}

// FileSource reads the inventory report from disk on every snapshot, so a
// long-running monitor picks up report refreshes without restarting.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the report at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot reads, decodes and validates the report.
func (s *FileSource) Snapshot(ctx context.Context) ([]health.FileHealthRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory report: %w", err)
	}

	var report Report
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to parse inventory report %s: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to parse inventory report %s: %w", s.path, err)
		}
	}

	if err := validate(report.Files); err != nil {
		return nil, fmt.Errorf("invalid inventory report %s: %w", s.path, err)
	}
	return report.Files, nil
}

func validate(records []health.FileHealthRecord) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.Path == "" {
			return fmt.Errorf("record %d has an empty path", i)
		}
		if seen[r.Path] {
			return fmt.Errorf("duplicate record for %s", r.Path)
		}
		seen[r.Path] = true
		// The metrics layer requires lines > 0; a zero-line record would
		// blow up the maintainability index.
		if r.Lines < 1 {
			return fmt.Errorf("record for %s has non-positive line count %d", r.Path, r.Lines)
		}
		if r.Complexity < 0 {
			return fmt.Errorf("record for %s has negative complexity %.2f", r.Path, r.Complexity)
		}
	}
	return nil
}
