// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes every record matching opts to export.yaml beside the
// database and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(filepath.Dir(s.path), "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every record matching opts to export.json beside the
// database and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(filepath.Dir(s.path), "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.ArchiveRecord, error) {
	opts.Limit = exportLimit
	records, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.ArchiveRecord{}
	}
	return records, nil
}
