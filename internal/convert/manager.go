// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Manager dispatches to a Converter chosen by the source file extension.
// It is itself a Converter.
type Manager struct {
	byExt map[string]Converter
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{byExt: make(map[string]Converter)}
}

// Register routes sources with any of exts (e.g. ".docx") to c. Extensions
// are matched case-insensitively.
func (m *Manager) Register(c Converter, exts ...string) {
	for _, ext := range exts {
		m.byExt[strings.ToLower(ext)] = c
	}
}

// Convert implements Converter.
func (m *Manager) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	c, ok := m.byExt[ext]
	if !ok {
		return "", fmt.Errorf("no converter registered for %q files", ext)
	}
	return c.Convert(ctx, srcPath, outDir)
}
