//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts resume/docx into resume/pdf, rendering
// plain-text drafts as proofs too.
func Convert() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "convert", "--drafts")
}
