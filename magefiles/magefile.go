//go:build mage

// Package main contains Mage build targets for resume-publisher developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-publisher/internal/config"
)

const (
	binDir  = "bin"
	binName = "resume-publisher"
	cmdPkg  = "./cmd/resume-publisher"
)

// Init creates the resume directory layout under the configured root
// (RESUME_ROOT_DIR or OneDrive, optionally from .env).
func Init() error {
	if _, err := config.LoadDotenv(".env"); err != nil {
		return err
	}
	v := viper.New()
	if err := config.Bind(v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	created, err := config.Init(cfg.Dirs)
	for _, d := range created {
		fmt.Println("  ", d.Path)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Resume directories initialized under %s.\n", cfg.Dirs.RootDir)
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from git
// when available.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests. The ledger needs cgo for go-sqlite3.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "./...")
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	words, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):          %d\n", words)
	return nil
}

// countGoLines counts non-blank lines in Go files under root, split into
// production and test code. Reference material under _examples is skipped.
func countGoLines(root string) (prod, tests int, err error) {
	err = walkFiles(root, func(path string, data []byte) {
		if filepath.Ext(path) != ".go" {
			return
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
	})
	return prod, tests, err
}

// countDocWords counts whitespace-separated words in Markdown and YAML files.
func countDocWords(root string) (int, error) {
	total := 0
	err := walkFiles(root, func(path string, data []byte) {
		switch filepath.Ext(path) {
		case ".md", ".yaml", ".yml":
			total += len(strings.Fields(string(data)))
		}
	})
	return total, err
}

func walkFiles(root string, fn func(path string, data []byte)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fn(path, data)
		return nil
	})
}

// Publish builds the CLI and runs the full convert, archive, and publish
// pipeline against the configured root.
func Publish() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "publish")
}
