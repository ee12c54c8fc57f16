// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fileutil provides the file operations shared by the archive and
// publish stages: pattern matching within one directory and copies that
// preserve modification time and permissions.
package fileutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrDestinationExists is returned by CopyFile when the destination exists
// and overwriting was not requested.
var ErrDestinationExists = errors.New("destination already exists")

// Match returns the regular files in dir whose names match pattern, in
// lexical order. Matching ignores case unless caseSensitive is set.
// Symlinks are followed and match when they point at a regular file.
// Subdirectories are never matched.
func Match(dir, pattern string, caseSensitive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		candidate := name
		if !caseSensitive {
			candidate = strings.ToLower(name)
		}
		if ok, _ := filepath.Match(pattern, candidate); !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if !entry.Type().IsRegular() && !isRegularTarget(path) {
			continue
		}
		matches = append(matches, path)
	}
	return matches, nil
}

// isRegularTarget reports whether path, following symlinks, is a regular
// file. Dangling links are not.
func isRegularTarget(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyResult describes a completed copy.
type CopyResult struct {
	Size   int64
	SHA256 string

	// Info describes the source at the time it was opened.
	Info os.FileInfo
}

// CopyFile copies src to dst and then applies the source's permission bits
// and modification time to dst. Unless overwrite is set, an existing dst is
// left alone and ErrDestinationExists is returned. With overwrite, the copy is
// written beside dst and renamed over it, so a failed copy leaves the old dst
// intact. A failed copy never leaves a partial dst and never modifies src.
func CopyFile(ctx context.Context, src, dst string, overwrite bool) (CopyResult, error) {
	if err := ctx.Err(); err != nil {
		return CopyResult{}, err
	}

	in, err := os.Open(src)
	if err != nil {
		return CopyResult{}, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return CopyResult{}, err
	}
	if !info.Mode().IsRegular() {
		return CopyResult{}, fmt.Errorf("%s is not a regular file", src)
	}

	var out *os.File
	target := dst
	if overwrite {
		out, err = os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
		if err == nil {
			target = out.Name()
		}
	} else {
		out, err = os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
		if errors.Is(err, os.ErrExist) {
			return CopyResult{}, fmt.Errorf("%s: %w", dst, ErrDestinationExists)
		}
	}
	if err != nil {
		return CopyResult{}, err
	}

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, hash), in)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = preserveMetadata(target, info)
	}
	if err == nil && target != dst {
		err = os.Rename(target, dst)
	}
	if err != nil {
		os.Remove(target)
		return CopyResult{}, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	return CopyResult{
		Size:   n,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
		Info:   info,
	}, nil
}

// preserveMetadata applies info's permissions and modification time to path.
func preserveMetadata(path string, info os.FileInfo) error {
	if err := os.Chmod(path, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting mode: %w", err)
	}
	mtime := info.ModTime()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		return fmt.Errorf("setting times: %w", err)
	}
	return nil
}

// SHA256File returns the hex digest of the file at path.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
