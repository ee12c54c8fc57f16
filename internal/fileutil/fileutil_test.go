// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fileutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Resume.pdf", "References.PDF", "notes.txt", "cover.pdf.bak"} {
		writeFile(t, dir, name, "x")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	tests := []struct {
		name          string
		pattern       string
		caseSensitive bool
		want          []string
	}{
		{"case-insensitive", "*.pdf", false, []string{"References.PDF", "Resume.pdf"}},
		{"case-sensitive", "*.pdf", true, []string{"Resume.pdf"}},
		{"prefix", "Re*", true, []string{"References.PDF", "Resume.pdf"}},
		{"no match", "*.docx", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(dir, tt.pattern, tt.caseSensitive)
			require.NoError(t, err)
			var names []string
			for _, p := range got {
				assert.Equal(t, dir, filepath.Dir(p))
				names = append(names, filepath.Base(p))
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMatchFollowsSymlinks(t *testing.T) {
	target := writeFile(t, t.TempDir(), "Resume.pdf", "%PDF linked")
	dir := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "Resume.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.pdf"), filepath.Join(dir, "Dangling.pdf")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "folder"), filepath.Join(dir, "Folder.pdf")))

	got, err := Match(dir, "*.pdf", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Resume.pdf")}, got)

	res, err := CopyFile(context.Background(), got[0], filepath.Join(dir, "copy.pdf"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(len("%PDF linked")), res.Size)
	assert.True(t, res.Info.Mode().IsRegular())
}

func TestMatchErrors(t *testing.T) {
	_, err := Match(t.TempDir(), "[", false)
	assert.Error(t, err)

	_, err = Match(filepath.Join(t.TempDir(), "missing"), "*", false)
	assert.Error(t, err)
}

func TestCopyFilePreservesContentAndMetadata(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "Resume.pdf", "%PDF-1.4 resume")
	require.NoError(t, os.Chmod(src, 0o600))
	mtime := time.Date(2023, 11, 2, 8, 15, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(dir, "Resume_copy.pdf")
	res, err := CopyFile(context.Background(), src, dst, false)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 resume", string(data))
	assert.Equal(t, int64(len(data)), res.Size)

	sum, err := SHA256File(src)
	require.NoError(t, err)
	assert.Equal(t, sum, res.SHA256)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v, want %v", info.ModTime(), mtime)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.FileExists(t, src, "source must be untouched")
}

func TestCopyFileExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "new.pdf", "new")
	dst := writeFile(t, dir, "old.pdf", "old")

	_, err := CopyFile(context.Background(), src, dst, false)
	require.ErrorIs(t, err, ErrDestinationExists)
	data, _ := os.ReadFile(dst)
	assert.Equal(t, "old", string(data))

	_, err = CopyFile(context.Background(), src, dst, true)
	require.NoError(t, err)
	data, _ = os.ReadFile(dst)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files should remain")
}

func TestCopyFileFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := CopyFile(context.Background(), filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "x.pdf"), false)
	assert.Error(t, err)

	src := writeFile(t, dir, "a.pdf", "a")
	_, err = CopyFile(context.Background(), src, filepath.Join(dir, "nodir", "a.pdf"), false)
	assert.Error(t, err)
	assert.FileExists(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CopyFile(ctx, src, filepath.Join(dir, "b.pdf"), false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "b.pdf"))
}
