// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// fakeConverter implements Converter for testing. It writes canned bytes to
// outDir/<stem>.pdf or returns an error.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	p := OutputPath(types.NewResumeFile(srcPath), outDir)
	return p, os.WriteFile(p, []byte(f.output), 0o644)
}

// setupDocx creates a docx source and an output directory.
func setupDocx(t *testing.T, names ...string) (srcDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	srcDir = filepath.Join(root, "docx")
	outDir = filepath.Join(root, "pdf")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, n), []byte("docx "+n), 0o644))
	}
	return srcDir, outDir
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		validate   Validator
		preCreate  bool // create an older PDF before running
		force      bool
		wantStatus types.FileStatus
		wantLog    string
		wantPDF    string // expected PDF content afterwards, "" for none
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "%PDF new"},
			wantStatus: types.StatusDone,
			wantLog:    "converted:",
			wantPDF:    "%PDF new",
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("soffice crashed")},
			wantStatus: types.StatusFailed,
			wantLog:    "failed:",
		},
		{
			name:       "failure keeps previous PDF",
			converter:  &fakeConverter{err: errors.New("soffice crashed")},
			preCreate:  true,
			force:      true,
			wantStatus: types.StatusFailed,
			wantLog:    "soffice crashed",
			wantPDF:    "%PDF old",
		},
		{
			name:       "invalid output rejected",
			converter:  &fakeConverter{output: "not a pdf"},
			validate:   func(string) error { return errors.New("no header") },
			preCreate:  true,
			force:      true,
			wantStatus: types.StatusFailed,
			wantLog:    "invalid PDF output",
			wantPDF:    "%PDF old",
		},
		{
			name:       "empty output rejected",
			converter:  &fakeConverter{output: ""},
			wantStatus: types.StatusFailed,
			wantLog:    "empty file",
		},
		{
			name:       "forced reconversion replaces PDF",
			converter:  &fakeConverter{output: "%PDF new"},
			preCreate:  true,
			force:      true,
			wantStatus: types.StatusDone,
			wantPDF:    "%PDF new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcDir, outDir := setupDocx(t, "Resume.docx")
			src := types.NewResumeFile(filepath.Join(srcDir, "Resume.docx"))
			if tt.preCreate {
				require.NoError(t, os.WriteFile(filepath.Join(outDir, "Resume.pdf"), []byte("%PDF old"), 0o644))
			}

			var log bytes.Buffer
			status, _ := ConvertFile(context.Background(), tt.converter, src, outDir,
				Options{Force: tt.force, Validate: tt.validate}, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)
			assert.FileExists(t, src.Path, "source must never be removed")

			data, err := os.ReadFile(filepath.Join(outDir, "Resume.pdf"))
			if tt.wantPDF == "" {
				assert.True(t, os.IsNotExist(err), "no PDF expected")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPDF, string(data))
			}
			for _, name := range entries(t, outDir) {
				assert.False(t, strings.HasPrefix(name, ".convert-"), "scratch directory %s left behind", name)
			}
		})
	}
}

func TestConvertFileSkipsUpToDate(t *testing.T) {
	srcDir, outDir := setupDocx(t, "Resume.docx")
	src := types.NewResumeFile(filepath.Join(srcDir, "Resume.docx"))

	pdfPath := filepath.Join(outDir, "Resume.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF old"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(pdfPath, later, later))

	conv := &fakeConverter{output: "%PDF new"}
	var log bytes.Buffer
	status, out := ConvertFile(context.Background(), conv, src, outDir, Options{}, &log)

	assert.Equal(t, types.StatusSkipped, status)
	assert.Equal(t, pdfPath, out)
	assert.Equal(t, 0, conv.calls)
	assert.Contains(t, log.String(), "skipped:")

	// A source edited after the PDF is converted again.
	evenLater := later.Add(time.Hour)
	require.NoError(t, os.Chtimes(src.Path, evenLater, evenLater))
	status, _ = ConvertFile(context.Background(), conv, src, outDir, Options{}, &log)
	assert.Equal(t, types.StatusDone, status)
}

func TestConvertDir(t *testing.T) {
	srcDir, outDir := setupDocx(t, "a.docx", "b.DOCX", "c.docx", "~$a.docx", "notes.txt")

	// b is already converted and newer than its source.
	bPDF := filepath.Join(outDir, "b.pdf")
	require.NoError(t, os.WriteFile(bPDF, []byte("%PDF b"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(bPDF, later, later))

	conv := &selectiveConverter{
		errors: map[string]error{"c.docx": errors.New("corrupt document")},
	}

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), conv, srcDir, "*.docx", false, outDir, Options{}, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.ElementsMatch(t, []string{filepath.Join(outDir, "a.pdf"), bPDF}, result.Outputs)
	assert.NotContains(t, conv.seen, "~$a.docx", "lock files are not sources")
	assert.Contains(t, log.String(), "Conversion summary:")
}

func TestConvertDirNoSources(t *testing.T) {
	srcDir, outDir := setupDocx(t, "notes.txt", "~$Resume.docx")

	var log bytes.Buffer
	_, err := ConvertDir(context.Background(), &fakeConverter{}, srcDir, "*.docx", false, outDir, Options{}, &log)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestConvertBatchCancelled(t *testing.T) {
	srcDir, outDir := setupDocx(t, "a.docx", "b.docx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{output: "%PDF"}
	var log bytes.Buffer
	result := ConvertBatch(ctx, conv, []string{
		filepath.Join(srcDir, "a.docx"),
		filepath.Join(srcDir, "b.docx"),
	}, outDir, Options{}, &log)

	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 0, conv.calls)
}

func TestManager(t *testing.T) {
	docx := &fakeConverter{output: "%PDF docx"}
	text := &fakeConverter{output: "%PDF text"}
	m := NewManager()
	m.Register(docx, ".docx", ".doc")
	m.Register(text, ".txt")

	dir := t.TempDir()
	_, err := m.Convert(context.Background(), filepath.Join(dir, "Resume.DOCX"), dir)
	require.NoError(t, err)
	_, err = m.Convert(context.Background(), filepath.Join(dir, "draft.txt"), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, docx.calls)
	assert.Equal(t, 1, text.calls)

	_, err = m.Convert(context.Background(), filepath.Join(dir, "photo.png"), dir)
	assert.ErrorContains(t, err, ".png")
}

func TestTextConverterProducesValidPDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Resume draft.txt")
	require.NoError(t, os.WriteFile(src, []byte("Jane Doe\n\nExperience\n\tEngineer, 2020-2024\nCafé work\n"), 0o644))

	out, err := (&TextConverter{}).Convert(context.Background(), src, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Resume draft.pdf"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.NoError(t, ValidatePDF(out))
}

func TestValidatePDFRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))
	assert.Error(t, ValidatePDF(path))
}

func TestSofficeConverter(t *testing.T) {
	srcDir, outDir := setupDocx(t, "Resume.docx")
	src := filepath.Join(srcDir, "Resume.docx")

	var gotName string
	var gotArgs []string
	s := &SofficeConverter{
		bin: "/usr/bin/soffice",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName, gotArgs = name, args
			return []byte("convert ok"), os.WriteFile(filepath.Join(outDir, "Resume.pdf"), []byte("%PDF"), 0o644)
		},
	}

	out, err := s.Convert(context.Background(), src, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Resume.pdf"), out)
	assert.Equal(t, "/usr/bin/soffice", gotName)
	assert.Contains(t, gotArgs, "--headless")
	assert.Equal(t, src, gotArgs[len(gotArgs)-1])
	assert.True(t, strings.HasPrefix(gotArgs[0], "-env:UserInstallation=file://"))
}

func TestSofficeConverterErrors(t *testing.T) {
	srcDir, outDir := setupDocx(t, "Resume.docx")
	src := filepath.Join(srcDir, "Resume.docx")

	failing := &SofficeConverter{
		bin: "soffice",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Error: source file could not be loaded"), errors.New("exit status 1")
		},
	}
	_, err := failing.Convert(context.Background(), src, outDir)
	assert.ErrorContains(t, err, "could not be loaded")

	silent := &SofficeConverter{
		bin: "soffice",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, nil
		},
	}
	_, err = silent.Convert(context.Background(), src, outDir)
	assert.ErrorContains(t, err, "wrote no Resume.pdf")
}

func TestNewSofficeConverterMissingBinary(t *testing.T) {
	_, err := NewSofficeConverter("definitely-not-libreoffice-binary")
	assert.Error(t, err)
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	imageErr error
	runErr   error
}

func (f *fakeRuntime) Name() string { return "docker" }

func (f *fakeRuntime) Available(ctx context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(ctx context.Context, image string) error { return f.imageErr }

func (f *fakeRuntime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	if f.runErr != nil {
		return f.runErr
	}
	data, _ := io.ReadAll(stdin)
	_, err := stdout.Write(append([]byte("%PDF from "), data...))
	return err
}

func TestContainerConverter(t *testing.T) {
	srcDir, outDir := setupDocx(t, "Resume.docx")
	src := filepath.Join(srcDir, "Resume.docx")

	_, err := NewContainerConverter(context.Background(), &fakeRuntime{imageErr: errors.New("missing")}, "docx2pdf:latest")
	assert.ErrorContains(t, err, "converter image not available")

	c, err := NewContainerConverter(context.Background(), &fakeRuntime{}, "docx2pdf:latest")
	require.NoError(t, err)
	out, err := c.Convert(context.Background(), src, outDir)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF from docx Resume.docx", string(data))

	failing, err := NewContainerConverter(context.Background(), &fakeRuntime{runErr: errors.New("exit 1")}, "docx2pdf:latest")
	require.NoError(t, err)
	_, err = failing.Convert(context.Background(), src, outDir)
	assert.ErrorContains(t, err, "exit 1")
}

// selectiveConverter fails for some source names and records what it saw.
type selectiveConverter struct {
	errors map[string]error
	seen   []string
}

func (s *selectiveConverter) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	name := filepath.Base(srcPath)
	s.seen = append(s.seen, name)
	if err, ok := s.errors[name]; ok {
		return "", err
	}
	p := OutputPath(types.NewResumeFile(srcPath), outDir)
	return p, os.WriteFile(p, []byte("%PDF "+name), 0o644)
}
