// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/archive"
	"github.com/pdiddy/resume-publisher/internal/clock"
	"github.com/pdiddy/resume-publisher/internal/config"
	"github.com/pdiddy/resume-publisher/internal/container"
	"github.com/pdiddy/resume-publisher/internal/convert"
	"github.com/pdiddy/resume-publisher/internal/ledger"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

// app carries the loaded configuration from the root command to the
// subcommand that runs.
type app struct {
	cfg types.Config
	out io.Writer
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, appKey{}, a)
}

// appFrom returns the app stored by the root command's pre-run.
func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	if a == nil {
		panic("resume-publisher: command ran without root setup")
	}
	return a
}

// dirs resolves and validates the directory layout.
func (a *app) dirs() (config.DirectorySet, error) {
	d, err := config.Resolve(a.cfg.Dirs)
	if err != nil {
		return d, err
	}
	log.WithFields(log.Fields{"root": d.Root, "published": d.Published, "archive": d.Archive}).Debug("Resolved directories")
	return d, nil
}

func (a *app) clock() (*clock.Clock, error) {
	return clock.New(a.cfg.Time)
}

// recorder returns the ledger as an archive.Recorder when enabled. The
// database is opened on the first Record call, so a run that archives
// nothing leaves no ledger file behind. The returned close function is
// always safe to call.
func (a *app) recorder() (archive.Recorder, func()) {
	if !a.cfg.Ledger.Enabled {
		return nil, func() {}
	}
	l := &lazyLedger{open: a.ledger}
	return l, l.close
}

// lazyLedger defers opening the ledger until there is something to record.
type lazyLedger struct {
	open  func() (*ledger.Store, error)
	store *ledger.Store
}

func (l *lazyLedger) Record(ctx context.Context, records []types.ArchiveRecord) error {
	if l.store == nil {
		store, err := l.open()
		if err != nil {
			return err
		}
		l.store = store
	}
	return l.store.Record(ctx, records)
}

func (l *lazyLedger) close() {
	if l.store == nil {
		return
	}
	if err := l.store.Close(); err != nil {
		log.WithError(err).Warn("Closing ledger")
	}
}

func (a *app) ledger() (*ledger.Store, error) {
	path := config.LedgerPath(a.cfg)
	store, err := ledger.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	return store, nil
}

// documentConverter builds the configured DOCX backend.
func (a *app) documentConverter(ctx context.Context) (convert.Converter, error) {
	conv := a.cfg.Conversion
	switch conv.Backend {
	case types.BackendSoffice:
		return convert.NewSofficeConverter(conv.SofficeBin)
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"runtime": rt.Name(), "image": conv.ContainerImage}).Debug("Using container converter")
		return convert.NewContainerConverter(ctx, rt, conv.ContainerImage)
	default:
		return nil, fmt.Errorf("unknown converter %q", conv.Backend)
	}
}

// converters returns a Manager that routes office documents to the
// configured backend and plain-text drafts to the text renderer.
func (a *app) converters(ctx context.Context) (*convert.Manager, error) {
	doc, err := a.documentConverter(ctx)
	if err != nil {
		return nil, err
	}
	m := convert.NewManager()
	m.Register(doc, ".docx", ".doc", ".odt", ".rtf")
	m.Register(&convert.TextConverter{}, ".txt", ".md")
	return m, nil
}
