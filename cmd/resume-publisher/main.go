// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resume-publisher CLI. It converts
// resume documents to PDF, archives the published copies under timestamped
// names, and publishes the fresh PDFs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-publisher/internal/archive"
	"github.com/pdiddy/resume-publisher/internal/clock"
	"github.com/pdiddy/resume-publisher/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// settings is the viper instance every source of configuration feeds into.
// initConfig rebuilds it for each execution. Commands never read it
// directly; they receive the resolved app instead.
var settings = viper.New()

// configErr holds a failure from initConfig until setup can return it.
var configErr error

// rootCmd is the base command for the resume-publisher CLI.
var rootCmd = &cobra.Command{
	Use:   "resume-publisher",
	Short: "Convert, archive, and publish resume PDFs",
	Long: `resume-publisher keeps a folder of published resume PDFs current. It
converts the DOCX sources to PDF, moves the previously published PDFs into an
archive directory under timestamped names, and copies the new PDFs into place.

Directories are resolved under a root folder (RESUME_ROOT_DIR, or OneDrive)
and can be overridden through the environment, a .env file, or
resume-publisher.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./resume-publisher.yaml or ~/.config/resume-publisher/config.yaml)")
	rootCmd.PersistentFlags().String("root", "", "root directory (overrides RESUME_ROOT_DIR and OneDrive)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-ledger", false, "do not record archived files in the ledger")
}

func initConfig() {
	configErr = loadSettings()
}

// loadSettings reads .env, the config file, and the environment into a
// fresh settings instance.
func loadSettings() error {
	settings = viper.New()
	if err := settings.BindPFlag(config.KeyRootDir, rootCmd.PersistentFlags().Lookup("root")); err != nil {
		return fmt.Errorf("binding --root: %w", err)
	}

	if _, err := config.LoadDotenv(".env"); err != nil {
		log.WithError(err).Warn("Ignoring .env file")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		settings.SetConfigName("resume-publisher")
		settings.SetConfigType("yaml")
		settings.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			settings.AddConfigPath(filepath.Join(home, ".config", "resume-publisher"))
		}
	}

	settings.SetEnvPrefix("RESUME_PUBLISHER")
	settings.AutomaticEnv()
	if err := config.Bind(settings); err != nil {
		return err
	}

	err := settings.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		log.WithField("file", settings.ConfigFileUsed()).Debug("Using config file")
	case cfgFile == "" && errors.As(err, &notFound):
		// No config file is fine; defaults and environment apply.
	default:
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// setup configures logging and loads the configuration into the command's
// context. Directory validation is left to the commands that need it.
func setup(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	log.SetLevel(level)

	if configErr != nil {
		return configErr
	}
	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		cfg.Ledger.Enabled = false
	}

	cmd.SetContext(withApp(cmd.Context(), &app{cfg: cfg, out: cmd.OutOrStdout()}))
	return nil
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		report(err)
		os.Exit(1)
	}
}

// report logs err with the detail each error kind carries.
func report(err error) {
	var missing *config.MissingDirsError
	var root *config.RootMissingError
	var zone *clock.ZoneError
	switch {
	case errors.As(err, &missing):
		for _, d := range missing.Missing {
			log.WithFields(log.Fields{"name": d.Name, "path": d.Path}).Error("Required directory missing")
		}
		log.Error("Configuration error: create the directories or run resume-publisher init")
	case errors.As(err, &root):
		log.WithField("path", root.Path).WithError(root.Err).Error("Root directory missing")
	case errors.Is(err, config.ErrRootNotSet):
		log.WithError(err).Error("Configuration error")
	case errors.As(err, &zone):
		log.WithField("zone", zone.Name).WithError(zone.Err).Error("Cannot determine local time zone")
	case errors.Is(err, archive.ErrNoFiles):
		log.WithError(err).Error("Nothing to archive")
	default:
		log.WithError(err).Error("Command failed")
	}
}
