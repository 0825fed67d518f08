package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/clinicdesk/internal/clinicapi"
	"github.com/mrsinham/clinicdesk/internal/config"
	"github.com/mrsinham/clinicdesk/internal/intake"
	"github.com/mrsinham/clinicdesk/internal/logging"
)

// version is set at build time via -ldflags
var version = "dev"

// app is the state shared by every subcommand, built before any of them runs.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	closers []func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath, logLevel string

	rootCmd := &cobra.Command{
		Use:           "clinicdesk",
		Short:         "Walk-in appointment intake for the audiology front desk",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.out = cmd.OutOrStdout()

			logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Console: true, Out: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			a.log = logger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: clinicdesk.yaml in the user config dir or the working dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(intakeCmd(a))
	rootCmd.AddCommand(lookupCmd(a))
	rootCmd.AddCommand(catalogsCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(sandboxCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clinicdesk %s\n", version)
		},
	}
}

// client builds the clinic API client from the configuration.
func (a *app) client() (*clinicapi.Client, error) {
	return clinicapi.New(clinicapi.Config{
		BaseURL: a.cfg.APIBaseURL,
		Token:   a.cfg.APIToken,
		Timeout: a.cfg.RequestTimeout,
		Logger:  &a.log,
	})
}

// catalogs wraps src with the redis catalog cache when one is configured.
func (a *app) catalogs(src clinicapi.CatalogLister) clinicapi.CatalogLister {
	if a.cfg.RedisAddr == "" {
		return src
	}
	rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
	a.closers = append(a.closers, rdb.Close)
	a.log.Debug().Str("addr", a.cfg.RedisAddr).Dur("ttl", a.cfg.CatalogCacheTTL).Msg("catalog cache enabled")
	return clinicapi.NewCachedCatalogs(src, rdb, a.cfg.CatalogCacheTTL, &a.log)
}

// services wires the intake collaborators to the clinic backend.
func (a *app) services() (intake.Services, error) {
	c, err := a.client()
	if err != nil {
		return intake.Services{}, err
	}
	return intake.Services{
		Patients:     c,
		Appointments: c,
		Catalogs:     a.catalogs(c),
	}, nil
}

// logToFile redirects logging to the configured log file, for commands
// that own the terminal.
func (a *app) logToFile() error {
	if a.cfg.LogFile == "" {
		a.log = zerolog.Nop()
		return nil
	}
	f, err := logging.OpenFile(a.cfg.LogFile)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, f.Close)

	logger, err := logging.New(logging.Options{Level: a.cfg.LogLevel, Out: f})
	if err != nil {
		return err
	}
	a.log = logger
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
