package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blenderbox/pbi18n"
	"github.com/blenderbox/pbi18n/cache"
	"github.com/blenderbox/pbi18n/internal/config"
	"github.com/blenderbox/pbi18n/provider"
)

// Terminal seams, replaced in tests.
var (
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

	readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// app carries the global flags and the streams of one CLI invocation.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)

	cfgFile  string
	url      string
	admin    string
	password string
	verbose  bool

	cfg *config.Config
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pbi18n",
		Short: pbi18n.Description,
		Long: `pbi18n reads and seeds i18next translations stored in PocketBase.

Every language/namespace pair lives in its own collection named
<language>_<namespace>, holding one record per key.

Commands:
  read     - print the translations of one namespace
  create   - add a missing key to one or more languages
  import   - seed a namespace from an i18next resource file
  export   - write a JSON snapshot of namespaces
  version  - print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file, .toml or .yaml (default: $"+config.EnvConfig+")")
	flags.StringVar(&a.url, "url", "", "PocketBase URL (default: $"+config.EnvURL+")")
	flags.StringVar(&a.admin, "admin", "", "admin identity (default: $"+config.EnvAdminName+")")
	flags.StringVar(&a.password, "password", "", "admin password (default: $"+config.EnvAdminPassword+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newReadCmd(a),
		newCreateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newVersionCmd(a),
	)

	return root
}

// loadConfig merges the config file, the environment and the flags, in
// that order of precedence from lowest to highest.
func (a *app) loadConfig() error {
	cfg, err := config.LoadOrDefault(a.cfgFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.lookupEnv)

	if a.url != "" {
		cfg.PocketBase.URL = a.url
	}
	if a.admin != "" {
		cfg.PocketBase.AdminName = a.admin
	}
	if a.password != "" {
		cfg.PocketBase.AdminPassword = a.password
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	if cfg.PocketBase.AdminName != "" && cfg.PocketBase.AdminPassword == "" && isTerminal() {
		fmt.Fprintf(a.stderr, "Password for %s: ", cfg.PocketBase.AdminName)
		pw, err := readPassword()
		fmt.Fprintln(a.stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		cfg.PocketBase.AdminPassword = strings.TrimSpace(string(pw))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *app) logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: a.cfg.SlogLevel()}
	if a.cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(a.stderr, opts))
	}
	return slog.New(slog.NewTextHandler(a.stderr, opts))
}

// newBackend builds and initializes a backend from the loaded config. The
// returned cleanup disposes it and releases the cache.
func (a *app) newBackend(ctx context.Context) (*pbi18n.Backend, func(), error) {
	cfg := a.cfg
	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	httpClient := &http.Client{Timeout: cfg.PocketBase.Timeout.Duration}

	opts := []pbi18n.BackendOption{
		pbi18n.WithLogger(a.logger()),
		pbi18n.WithHTTPClient(httpClient),
		pbi18n.WithSourceLanguage(cfg.Translate.SourceLanguage),
	}
	if cfg.PocketBase.PageSize > 0 {
		opts = append(opts, pbi18n.WithPageSize(cfg.PocketBase.PageSize))
	}
	if cfg.PocketBase.AuthPath != "" {
		opts = append(opts, pbi18n.WithAuthPath(cfg.PocketBase.AuthPath))
	}

	if cfg.Cache.Type == "redis" {
		store, err := cache.NewRedisStore(cache.RedisConfig{
			URL:       cfg.Cache.RedisURL,
			TTL:       int(cfg.Cache.TTL.Seconds()),
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		closers = append(closers, func() { _ = store.Close() })
		opts = append(opts, pbi18n.WithStore(store))
	}

	if cfg.Translate.Enabled {
		opts = append(opts, pbi18n.WithValueTranslator(a.translator()))
	}

	b := pbi18n.NewBackend(opts...)
	closers = append(closers, b.Dispose)

	if err := b.Init(ctx, nil, cfg.BackendOptions(), nil); err != nil {
		cleanup()
		return nil, nil, err
	}
	return b, cleanup, nil
}

// translator builds the prefill chain: retries around a rate limit around
// the provider.
func (a *app) translator() pbi18n.ValueTranslator {
	tc := a.cfg.Translate

	var p pbi18n.ValueTranslator
	switch tc.Provider {
	case "mock":
		p = provider.NewMockProvider()
	default:
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:      tc.APIKey,
			Model:       tc.Model,
			Temperature: tc.Temperature,
			BaseURL:     tc.BaseURL,
			AppContext:  tc.AppContext,
		})
	}

	limited := pbi18n.NewRateLimitedTranslator(p, pbi18n.RateLimitConfig{
		RequestsPerMinute: tc.RequestsPerMinute,
	})

	retry := pbi18n.DefaultRetryConfig()
	retry.MaxRetries = tc.MaxRetries
	return pbi18n.NewRetryableTranslator(limited, retry)
}
