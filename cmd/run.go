package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/app"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/auth"
	"github.com/abhisek/quizdesk/internal/config"
	"github.com/abhisek/quizdesk/internal/logging"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/screens/home"
	"github.com/abhisek/quizdesk/internal/store"
)

// runtime holds the services built from configuration.
type runtime struct {
	cfg      config.Config
	log      *logrus.Logger
	logClose io.Closer
	store    *store.Store
	client   *api.Client
	engine   *attempt.Engine
	identity auth.Identity
}

// loadConfig resolves settings from the .env file, the environment and
// the command-line flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := flags.GetString("token"); v != "" {
		cfg.Token = v
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path from configuration, then the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// setup opens the store, builds the API client and restores the current
// attempt. The caller must Close the runtime.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logClose, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	rt := &runtime{cfg: cfg, log: logger, logClose: logClose}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.store = st

	client, err := api.New(cfg.API(), api.WithLogger(logger))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("create API client: %w", err)
	}
	rt.client = client

	rt.engine = attempt.NewEngine(client, attempt.NewSlotPersister(st.Slots()),
		attempt.WithThreshold(cfg.SimilarityThreshold),
		attempt.WithLogger(logger),
	)
	if _, err := rt.engine.Restore(cmd.Context()); err != nil {
		// A corrupt slot should not lock the user out.
		logger.WithError(err).Warn("restore attempt")
		fmt.Fprintln(os.Stderr, "Could not restore the saved attempt:", err)
	}

	rt.identity = resolveIdentity(cfg.Token, logger)
	logger.WithFields(logrus.Fields{
		"api_url": cfg.APIURL,
		"db":      dbPath,
		"user_id": rt.identity.UserID,
	}).Debug("runtime ready")
	return rt, nil
}

func resolveIdentity(token string, log logrus.FieldLogger) auth.Identity {
	id, err := auth.Parse(token)
	switch {
	case errors.Is(err, auth.ErrNoToken):
		fmt.Fprintln(os.Stderr, "No session token configured; set QUIZDESK_TOKEN or pass --token.")
	case err != nil:
		log.WithError(err).Warn("parse session token")
		fmt.Fprintln(os.Stderr, "Session token could not be read:", err)
	case id.Expired(time.Now()):
		fmt.Fprintln(os.Stderr, "Session token expired at", id.ExpiresAt.Format(time.RFC1123), "- requests may be rejected.")
	}
	return id
}

// Close releases the store and the log file.
func (rt *runtime) Close() error {
	var errs []error
	if rt.store != nil {
		errs = append(errs, rt.store.Close())
	}
	if rt.logClose != nil {
		errs = append(errs, rt.logClose.Close())
	}
	return errors.Join(errs...)
}

func (rt *runtime) homeDeps() home.Deps {
	return home.Deps{
		Platform: rt.client,
		Engine:   rt.engine,
		Results:  rt.store.Results(),
		Identity: rt.identity,
		Debounce: rt.cfg.Debounce,
		Log:      rt.log,
	}
}

// runApp builds dependencies and launches the TUI, optionally with a
// screen opened on top of home.
func runApp(cmd *cobra.Command, initial func(*runtime) screen.Screen) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := app.Options{Home: rt.homeDeps()}
	if initial != nil {
		opts.Initial = initial(rt)
	}
	return app.Run(opts)
}
