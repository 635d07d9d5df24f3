package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gi8lino/ticketbridge/internal/actions"
	"github.com/gi8lino/ticketbridge/internal/config"
	"github.com/gi8lino/ticketbridge/internal/flag"
	"github.com/gi8lino/ticketbridge/internal/jira"
	"github.com/gi8lino/ticketbridge/internal/logging"
	"github.com/gi8lino/ticketbridge/internal/server"
	"github.com/gi8lino/ticketbridge/internal/telemetry"
	"github.com/gi8lino/ticketbridge/internal/templates"
	"github.com/gi8lino/ticketbridge/internal/utils"

	"github.com/containeroo/tinyflags"
	"github.com/joho/godotenv"
)

// Run starts the ticketbridge application.
func Run(ctx context.Context, version, commit string, args []string, w io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, w)

	logger.Info("Starting ticketbridge",
		"version", version,
		"commit", commit,
	)

	// Environment for env: references
	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil {
			return fmt.Errorf("loading env file error: %w", err)
		}
		logger.Debug("loaded env file", "path", flags.EnvFile)
	}

	// Tracing
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       flags.OTelURL,
		Headers:        flags.OTelHeaders,
		ServiceName:    "ticketbridge",
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("telemetry setup error: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}()
	if tel != nil {
		logger.Info("exporting traces", "endpoint", flags.OTelURL)
	}

	// Load and validate config
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	if err := config.ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	// Setup jira client
	var bearer, email, token string
	if b := cfg.Jira.Auth.Bearer; b != nil {
		bearer = b.Token
	}
	if b := cfg.Jira.Auth.Basic; b != nil {
		email, token = b.Username, b.Password
	}
	auth, method, err := jira.ResolveAuth(bearer, email, token)
	if err != nil {
		return fmt.Errorf("jira auth error: %w", err)
	}
	c := jira.NewClient(cfg.APIURL(), auth, cfg.Jira.SkipTLS(), cfg.Jira.Timeout)

	logger.Debug("jira auth",
		"method", method,
		"header", utils.ObfuscateHeader(utils.GetAuthorizationHeader(auth)),
	)

	// Action messages
	successMsg, err := templates.ParseMessage("transitionSuccess", cfg.Messages.TransitionSuccess)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	svc := actions.NewService(c, logger, actions.Options{
		BrowseURL:      cfg.Jira.BrowseURL,
		SearchEndpoint: cfg.Search.Endpoint,
		MaxResults:     cfg.Search.MaxResults,
		SuccessMessage: successMsg,
	})
	dispatcher := actions.NewDispatcher(svc, logger)

	// Setup Server and run forever
	router := server.NewRouter(dispatcher, logger, flags.Debug, flags.RoutePrefix)
	err = server.RunHTTPServer(ctx, router, flags.ListenAddr, logger)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server exited with error", "error", err)
	}

	return err
}
