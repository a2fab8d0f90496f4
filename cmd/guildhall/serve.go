// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/config"
	"github.com/deiadventures/guildhall/internal/httpapi"
	"github.com/deiadventures/guildhall/internal/mail"
	"github.com/deiadventures/guildhall/internal/observability"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/internal/store"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run-server"},
		Short:   "Start the API server",
		Long: `Start the HTTP API together with the metrics and health listener.
Pending schema migrations are applied before the API accepts requests.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runServeWithDeps(cmd.Context(), cmd, cfg, nil)
}

// metricRegistrations lists every package that exports collectors.
var metricRegistrations = []observability.Registration{
	store.RegisterMetrics,
	quest.RegisterMetrics,
	auth.RegisterMetrics,
	mail.RegisterMetrics,
	httpapi.RegisterMetrics,
}

// runServeWithDeps runs the server until a signal arrives, ctx is cancelled
// or a listener fails. If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, cfg *config.Config, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.StoreOpener == nil {
		deps.StoreOpener = openStore
	}
	if deps.MailerFactory == nil {
		deps.MailerFactory = newMailer
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler) Server {
			return httpapi.NewServer(addr, handler)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker, regs ...observability.Registration) Server {
			return observability.NewServer(addr, ready, regs...)
		}
	}

	logger := slog.Default()
	logger.Info("starting guildhall",
		"version", version,
		"http_addr", cfg.HTTP.Addr,
		"enforce_permissions", cfg.HTTP.EnforcePermissions,
		"mail_backend", cfg.Mail.Backend,
	)

	st, err := deps.StoreOpener(ctx, cfg)
	if err != nil {
		return oops.With("operation", "open store").Wrap(err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if closeErr := st.Close(closeCtx); closeErr != nil {
			logger.Warn("error closing store", "error", closeErr)
		}
	}()
	logger.Info("connected to database")

	mailer, err := deps.MailerFactory(ctx, cfg.Mail)
	if err != nil {
		return oops.With("operation", "create mail sender").Wrap(err)
	}

	authService, err := auth.NewService(auth.ServiceConfig{
		Store:   st,
		Hasher:  auth.NewArgon2idHasher(),
		Mailer:  mailer,
		SiteURL: cfg.Mail.SiteURL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	api, err := httpapi.New(httpapi.Options{
		Store:              st,
		Auth:               authService,
		EnforcePermissions: cfg.HTTP.EnforcePermissions,
		CORSOrigins:        cfg.HTTP.CORSOrigins,
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, api.Handler())
	apiErrChan, err := apiServer.Start()
	if err != nil {
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	var obsServer Server
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, st.Ping, metricRegistrations...)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer stopCancel()
			if stopErr := apiServer.Stop(stopCtx); stopErr != nil {
				logger.Warn("failed to stop api server during cleanup", "error", stopErr)
			}
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Guildhall started")
	logger.Info("guildhall ready", "http_addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// newMailer builds the sender named by cfg.Backend.
func newMailer(ctx context.Context, cfg config.MailConfig) (mail.Sender, error) {
	switch cfg.Backend {
	case config.MailBackendSES:
		sender, err := mail.NewSESSender(ctx, mail.SESConfig{
			From:            cfg.From,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return sender, nil
	case config.MailBackendLog, "":
		return mail.NewLogSender(slog.Default()), nil
	default:
		return nil, oops.Code(config.CodeInvalid).Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// monitorServerErrors cancels ctx when a listener reports an error. It
// returns when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
