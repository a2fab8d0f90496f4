// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"context"
	"net/http"

	"github.com/deiadventures/guildhall/internal/config"
	"github.com/deiadventures/guildhall/internal/mail"
	"github.com/deiadventures/guildhall/internal/observability"
	"github.com/deiadventures/guildhall/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// Nil fields use their default implementations.
type ServeDeps struct {
	// StoreOpener opens the storage handle.
	// Default: store.Open with the database settings of cfg.
	StoreOpener func(ctx context.Context, cfg *config.Config) (*store.Store, error)

	// MailerFactory builds the password reset mail sender.
	// Default: newMailer
	MailerFactory func(ctx context.Context, cfg config.MailConfig) (mail.Sender, error)

	// APIServerFactory creates the API listener.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, handler http.Handler) Server

	// ObservabilityServerFactory creates the metrics and health listener.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker, regs ...observability.Registration) Server
}

// Server is a listener started and stopped by the serve command.
type Server interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
