// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package httpapi maps the quest, guild, permission and account operations
// onto HTTP/JSON routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/store"
)

// Options configure an API.
type Options struct {
	Store *store.Store
	Auth  *auth.Service
	// EnforcePermissions gates administrative and adventurer-scoped
	// mutations on the bearer token's adventurer.
	EnforcePermissions bool
	// CORSOrigins are glob patterns of origins allowed to call the API.
	CORSOrigins []string
	Logger      *slog.Logger
}

// API holds the route handlers.
type API struct {
	store   *store.Store
	auth    *auth.Service
	enforce bool
	origins []glob.Glob
	logger  *slog.Logger

	// abort is called with invariant violations recovered from handlers.
	abort func(*store.InvariantViolation)
}

// New validates opts and compiles the CORS patterns.
func New(opts Options) (*API, error) {
	if opts.Store == nil {
		return nil, oops.Code("HTTPAPI_INVALID_CONFIG").Errorf("store is required")
	}
	if opts.Auth == nil {
		return nil, oops.Code("HTTPAPI_INVALID_CONFIG").Errorf("auth service is required")
	}

	origins := make([]glob.Glob, 0, len(opts.CORSOrigins))
	for _, pattern := range opts.CORSOrigins {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, oops.Code("HTTPAPI_INVALID_CONFIG").With("pattern", pattern).Wrap(err)
		}
		origins = append(origins, g)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		store:   opts.Store,
		auth:    opts.Auth,
		enforce: opts.EnforcePermissions,
		origins: origins,
		logger:  logger,
		abort:   store.Abort,
	}, nil
}

// Handler returns the routes wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.routes(mux)

	var h http.Handler = mux
	h = a.recoverPanics(h)
	h = a.cors(h)
	h = a.observe(h)
	return h
}
