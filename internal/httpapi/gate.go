// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/store"
)

// bearerToken extracts the token of an "Authorization: Bearer" header, or "".
// The scheme is matched case-insensitively and must be followed by a space.
func bearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// The gates below run inside the transaction of the operation they guard so
// the check and the mutation see the same state. They pass unconditionally
// when enforcement is off.

func (a *API) requireSuperUser(ctx context.Context, tx store.Tx, r *http.Request) error {
	if !a.enforce {
		return nil
	}
	actor, err := auth.Authorize(ctx, tx, bearerToken(r))
	if err != nil {
		return err
	}
	return permission.RequireSuperUser(ctx, tx, actor)
}

func (a *API) requireSelf(ctx context.Context, tx store.Tx, r *http.Request, target domain.AdventurerID) error {
	if !a.enforce {
		return nil
	}
	actor, err := auth.Authorize(ctx, tx, bearerToken(r))
	if err != nil {
		return err
	}
	return permission.RequireSelfOrSuperUser(ctx, tx, actor, target)
}

func (a *API) requireGuildLeader(ctx context.Context, tx store.Tx, r *http.Request, guild domain.GuildID) error {
	if !a.enforce {
		return nil
	}
	actor, err := auth.Authorize(ctx, tx, bearerToken(r))
	if err != nil {
		return err
	}
	return permission.RequireGuildLeaderOrSuperUser(ctx, tx, actor, guild)
}
