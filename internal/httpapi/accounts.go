// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/store"
)

// Permission routes are registered per flag.
const (
	permApproved            = domain.PermissionApproved
	permRejected            = domain.PermissionRejected
	permSuperUser           = domain.PermissionSuperUser
	permGuildLeaderEligible = domain.PermissionGuildLeaderEligible
)

func (a *API) allowedLeaders(w http.ResponseWriter, r *http.Request) error {
	leaders, err := store.ReadValue(r.Context(), a.store, permission.AllowedLeaders)
	if err != nil {
		return err
	}
	out := make([]allowedLeaderDTO, 0, len(leaders))
	for _, l := range leaders {
		out = append(out, allowedLeaderDTO{ID: int64(l.ID), Name: l.Name})
	}
	return ok(w, out)
}

func (a *API) setPermission(p domain.PermissionType) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := pathAdventurer(r)
		if err != nil {
			return err
		}
		var req setPermRequest
		if err := decode(r, &req); err != nil {
			return err
		}
		if req.Set == nil {
			return badRequest("set is required")
		}
		err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
			if err := a.requireSuperUser(ctx, tx, r); err != nil {
				return err
			}
			return permission.Set(ctx, tx, user, p, *req.Set)
		})
		if err != nil {
			return err
		}
		return noContent(w)
	}
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) error {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	id, err := a.auth.CreateAccount(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(w, leaderDTO{ID: int64(id)})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	session, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(w, newLoginResponse(session))
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) error {
	if err := a.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) setPassword(w http.ResponseWriter, r *http.Request) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if err := a.auth.SetPassword(r.Context(), bearerToken(r), user, req.Password); err != nil {
		return err
	}
	return noContent(w)
}

// forgotPassword answers 200 whether or not the email is registered.
func (a *API) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req emailRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	a.auth.ForgotPassword(r.Context(), req.Email)
	return noContent(w)
}
