// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/guild"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/pkg/errutil"
)

const (
	codeBadRequest = "BAD_REQUEST"
	codeNoRoute    = "NO_ROUTE"
	codeInternal   = "INTERNAL_ERROR"

	maxBodyBytes = 1 << 20
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusOf maps an error code to the status a client sees.
func statusOf(code string) int {
	switch code {
	case domain.CodeAdventurerNotFound, domain.CodeGuildNotFound, domain.CodeQuestNotFound,
		domain.CodeAdventurerNotFoundEmail:
		return http.StatusNotFound
	case domain.CodeNotPartyMember, domain.CodeQuestNotBelongToGuild, domain.CodeAccountAlreadyExists,
		codeBadRequest, guild.CodeInvalidName, quest.CodeInvalidAction, auth.CodeInvalidAccount:
		return http.StatusBadRequest
	case domain.CodeUnauthorizedLogin, domain.CodeSessionNotFound, domain.CodeInsufficientPermissions:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// handlerFunc is a route body. A returned error is written as the response.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *API) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			a.writeErr(w, r, err)
		}
	})
}

func (a *API) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.CodeOf(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		errutil.LogErrorAt(r.Context(), a.logger, slog.LevelError, "request failed", err)
		msg := "internal error"
		if code == domain.CodeStorage {
			msg = "database access failed"
		}
		if code == "" {
			code = codeInternal
		}
		writeError(w, status, code, msg)
		return
	}
	writeError(w, status, code, err.Error())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload) //nolint:errcheck // client may have gone away
}

func ok(w http.ResponseWriter, payload any) error {
	writeJSON(w, http.StatusOK, payload)
	return nil
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusOK)
	return nil
}

func badRequest(format string, args ...any) error {
	return oops.Code(codeBadRequest).Errorf(format, args...)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return oops.Code(codeBadRequest).Wrapf(err, "malformed request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}

func pathAdventurer(r *http.Request) (domain.AdventurerID, error) {
	id, err := pathID(r, "user_id")
	return domain.AdventurerID(id), err
}

func pathGuild(r *http.Request) (domain.GuildID, error) {
	id, err := pathID(r, "guild_id")
	return domain.GuildID(id), err
}

func pathQuest(r *http.Request) (domain.QuestID, error) {
	id, err := pathID(r, "quest_id")
	return domain.QuestID(id), err
}
