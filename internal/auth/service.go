// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/mail"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
	"github.com/deiadventures/guildhall/pkg/errutil"
)

// Service implements the account and session operations.
type Service struct {
	store   *store.Store
	hasher  PasswordHasher
	mailer  mail.Sender
	siteURL string
	logger  *slog.Logger
}

// ServiceConfig carries the collaborators of a Service.
type ServiceConfig struct {
	Store  *store.Store
	Hasher PasswordHasher
	Mailer mail.Sender
	// SiteURL is placed in password reset mails.
	SiteURL string
	Logger  *slog.Logger
}

// NewService validates cfg and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	switch {
	case cfg.Store == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("store is required")
	case cfg.Hasher == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	case cfg.Mailer == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("mail sender is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   cfg.Store,
		hasher:  cfg.Hasher,
		mailer:  cfg.Mailer,
		siteURL: cfg.SiteURL,
		logger:  logger,
	}, nil
}

// CreateAccount registers a new adventurer.
func (s *Service) CreateAccount(ctx context.Context, name, email, password string) (domain.AdventurerID, error) {
	secret, err := NewSecret(s.hasher, password)
	if err != nil {
		return 0, err
	}
	return store.WriteValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (domain.AdventurerID, error) {
		return CreateAccount(ctx, tx, name, email, secret)
	})
}

// Login checks password against the account registered for email and opens
// a session. A failed login creates no session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.LoginSession, error) {
	creds, err := store.ReadValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (*domain.Credentials, error) {
		return repository.CredentialsByEmail(ctx, tx, email)
	})
	if err != nil {
		Logins.WithLabelValues("error").Inc()
		return nil, err
	}
	if creds == nil {
		Logins.WithLabelValues("not_found").Inc()
		return nil, domain.AdventurerNotFoundByEmail(email)
	}

	ok, err := s.hasher.Verify(password, creds.Hash, creds.Salt)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password could not be verified",
			"adventurer_id", int64(creds.AdventurerID), "error", err)
	}
	if err != nil || !ok {
		Logins.WithLabelValues("unauthorized").Inc()
		return nil, domain.UnauthorizedLogin()
	}

	token, err := GenerateToken()
	if err != nil {
		Logins.WithLabelValues("error").Inc()
		return nil, err
	}
	session, err := store.WriteValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (*domain.AuthSession, error) {
		return repository.InsertSession(ctx, tx, creds.AdventurerID, HashSessionToken(token), domain.DefaultSessionTTL)
	})
	if err != nil {
		Logins.WithLabelValues("error").Inc()
		return nil, err
	}

	Logins.WithLabelValues("success").Inc()
	return &domain.LoginSession{
		SessionID:    session.ID,
		AdventurerID: session.AdventurerID,
		Token:        token,
		StartTime:    session.StartTime,
		TimeToLive:   session.TimeToLive,
	}, nil
}

// Authorize resolves a bearer token to its adventurer. Session lifetimes are
// recorded but not enforced.
func (s *Service) Authorize(ctx context.Context, token string) (domain.AdventurerID, error) {
	return store.ReadValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (domain.AdventurerID, error) {
		return Authorize(ctx, tx, token)
	})
}

// Authorize resolves token inside an open transaction.
func Authorize(ctx context.Context, tx store.Tx, token string) (domain.AdventurerID, error) {
	if token == "" {
		return 0, domain.SessionNotFound()
	}
	session, err := repository.SessionByTokenHash(ctx, tx, HashSessionToken(token))
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, domain.SessionNotFound()
	}
	return session.AdventurerID, nil
}

// Logout ends the session identified by token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
		n, err := repository.DeleteSessionByTokenHash(ctx, tx, HashSessionToken(token))
		if err != nil {
			return err
		}
		store.AtMostOne(n, "delete session")
		if n == 0 {
			return domain.SessionNotFound()
		}
		return nil
	})
}

// SetPassword replaces the password of target. The caller identified by
// token must be target or a superuser. The target keeps its salt.
func (s *Service) SetPassword(ctx context.Context, token string, target domain.AdventurerID, password string) error {
	if password == "" {
		return oops.Code(CodeInvalidAccount).Errorf("password is required")
	}

	salt, err := store.ReadValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (string, error) {
		actor, err := Authorize(ctx, tx, token)
		if err != nil {
			return "", err
		}
		if err := permission.RequireSelfOrSuperUser(ctx, tx, actor, target); err != nil {
			return "", err
		}
		salt, found, err := repository.PasswordSalt(ctx, tx, target)
		if err != nil {
			return "", err
		}
		if !found {
			return "", domain.AdventurerNotFound(&target)
		}
		return salt, nil
	})
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		return domain.CannotComputeHash(err)
	}

	return s.store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
		n, err := repository.UpdatePasswordHash(ctx, tx, target, hash)
		if err != nil {
			return err
		}
		store.ExactlyOne(n, "update password hash")
		return nil
	})
}

// ForgotPassword replaces the password registered for email with a generated
// one and mails it. The outcome is never reported to the caller so the
// endpoint does not reveal which addresses are registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	if err := s.resetPassword(ctx, email); err != nil {
		errutil.LogErrorAt(ctx, s.logger, slog.LevelWarn, "password reset failed", err)
	}
}

func (s *Service) resetPassword(ctx context.Context, email string) error {
	password, err := GenerateToken()
	if err != nil {
		return err
	}

	creds, err := store.ReadValue(ctx, s.store, func(ctx context.Context, tx store.Tx) (*domain.Credentials, error) {
		return repository.CredentialsByEmail(ctx, tx, email)
	})
	if err != nil {
		return err
	}
	if creds == nil {
		return domain.AdventurerNotFoundByEmail(email)
	}

	hash, err := s.hasher.Hash(password, creds.Salt)
	if err != nil {
		return domain.CannotComputeHash(err)
	}

	err = s.store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
		n, err := repository.UpdatePasswordHash(ctx, tx, creds.AdventurerID, hash)
		if err != nil {
			return err
		}
		store.ExactlyOne(n, "reset password hash")
		return nil
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, mail.PasswordReset(email, password, s.siteURL))
}
