// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// CodeInvalidAccount is returned for account fields that cannot be stored.
const CodeInvalidAccount = "INVALID_ACCOUNT"

// Secret is password material ready to be stored.
type Secret struct {
	Hash string
	Salt string
}

// NewSecret salts and hashes password. Hashing failures are reported as
// CANNOT_COMPUTE_HASH.
func NewSecret(hasher PasswordHasher, password string) (Secret, error) {
	if password == "" {
		return Secret{}, oops.Code(CodeInvalidAccount).Errorf("password is required")
	}
	salt, err := hasher.NewSalt()
	if err != nil {
		return Secret{}, domain.CannotComputeHash(err)
	}
	hash, err := hasher.Hash(password, salt)
	if err != nil {
		return Secret{}, domain.CannotComputeHash(err)
	}
	return Secret{Hash: hash, Salt: salt}, nil
}

// CreateAccount inserts an adventurer. The email must not be registered yet.
func CreateAccount(ctx context.Context, tx store.Tx, name, email string, secret Secret) (domain.AdventurerID, error) {
	if strings.TrimSpace(name) == "" {
		return 0, oops.Code(CodeInvalidAccount).Errorf("name is required")
	}
	if !strings.Contains(email, "@") {
		return 0, oops.Code(CodeInvalidAccount).With("email", email).Errorf("email address is invalid")
	}

	taken, err := repository.EmailRegistered(ctx, tx, email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, domain.AccountAlreadyExists()
	}
	return repository.InsertAdventurer(ctx, tx, name, email, secret.Hash, secret.Salt)
}
