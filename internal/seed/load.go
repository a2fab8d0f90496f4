// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package seed

import (
	"context"
	"log/slog"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/guild"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// Plan is a parsed document with its passwords already hashed, so Load does
// no hashing while the write lock is held.
type Plan struct {
	doc     *Document
	secrets []auth.Secret
}

// Prepare hashes every password in doc.
func Prepare(doc *Document, hasher auth.PasswordHasher) (*Plan, error) {
	p := &Plan{doc: doc, secrets: make([]auth.Secret, len(doc.Adventurers))}
	for i, a := range doc.Adventurers {
		secret, err := auth.NewSecret(hasher, a.Password)
		if err != nil {
			return nil, err
		}
		p.secrets[i] = secret
	}
	return p, nil
}

// Created names a row inserted by Load.
type Created struct {
	ID   int64
	Name string
}

// Result summarizes a Load.
type Result struct {
	Adventurers []Created
	Guilds      []Created
	Actions     int
	Skipped     int
}

// Load writes plan through tx. Adventurers whose email is registered and
// guilds whose name exists are skipped, so loading the same document twice
// is a no-op.
func Load(ctx context.Context, tx store.Tx, plan *Plan) (*Result, error) {
	res := &Result{}
	byEmail := make(map[string]domain.AdventurerID, len(plan.doc.Adventurers))

	for i, a := range plan.doc.Adventurers {
		existing, err := repository.CredentialsByEmail(ctx, tx, a.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			slog.InfoContext(ctx, "adventurer exists, skipping", "email", a.Email)
			byEmail[a.Email] = existing.AdventurerID
			res.Skipped++
			continue
		}

		id, err := createChecked(ctx, tx, "adventurers", func() (int64, error) {
			id, err := auth.CreateAccount(ctx, tx, a.Name, a.Email, plan.secrets[i])
			return int64(id), err
		})
		if err != nil {
			return nil, err
		}
		adventurer := domain.AdventurerID(id)
		byEmail[a.Email] = adventurer

		for _, name := range a.Permissions {
			p, err := domain.ParsePermissionType(name)
			if err != nil {
				return nil, err
			}
			if err := permission.Set(ctx, tx, adventurer, p, true); err != nil {
				return nil, err
			}
		}
		res.Adventurers = append(res.Adventurers, Created{ID: id, Name: a.Name})
	}

	existing, err := repository.ListGuilds(ctx, tx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, g := range existing {
		taken[g.Name] = true
	}

	for _, g := range plan.doc.Guilds {
		if taken[g.Name] {
			slog.InfoContext(ctx, "guild exists, skipping", "guild", g.Name)
			res.Skipped++
			continue
		}

		id, err := createChecked(ctx, tx, "guilds", func() (int64, error) {
			id, err := guild.Create(ctx, tx, g.Name)
			return int64(id), err
		})
		if err != nil {
			return nil, err
		}
		gid := domain.GuildID(id)

		for _, a := range g.Actions {
			_, err := quest.CreateAction(ctx, tx, gid, quest.Action{
				Name:           a.Name,
				Description:    optional(a.Description),
				AdventurerNote: optional(a.AdventurerNote),
				XP:             a.XP,
				Repeatable:     a.Repeatable,
				Details:        a.Details,
			})
			if err != nil {
				return nil, err
			}
			res.Actions++
		}

		if g.Leader != "" {
			leader, err := resolveEmail(ctx, tx, byEmail, g.Leader)
			if err != nil {
				return nil, err
			}
			if err := guild.SetLeader(ctx, tx, gid, &leader); err != nil {
				return nil, err
			}
		}
		res.Guilds = append(res.Guilds, Created{ID: id, Name: g.Name})
	}

	return res, nil
}

// createChecked runs insert and asserts that it received the id the table's
// sequence predicted. Writes are serialized, so anything else means another
// writer bypassed the write lock.
func createChecked(ctx context.Context, tx store.Tx, table string, insert func() (int64, error)) (int64, error) {
	want, err := repository.NextInsertID(ctx, tx, table)
	if err != nil {
		return 0, err
	}
	got, err := insert()
	if err != nil {
		return 0, err
	}
	store.Invariant(got == want, "inserted id differs from sequence prediction",
		"table", table, "want", want, "got", got)
	return got, nil
}

func resolveEmail(ctx context.Context, tx store.Tx, known map[string]domain.AdventurerID, email string) (domain.AdventurerID, error) {
	if id, ok := known[email]; ok {
		return id, nil
	}
	creds, err := repository.CredentialsByEmail(ctx, tx, email)
	if err != nil {
		return 0, err
	}
	if creds == nil {
		return 0, domain.AdventurerNotFoundByEmail(email)
	}
	return creds.AdventurerID, nil
}
