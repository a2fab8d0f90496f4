// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package adventurer assembles adventurer summaries for administration.
package adventurer

import (
	"context"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// List returns every adventurer with their roles and permission flags.
func List(ctx context.Context, tx store.Tx) ([]domain.AdventurerSummary, error) {
	adventurers, err := repository.ListAdventurers(ctx, tx)
	if err != nil {
		return nil, err
	}
	roles, err := repository.Roles(ctx, tx)
	if err != nil {
		return nil, err
	}
	perms, err := repository.Permissions(ctx, tx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AdventurerSummary, 0, len(adventurers))
	for _, a := range adventurers {
		out = append(out, domain.AdventurerSummary{
			Adventurer:  a,
			Roles:       roles[a.ID],
			Permissions: perms[a.ID],
		})
	}
	return out, nil
}

// Get returns the summary of a single adventurer.
func Get(ctx context.Context, tx store.Tx, id domain.AdventurerID) (*domain.AdventurerSummary, error) {
	a, err := repository.GetAdventurer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.AdventurerNotFound(&id)
	}

	roles, err := repository.Roles(ctx, tx)
	if err != nil {
		return nil, err
	}
	perms, err := repository.Permissions(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &domain.AdventurerSummary{
		Adventurer:  *a,
		Roles:       roles[id],
		Permissions: perms[id],
	}, nil
}
