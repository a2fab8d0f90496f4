//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/deiadventures/guildhall/internal/adventurer"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/guild"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/store"
)

var _ = Describe("Permissions", func() {
	var (
		ctx  context.Context
		ada  domain.AdventurerID
		rows func(p domain.PermissionType) int
	)

	set := func(p domain.PermissionType, desired bool) {
		GinkgoHelper()
		write(ctx, func(ctx context.Context, tx store.Tx) error {
			return permission.Set(ctx, tx, ada, p, desired)
		})
	}

	has := func(p domain.PermissionType) bool {
		GinkgoHelper()
		ok, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (bool, error) {
			return permission.Has(ctx, tx, ada, p)
		})
		Expect(err).NotTo(HaveOccurred())
		return ok
	}

	BeforeEach(func() {
		ctx = context.Background()
		ada = createAdventurer(ctx, "Ada", "ada@example.org")
		rows = func(p domain.PermissionType) int {
			GinkgoHelper()
			n, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (int, error) {
				var n int
				err := tx.QueryRow(ctx,
					`SELECT count(*) FROM permissions WHERE adventurer_id = $1 AND permission_type = $2`,
					int64(ada), int16(p)).Scan(&n)
				return n, err
			})
			Expect(err).NotTo(HaveOccurred())
			return n
		}
	})

	It("keeps a single row when a flag is set twice", func() {
		set(domain.PermissionApproved, true)
		set(domain.PermissionApproved, true)
		Expect(rows(domain.PermissionApproved)).To(Equal(1))
	})

	It("clears Approved when Rejected is set", func() {
		set(domain.PermissionApproved, true)
		set(domain.PermissionRejected, true)
		Expect(has(domain.PermissionRejected)).To(BeTrue())
		Expect(has(domain.PermissionApproved)).To(BeFalse())
	})

	It("clears Rejected when Approved is set", func() {
		set(domain.PermissionRejected, true)
		set(domain.PermissionApproved, true)
		Expect(has(domain.PermissionApproved)).To(BeTrue())
		Expect(has(domain.PermissionRejected)).To(BeFalse())
	})

	It("leaves unrelated flags alone", func() {
		set(domain.PermissionSuperUser, true)
		set(domain.PermissionGuildLeaderEligible, true)
		set(domain.PermissionSuperUser, false)
		Expect(has(domain.PermissionSuperUser)).To(BeFalse())
		Expect(has(domain.PermissionGuildLeaderEligible)).To(BeTrue())
	})

	It("lists eligible leaders and summarizes roles", func() {
		grace := createAdventurer(ctx, "Grace", "grace@example.org")
		set(domain.PermissionGuildLeaderEligible, true)
		g := createGuild(ctx, "Allies")
		write(ctx, func(ctx context.Context, tx store.Tx) error {
			return guild.SetLeader(ctx, tx, g, &ada)
		})

		leaders, err := store.ReadValue(ctx, db.Store, permission.AllowedLeaders)
		Expect(err).NotTo(HaveOccurred())
		Expect(leaders).To(ConsistOf(HaveField("ID", ada)))
		Expect(leaders).NotTo(ContainElement(HaveField("ID", grace)))

		summary, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (*domain.AdventurerSummary, error) {
			return adventurer.Get(ctx, tx, ada)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Roles).To(ConsistOf(domain.Role{GuildID: g, Name: domain.RoleLeader}))
		Expect(summary.HasPermission(domain.PermissionGuildLeaderEligible)).To(BeTrue())
	})

	It("replaces a guild's leader instead of adding a second one", func() {
		grace := createAdventurer(ctx, "Grace", "grace@example.org")
		g := createGuild(ctx, "Allies")
		for _, leader := range []domain.AdventurerID{ada, grace} {
			write(ctx, func(ctx context.Context, tx store.Tx) error {
				return guild.SetLeader(ctx, tx, g, &leader)
			})
		}

		leader, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (*domain.AdventurerID, error) {
			return guild.Leader(ctx, tx, g)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(leader).To(HaveValue(Equal(grace)))
	})
})
