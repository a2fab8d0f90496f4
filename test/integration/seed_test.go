//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/guild"
	"github.com/deiadventures/guildhall/internal/seed"
	"github.com/deiadventures/guildhall/internal/store"
)

// loadDemo loads the built-in demo document and returns the load summary.
func loadDemo(ctx context.Context) *seed.Result {
	GinkgoHelper()
	doc, err := seed.Parse(seed.Demo)
	Expect(err).NotTo(HaveOccurred())
	plan, err := seed.Prepare(doc, cheapHasher())
	Expect(err).NotTo(HaveOccurred())

	res, err := store.WriteValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (*seed.Result, error) {
		return seed.Load(ctx, tx, plan)
	})
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Demo data", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("creates adventurers, guilds and actions", func() {
		res := loadDemo(ctx)
		Expect(res.Adventurers).To(HaveLen(3))
		Expect(res.Guilds).To(HaveLen(2))
		Expect(res.Actions).To(Equal(3))
		Expect(res.Skipped).To(BeZero())

		guilds, err := store.ReadValue(ctx, db.Store, guild.List)
		Expect(err).NotTo(HaveOccurred())
		Expect(guilds).To(ContainElement(And(
			HaveField("Name", "Allies Guild"),
			HaveField("LeaderName", HaveValue(Equal("Lee Leader"))),
		)))
	})

	It("skips everything on a second load", func() {
		loadDemo(ctx)
		res := loadDemo(ctx)
		Expect(res.Adventurers).To(BeEmpty())
		Expect(res.Guilds).To(BeEmpty())
		Expect(res.Skipped).To(Equal(5))

		guilds, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) ([]domain.Guild, error) {
			return guild.List(ctx, tx)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(guilds).To(HaveLen(2))
	})
})
