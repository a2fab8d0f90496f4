//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/internal/store"
)

var _ = Describe("Quest instancing", func() {
	var (
		ctx   context.Context
		hero  domain.AdventurerID
		other domain.AdventurerID
		g1    domain.GuildID
	)

	BeforeEach(func() {
		ctx = context.Background()
		hero = createAdventurer(ctx, "Ada", "ada@example.org")
		other = createAdventurer(ctx, "Grace", "grace@example.org")
		g1 = createGuild(ctx, "G1")
	})

	describe := func(id domain.QuestID) *quest.Described {
		GinkgoHelper()
		d, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (*quest.Described, error) {
			return quest.Describe(ctx, tx, id)
		})
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	Describe("availability", func() {
		It("hides a one-shot action once accepted and restores it on cancel", func() {
			template := createAction(ctx, g1, quest.Action{Name: "Attend a workshop", XP: 5})
			Expect(available(ctx, hero)).To(ContainElement(template))

			instance := accept(ctx, hero, template)
			Expect(available(ctx, hero)).NotTo(ContainElement(template))
			Expect(available(ctx, other)).To(ContainElement(template))

			write(ctx, func(ctx context.Context, tx store.Tx) error {
				return quest.Cancel(ctx, tx, hero, instance)
			})
			Expect(available(ctx, hero)).To(ContainElement(template))
		})

		It("keeps a repeatable action available however often it is accepted", func() {
			template := createAction(ctx, g1, quest.Action{Name: "Volunteer an hour", XP: 1, Repeatable: true})

			for range 3 {
				accept(ctx, hero, template)
				Expect(available(ctx, hero)).To(ContainElement(template))
			}
		})
	})

	It("copies tasks and details into the instance", func() {
		template := createAction(ctx, g1, quest.Action{
			Name:           "Plant a tree",
			Description:    ptr("Any native species"),
			AdventurerNote: ptr("Send a photo"),
			XP:             10,
			Details:        []string{"Bring gloves", "Water it weekly"},
		})
		instance := accept(ctx, hero, template)
		Expect(instance).NotTo(Equal(template))

		src, dst := describe(template), describe(instance)
		Expect(dst.Quest.Type).To(Equal(domain.QuestTypeInstance))
		Expect(dst.Quest.ParentQuestID).To(HaveValue(Equal(template)))
		Expect(dst.Quest.GuildID).To(Equal(g1))

		Expect(dst.Tasks).To(HaveLen(len(src.Tasks)))
		for i, task := range dst.Tasks {
			want := src.Tasks[i]
			Expect(task.ID).NotTo(Equal(want.ID))
			Expect(task.QuestID).To(Equal(instance))
			want.ID, want.QuestID = task.ID, task.QuestID
			Expect(task).To(Equal(want))
		}

		Expect(dst.Details).To(HaveLen(len(src.Details)))
		for i, detail := range dst.Details {
			Expect(detail.QuestID).To(Equal(instance))
			Expect(detail.Description).To(Equal(src.Details[i].Description))
		}
	})

	Describe("completion", func() {
		It("closes the instance and lists it with its xp", func() {
			template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})
			instance := accept(ctx, hero, template)

			write(ctx, func(ctx context.Context, tx store.Tx) error {
				return quest.Complete(ctx, tx, hero, instance)
			})

			Expect(describe(instance).Quest.CloseDate).NotTo(BeNil())
			Expect(describe(instance).Quest.Lifecycle()).To(Equal(domain.LifecycleClosed))

			completed, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) ([]domain.CompletedAction, error) {
				return quest.Completed(ctx, tx, hero)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(completed).To(ContainElement(And(
				HaveField("QuestID", instance),
				HaveField("XP", int32(10)),
			)))
		})

		It("rejects adventurers who never accepted the instance", func() {
			template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})
			instance := accept(ctx, hero, template)

			for _, transition := range []func(context.Context, store.Tx, domain.AdventurerID, domain.QuestID) error{quest.Complete, quest.Cancel} {
				err := db.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
					return transition(ctx, tx, other, instance)
				})
				Expect(domain.CodeOf(err)).To(Equal(domain.CodeNotPartyMember))
			}
		})

		It("reports a missing instance as not found", func() {
			for _, transition := range []func(context.Context, store.Tx, domain.AdventurerID, domain.QuestID) error{quest.Complete, quest.Cancel} {
				err := db.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
					return transition(ctx, tx, hero, domain.QuestID(9999))
				})
				Expect(domain.CodeOf(err)).To(Equal(domain.CodeQuestNotFound))
			}
		})

		It("still completes an instance whose action was retired", func() {
			template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})
			instance := accept(ctx, hero, template)

			write(ctx, func(ctx context.Context, tx store.Tx) error {
				return quest.RetireAction(ctx, tx, g1, template)
			})

			active, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) ([]domain.QuestAction, error) {
				return quest.GuildActions(ctx, tx, g1)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(active).NotTo(ContainElement(HaveField("ID", template)))

			write(ctx, func(ctx context.Context, tx store.Tx) error {
				return quest.Complete(ctx, tx, hero, instance)
			})
			Expect(describe(instance).Quest.CloseDate).NotTo(BeNil())
		})
	})

	It("rejects actions published under another guild", func() {
		g2 := createGuild(ctx, "G2")
		template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})

		err := db.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
			return quest.RetireAction(ctx, tx, g2, template)
		})
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeQuestNotBelongToGuild))
	})

	It("refuses to retire or edit an adventurer's instance as a guild action", func() {
		template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})
		instance := accept(ctx, hero, template)

		err := db.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
			return quest.RetireAction(ctx, tx, g1, instance)
		})
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeQuestNotFound))

		err = db.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
			return quest.EditAction(ctx, tx, g1, instance, quest.Action{Name: "Renamed", XP: 1})
		})
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeQuestNotFound))
		Expect(describe(instance).Quest.DeletedDate).To(BeNil())
	})

	It("reports participation per template", func() {
		template := createAction(ctx, g1, quest.Action{Name: "Plant a tree", XP: 10})
		instance := accept(ctx, hero, template)

		participants, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) ([]domain.Participant, error) {
			return quest.Participation(ctx, tx, template)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(participants).To(ConsistOf(And(
			HaveField("AdventurerID", hero),
			HaveField("InstanceID", instance),
			HaveField("CompletedDate", BeNil()),
		)))
	})
})
