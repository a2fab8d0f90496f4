//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package integration

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/mail"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/store"
)

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

var _ = Describe("Accounts and sessions", func() {
	var (
		ctx     context.Context
		service *auth.Service
		mails   *outbox
	)

	sessions := func() int {
		GinkgoHelper()
		n, err := store.ReadValue(ctx, db.Store, func(ctx context.Context, tx store.Tx) (int, error) {
			var n int
			err := tx.QueryRow(ctx, `SELECT count(*) FROM auth_sessions`).Scan(&n)
			return n, err
		})
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	BeforeEach(func() {
		ctx = context.Background()
		mails = &outbox{}
		var err error
		service, err = auth.NewService(auth.ServiceConfig{
			Store:   db.Store,
			Hasher:  cheapHasher(),
			Mailer:  mails,
			SiteURL: "https://adventures.example.org",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates no session for a wrong password", func() {
		_, err := service.CreateAccount(ctx, "Ada", "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Login(ctx, "ada@example.org", "battery staple")
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeUnauthorizedLogin))
		Expect(sessions()).To(BeZero())
	})

	It("resolves a login token back to the adventurer until logout", func() {
		id, err := service.CreateAccount(ctx, "Ada", "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())

		session, err := service.Login(ctx, "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())
		Expect(session.AdventurerID).To(Equal(id))
		Expect(session.TimeToLive).To(Equal(domain.DefaultSessionTTL))

		resolved, err := service.Authorize(ctx, session.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved).To(Equal(id))

		Expect(service.Logout(ctx, session.Token)).To(Succeed())
		_, err = service.Authorize(ctx, session.Token)
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeSessionNotFound))
		Expect(domain.CodeOf(service.Logout(ctx, session.Token))).To(Equal(domain.CodeSessionNotFound))
	})

	It("refuses a second account for the same email", func() {
		_, err := service.CreateAccount(ctx, "Ada", "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())

		_, err = service.CreateAccount(ctx, "Ada again", "ada@example.org", "other")
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeAccountAlreadyExists))
	})

	It("lets only the owner or a superuser change a password", func() {
		ada, err := service.CreateAccount(ctx, "Ada", "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())
		grace, err := service.CreateAccount(ctx, "Grace", "grace@example.org", "cobol")
		Expect(err).NotTo(HaveOccurred())

		graceSession, err := service.Login(ctx, "grace@example.org", "cobol")
		Expect(err).NotTo(HaveOccurred())
		err = service.SetPassword(ctx, graceSession.Token, ada, "stolen")
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeInsufficientPermissions))

		write(ctx, func(ctx context.Context, tx store.Tx) error {
			return permission.Set(ctx, tx, grace, domain.PermissionSuperUser, true)
		})
		Expect(service.SetPassword(ctx, graceSession.Token, ada, "reset by admin")).To(Succeed())

		_, err = service.Login(ctx, "ada@example.org", "reset by admin")
		Expect(err).NotTo(HaveOccurred())
	})

	It("mails a replacement password and retires the old one", func() {
		_, err := service.CreateAccount(ctx, "Ada", "ada@example.org", "correct horse")
		Expect(err).NotTo(HaveOccurred())

		service.ForgotPassword(ctx, "ada@example.org")
		service.ForgotPassword(ctx, "nobody@example.org")

		Expect(mails.sent).To(ConsistOf(HaveField("To", "ada@example.org")))
		_, err = service.Login(ctx, "ada@example.org", "correct horse")
		Expect(domain.CodeOf(err)).To(Equal(domain.CodeUnauthorizedLogin))
	})
})
