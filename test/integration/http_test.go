//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/httpapi"
	"github.com/deiadventures/guildhall/internal/mail"
)

type apiClient struct {
	base  string
	token string
}

func (c *apiClient) do(method, path string, body any, out any) int {
	GinkgoHelper()
	var payload bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&payload).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequest(method, c.base+path, &payload)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}
	return resp.StatusCode
}

func (c *apiClient) login(email, password string) int64 {
	GinkgoHelper()
	var session struct {
		ID    int64  `json:"id"`
		Token string `json:"token"`
	}
	Expect(c.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &session)).
		To(Equal(http.StatusOK))
	c.token = session.Token
	return session.ID
}

var _ = Describe("HTTP API", func() {
	var (
		server *httptest.Server
		admin  *apiClient
		rookie *apiClient
	)

	BeforeEach(func() {
		loadDemo(context.Background())

		service, err := auth.NewService(auth.ServiceConfig{
			Store:  db.Store,
			Hasher: cheapHasher(),
			Mailer: mail.NewLogSender(nil),
		})
		Expect(err).NotTo(HaveOccurred())
		api, err := httpapi.New(httpapi.Options{
			Store:              db.Store,
			Auth:               service,
			EnforcePermissions: true,
		})
		Expect(err).NotTo(HaveOccurred())

		server = httptest.NewServer(api.Handler())
		DeferCleanup(server.Close)

		admin = &apiClient{base: server.URL}
		rookie = &apiClient{base: server.URL}
	})

	It("runs a quest from publication to completion", func() {
		admin.login("admin@example.org", "demo-admin")
		rookieID := rookie.login("rookie@example.org", "demo-rookie")

		var guildID int64
		Expect(admin.do(http.MethodPost, "/guild", map[string]any{"name": "G1"}, &guildID)).To(Equal(http.StatusOK))

		var created struct {
			QuestID int64 `json:"quest_id"`
		}
		Expect(admin.do(http.MethodPost, fmt.Sprintf("/guild/%d/quest-action", guildID),
			map[string]any{"description": "Plant a tree", "xp": 10}, &created)).To(Equal(http.StatusOK))

		var accepted struct {
			QuestID int64 `json:"quest_id"`
		}
		Expect(rookie.do(http.MethodPut, fmt.Sprintf("/user/%d/accept-quest", rookieID),
			map[string]any{"quest_id": created.QuestID}, &accepted)).To(Equal(http.StatusOK))
		Expect(accepted.QuestID).NotTo(Equal(created.QuestID))

		Expect(rookie.do(http.MethodPut, fmt.Sprintf("/user/%d/complete-quest", rookieID),
			map[string]any{"quest_id": accepted.QuestID}, nil)).To(Equal(http.StatusOK))

		var completed []struct {
			QuestID       int64  `json:"quest_id"`
			TaskName      string `json:"description"`
			XP            int32  `json:"xp"`
			CompletedDate int64  `json:"completed_date"`
		}
		Expect(rookie.do(http.MethodGet, fmt.Sprintf("/user/%d/completed-quest-actions", rookieID), nil, &completed)).
			To(Equal(http.StatusOK))
		Expect(completed).To(ContainElement(And(
			HaveField("QuestID", accepted.QuestID),
			HaveField("TaskName", "Plant a tree"),
			HaveField("XP", int32(10)),
		)))
	})

	It("keeps administration behind the permission gates", func() {
		rookieID := rookie.login("rookie@example.org", "demo-rookie")

		Expect(rookie.do(http.MethodPost, "/guild", map[string]any{"name": "Rogue Guild"}, nil)).
			To(Equal(http.StatusUnauthorized))
		Expect(rookie.do(http.MethodPut, fmt.Sprintf("/perm/%d/superuser", rookieID), map[string]any{"set": true}, nil)).
			To(Equal(http.StatusUnauthorized))

		anonymous := &apiClient{base: server.URL}
		Expect(anonymous.do(http.MethodPost, "/guild", map[string]any{"name": "Rogue Guild"}, nil)).
			To(Equal(http.StatusUnauthorized))
	})

	It("answers wrong passwords and unknown guilds with stable statuses", func() {
		Expect(rookie.do(http.MethodPost, "/auth/login",
			map[string]string{"email": "rookie@example.org", "password": "nope"}, nil)).To(Equal(http.StatusUnauthorized))
		Expect(rookie.do(http.MethodGet, "/guild/9999/name", nil, nil)).To(Equal(http.StatusNotFound))
	})
})
