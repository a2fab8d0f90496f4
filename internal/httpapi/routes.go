// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import "net/http"

func (a *API) routes(mux *http.ServeMux) {
	mux.Handle("GET /user", a.handle(a.listUsers))
	mux.Handle("GET /user/{user_id}", a.handle(a.getUser))
	mux.Handle("PUT /user/{user_id}/accept-quest", a.handle(a.acceptQuest))
	mux.Handle("PUT /user/{user_id}/complete-quest", a.handle(a.completeQuest))
	mux.Handle("DELETE /user/{user_id}/cancel-quest", a.handle(a.cancelQuest))
	mux.Handle("GET /user/{user_id}/accepted-quest-actions", a.handle(a.acceptedActions))
	mux.Handle("GET /user/{user_id}/completed-quest-actions", a.handle(a.completedActions))
	mux.Handle("GET /user/{user_id}/available-quest-actions", a.handle(a.availableActions))

	mux.Handle("GET /guild", a.handle(a.listGuilds))
	mux.Handle("POST /guild", a.handle(a.createGuild))
	mux.Handle("PUT /guild/{guild_id}", a.handle(a.updateGuild))
	mux.Handle("GET /guild/{guild_id}/name", a.handle(a.guildName))
	mux.Handle("PUT /guild/{guild_id}/name", a.handle(a.renameGuild))
	mux.Handle("GET /guild/{guild_id}/leader", a.handle(a.guildLeader))
	mux.Handle("PUT /guild/{guild_id}/leader", a.handle(a.setGuildLeader))
	mux.Handle("GET /guild/{guild_id}/quest-actions", a.handle(a.guildActions))
	mux.Handle("GET /guild/quest-actions", a.handle(a.allGuildActions))
	mux.Handle("POST /guild/{guild_id}/quest-action", a.handle(a.createAction))
	mux.Handle("PUT /guild/{guild_id}/quest-action", a.handle(a.editAction))
	mux.Handle("DELETE /guild/{guild_id}/quest-action", a.handle(a.retireAction))
	mux.Handle("GET /guild/{guild_id}/participation", a.handle(a.guildParticipation))

	mux.Handle("GET /quest-action/{quest_id}", a.handle(a.describeAction))
	mux.Handle("GET /quest-action/{quest_id}/participation", a.handle(a.actionParticipation))

	mux.Handle("GET /perm/allowed-leaders", a.handle(a.allowedLeaders))
	mux.Handle("PUT /perm/{user_id}/accepted", a.handle(a.setPermission(permApproved)))
	mux.Handle("PUT /perm/{user_id}/rejected", a.handle(a.setPermission(permRejected)))
	mux.Handle("PUT /perm/{user_id}/superuser", a.handle(a.setPermission(permSuperUser)))
	mux.Handle("PUT /perm/{user_id}/eligible-guild-leader", a.handle(a.setPermission(permGuildLeaderEligible)))

	mux.Handle("POST /auth/account", a.handle(a.createAccount))
	mux.Handle("POST /auth/login", a.handle(a.login))
	mux.Handle("DELETE /auth/logout", a.handle(a.logout))
	mux.Handle("PUT /auth/account/{user_id}/set-password", a.handle(a.setPassword))
	mux.Handle("POST /auth/account/forgot-password", a.handle(a.forgotPassword))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNoRoute, "no route for "+r.URL.Path)
	})
}
