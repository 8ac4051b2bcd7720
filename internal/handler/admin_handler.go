/*
Package handler provides the HTTP gateway of the chat relay.

This file contains the operator endpoints: presence listing, kicking a session, server-wide
announcements, and the relay counters in JSON and Prometheus text form.
*/
package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"linechat/internal/pkg/errs"
	"linechat/internal/pkg/logx"
	"linechat/internal/pkg/req"
	"linechat/internal/pkg/resp"
)

// DefaultKickReason is sent to a kicked client when the request gives none.
const DefaultKickReason = "You have been disconnected by the server."

// AnnounceInput is the body of POST /api/announce.
type AnnounceInput struct {
	Text string `json:"text"`
}

// KickInput is the optional body of DELETE /api/users/{username}.
type KickInput struct {
	Reason string `json:"reason,omitempty"`
}

// HandleListUsers returns the live sessions.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := deps.Manager.Users()
		resp.RespondSuccess(w, r, map[string]any{
			"count": len(users),
			"users": users,
		})
	}
}

// HandleKickUser disconnects the session named in the URL.
func HandleKickUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		reason := DefaultKickReason
		if r.ContentLength > 0 {
			var input KickInput
			if customErr := req.BindJSON(w, r, &input); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			if text := strings.Join(strings.Fields(input.Reason), " "); text != "" {
				reason = text
			}
		}

		if !deps.Manager.Kick(username, reason) {
			logx.Info("Kick rejected: user not found.", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound, username))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"username": username,
		})
	}
}

// HandleAnnounce sends a /server notice to every registered client.
func HandleAnnounce(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AnnounceInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(input.Text) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		recipients := deps.Manager.Announce(input.Text)
		resp.RespondSuccess(w, r, map[string]any{
			"recipients": recipients,
		})
	}
}

// HandleStats returns the relay counters as JSON.
func HandleStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Manager.Metrics().Snapshot())
	}
}

// HandleMetrics writes the relay counters in Prometheus text exposition format.
func HandleMetrics(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := deps.Manager.Metrics().Snapshot()

		var b strings.Builder
		write := func(name, help, mtype string, value int64) {
			fmt.Fprintf(&b, "# HELP %s %s\n", name, help)
			fmt.Fprintf(&b, "# TYPE %s %s\n", name, mtype)
			fmt.Fprintf(&b, "%s %d\n", name, value)
		}

		write("linechat_uptime_seconds", "Relay uptime in seconds.", "gauge", s.UptimeSeconds)
		write("linechat_connections_active", "Connections currently open.", "gauge", s.ActiveConnections)
		write("linechat_connections_total", "Connections accepted.", "counter", s.TotalConnections)
		write("linechat_sessions_active", "Registered sessions.", "gauge", int64(deps.Manager.Registry().Count()))
		write("linechat_disconnects_total", "Registered sessions closed.", "counter", s.Disconnects)
		write("linechat_registrations_total", "Successful username registrations.", "counter", s.Registrations)
		write("linechat_rejected_names_total", "Duplicate or invalid usernames.", "counter", s.RejectedNames)
		write("linechat_handshake_timeouts_total", "Connections without a username in time.", "counter", s.HandshakeTimeouts)
		write("linechat_chat_messages_total", "Broadcast chat lines routed.", "counter", s.ChatMessages)
		write("linechat_private_messages_total", "Private messages delivered.", "counter", s.PrivateMessages)
		write("linechat_notices_total", "Server notices sent.", "counter", s.Notices)
		write("linechat_dropped_sends_total", "Sends abandoned on full or closed queues.", "counter", s.DroppedSends)

		resp.RespondText(w, r, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
	}
}
