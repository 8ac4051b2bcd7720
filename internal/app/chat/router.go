/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines the Router, which turns the Command parsed from an active session's
frame into sends. Routing never fails: bad input degrades to a /server notice.
*/
package chat

import (
	"github.com/rs/zerolog"

	"linechat/internal/pkg/errs"
)

// Router dispatches commands from active sessions.
type Router struct {
	registry    *Registry
	broadcaster *Broadcaster
	metrics     *Metrics
	logger      zerolog.Logger
}

// NewRouter returns a Router over registry that sends through broadcaster.
func NewRouter(registry *Registry, broadcaster *Broadcaster, metrics *Metrics, logger zerolog.Logger) *Router {
	return &Router{
		registry:    registry,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

// Route parses frame and dispatches it on behalf of sender.
func (r *Router) Route(sender *Client, frame string) {
	r.Dispatch(sender, ParseCommand(frame))
}

// Dispatch executes cmd on behalf of sender.
func (r *Router) Dispatch(sender *Client, cmd Command) {
	switch cmd.Kind {
	case CmdEmpty:
		return

	case CmdUsers:
		r.broadcaster.SendTo(sender, UserListMessage(r.registry.Usernames()))

	case CmdPrivate:
		r.routePrivate(sender, cmd)

	case CmdMalformed:
		r.Notify(sender, errs.NewError(errs.ErrMalformedCommand, cmd.Raw))

	case CmdUnknown:
		r.Notify(sender, errs.NewError(errs.ErrUnknownCommand, cmd.Raw))

	case CmdChat:
		from, ok := r.senderName(sender, cmd)
		if !ok {
			return
		}
		r.metrics.ChatMessages.Add(1)
		r.broadcaster.SendToAll(ChatMessage(from, cmd.Text))
	}
}

func (r *Router) routePrivate(sender *Client, cmd Command) {
	from, ok := r.senderName(sender, cmd)
	if !ok {
		return
	}

	target, found := r.registry.Lookup(cmd.Target)
	if !found {
		r.Notify(sender, errs.NewError(errs.ErrTargetNotFound, cmd.Target))
		return
	}

	if r.broadcaster.SendTo(target, PrivateMessage(from, cmd.Text)) {
		r.metrics.PrivateMessages.Add(1)
	}
}

// Notify sends the message of err to c as a /server notice.
func (r *Router) Notify(c *Client, err *errs.CustomError) {
	r.broadcaster.SendTo(c, NoticeMessage(err.Message))
}

// senderName resolves the registered name of sender. Only registered clients reach the
// Router, so a miss means the session was torn down concurrently; the frame is dropped.
func (r *Router) senderName(sender *Client, cmd Command) (string, bool) {
	name, ok := r.registry.UsernameOf(sender)
	if !ok {
		r.logger.Warn().
			Str("conn_id", sender.ID()).
			Str("command", cmd.Kind.String()).
			Msg("Dropping frame from unregistered sender.")
	}
	return name, ok
}
