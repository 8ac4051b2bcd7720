/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines the Broadcaster, the fan-out primitive used by the Router and the
connection lifecycle. Every send is a non-blocking enqueue onto the recipient's queue; a
recipient that cannot accept a message is closed and goes through the regular teardown.
*/
package chat

import (
	"errors"
	"slices"

	"github.com/rs/zerolog"
)

// Broadcaster delivers encoded messages to registered clients.
type Broadcaster struct {
	registry *Registry
	metrics  *Metrics
	logger   zerolog.Logger
}

// NewBroadcaster returns a Broadcaster over the clients of registry.
func NewBroadcaster(registry *Registry, metrics *Metrics, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// SendTo delivers msg to a single client. It reports whether the message was queued.
func (b *Broadcaster) SendTo(c *Client, msg OutboundMessage) bool {
	return b.deliver(c, msg.Kind, msg.Encode())
}

// SendToAll delivers msg to every registered client.
func (b *Broadcaster) SendToAll(msg OutboundMessage) int {
	return b.fanOut(b.registry.Clients(), msg)
}

// SendToAllExcept delivers msg to every registered client other than except.
func (b *Broadcaster) SendToAllExcept(except *Client, msg OutboundMessage) int {
	recipients := slices.DeleteFunc(b.registry.Clients(), func(c *Client) bool {
		return c == except
	})
	return b.fanOut(recipients, msg)
}

// SendPresence delivers the current presence list to every registered client.
// Recipients and list come from the same registry snapshot.
func (b *Broadcaster) SendPresence() int {
	recipients, names := b.registry.Presence()
	return b.fanOut(recipients, UserListMessage(names))
}

// fanOut encodes once and returns the number of recipients that accepted the message.
func (b *Broadcaster) fanOut(recipients []*Client, msg OutboundMessage) int {
	payload := msg.Encode()

	delivered := 0
	for _, c := range recipients {
		if b.deliver(c, msg.Kind, payload) {
			delivered++
		}
	}
	return delivered
}

func (b *Broadcaster) deliver(c *Client, kind MessageKind, payload []byte) bool {
	if err := c.enqueue(payload); err != nil {
		b.metrics.DroppedSends.Add(1)
		if errors.Is(err, errClientClosed) {
			return false
		}
		b.logger.Warn().
			Err(err).
			Str("conn_id", c.ID()).
			Str("kind", kind.String()).
			Msg("Send failed, closing recipient.")
		c.Close()
		return false
	}

	if kind == KindServerNotice {
		b.metrics.Notices.Add(1)
	}
	return true
}
