/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines the Client struct, the actor driving one connection end-to-end:
handshake (the first frame is the username), the active read loop feeding the Router,
the write pump draining the send queue, and teardown.
*/
package chat

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"linechat/internal/pkg/errs"
	"linechat/internal/pkg/logx"
	"linechat/internal/pkg/randx"
)

const (
	// MaxUsernameRunes bounds the length of a username.
	MaxUsernameRunes = 32

	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

var (
	errClientClosed  = errors.New("client closed")
	errSendQueueFull = errors.New("client send queue full")
)

// Stream is the transport-owned byte stream a Client drives. net.Conn satisfies it.
type Stream interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Client represents one accepted connection and, after the handshake, its session.
type Client struct {
	// id is a UUID used in logs and gateway responses.
	id string

	// transport is TransportTCP or TransportWebSocket.
	transport string

	// remoteIP is the anonymized peer address.
	remoteIP string

	// underlying transport stream.
	stream Stream

	// manager owning the registry and router.
	manager *Manager

	// username is set by the reader goroutine after a successful Register and only read there.
	username string

	// a buffered queue of encoded messages waiting to be written; a nil entry asks the
	// write pump to close the stream once everything before it is flushed.
	send chan []byte

	// closed when the client shuts down.
	done chan struct{}

	closeOnce sync.Once

	// structured logger with connection context; never reassigned.
	logger zerolog.Logger
}

func newClient(m *Manager, stream Stream, transport, remoteAddr string) *Client {
	id := randx.ConnID()
	remoteIP := logx.AnonymizeIP(remoteAddr)

	return &Client{
		id:        id,
		transport: transport,
		remoteIP:  remoteIP,
		stream:    stream,
		manager:   m,
		send:      make(chan []byte, m.config.SendQueueSize),
		done:      make(chan struct{}),
		logger: logx.Logger().With().
			Str("component", "client").
			Str("conn_id", id).
			Str("transport", transport).
			Str("remote_ip", remoteIP).
			Logger(),
	}
}

// ID returns the connection ID.
func (c *Client) ID() string {
	return c.id
}

// Transport returns the transport name.
func (c *Client) Transport() string {
	return c.transport
}

// RemoteIP returns the anonymized peer address.
func (c *Client) RemoteIP() string {
	return c.remoteIP
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// serve runs the connection until the stream fails or is closed.
func (c *Client) serve() {
	defer c.teardown()

	c.logger.Debug().Msg("Connection accepted.")

	decoder := NewDecoder(c.stream, c.manager.config.MaxLineBytes)

	if !c.handshake(decoder) {
		return
	}

	go c.writePump()

	b := c.manager.broadcaster
	b.SendToAll(JoinMessage(c.username))
	b.SendPresence()

	c.readLoop(decoder)
}

// handshake reads the username frame within the configured bound and registers it.
// It returns false when the connection must be discarded.
func (c *Client) handshake(decoder *Decoder) bool {
	cfg := c.manager.config
	metrics := c.manager.metrics

	if err := c.stream.SetReadDeadline(time.Now().Add(cfg.HandshakeTimeout)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set handshake deadline")
		return false
	}

	frame, err := decoder.Next()
	if err != nil {
		switch {
		case errors.Is(err, ErrLineTooLong):
			metrics.RejectedNames.Add(1)
			c.rejectNow(errs.NewError(errs.ErrInvalidUsername))
		case isTimeout(err):
			metrics.HandshakeTimeouts.Add(1)
			c.logger.Info().Dur("timeout", cfg.HandshakeTimeout).Msg("Handshake timed out.")
			c.rejectNow(errs.NewError(errs.ErrHandshakeTimeout))
		default:
			c.logger.Debug().Err(err).Msg("Connection closed before handshake.")
		}
		return false
	}

	if err := c.stream.SetReadDeadline(time.Time{}); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear handshake deadline")
		return false
	}

	if !ValidUsername(frame) {
		metrics.RejectedNames.Add(1)
		c.logger.Info().Str("username", frame).Msg("Rejected invalid username.")
		c.rejectNow(errs.NewError(errs.ErrInvalidUsername))
		return false
	}

	if _, err := c.manager.registry.Register(frame, c); err != nil {
		metrics.RejectedNames.Add(1)
		c.logger.Info().Str("username", frame).Msg("Rejected duplicate username.")
		c.rejectNow(errs.NewError(errs.CodeOf(err)))
		return false
	}

	c.username = frame
	metrics.Registrations.Add(1)
	c.logger.Info().
		Str("username", frame).
		Int("total_users", c.manager.registry.Count()).
		Msg("Client registered.")
	return true
}

// readLoop feeds frames to the Router until the stream ends.
func (c *Client) readLoop(decoder *Decoder) {
	router := c.manager.router

	for {
		frame, err := decoder.Next()
		if errors.Is(err, ErrLineTooLong) {
			c.logger.Warn().Int("max_line_bytes", c.manager.config.MaxLineBytes).Msg("Discarded oversized line.")
			router.Notify(c, ErrLineTooLong)
			continue
		}
		if err != nil {
			if n := decoder.Buffered(); n > 0 {
				c.logger.Debug().Int("bytes", n).Msg("Dropped unterminated line.")
			}
			c.logStreamEnd(err)
			return
		}

		router.Route(c, frame)
	}
}

// writePump writes queued messages to the stream. Any write failure closes the client,
// which ends the read loop and runs the regular teardown.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return

		case payload := <-c.send:
			if payload == nil {
				c.Close()
				return
			}
			if err := c.write(payload); err != nil {
				c.logger.Warn().Err(err).Msg("Write failed, closing connection.")
				c.Close()
				return
			}
		}
	}
}

func (c *Client) write(payload []byte) error {
	if err := c.stream.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout)); err != nil {
		return err
	}
	_, err := c.stream.Write(payload)
	return err
}

// rejectNow writes a /server notice synchronously and closes the client. It is only used
// before the write pump starts.
func (c *Client) rejectNow(err *errs.CustomError) {
	if writeErr := c.write(NoticeMessage(err.Message).Encode()); writeErr != nil {
		c.logger.Debug().Err(writeErr).Msg("Failed to deliver rejection notice.")
	} else {
		c.manager.metrics.Notices.Add(1)
	}
	c.Close()
}

// enqueue queues payload without blocking.
func (c *Client) enqueue(payload []byte) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return errSendQueueFull
	}
}

// Kick sends reason as a /server notice, then closes the connection once the notice is flushed.
func (c *Client) Kick(reason string) {
	c.logger.Info().Str("reason", reason).Msg("Kicking client.")

	if err := c.enqueue(NoticeMessage(reason).Encode()); err != nil {
		c.Close()
		return
	}
	if err := c.enqueue(nil); err != nil {
		c.Close()
	}
}

// Close shuts the client down. It is safe to call from any goroutine, any number of times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.stream.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Stream close error")
		}
	})
}

// teardown releases the session and announces the departure when one was held.
func (c *Client) teardown() {
	c.Close()

	m := c.manager
	username, registered := m.registry.Unregister(c)
	m.untrack(c)

	if !registered {
		c.logger.Debug().Msg("Unregistered connection closed.")
		return
	}

	m.metrics.Disconnects.Add(1)
	c.logger.Info().
		Str("username", username).
		Int("total_users", m.registry.Count()).
		Msg("Client left.")

	m.broadcaster.SendToAll(LeaveMessage(username))
	m.broadcaster.SendPresence()
}

func (c *Client) logStreamEnd(err error) {
	select {
	case <-c.done:
		c.logger.Debug().Msg("Connection closed by server.")
		return
	default:
	}

	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		c.logger.Debug().Msg("Connection closed by peer.")
		return
	}

	c.logger.Info().
		Err(err).
		Int("code", errs.ErrStreamFailure).
		Msg("Stream failure.")
}

// ValidUsername reports whether name can be registered: 1 to MaxUsernameRunes runes,
// no leading '/', no whitespace and no control characters.
func ValidUsername(name string) bool {
	if name == "" || strings.HasPrefix(name, commandPrefix) {
		return false
	}
	if !utf8.ValidString(name) || utf8.RuneCountInString(name) > MaxUsernameRunes {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == utf8.RuneError {
			return false
		}
	}
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
