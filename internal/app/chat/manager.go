/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines the Manager struct, which serves as the central coordinator of the relay.
It owns the Registry, Broadcaster, Router and Metrics, runs the accept loop for stream
listeners, tracks every live connection, and shuts them all down on request.
*/
package chat

import (
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"linechat/internal/app/user"
	"linechat/internal/configs"
	"linechat/internal/pkg/logx"
)

const maxAcceptBackoff = time.Second

// Manager coordinates all connections of one relay instance.
type Manager struct {
	// Config holds the application's read-only configuration settings.
	config *configs.AppConfig

	registry    *Registry
	broadcaster *Broadcaster
	router      *Router
	metrics     *Metrics

	// mu protects clients, listeners and closing.
	mu sync.Mutex

	// every live connection, registered or still in the handshake.
	clients map[*Client]struct{}

	// listeners being served by Serve.
	listeners map[net.Listener]struct{}

	// closing is set by Shutdown; no connection is accepted afterwards.
	closing bool

	// done is closed by Shutdown.
	done chan struct{}

	// wg tracks running connection actors.
	wg sync.WaitGroup

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs a Manager from cfg and starts periodic metrics logging.
func NewManager(cfg *configs.AppConfig) *Manager {
	logger := logx.Component("manager")
	metrics := NewMetrics()
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, metrics, logx.Component("broadcaster"))

	m := &Manager{
		config:      cfg,
		registry:    registry,
		broadcaster: broadcaster,
		router:      NewRouter(registry, broadcaster, metrics, logx.Component("router")),
		metrics:     metrics,
		clients:     make(map[*Client]struct{}),
		listeners:   make(map[net.Listener]struct{}),
		done:        make(chan struct{}),
		logger:      logger,
	}

	metrics.StartPeriodicLog(logger, cfg.MetricsLogInterval, m.done)

	return m
}

// Registry returns the session registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Metrics returns the relay counters.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Serve accepts connections from ln until ln is closed or Shutdown is called.
// It returns nil after a shutdown and the accept error otherwise.
func (m *Manager) Serve(ln net.Listener) error {
	if !m.trackListener(ln) {
		_ = ln.Close()
		return nil
	}
	defer m.untrackListener(ln)

	m.logger.Info().Str("addr", ln.Addr().String()).Msg("Accept loop started.")

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if m.isClosing() || errors.Is(err, net.ErrClosed) {
				m.logger.Info().Str("addr", ln.Addr().String()).Msg("Accept loop stopped.")
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				backoff = nextBackoff(backoff)
				m.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("Accept error, retrying.")
				time.Sleep(backoff)
				continue
			}

			m.logger.Error().Err(err).Msg("Accept failed.")
			return err
		}
		backoff = 0

		go m.HandleConn(conn, TransportTCP, conn.RemoteAddr().String())
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > maxAcceptBackoff {
		d = maxAcceptBackoff
	}
	return d
}

// HandleConn runs the connection actor for stream and blocks until it finishes.
// Transports other than the TCP accept loop call it directly.
func (m *Manager) HandleConn(stream Stream, transport, remoteAddr string) {
	c := newClient(m, stream, transport, remoteAddr)

	if !m.track(c) {
		c.logger.Debug().Msg("Rejecting connection during shutdown.")
		c.Close()
		return
	}

	m.metrics.TotalConnections.Add(1)
	m.metrics.ActiveConnections.Add(1)

	c.serve()
}

func (m *Manager) track(c *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closing {
		return false
	}
	m.clients[c] = struct{}{}
	m.wg.Add(1)
	return true
}

// untrack is called exactly once per tracked client, from its teardown.
func (m *Manager) untrack(c *Client) {
	m.mu.Lock()
	delete(m.clients, c)
	m.mu.Unlock()

	m.metrics.ActiveConnections.Add(-1)
	m.wg.Done()
}

func (m *Manager) trackListener(ln net.Listener) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closing {
		return false
	}
	m.listeners[ln] = struct{}{}
	return true
}

func (m *Manager) untrackListener(ln net.Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, ln)
}

func (m *Manager) isClosing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closing
}

// Users returns the live sessions.
func (m *Manager) Users() []user.User {
	sessions := m.registry.Sessions()

	users := make([]user.User, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, user.User{
			Name:      s.Username,
			ConnID:    s.Client.ID(),
			Transport: s.Client.Transport(),
			RemoteIP:  s.Client.RemoteIP(),
			JoinedAt:  s.JoinedAt,
		})
	}
	return users
}

// Kick disconnects the session registered as username after sending it reason.
// The departure is announced by the regular teardown.
func (m *Manager) Kick(username, reason string) bool {
	c, ok := m.registry.Lookup(username)
	if !ok {
		return false
	}

	m.logger.Info().Str("username", username).Msg("Kick requested.")
	c.Kick(reason)
	return true
}

// Announce sends text as a /server notice to every registered client and returns the
// number of recipients. Line breaks are folded into spaces to keep the notice one line.
func (m *Manager) Announce(text string) int {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return 0
	}

	n := m.broadcaster.SendToAll(NoticeMessage(text))
	m.logger.Info().Int("recipients", n).Msg("Announcement sent.")
	return n
}

// Shutdown stops every listener passed to Serve, closes all connections and waits for
// their actors to finish.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down Manager...")

	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		m.wg.Wait()
		return
	}
	m.closing = true
	close(m.done)

	for ln := range m.listeners {
		if err := ln.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("Listener close error")
		}
	}

	clients := make([]*Client, 0, len(m.clients))
	for c := range m.clients {
		clients = append(clients, c)
	}
	m.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}

	m.wg.Wait()

	m.logger.Info().Msg("Manager shutdown complete.")
}
