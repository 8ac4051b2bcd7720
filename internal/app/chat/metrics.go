package chat

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Metrics tracks relay runtime statistics with lock-free counters.
type Metrics struct {
	startTime time.Time

	// Connection counters
	TotalConnections  atomic.Int64 // lifetime connections accepted, any transport
	ActiveConnections atomic.Int64 // connections currently open
	Disconnects       atomic.Int64 // connections closed after registering

	// Handshake counters
	Registrations     atomic.Int64 // successful username registrations
	RejectedNames     atomic.Int64 // duplicate or invalid usernames
	HandshakeTimeouts atomic.Int64 // connections dropped before sending a username

	// Routing counters
	ChatMessages    atomic.Int64 // broadcast chat lines routed
	PrivateMessages atomic.Int64 // private messages delivered
	Notices         atomic.Int64 // /server notices sent
	DroppedSends    atomic.Int64 // sends abandoned because a queue was full or closed
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time, serializable view of Metrics.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptimeSeconds"`

	TotalConnections  int64 `json:"totalConnections"`
	ActiveConnections int64 `json:"activeConnections"`
	Disconnects       int64 `json:"disconnects"`

	Registrations     int64 `json:"registrations"`
	RejectedNames     int64 `json:"rejectedNames"`
	HandshakeTimeouts int64 `json:"handshakeTimeouts"`

	ChatMessages    int64 `json:"chatMessages"`
	PrivateMessages int64 `json:"privateMessages"`
	Notices         int64 `json:"notices"`
	DroppedSends    int64 `json:"droppedSends"`
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:            uptime.Truncate(time.Second).String(),
		UptimeSeconds:     int64(uptime.Seconds()),
		TotalConnections:  m.TotalConnections.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		Disconnects:       m.Disconnects.Load(),
		Registrations:     m.Registrations.Load(),
		RejectedNames:     m.RejectedNames.Load(),
		HandshakeTimeouts: m.HandshakeTimeouts.Load(),
		ChatMessages:      m.ChatMessages.Load(),
		PrivateMessages:   m.PrivateMessages.Load(),
		Notices:           m.Notices.Load(),
		DroppedSends:      m.DroppedSends.Load(),
	}
}

// LogSummary writes the current counters to logger.
func (m *Metrics) LogSummary(logger zerolog.Logger) {
	s := m.Snapshot()
	logger.Info().
		Str("uptime", s.Uptime).
		Int64("connections", s.ActiveConnections).
		Int64("total_connections", s.TotalConnections).
		Int64("registrations", s.Registrations).
		Int64("chat_msgs", s.ChatMessages).
		Int64("private_msgs", s.PrivateMessages).
		Int64("dropped_sends", s.DroppedSends).
		Msg("Metrics summary")
}

// StartPeriodicLog logs a summary every interval until done is closed.
func (m *Metrics) StartPeriodicLog(logger zerolog.Logger, interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary(logger)
			}
		}
	}()
}
