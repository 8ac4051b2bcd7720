/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines the Registry, the process-wide mapping between usernames and connections.
Both directions are indexed under one mutex so every operation, including the presence
snapshots used for broadcasts, observes a consistent state.
*/
package chat

import (
	"sort"
	"sync"
	"time"

	"linechat/internal/pkg/errs"
)

// ErrDuplicateName is returned by Register when the username is already held.
var ErrDuplicateName = errs.NewError(errs.ErrDuplicateName)

// Session binds a registered username to its client.
type Session struct {
	Username string
	Client   *Client
	JoinedAt time.Time
}

// Registry owns all sessions of one Manager.
type Registry struct {
	// mu serializes every read and mutation of both indexes.
	mu sync.RWMutex

	// byName maps username to session.
	byName map[string]*Session

	// byClient maps client to session.
	byClient map[*Client]*Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Session),
		byClient: make(map[*Client]*Session),
	}
}

// Register claims username for c. Exactly one of several concurrent callers for the
// same name succeeds; the others get ErrDuplicateName. A client that already holds a
// name also gets ErrDuplicateName.
func (r *Registry) Register(username string, c *Client) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[username]; taken {
		return nil, ErrDuplicateName
	}
	if _, registered := r.byClient[c]; registered {
		return nil, ErrDuplicateName
	}

	s := &Session{
		Username: username,
		Client:   c,
		JoinedAt: time.Now(),
	}
	r.byName[username] = s
	r.byClient[c] = s
	return s, nil
}

// Unregister removes the session held by c and returns its username.
// It returns false if c holds no session; calling it twice is a no-op the second time.
func (r *Registry) Unregister(c *Client) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byClient[c]
	if !ok {
		return "", false
	}
	delete(r.byClient, c)
	delete(r.byName, s.Username)
	return s.Username, true
}

// Lookup returns the client registered under username.
func (r *Registry) Lookup(username string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byName[username]
	if !ok {
		return nil, false
	}
	return s.Client, true
}

// UsernameOf returns the username held by c.
func (r *Registry) UsernameOf(c *Client) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byClient[c]
	if !ok {
		return "", false
	}
	return s.Username, true
}

// Usernames returns the registered names in sorted order.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clients returns a snapshot of every registered client.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.byClient))
	for c := range r.byClient {
		clients = append(clients, c)
	}
	return clients
}

// Presence returns the registered clients and their sorted usernames from a single
// snapshot, so a presence broadcast never reaches a client missing from its own list.
func (r *Registry) Presence() ([]*Client, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.byClient))
	names := make([]string, 0, len(r.byName))
	for c, s := range r.byClient {
		clients = append(clients, c)
		names = append(names, s.Username)
	}
	sort.Strings(names)
	return clients, names
}

// Sessions returns a snapshot of every session sorted by username.
func (r *Registry) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.byName))
	for _, s := range r.byName {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Username < sessions[j].Username
	})
	return sessions
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
