/*
Package user contains the public view of a registered chat participant.

It defines the User struct returned by the HTTP gateway's presence endpoints.
*/
package user

import "time"

// User describes one live session.
type User struct {
	// Name is the registered, unique username.
	Name string `json:"name"`

	// ConnID identifies the connection holding the name.
	ConnID string `json:"connId"`

	// Transport is "tcp" or "websocket".
	Transport string `json:"transport"`

	// RemoteIP is the anonymized peer address.
	RemoteIP string `json:"remoteIp"`

	// JoinedAt is the time the handshake completed.
	JoinedAt time.Time `json:"joinedAt"`
}
