/*
Package randx provides identifiers for connections.

Connection IDs are standard UUID v4 strings; they tag log lines and gateway responses so
that a connection can be followed before (and after) it owns a username.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnID generates a UUID v4 string identifying one accepted connection.
func ConnID() string {
	return uuid.New().String()
}
