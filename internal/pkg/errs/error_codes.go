/*
Package errs provides custom error types and application-level error code constants.

These error codes identify protocol and session errors both internally within the server
and, through /server notices and the HTTP gateway, towards clients.
*/
package errs

// 1xxx: Gateway Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004
)

// 2xxx: Session Registration Errors
const (
	// ErrDuplicateName indicates that the requested username is held by another session.
	ErrDuplicateName = 2001

	// ErrInvalidUsername indicates that the handshake line is not an acceptable username.
	ErrInvalidUsername = 2002

	// ErrHandshakeTimeout indicates that no username arrived within the handshake bound.
	ErrHandshakeTimeout = 2003

	// ErrUserNotFound indicates that no session is registered under the given username.
	ErrUserNotFound = 2004
)

// 3xxx: Command Routing Errors
const (
	// ErrMalformedCommand indicates a known command with missing arguments.
	ErrMalformedCommand = 3001

	// ErrUnknownCommand indicates an unrecognized slash command.
	ErrUnknownCommand = 3002

	// ErrTargetNotFound indicates that a private message target is not connected.
	ErrTargetNotFound = 3003

	// ErrLineTooLong indicates that a line exceeded the configured frame size and was discarded.
	ErrLineTooLong = 3004
)

// 4xxx: Transport Errors
const (
	// ErrStreamFailure indicates an I/O failure or peer close on a connection.
	ErrStreamFailure = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
