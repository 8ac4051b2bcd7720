/*
Package chat contains the core logic for the line-protocol chat relay: framing, session
registration, command routing, and message fan-out.

This file defines the Command variant produced from one decoded frame. Parsing is pure;
the Router interprets the result.
*/
package chat

import "strings"

// CommandKind enumerates the frame classifications understood by the Router.
type CommandKind int

const (
	// CmdEmpty is a blank frame; it is ignored.
	CmdEmpty CommandKind = iota
	// CmdChat is plain text broadcast to every active session.
	CmdChat
	// CmdUsers requests the presence list.
	CmdUsers
	// CmdPrivate delivers Text to the session named Target.
	CmdPrivate
	// CmdMalformed is a known command with missing arguments.
	CmdMalformed
	// CmdUnknown is any other slash command.
	CmdUnknown
)

const (
	commandPrefix  = "/"
	commandUsers   = "/users"
	commandPrivate = "/private"
	commandServer  = "/server"
)

// Command is the parsed form of one frame.
type Command struct {
	Kind CommandKind

	// Raw is the complete frame, used for chat text and error notices.
	Raw string

	// Target and Text are set for CmdPrivate.
	Target string
	Text   string
}

// ParseCommand classifies a trimmed frame.
func ParseCommand(frame string) Command {
	if frame == "" {
		return Command{Kind: CmdEmpty}
	}

	if !strings.HasPrefix(frame, commandPrefix) {
		return Command{Kind: CmdChat, Raw: frame, Text: frame}
	}

	if frame == commandUsers {
		return Command{Kind: CmdUsers, Raw: frame}
	}

	parts := strings.Fields(frame)
	if parts[0] == commandPrivate {
		if len(parts) < 3 {
			return Command{Kind: CmdMalformed, Raw: frame}
		}
		return Command{
			Kind:   CmdPrivate,
			Raw:    frame,
			Target: parts[1],
			Text:   strings.Join(parts[2:], " "),
		}
	}

	return Command{Kind: CmdUnknown, Raw: frame}
}

func (k CommandKind) String() string {
	switch k {
	case CmdEmpty:
		return "empty"
	case CmdChat:
		return "chat"
	case CmdUsers:
		return "users"
	case CmdPrivate:
		return "private"
	case CmdMalformed:
		return "malformed"
	case CmdUnknown:
		return "unknown"
	}
	return "invalid"
}
