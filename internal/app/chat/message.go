/*
Package chat contains the core logic for the line-protocol chat relay.

This file defines OutboundMessage, the unit the Broadcaster emits, and its wire encoding.
The tag lines /users, /server and /private are part of the client protocol and must not change.
*/
package chat

import (
	"strings"
)

// MessageKind identifies the type of an outbound message.
type MessageKind int

const (
	KindJoin MessageKind = iota
	KindLeave
	KindChat
	KindPrivateIn
	KindUserList
	KindServerNotice
)

func (k MessageKind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindLeave:
		return "leave"
	case KindChat:
		return "chat"
	case KindPrivateIn:
		return "private"
	case KindUserList:
		return "user_list"
	case KindServerNotice:
		return "server_notice"
	}
	return "invalid"
}

// OutboundMessage is a wire-ready message.
type OutboundMessage struct {
	Kind MessageKind

	// From is the originating username for chat and private messages.
	From string

	// Text is the message body; for join/leave it is the affected username.
	Text string

	// Users is the presence list carried by KindUserList.
	Users []string
}

// JoinMessage announces that username joined.
func JoinMessage(username string) OutboundMessage {
	return OutboundMessage{Kind: KindJoin, Text: username}
}

// LeaveMessage announces that username left.
func LeaveMessage(username string) OutboundMessage {
	return OutboundMessage{Kind: KindLeave, Text: username}
}

// ChatMessage is a broadcast line written by from.
func ChatMessage(from, text string) OutboundMessage {
	return OutboundMessage{Kind: KindChat, From: from, Text: text}
}

// PrivateMessage is delivered to a single recipient and tagged with the sender.
func PrivateMessage(from, text string) OutboundMessage {
	return OutboundMessage{Kind: KindPrivateIn, From: from, Text: text}
}

// UserListMessage carries a full presence list.
func UserListMessage(users []string) OutboundMessage {
	return OutboundMessage{Kind: KindUserList, Users: users}
}

// NoticeMessage is a system message distinct from user chat.
func NoticeMessage(text string) OutboundMessage {
	return OutboundMessage{Kind: KindServerNotice, Text: text}
}

// Encode renders the message in wire format. Every encoding ends with '\n'.
func (m OutboundMessage) Encode() []byte {
	var b strings.Builder

	switch m.Kind {
	case KindJoin:
		b.WriteString(m.Text)
		b.WriteString(" has joined the chat.\n")

	case KindLeave:
		b.WriteString(m.Text)
		b.WriteString(" has left the chat.\n")

	case KindChat:
		b.WriteString(m.From)
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteByte('\n')

	case KindPrivateIn:
		b.WriteString(commandPrivate)
		b.WriteByte(' ')
		b.WriteString(m.From)
		b.WriteByte(' ')
		b.WriteString(m.Text)
		b.WriteByte('\n')

	case KindUserList:
		b.WriteString(commandUsers)
		b.WriteByte('\n')
		b.WriteString(strings.Join(m.Users, "\n"))
		b.WriteByte('\n')

	case KindServerNotice:
		b.WriteString(commandServer)
		b.WriteByte('\n')
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}
