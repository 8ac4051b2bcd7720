package chat

import "testing"

func TestOutboundMessageEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  OutboundMessage
		want string
	}{
		{name: "join", msg: JoinMessage("alice"), want: "alice has joined the chat.\n"},
		{name: "leave", msg: LeaveMessage("alice"), want: "alice has left the chat.\n"},
		{name: "chat", msg: ChatMessage("alice", "hello"), want: "alice: hello\n"},
		{name: "private", msg: PrivateMessage("alice", "hi there"), want: "/private alice hi there\n"},
		{name: "user list", msg: UserListMessage([]string{"alice", "bob"}), want: "/users\nalice\nbob\n"},
		{name: "notice", msg: NoticeMessage("User not found: ghost"), want: "/server\nUser not found: ghost\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.msg.Encode()); got != tt.want {
				t.Fatalf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
