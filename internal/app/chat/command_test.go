package chat

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		frame string
		want  Command
	}{
		{frame: "", want: Command{Kind: CmdEmpty}},
		{frame: "hello world", want: Command{Kind: CmdChat, Raw: "hello world", Text: "hello world"}},
		{frame: "/users", want: Command{Kind: CmdUsers, Raw: "/users"}},
		{frame: "/users now", want: Command{Kind: CmdUnknown, Raw: "/users now"}},
		{frame: "/private bob hi", want: Command{Kind: CmdPrivate, Raw: "/private bob hi", Target: "bob", Text: "hi"}},
		{frame: "/private bob hi   there", want: Command{Kind: CmdPrivate, Raw: "/private bob hi   there", Target: "bob", Text: "hi there"}},
		{frame: "/private bob", want: Command{Kind: CmdMalformed, Raw: "/private bob"}},
		{frame: "/private", want: Command{Kind: CmdMalformed, Raw: "/private"}},
		{frame: "/privatebob hi", want: Command{Kind: CmdUnknown, Raw: "/privatebob hi"}},
		{frame: "/foo bar", want: Command{Kind: CmdUnknown, Raw: "/foo bar"}},
		{frame: "/", want: Command{Kind: CmdUnknown, Raw: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.frame, func(t *testing.T) {
			got := ParseCommand(tt.frame)
			if got != tt.want {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tt.frame, got, tt.want)
			}
		})
	}
}
