package logx

import "testing"

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "203.0.113.77:5000", want: "203.0.113.0"},
		{in: "203.0.113.77", want: "203.0.113.0"},
		{in: "127.0.0.1:12345", want: "127.0.0.1"},
		{in: "[2001:db8:1:2:3:4:5:6]:443", want: "2001:db8:1:2::"},
		{in: "pipe", want: "unknown_ip"},
	}

	for _, tt := range tests {
		if got := AnonymizeIP(tt.in); got != tt.want {
			t.Errorf("AnonymizeIP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	previous := Logger().GetLevel()
	t.Cleanup(func() { _ = SetLevel(previous.String()) })

	if err := SetLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("SetLevel(\"\"): %v", err)
	}
	if err := SetLevel(" WARN "); err != nil {
		t.Fatalf("SetLevel(WARN): %v", err)
	}
	if got := Logger().GetLevel().String(); got != "warn" {
		t.Fatalf("level = %q, want warn", got)
	}
}
