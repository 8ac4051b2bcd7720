package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrTargetNotFound, "ghost")
	if err.Message != "User not found: ghost" {
		t.Fatalf("Message = %q", err.Message)
	}
	if err.Status != http.StatusOK {
		t.Fatalf("Status = %d, want default 200", err.Status)
	}

	// Templates without a verb ignore details.
	if got := NewError(ErrLineTooLong, "extra").Message; got != "Message is too long." {
		t.Fatalf("Message = %q", got)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(424242)
	if err.Code != ErrUnknown || err.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected fallback: %+v", err)
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	sentinel := NewError(ErrUserNotFound)
	formatted := NewError(ErrUserNotFound, "bob")
	wrapped := fmt.Errorf("kick: %w", formatted)

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("errors.Is should match on code through wrapping")
	}
	if errors.Is(wrapped, NewError(ErrTargetNotFound)) {
		t.Fatal("errors.Is should not match a different code")
	}
	if CodeOf(wrapped) != ErrUserNotFound {
		t.Fatalf("CodeOf = %d", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != ErrUnknown {
		t.Fatal("CodeOf should report ErrUnknown for foreign errors")
	}
}
