package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := New("video upload failed, please try again", cause)

	if got := Message(err); got != "video upload failed, please try again" {
		t.Errorf("Message = %q", got)
	}
	// wrapped errors still surface their user message
	wrapped := fmt.Errorf("lesson %q: %w", "A", err)
	if got := Message(wrapped); got != "video upload failed, please try again" {
		t.Errorf("Message(wrapped) = %q", got)
	}
	if !errors.Is(wrapped, err) {
		t.Error("wrapping lost the error identity")
	}
}

func TestMessageFallback(t *testing.T) {
	if got := Message(errors.New("raw network goo")); got != "something went wrong, please try again" {
		t.Errorf("fallback = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}

func TestErrorString(t *testing.T) {
	if got := New("short", nil).Error(); got != "short" {
		t.Errorf("Error() = %q", got)
	}
	if got := New("short", errors.New("cause")).Error(); got != "short: cause" {
		t.Errorf("Error() = %q", got)
	}
}
