package errors

import (
	"fmt"
	"testing"
)

func TestChimeError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeHubNotRunning, "hub is not running")
	if err.Code != ErrCodeHubNotRunning {
		t.Errorf("expected code %s, got %s", ErrCodeHubNotRunning, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeBusConnect, "connect failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeBusConnect) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeHubNotRunning) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("socket", "/tmp/hub.sock").WithDetail("pid", 123)
	if detailed.Details["socket"] != "/tmp/hub.sock" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test HubAlreadyRunning
	err := HubAlreadyRunning(4242)
	if err.Code != ErrCodeHubAlreadyRunning {
		t.Errorf("expected code %s, got %s", ErrCodeHubAlreadyRunning, err.Code)
	}
	if err.Details["pid"] != 4242 {
		t.Error("HubAlreadyRunning should include pid detail")
	}

	// Test PayloadDecode
	cause := fmt.Errorf("unexpected end of JSON input")
	err = PayloadDecode("claude-code/events/stop", cause)
	if err.Code != ErrCodePayloadDecode {
		t.Errorf("expected code %s, got %s", ErrCodePayloadDecode, err.Code)
	}
	if err.Details["topic"] != "claude-code/events/stop" {
		t.Error("PayloadDecode should include topic detail")
	}
	if err.Unwrap() != cause {
		t.Error("PayloadDecode should keep the cause")
	}

	// Test ChannelDelivery
	err = ChannelDelivery("toast", fmt.Errorf("dbus unavailable"))
	if err.Details["channel"] != "toast" {
		t.Error("ChannelDelivery should include channel detail")
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should return empty code")
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode on a plain error should return empty code")
	}

	inner := HubNotRunning("/run/chime/hub.sock")
	outer := fmt.Errorf("status check: %w", inner)
	if GetCode(outer) != ErrCodeHubNotRunning {
		t.Error("GetCode should unwrap to find the inner code")
	}
}
