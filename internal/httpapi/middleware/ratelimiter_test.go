package middleware

import (
	"testing"

	"golang.org/x/time/rate"
)

func TestHostOnlyStripsPort(t *testing.T) {
	if got := hostOnly("192.168.1.1:54321"); got != "192.168.1.1" {
		t.Errorf("expected stripped host, got %q", got)
	}
}

func TestHostOnlyPassesThroughWhenNoPort(t *testing.T) {
	if got := hostOnly("not-a-host-port"); got != "not-a-host-port" {
		t.Errorf("expected unchanged input, got %q", got)
	}
}

func TestAllowLocalEnforcesBurstThenRejects(t *testing.T) {
	rl := &RateLimiter{local: make(map[string]*rate.Limiter)}
	for i := 0; i < 10; i++ {
		if !rl.allowLocal("1.2.3.4") {
			t.Fatalf("expected request %d within burst to be allowed", i)
		}
	}
	if rl.allowLocal("1.2.3.4") {
		t.Error("expected request beyond burst to be rejected")
	}
}

func TestAllowLocalTracksPerIPIndependently(t *testing.T) {
	rl := &RateLimiter{local: make(map[string]*rate.Limiter)}
	for i := 0; i < 10; i++ {
		rl.allowLocal("1.1.1.1")
	}
	if !rl.allowLocal("2.2.2.2") {
		t.Error("expected a fresh IP to have its own independent budget")
	}
}
