package ai

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

func TestToolRateLimiter(t *testing.T) {
	limiter := newToolRateLimiter(2, 50*time.Millisecond)

	if !limiter.Allow("s1") || !limiter.Allow("s1") {
		t.Fatal("first two calls should be allowed")
	}
	if limiter.Allow("s1") {
		t.Fatal("third call inside the window should be rejected")
	}
	// Other keys have their own budget.
	if !limiter.Allow("s2") {
		t.Fatal("different key should be allowed")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("s1") {
		t.Fatal("call after the window should be allowed again")
	}
}

func TestToolSessionContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := ToolSessionFromContext(ctx); ok {
		t.Fatal("plain context should carry no session")
	}

	ctx = WithToolSession(ctx, "s_1_abc")
	id, ok := ToolSessionFromContext(ctx)
	if !ok || id != "s_1_abc" {
		t.Fatalf("session from context = %q, ok=%v", id, ok)
	}

	if got := WithToolSession(context.Background(), ""); got != context.Background() {
		t.Fatal("empty session id should leave the context untouched")
	}
}

func TestConvertMessages(t *testing.T) {
	history := []*models.Message{
		{Role: models.RoleSystem, Content: "You help college visitors."},
		{Role: models.RoleUser, Content: "what courses do you offer"},
		{Role: models.RoleAssistant, Content: "We offer CSE and ECE."},
		nil,
		{Role: models.Role("unknown"), Content: "fallback"},
	}

	out := convertMessages(history)
	if len(out) != 4 {
		t.Fatalf("converted length = %d, want 4", len(out))
	}
	if out[0].Role != schema.System || out[1].Role != schema.User || out[2].Role != schema.Assistant {
		t.Fatalf("roles = %v %v %v", out[0].Role, out[1].Role, out[2].Role)
	}
	// Unknown roles degrade to user.
	if out[3].Role != schema.User {
		t.Fatalf("unknown role mapped to %v, want user", out[3].Role)
	}
}

func TestLooksLikeURL(t *testing.T) {
	if !looksLikeURL("https://example.edu/admissions") {
		t.Fatal("https url should be detected")
	}
	if !looksLikeURL("HTTP://EXAMPLE.EDU") {
		t.Fatal("detection should be case-insensitive")
	}
	if looksLikeURL("admission fees for cse") {
		t.Fatal("plain query must not look like a url")
	}
}
