package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/redis"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := value.(string)
	if !ok {
		return errors.New("memory cache only stores strings")
	}
	m.items[key] = s
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func newTestService() *Service {
	return NewService(newMemoryCache(), config.AuthConfig{
		AdminPassword:     "admin-secret",
		HeadAdminPassword: "head-secret",
		TokenTTLHours:     1,
	})
}

func TestLoginIssuesScopedTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	token, scope, err := svc.Login(ctx, "admin-secret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if scope != ScopeAdmin {
		t.Fatalf("scope = %q, want %q", scope, ScopeAdmin)
	}
	if got, err := svc.Validate(ctx, token); err != nil || got != ScopeAdmin {
		t.Fatalf("validate admin token: scope=%q err=%v", got, err)
	}

	headToken, scope, err := svc.Login(ctx, "head-secret")
	if err != nil {
		t.Fatalf("head login: %v", err)
	}
	if scope != ScopeHead {
		t.Fatalf("scope = %q, want %q", scope, ScopeHead)
	}
	if headToken == token {
		t.Fatal("tokens should be unique per login")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.Login(context.Background(), "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Validate(context.Background(), "deadbeef"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token err = %v, want ErrInvalidToken", err)
	}
}

func TestRevokeInvalidatesToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Validate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("validate after revoke: err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("dept-pass")
	if hash == "dept-pass" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword("dept-pass", hash) {
		t.Fatal("CheckPassword should accept the original password")
	}
	if CheckPassword("other", hash) {
		t.Fatal("CheckPassword should reject a different password")
	}
}

func TestDepartmentTokensRoundTrip(t *testing.T) {
	tokens := NewDepartmentTokens("unit-test-secret", time.Hour)

	signed, err := tokens.Issue("dept-123", "cse-office")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.DepartmentID != "dept-123" || claims.Username != "cse-office" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestDepartmentTokensRejectTampering(t *testing.T) {
	tokens := NewDepartmentTokens("unit-test-secret", time.Hour)
	other := NewDepartmentTokens("different-secret", time.Hour)

	signed, err := tokens.Issue("dept-123", "cse-office")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Parse(signed); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
	if _, err := tokens.Parse(signed + "x"); err == nil {
		t.Fatal("mangled token should not parse")
	}
}

func TestDepartmentTokensExpire(t *testing.T) {
	tokens := NewDepartmentTokens("unit-test-secret", -time.Minute)

	signed, err := tokens.Issue("dept-123", "cse-office")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Parse(signed); err == nil {
		t.Fatal("expired token should not parse")
	}
}
