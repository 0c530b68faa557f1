package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/redis"
)

// Scopes carried by issued admin tokens.
const (
	ScopeAdmin = "admin"
	ScopeHead  = "head"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenCache stores issued bearer tokens with expiry. Satisfied by the redis
// wrapper; tests substitute an in-memory fake.
type TokenCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service issues, validates, and revokes admin panel tokens. Panel passwords
// are deployment secrets; a successful login trades the password for a
// short-lived random token so the secret itself never rides on every request.
type Service struct {
	cache          TokenCache
	adminPassword  []byte
	headPassword   []byte
	tokenTTL       time.Duration
	cookieName     string
	headerName     string
	csrfCookieName string
	csrfHeaderName string
}

// NewService constructs an auth service from config.
func NewService(cache TokenCache, cfg config.AuthConfig) *Service {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		cache:          cache,
		adminPassword:  []byte(cfg.AdminPassword),
		headPassword:   []byte(cfg.HeadAdminPassword),
		tokenTTL:       ttl,
		cookieName:     "auth_token",
		headerName:     "Authorization",
		csrfCookieName: "csrf_token",
		csrfHeaderName: "X-CSRF-Token",
	}
}

// Login validates a panel password and issues a scoped bearer token. The head
// admin password grants the head scope, which implies admin access.
func (s *Service) Login(ctx context.Context, password string) (token, scope string, err error) {
	switch {
	case len(s.headPassword) > 0 && subtle.ConstantTimeCompare([]byte(password), s.headPassword) == 1:
		scope = ScopeHead
	case len(s.adminPassword) > 0 && subtle.ConstantTimeCompare([]byte(password), s.adminPassword) == 1:
		scope = ScopeAdmin
	default:
		return "", "", ErrInvalidCredentials
	}

	token, err = generateToken()
	if err != nil {
		return "", "", err
	}
	if err := s.cache.Set(ctx, tokenKey(token), scope, s.tokenTTL); err != nil {
		return "", "", fmt.Errorf("store token: %w", err)
	}
	return token, scope, nil
}

// Validate returns the scope for an issued token.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	scope, err := s.cache.Get(ctx, tokenKey(token))
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("lookup token: %w", err)
	}
	if scope != ScopeAdmin && scope != ScopeHead {
		return "", ErrInvalidToken
	}
	return scope, nil
}

// Revoke deletes a single token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Del(ctx, tokenKey(token)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// NewCSRFToken returns a random token used for CSRF protection.
func (s *Service) NewCSRFToken() (string, error) {
	return generateToken()
}

func tokenKey(token string) string {
	return "auth_token:" + token
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword hashes department account passwords for storage.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(password, hash string) bool {
	candidate := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}

// AuthCookieName returns the cookie name storing auth tokens.
func (s *Service) AuthCookieName() string {
	return s.cookieName
}

// CSRFCookieName returns the cookie used for CSRF tokens.
func (s *Service) CSRFCookieName() string {
	return s.csrfCookieName
}

// CSRFHeaderName returns the CSRF header name.
func (s *Service) CSRFHeaderName() string {
	return s.csrfHeaderName
}

// TokenTTL reports the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}
