package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DepartmentClaims scope a token to a single department panel.
type DepartmentClaims struct {
	DepartmentID string `json:"department_id"`
	Username     string `json:"username"`
	jwt.RegisteredClaims
}

// DepartmentTokens signs and parses department-scoped JWTs.
type DepartmentTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewDepartmentTokens builds the signer. An unset TTL defaults to 12 hours;
// a negative TTL is honored and mints already-expired tokens.
func NewDepartmentTokens(secret string, ttl time.Duration) *DepartmentTokens {
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return &DepartmentTokens{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed token bound to the department.
func (d *DepartmentTokens) Issue(departmentID, username string) (string, error) {
	if departmentID == "" {
		return "", errors.New("department id required")
	}
	now := time.Now()
	claims := DepartmentClaims{
		DepartmentID: departmentID,
		Username:     username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "college-voice",
			Subject:   "department_token",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(d.secret)
}

// Parse validates a token and returns its claims.
func (d *DepartmentTokens) Parse(tokenString string) (*DepartmentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DepartmentClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return d.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*DepartmentClaims)
	if !ok || !token.Valid || claims.DepartmentID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
