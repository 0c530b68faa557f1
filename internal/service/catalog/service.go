package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// SettingsCache caches college_settings values between database reads.
// Satisfied by the redis wrapper.
type SettingsCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service owns reads and writes for the public catalog tables and the
// settings store backing assistant prompts.
type Service struct {
	db    *sql.DB
	cache SettingsCache
	now   func() time.Time
}

// NewService constructs a catalog service. cache may be nil, in which case
// settings are always read from the database.
func NewService(db *sql.DB, cache SettingsCache) *Service {
	return &Service{
		db:    db,
		cache: cache,
		now:   time.Now,
	}
}
