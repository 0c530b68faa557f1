package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/redis"
)

const settingsCacheTTL = 5 * time.Minute

func settingCacheKey(key string) string {
	return "college_setting:" + key
}

// GetSetting returns one settings value, consulting the cache first.
func (s *Service) GetSetting(ctx context.Context, key string) (string, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, settingCacheKey(key)); err == nil {
			return v, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			zap.L().Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM college_settings WHERE `key` = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingCacheKey(key), value, settingsCacheTTL); err != nil {
			zap.L().Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// PutSetting upserts one settings value and invalidates its cache entry.
func (s *Service) PutSetting(ctx context.Context, key, value string) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		"UPDATE college_settings SET value = ?, updated_at = ? WHERE `key` = ?", value, now, key)
	if err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO college_settings (`key`, value, updated_at) VALUES (?, ?, ?)", key, value, now)
		if err != nil {
			return fmt.Errorf("insert setting %s: %w", key, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, settingCacheKey(key)); err != nil {
			zap.L().Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// ListSettings returns every settings row.
func (s *Service) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT `key`, value, updated_at FROM college_settings ORDER BY `key`")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []*models.Setting
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// DeleteSetting removes one settings row and its cache entry.
func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM college_settings WHERE `key` = ?", key)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, settingCacheKey(key)); err != nil {
			zap.L().Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
