package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	ThemeLight   = "light"
	ThemeDark    = "dark"
	DefaultTheme = ThemeLight

	themeKeyPrefix = "bpt_theme:"
)

var ErrInvalidTheme = errors.New("theme must be light or dark")

// ThemeStore remembers each client's light/dark preference. It is the only
// user state the site keeps.
type ThemeStore interface {
	Theme(ctx context.Context, client string) (string, error)
	SetTheme(ctx context.Context, client, theme string) error
}

func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

func themeKey(client string) string {
	return themeKeyPrefix + client
}

type RedisThemeStore struct {
	rdb *redis.Client
}

func NewRedisThemeStore(rdb *redis.Client) *RedisThemeStore {
	return &RedisThemeStore{rdb: rdb}
}

// Theme falls back to the default for unknown clients and for stored values
// that are no longer valid.
func (s *RedisThemeStore) Theme(ctx context.Context, client string) (string, error) {
	v, err := s.rdb.Get(ctx, themeKey(client)).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultTheme, nil
	}
	if err != nil {
		return DefaultTheme, fmt.Errorf("get theme: %w", err)
	}
	if !ValidTheme(v) {
		return DefaultTheme, nil
	}
	return v, nil
}

func (s *RedisThemeStore) SetTheme(ctx context.Context, client, theme string) error {
	if !ValidTheme(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return Set(ctx, s.rdb, themeKey(client), theme, 0)
}

// MemoryThemeStore is used when no redis is configured.
type MemoryThemeStore struct {
	mu     sync.RWMutex
	themes map[string]string
}

func NewMemoryThemeStore() *MemoryThemeStore {
	return &MemoryThemeStore{themes: map[string]string{}}
}

func (s *MemoryThemeStore) Theme(_ context.Context, client string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.themes[client]; ok {
		return v, nil
	}
	return DefaultTheme, nil
}

func (s *MemoryThemeStore) SetTheme(_ context.Context, client, theme string) error {
	if !ValidTheme(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	s.mu.Lock()
	s.themes[client] = theme
	s.mu.Unlock()
	return nil
}
