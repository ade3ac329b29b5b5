package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indica que la key no existe (no es una falla del backend).
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
