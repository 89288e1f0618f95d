package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"user-rest-service/internal/adapter/db/store"
	"user-rest-service/internal/config"
)

// NewStore creates the live store and opens it right away, so a database
// that cannot be opened stops startup instead of failing the first request.
func NewStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (*store.Store, error) {
	s := store.New(store.ConfigFrom(cfg, false), l)

	if _, err := s.Conn(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return s, nil
}
