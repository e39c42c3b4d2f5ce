// Package slots opens the tasklist.Slot selected by the configuration.
package slots

import (
	"context"
	"errors"
	"fmt"

	"gtodo/internal/backend/googletasks"
	"gtodo/internal/backend/mysql"
	"gtodo/internal/config"
	"gtodo/internal/filestore"
	"gtodo/internal/tasklist"
)

// ErrAuth marks failures caused by missing or unusable credentials.
var ErrAuth = errors.New("auth error")

// Open returns the slot for cfg.Store. The caller closes it if it
// implements io.Closer.
func Open(ctx context.Context, cfg *config.Config) (tasklist.Slot, error) {
	switch cfg.Store {
	case config.StoreFile:
		return filestore.New(cfg.Dir, cfg.Slot), nil

	case config.StoreMySQL:
		return mysql.Open(ctx, cfg.MySQLDSN, cfg.Slot)

	case config.StoreGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrAuth, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: gtodo login)", ErrAuth)
		}
		slot, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return slot, nil
	}
	return nil, fmt.Errorf("unknown store: %s", cfg.Store)
}

// IsAuthError reports whether err should be reported as an auth failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth) || errors.Is(err, googletasks.ErrUnauthorized)
}
