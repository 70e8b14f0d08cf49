package storage

import (
	"fmt"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/config"
)

// NewStore returns a concrete Store for the configured backend, or nil when
// archiving is disabled.
func NewStore(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "mysql":
		return NewMySQLStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
