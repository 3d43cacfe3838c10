package blob

import (
	"context"
	"fmt"

	"github.com/san-kum/chromasim/internal/config"
)

// Open selects a Store implementation from cfg. Environment overrides are
// applied by config.(*Config).ApplyEnv before this is called.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
