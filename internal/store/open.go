package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Backends lists the accepted backend names
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis}

// Options selects and configures a backend
type Options struct {
	Backend string
	// Path is the JSON file or SQLite database
	Path string
	// RedisAddr and Key are used by the redis backend
	RedisAddr string
	Key       string
}

// Open returns the backend named by opts.Backend
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.Key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
