package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Options carries backend-specific settings.
type Options struct {
	URI      string // mongo connection string
	Database string // mongo database name
	DataDir  string // data directory for the badger backend
}

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"mongo"  - MongoDB at Options.URI / Options.Database (default)
//	"badger" - embedded BadgerDB under Options.DataDir
//	"memory" - in-memory (ephemeral, for testing)
func New(ctx context.Context, backend string, opts Options) (Store, error) {
	switch backend {
	case "mongo", "":
		return NewMongoStore(ctx, opts.URI, opts.Database)
	case "badger":
		return NewBadgerStore(filepath.Join(opts.DataDir, "docapi"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: mongo, badger, memory)", backend)
	}
}
