// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (the Index) with an append-only
// log structure on disk to achieve high throughput, with an
// embedded-tree-backed alternate backend available behind the same
// capability set. It is designed for applications requiring fast read
// and write operations, such as caching, session management, and
// real-time data processing.
package ignite

import (
	"context"

	"github.com/iamNilotpal/kvignite/internal/backend"
	"github.com/iamNilotpal/kvignite/internal/kvengine"
	"github.com/iamNilotpal/kvignite/pkg/logger"
	"github.com/iamNilotpal/kvignite/pkg/options"
)

// Instance is the primary entry point for interacting with the Ignite
// store, providing methods for setting, getting, and deleting
// key-value pairs. It encapsulates whichever storage backend the
// configured options select, behind the kvengine.Engine capability.
type Instance struct {
	engine  kvengine.Engine
	options *options.Options
}

// NewInstance creates and initializes a new Ignite instance, selecting
// and opening the configured backend.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	eng, err := backend.Open(ctx, log, &resolved)
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &resolved}, nil
}

// Set stores a key-value pair in the database. If the key already
// exists, its value is updated. Once it returns, the backend has
// written the value to its files; the log-structured backend does not
// fsync after the write.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Set(key, string(value))
}

// Get retrieves the value associated with key. A missing key returns
// (nil, false, nil) rather than an error.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := i.engine.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []byte(value), true, nil
}

// Delete removes a key-value pair from the database, failing if the
// key does not exist.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite instance, releasing every
// resource the underlying backend holds.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
