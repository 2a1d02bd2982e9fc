// Package sledengine implements the engine capability on top of
// go.etcd.io/bbolt, an embedded ordered B+tree. Unlike internal/engine
// it is not log-structured and carries no segment layout of its own:
// bbolt owns its on-disk format and compaction story.
package sledengine

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/iamNilotpal/kvignite/internal/kvengine"
)

var bucketName = []byte("kvignite")

// Engine adapts a *bolt.DB into the kvengine.Engine capability.
type Engine struct {
	db  *bolt.DB
	log *zap.SugaredLogger
}

var _ kvengine.Engine = (*Engine)(nil)

// Open opens (creating if absent) a bbolt database file at path and
// ensures the single bucket this engine uses exists.
func Open(path string, log *zap.SugaredLogger) (*Engine, error) {
	db, err := bolt.Open(path, 0644, bolt.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("sledengine: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("sledengine: create bucket: %w", err)
	}

	log.Infow("opened sled-backed engine", "path", path)
	return &Engine{db: db, log: log}, nil
}

// Set installs key -> value, overwriting any prior value.
func (e *Engine) Set(key, value string) error {
	return e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
}

// Get returns key's value and whether it is present.
func (e *Engine) Get(key string) (string, bool, error) {
	var value []byte
	err := e.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

// Remove evicts key, failing with an error if it was absent, matching
// the KeyNotFound disposition the log-structured engine uses.
func (e *Engine) Remove(key string) error {
	var existed bool
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) != nil {
			existed = true
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("sledengine: key not found: %s", key)
	}
	return nil
}

// Close releases the underlying database file.
func (e *Engine) Close() error {
	return e.db.Close()
}
