// Package kvengine defines the engine capability: the polymorphic,
// three-operation contract a request handler drives a storage backend
// through. Any backend satisfying Engine is
// substitutable without recompiling the request handler; the
// log-structured engine in internal/engine and the embedded-tree-backed
// engine in internal/sledengine both implement it.
package kvengine

// Engine is the capability set a front-end needs from a storage
// backend. Get reports absence as (_, false, nil), not an error; only
// Remove treats a missing key as a failure.
type Engine interface {
	Set(key, value string) error
	Get(key string) (value string, ok bool, err error)
	Remove(key string) error
	Close() error
}
