package store

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tagwire"
	c "github.com/unkn0wn-root/tagwire/codec"
	gen "github.com/unkn0wn-root/tagwire/genstore"
	pr "github.com/unkn0wn-root/tagwire/provider"
)

// SetCostFunc returns the provider cost of a write. raw is the full envelope.
type SetCostFunc func(key string, raw []byte, isBulk bool, bulkCount int) int64

// Store is the named-key, CAS-safe persistence API. V is the stored value
// type, e.g. []tagwire.Value with codec.Tagged.
type Store[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Single
	Get(ctx context.Context, name string) (v V, ok bool, err error)
	PutWithGen(ctx context.Context, name string, value V, observedGen uint64, ttl time.Duration) error
	Invalidate(ctx context.Context, name string) error

	// Many (order-agnostic return; use your own ordering by names slice)
	GetMany(ctx context.Context, names []string) (values map[string]V, missing []string, err error)
	PutManyWithGens(ctx context.Context, items map[string]V, observedGens map[string]uint64, ttl time.Duration) error

	// Generation snapshots (for CAS)
	SnapshotGen(name string) uint64
	SnapshotGens(names []string) map[string]uint64
}

// Options configure a Store. Namespace, Provider and Codec are required.
type Options[V any] struct {
	Namespace string // e.g. "contract", "demo"; isolates keys sharing a provider
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger          tagwire.Logger // nil => NopLogger
	Hooks           Hooks          // nil => NopHooks
	DefaultTTL      time.Duration  // singles; 0 => 10m
	BulkTTL         time.Duration  // multi-name entries; 0 => 10m
	CleanupInterval time.Duration  // local gen cleanup; 0 => 1h
	GenRetention    time.Duration  // 0 => 30d
	Disabled        bool           // every read misses, every write is dropped
	ComputeSetCost  SetCostFunc    // nil => 1 per write
	GenStore        gen.GenStore   // nil => LocalGenStore (in-process)
	DisableBulk     bool           // PutManyWithGens seeds singles only
}

func New[V any](opts Options[V]) (Store[V], error) {
	return newStore[V](opts)
}
