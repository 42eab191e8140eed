package store

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/tagwire"
	c "github.com/unkn0wn-root/tagwire/codec"
	gen "github.com/unkn0wn-root/tagwire/genstore"
	"github.com/unkn0wn-root/tagwire/internal/util"
	"github.com/unkn0wn-root/tagwire/internal/wire"
	pr "github.com/unkn0wn-root/tagwire/provider"
)

type store[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	log            tagwire.Logger
	hooks          Hooks
	enabled        bool
	bulkEnabled    bool
	defaultTTL     time.Duration
	bulkTTL        time.Duration
	computeSetCost SetCostFunc
	gen            gen.GenStore
}

func newStore[V any](opts Options[V]) (*store[V], error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.Codec == nil {
		return nil, ErrNoCodec
	}
	if opts.Namespace == "" {
		return nil, ErrNoNamespace
	}

	s := &store[V]{
		ns:          opts.Namespace,
		provider:    opts.Provider,
		codec:       opts.Codec,
		enabled:     !opts.Disabled,
		bulkEnabled: !opts.DisableBulk,
	}

	s.log = coalesce[tagwire.Logger](opts.Logger, tagwire.NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.defaultTTL = coalesce(opts.DefaultTTL, defaultTTL)
	s.bulkTTL = coalesce(opts.BulkTTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(string, []byte, bool, int) int64 { return 1 }
	}

	if opts.GenStore != nil {
		s.gen = opts.GenStore
	} else {
		s.gen = gen.NewLocalGenStore(
			coalesce(opts.CleanupInterval, defaultSweep),
			coalesce(opts.GenRetention, defaultGenRetention),
		)
	}
	if _, local := s.gen.(*gen.LocalGenStore); local && s.enabled && s.bulkEnabled {
		s.hooks.LocalGenWithBulk()
	}
	return s, nil
}

func (s *store[V]) Enabled() bool { return s.enabled }

// Close closes the gen store (best effort), then the provider.
func (s *store[V]) Close(ctx context.Context) error {
	if err := s.gen.Close(ctx); err != nil {
		s.log.Warn("gen store close failed", tagwire.Fields{"ns": s.ns, "err": err})
	}
	return s.provider.Close(ctx)
}

func (s *store[V]) Get(ctx context.Context, name string) (V, bool, error) {
	var zero V
	if !s.enabled {
		return zero, false, nil
	}
	k := s.singleKey(name)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	g, payload, err := wire.DecodeSingle(raw)
	if err != nil {
		s.selfHeal(ctx, k, ReasonCorrupt, err)
		return zero, false, nil
	}
	if g != s.snapshotGen(ctx, k) {
		s.selfHeal(ctx, k, ReasonGenMismatch, nil)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k, ReasonValueDecode, err)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *store[V]) PutWithGen(ctx context.Context, name string, value V, observedGen uint64, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	k := s.singleKey(name)
	if s.snapshotGen(ctx, k) != observedGen {
		s.log.Debug("put skipped (gen mismatch)", tagwire.Fields{"name": name, "obs": observedGen})
		return nil
	}
	payload, err := s.codec.Encode(value)
	if err != nil {
		return err
	}
	raw := wire.EncodeSingle(observedGen, payload)
	ok, err := s.provider.Set(ctx, k, raw, s.computeSetCost(k, raw, false, 1), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k, false)
		s.log.Debug("put rejected by provider (pressure)", tagwire.Fields{"name": name})
	}
	return nil
}

// Invalidate bumps the generation of name and deletes its single entry, so
// every entry written under an older generation (single or multi) is dead.
// Either half alone is enough; an error is returned only when both fail.
func (s *store[V]) Invalidate(ctx context.Context, name string) error {
	if !s.enabled {
		return nil
	}
	k := s.singleKey(name)
	newGen, bumpErr := s.gen.Bump(ctx, k)
	if bumpErr != nil {
		s.hooks.GenBumpError(k, bumpErr)
	}
	delErr := s.provider.Del(ctx, k)

	switch {
	case bumpErr != nil && delErr != nil:
		s.hooks.InvalidateOutage(name, bumpErr, delErr)
		s.log.Error("invalidate failed: gen bump and delete failed", tagwire.Fields{"name": name, "bumpErr": bumpErr, "delErr": delErr})
		return &InvalidateError{Name: name, BumpErr: bumpErr, DelErr: delErr}
	case bumpErr != nil:
		s.log.Warn("invalidate: gen bump failed; single cleared", tagwire.Fields{"name": name, "err": bumpErr})
	case delErr != nil:
		s.log.Warn("invalidate: delete failed; gen bumped", tagwire.Fields{"name": name, "err": delErr, "newGen": newGen})
	default:
		s.log.Debug("invalidated (bumped gen + cleared single)", tagwire.Fields{"name": name, "newGen": newGen})
	}
	return nil
}

func (s *store[V]) GetMany(ctx context.Context, names []string) (map[string]V, []string, error) {
	out := make(map[string]V, len(names))
	if !s.enabled {
		missing := make([]string, 0, len(names))
		missing = append(missing, names...)
		return out, missing, nil
	}
	if len(names) == 0 {
		return out, nil, nil
	}
	uniq := util.UniqSorted(names)

	if s.bulkEnabled {
		if vals, ok := s.readBulk(ctx, uniq); ok {
			var missing []string
			for _, n := range uniq {
				if v, ok := vals[n]; ok {
					out[n] = v
				} else {
					missing = append(missing, n)
				}
			}
			return out, missing, nil
		}
	}

	// fall back to singles
	var missing []string
	for _, n := range uniq {
		v, ok, err := s.Get(ctx, n)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			out[n] = v
		} else {
			missing = append(missing, n)
		}
	}
	return out, missing, nil
}

// readBulk returns ok=false when there is no usable multi-name entry for the
// set; a stale or corrupt one is deleted on the way.
func (s *store[V]) readBulk(ctx context.Context, uniq []string) (map[string]V, bool) {
	bk := s.bulkKey(uniq)
	raw, ok, err := s.provider.Get(ctx, bk)
	if err != nil || !ok {
		return nil, false
	}
	items, err := wire.DecodeBulk(raw)
	if err != nil {
		s.rejectBulk(ctx, bk, len(uniq), ReasonDecodeError)
		return nil, false
	}
	if !s.bulkValid(ctx, uniq, items) {
		s.rejectBulk(ctx, bk, len(uniq), ReasonInvalidOrStale)
		return nil, false
	}

	requested := make(map[string]struct{}, len(uniq))
	for _, n := range uniq {
		requested[n] = struct{}{}
	}
	vals := make(map[string]V, len(uniq))
	for _, it := range items {
		if _, ok := requested[it.Key]; !ok {
			continue
		}
		v, err := s.codec.Decode(it.Payload)
		if err != nil {
			s.rejectBulk(ctx, bk, len(uniq), ReasonDecodeError)
			return nil, false
		}
		vals[it.Key] = v
		// opportunistic single warmup (CAS-protected)
		_ = s.PutWithGen(ctx, it.Key, v, it.Gen, s.defaultTTL)
	}
	return vals, true
}

func (s *store[V]) PutManyWithGens(ctx context.Context, items map[string]V, observedGens map[string]uint64, ttl time.Duration) error {
	if !s.enabled || len(items) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = s.bulkTTL
	}

	names := make([]string, 0, len(items))
	for n := range items {
		names = append(names, n)
	}
	names = util.UniqSorted(names)

	if !s.bulkEnabled || !s.gensCurrent(ctx, names, observedGens) {
		return s.seedSingles(ctx, names, items, observedGens)
	}

	wireItems := make([]wire.BulkItem, 0, len(names))
	for _, n := range names {
		payload, err := s.codec.Encode(items[n])
		if err != nil {
			return err
		}
		wireItems = append(wireItems, wire.BulkItem{Key: n, Gen: observedGens[n], Payload: payload})
	}
	raw, err := wire.EncodeBulk(wireItems)
	if err != nil {
		return err
	}

	bk := s.bulkKey(names)
	ok, err := s.provider.Set(ctx, bk, raw, s.computeSetCost(bk, raw, true, len(names)), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(bk, true)
		s.log.Debug("multi put rejected; seeding singles", tagwire.Fields{"bulkKey": bk})
	}
	return s.seedSingles(ctx, names, items, observedGens)
}

func (s *store[V]) gensCurrent(ctx context.Context, names []string, observed map[string]uint64) bool {
	for _, n := range names {
		obs, ok := observed[n]
		if !ok || s.snapshotGen(ctx, s.singleKey(n)) != obs {
			s.log.Debug("multi put skipped (gen mismatch)", tagwire.Fields{"name": n})
			return false
		}
	}
	return true
}

// seedSingles writes every item that has an observed gen; PutWithGen drops stale ones.
func (s *store[V]) seedSingles(ctx context.Context, names []string, items map[string]V, observed map[string]uint64) error {
	var errs []error
	for _, n := range names {
		obs, ok := observed[n]
		if !ok {
			continue
		}
		if err := s.PutWithGen(ctx, n, items[n], obs, s.defaultTTL); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *store[V]) SnapshotGen(name string) uint64 {
	return s.snapshotGen(context.Background(), s.singleKey(name))
}

func (s *store[V]) SnapshotGens(names []string) map[string]uint64 {
	storage := make([]string, len(names))
	for i, n := range names {
		storage[i] = s.singleKey(n)
	}
	out := make(map[string]uint64, len(names))
	m, err := s.gen.SnapshotMany(context.Background(), storage)
	if err != nil {
		s.hooks.GenSnapshotError(len(names), err)
		// conservative fallback: one by one
		for _, n := range names {
			out[n] = s.SnapshotGen(n)
		}
		return out
	}
	for i, n := range names {
		out[n] = m[storage[i]]
	}
	return out
}

func (s *store[V]) snapshotGen(ctx context.Context, storageKey string) uint64 {
	g, err := s.gen.Snapshot(ctx, storageKey)
	if err != nil {
		// treat as 0: CAS writes against a newer gen skip, reads self-heal
		s.hooks.GenSnapshotError(1, err)
		s.log.Warn("gen snapshot error", tagwire.Fields{"key": storageKey, "err": err})
		return 0
	}
	return g
}

func (s *store[V]) selfHeal(ctx context.Context, storageKey, reason string, cause error) {
	_ = s.provider.Del(ctx, storageKey)
	s.hooks.SelfHealSingle(storageKey, reason)
	s.log.Debug("self-healed entry", tagwire.Fields{"key": storageKey, "reason": reason, "err": cause})
}

func (s *store[V]) rejectBulk(ctx context.Context, bulkKey string, requested int, reason string) {
	_ = s.provider.Del(ctx, bulkKey)
	s.hooks.BulkRejected(s.ns, requested, reason)
}

func (s *store[V]) singleKey(name string) string {
	return "one:" + s.ns + ":" + name
}

// bulkKey expects names from util.UniqSorted.
func (s *store[V]) bulkKey(sortedNames []string) string {
	return util.BulkKey("many:"+s.ns, sortedNames)
}

// bulkValid reports whether every requested name is present in items with
// its current generation. Extra members are ignored.
func (s *store[V]) bulkValid(ctx context.Context, sortedNames []string, items []wire.BulkItem) bool {
	gens := make(map[string]uint64, len(items))
	for _, it := range items {
		gens[it.Key] = it.Gen
	}
	for _, n := range sortedNames {
		g, ok := gens[n]
		if !ok || g != s.snapshotGen(ctx, s.singleKey(n)) {
			return false
		}
	}
	return true
}
