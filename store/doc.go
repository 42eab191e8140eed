// Package store persists encoded values under named keys in any
// provider.Provider, with compare-and-swap safety via per-name generations.
// Single-name reads never return an entry written under an older generation;
// multi-name entries are validated member by member and rejected as a whole
// if any member is stale.
//
// Components:
//   - Provider: byte store with TTL (bigcache, ristretto, redis).
//   - Codec[V]: V <-> []byte; codec.Tagged stores []tagwire.Value natively.
//   - GenStore: generation counter per name. Local by default, Redis to share
//     generations across processes.
//
// Keys:
//
//	one:<ns>:<name>    single entries
//	many:<ns>:<hash>   multi-name entries (hash over the sorted, deduplicated names)
//
// CAS pattern:
//
//	obs := st.SnapshotGen("listofoptions")      // before building the collection
//	vs  := build()
//	_   = st.PutWithGen(ctx, "listofoptions", vs, obs, 0) // written iff gen is still obs
package store
