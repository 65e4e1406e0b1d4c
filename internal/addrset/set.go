package addrset

import (
	"hash/maphash"
	"math/bits"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultShards is used when New is given a non-positive shard count.
const DefaultShards = 16

// shard is padded so that neighbouring locks do not share a cache line.
type shard struct {
	mu   sync.Mutex
	keys map[string]struct{}
	_    [48]byte
}

// Set is a concurrent insert-only set of address keys.
// Keys are opaque byte strings; no normalization is applied.
type Set struct {
	seed   maphash.Seed
	mask   uint64
	shards []shard
	count  atomic.Int64
}

// New returns a Set split into the next power of two >= shards buckets.
// shards == 1 gives the single-mutex layout.
func New(shards int) *Set {
	if shards <= 0 {
		shards = DefaultShards
	}
	n := 1
	if shards > 1 {
		n = 1 << bits.Len(uint(shards-1))
	}
	s := &Set{
		seed:   maphash.MakeSeed(),
		mask:   uint64(n - 1),
		shards: make([]shard, n),
	}
	for i := range s.shards {
		s.shards[i].keys = make(map[string]struct{}, 256)
	}
	return s
}

// Shards reports the number of buckets.
func (s *Set) Shards() int { return len(s.shards) }

// Offer inserts a copy of key if it is absent and reports whether it was new.
// Among concurrent callers offering the same absent key exactly one sees true.
// key may be reused by the caller after Offer returns.
func (s *Set) Offer(key []byte) bool {
	sh := &s.shards[maphash.Bytes(s.seed, key)&s.mask]
	sh.mu.Lock()
	if _, ok := sh.keys[string(key)]; ok {
		sh.mu.Unlock()
		return false
	}
	sh.keys[string(key)] = struct{}{}
	s.count.Add(1)
	sh.mu.Unlock()
	return true
}

// OfferString is Offer for a string key.
func (s *Set) OfferString(key string) bool {
	sh := &s.shards[maphash.String(s.seed, key)&s.mask]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.keys[key]; ok {
		return false
	}
	sh.keys[key] = struct{}{}
	s.count.Add(1)
	return true
}

// Contains reports whether key has been offered.
func (s *Set) Contains(key string) bool {
	sh := &s.shards[maphash.String(s.seed, key)&s.mask]
	sh.mu.Lock()
	_, ok := sh.keys[key]
	sh.mu.Unlock()
	return ok
}

// Cardinality returns the number of distinct keys offered so far.
// It is exact once all writers have finished.
func (s *Set) Cardinality() int64 {
	return s.count.Load()
}

// Len counts keys shard by shard under each shard's lock.
func (s *Set) Len() int {
	var n int
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.keys)
		sh.mu.Unlock()
	}
	return n
}

// Keys returns a sorted snapshot of every key in the set.
func (s *Set) Keys() []string {
	out := make([]string, 0, s.Cardinality())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k := range sh.keys {
			out = append(out, k)
		}
		sh.mu.Unlock()
	}
	sort.Strings(out)
	return out
}
