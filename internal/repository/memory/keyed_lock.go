package memory

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyedLock provides per-key mutual exclusion without a global lock.
// Keys are striped over a fixed set of mutexes, so compound read-modify-write
// operations on the same owner are serialized while distinct owners proceed
// in parallel (modulo stripe collisions).
type keyedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (k *keyedLock) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &k.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu
}
