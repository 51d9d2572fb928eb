package memory

import (
	"github.com/patrickmn/go-cache"
)

// Mode is the per-user conversational mode.
type Mode string

const (
	ModeNone  Mode = "NONE"
	ModeStore Mode = "STORE"
	ModeChat  Mode = "CHAT"
)

// SessionRepository holds the per-user session mode. Sessions are created
// lazily on first contact, never expire, and live for the process lifetime.
type SessionRepository struct {
	cache *cache.Cache
	locks keyedLock
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Mode returns the owner's current mode, creating the session in NONE if this
// is the first contact. The get-or-create is atomic per owner: two concurrent
// first messages cannot race into independently-initialized states.
func (r *SessionRepository) Mode(ownerId string) Mode {
	mu := r.locks.lock(ownerId)
	defer mu.Unlock()

	if x, found := r.cache.Get(ownerId); found {
		return x.(Mode)
	}
	r.cache.Set(ownerId, ModeNone, cache.NoExpiration)
	return ModeNone
}

func (r *SessionRepository) SetMode(ownerId string, mode Mode) {
	mu := r.locks.lock(ownerId)
	defer mu.Unlock()

	r.cache.Set(ownerId, mode, cache.NoExpiration)
}

// Reset returns the owner to NONE. The session entry is kept; "end" is a
// transition, not a deletion.
func (r *SessionRepository) Reset(ownerId string) {
	r.SetMode(ownerId, ModeNone)
}
