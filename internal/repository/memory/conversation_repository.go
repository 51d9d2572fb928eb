package memory

import (
	"ai-assistant-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps a bounded exchange window per owner, oldest
// first. The window never exceeds 2*maxExchanges entries; appends always add
// a user/assistant pair as one unit and eviction removes pairs from the
// front, so no unpaired entry is ever dropped.
type ConversationRepository struct {
	cache        *cache.Cache
	locks        keyedLock
	maxExchanges int
}

func NewConversationRepository(maxExchanges int) *ConversationRepository {
	if maxExchanges <= 0 {
		maxExchanges = 10
	}
	return &ConversationRepository{
		cache:        cache.New(cache.NoExpiration, 0),
		maxExchanges: maxExchanges,
	}
}

// History returns a copy of the owner's window, oldest first.
func (r *ConversationRepository) History(ownerId string) []llm.Message {
	mu := r.locks.lock(ownerId)
	defer mu.Unlock()

	window := r.window(ownerId)
	out := make([]llm.Message, len(window))
	copy(out, window)
	return out
}

// Append records one completed exchange and evicts the oldest pairs while
// the window exceeds its bound.
func (r *ConversationRepository) Append(ownerId, userMessage, assistantReply string) {
	mu := r.locks.lock(ownerId)
	defer mu.Unlock()

	window := r.window(ownerId)
	window = append(window,
		llm.Message{Role: "user", Content: userMessage},
		llm.Message{Role: "assistant", Content: assistantReply},
	)

	for len(window) > r.maxExchanges*2 {
		window = window[2:]
	}

	r.cache.Set(ownerId, window, cache.NoExpiration)
}

// Clear removes the owner's window wholesale.
func (r *ConversationRepository) Clear(ownerId string) {
	mu := r.locks.lock(ownerId)
	defer mu.Unlock()

	r.cache.Delete(ownerId)
}

func (r *ConversationRepository) window(ownerId string) []llm.Message {
	if x, found := r.cache.Get(ownerId); found {
		return x.([]llm.Message)
	}
	return nil
}
