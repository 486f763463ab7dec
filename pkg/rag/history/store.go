package history

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Turn is one completed question/answer exchange. Turns are immutable and
// kept in strict arrival order within a session.
type Turn struct {
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Store holds per-session conversation history in memory. Sessions expire
// after the configured TTL instead of accumulating for the process lifetime;
// every append refreshes the deadline so only idle sessions are dropped.
type Store struct {
	mu       sync.Mutex // guards entry creation only
	sessions *cache.Cache
}

func NewStore(ttl, purgeInterval time.Duration) *Store {
	return &Store{
		sessions: cache.New(ttl, purgeInterval),
	}
}

// sessionEntry serializes all reads and appends for one session id.
// Different sessions never contend on each other's lock.
type sessionEntry struct {
	mu    sync.Mutex
	turns []Turn
}

func (s *Store) entry(sessionID string) *sessionEntry {
	if x, found := s.sessions.Get(sessionID); found {
		return x.(*sessionEntry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, found := s.sessions.Get(sessionID); found {
		return x.(*sessionEntry)
	}
	e := &sessionEntry{}
	s.sessions.Set(sessionID, e, cache.DefaultExpiration)
	return e
}

// Get returns the session's turns in chronological order. An unseen session
// id is created as a side effect and yields an empty slice.
func (s *Store) Get(sessionID string) []Turn {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	turns := make([]Turn, len(e.turns))
	copy(turns, e.turns)
	return turns
}

// Append records one completed turn for the session and refreshes its TTL.
func (s *Store) Append(sessionID, question, answer string) {
	e := s.entry(sessionID)
	e.mu.Lock()
	e.turns = append(e.turns, Turn{
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	})
	e.mu.Unlock()

	s.sessions.Set(sessionID, e, cache.DefaultExpiration)
}
