package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnseenSessionReturnsEmpty(t *testing.T) {
	store := NewStore(time.Hour, time.Hour)

	turns := store.Get("fresh-session")

	assert.Empty(t, turns)
}

func TestAppendKeepsChronologicalOrder(t *testing.T) {
	store := NewStore(time.Hour, time.Hour)

	n := 10
	for i := 0; i < n; i++ {
		store.Append("s1", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	turns := store.Get("s1")
	require.Len(t, turns, n)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("question %d", i), turn.Question)
		assert.Equal(t, fmt.Sprintf("answer %d", i), turn.Answer)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewStore(time.Hour, time.Hour)

	store.Append("a", "qa", "aa")
	store.Append("b", "qb", "ab")
	store.Append("b", "qb2", "ab2")

	assert.Len(t, store.Get("a"), 1)
	assert.Len(t, store.Get("b"), 2)
}

func TestGetReturnsACopy(t *testing.T) {
	store := NewStore(time.Hour, time.Hour)
	store.Append("s", "q", "a")

	turns := store.Get("s")
	turns[0].Question = "mutated"

	assert.Equal(t, "q", store.Get("s")[0].Question)
}

func TestConcurrentAppendsSingleSession(t *testing.T) {
	store := NewStore(time.Hour, time.Hour)

	var wg sync.WaitGroup
	n := 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append("shared", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	// Arrival order among racing goroutines is unspecified, but every
	// append must land exactly once
	assert.Len(t, store.Get("shared"), n)
}

func TestIdleSessionExpires(t *testing.T) {
	store := NewStore(20*time.Millisecond, 5*time.Millisecond)

	store.Append("short-lived", "q", "a")
	require.Len(t, store.Get("short-lived"), 1)

	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, store.Get("short-lived"))
}
