package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Connect("u1", "c1")
	r.Connect("u1", "c2")

	conn, ok := r.Lookup("u1")
	assert.True(t, ok)
	assert.Equal(t, "c2", conn)

	_, removed := r.Disconnect("c2")
	assert.True(t, removed)
	_, ok = r.Lookup("u1")
	assert.False(t, ok)
}

func TestRegistryStaleDisconnectKeepsNewerConnection(t *testing.T) {
	r := NewRegistry()
	r.Connect("u1", "c1")
	r.Connect("u1", "c2")

	_, removed := r.Disconnect("c1")
	assert.False(t, removed)

	conn, ok := r.Lookup("u1")
	assert.True(t, ok)
	assert.Equal(t, "c2", conn)
}

func TestRegistryUnknownConnection(t *testing.T) {
	r := NewRegistry()
	userID, removed := r.Disconnect("nope")
	assert.False(t, removed)
	assert.Empty(t, userID)
}

func TestRegistryOnlineUsersSorted(t *testing.T) {
	r := NewRegistry()
	for i, u := range []string{"10", "2", "33", "1"} {
		r.Connect(u, fmt.Sprintf("c%d", i))
	}
	assert.Equal(t, []string{"1", "2", "10", "33"}, r.OnlineUsers())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := fmt.Sprintf("u%d", i%5)
			c := fmt.Sprintf("c%d", i)
			r.Connect(u, c)
			r.Lookup(u)
			r.OnlineUsers()
			r.Disconnect(c)
		}(i)
	}
	wg.Wait()
	assert.Empty(t, r.OnlineUsers())
}
