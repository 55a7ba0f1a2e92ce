package realtime

import (
	"sort"
	"strconv"
	"sync"
)

// Registry maps each online user to its active connection. A reconnect
// replaces the previous mapping.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]string
	byConn map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]string),
		byConn: make(map[string]string),
	}
}

func (r *Registry) Connect(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byUser[userID]; ok && old != connID {
		delete(r.byConn, old)
	}
	r.byUser[userID] = connID
	r.byConn[connID] = userID
}

// Disconnect forgets connID. The user entry is removed only while it still
// points at connID, so a stale connection closing never evicts a newer one.
func (r *Registry) Disconnect(connID string) (userID string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	if r.byUser[userID] == connID {
		delete(r.byUser, userID)
		return userID, true
	}
	return userID, false
}

func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

// OnlineUsers returns the connected user ids, numeric ids in numeric order.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	users := make([]string, 0, len(r.byUser))
	for u := range r.byUser {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		a, errA := strconv.ParseUint(users[i], 10, 64)
		b, errB := strconv.ParseUint(users[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return users[i] < users[j]
	})
	return users
}
