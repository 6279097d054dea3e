package ws

import "sync"

// Registry is the single source of truth for room membership. All mutations
// go through Join/Leave; a room entry exists iff its member set is non-empty.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Conn // articleID -> connID -> conn
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{rooms: map[string]map[string]*Conn{}}
}

// Join adds a connection to the room for articleID, creating the room if
// needed. The caller guarantees a connection joins at most once.
func (r *Registry) Join(articleID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.rooms[articleID]
	if rm == nil {
		rm = map[string]*Conn{}
		r.rooms[articleID] = rm
	}
	rm[c.ID()] = c
}

// Leave removes a connection from the room. When the last member leaves the
// room entry is deleted; the return value tells callers whether the room is
// now empty so they can skip a presence broadcast to nobody.
func (r *Registry) Leave(articleID string, c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.rooms[articleID]
	if rm == nil {
		return true
	}
	delete(rm, c.ID())
	if len(rm) == 0 {
		delete(r.rooms, articleID)
		return true
	}
	return false
}

// Members returns a snapshot of the room's connections at call time
func (r *Registry) Members(articleID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm := r.rooms[articleID]
	out := make([]*Conn, 0, len(rm))
	for _, c := range rm {
		out = append(out, c)
	}
	return out
}

// Rooms returns the number of active rooms
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
