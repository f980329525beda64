package chat

import "sync"

// PresenceTable maps a user identity (email) to the client that currently
// represents it. It is the only shared mutable state in the relay; all
// access goes through these three methods.
type PresenceTable struct {
	mu      sync.RWMutex
	entries map[string]*Client
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{entries: map[string]*Client{}}
}

// Bind registers client as the live connection for identity. A later bind
// for the same identity always wins; the superseded connection stays open
// but is no longer reachable through the table.
func (t *PresenceTable) Bind(identity string, client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[identity] = client
}

// Unbind removes the entry currently held by client. Disconnects arrive
// keyed by connection, not identity, so this scans by value. If the
// identity already rebound to a newer connection this is a no-op: a stale
// disconnect must never evict the newer entry.
func (t *PresenceTable) Unbind(client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for identity, c := range t.entries {
		if c == client {
			delete(t.entries, identity)
			return
		}
	}
}

// Lookup returns the live client for identity. Absence is a normal
// outcome meaning the user is not connected right now.
func (t *PresenceTable) Lookup(identity string) (*Client, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entries[identity]
	return c, ok
}
