package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(identity string) *Client {
	return NewClient(identity, &fakeConn{})
}

func Test_Lookup_Returns_Latest_Bind(t *testing.T) {
	req := require.New(t)
	table := NewPresenceTable()

	h1 := newTestClient("a@x.edu")
	h2 := newTestClient("a@x.edu")
	table.Bind("a@x.edu", h1)
	table.Bind("a@x.edu", h2)

	got, ok := table.Lookup("a@x.edu")
	req.True(ok)
	req.Same(h2, got)
}

func Test_Stale_Unbind_Keeps_Newer_Entry(t *testing.T) {
	req := require.New(t)
	table := NewPresenceTable()

	h1 := newTestClient("a@x.edu")
	h2 := newTestClient("a@x.edu")
	table.Bind("a@x.edu", h1)
	table.Bind("a@x.edu", h2)

	// The old connection's disconnect arrives after the reconnect.
	table.Unbind(h1)

	got, ok := table.Lookup("a@x.edu")
	req.True(ok)
	req.Same(h2, got)
}

func Test_Unbind_Removes_Entry(t *testing.T) {
	req := require.New(t)
	table := NewPresenceTable()

	h := newTestClient("a@x.edu")
	table.Bind("a@x.edu", h)
	table.Unbind(h)

	_, ok := table.Lookup("a@x.edu")
	req.False(ok)
}

func Test_Lookup_Absent_Identity(t *testing.T) {
	req := require.New(t)
	table := NewPresenceTable()

	_, ok := table.Lookup("nobody@x.edu")
	req.False(ok)
}

func Test_Unbind_Only_Touches_Own_Entry(t *testing.T) {
	req := require.New(t)
	table := NewPresenceTable()

	ha := newTestClient("a@x.edu")
	hb := newTestClient("b@x.edu")
	table.Bind("a@x.edu", ha)
	table.Bind("b@x.edu", hb)

	table.Unbind(ha)

	_, ok := table.Lookup("a@x.edu")
	req.False(ok)
	got, ok := table.Lookup("b@x.edu")
	req.True(ok)
	req.Same(hb, got)
}

func Test_Presence_Concurrent_Access(t *testing.T) {
	table := NewPresenceTable()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		identity := fmt.Sprintf("user%d@x.edu", i%10)
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient(identity)
			table.Bind(identity, c)
			table.Lookup(identity)
			table.Unbind(c)
		}()
	}
	wg.Wait()

	// Whatever remains must still be internally consistent.
	for i := 0; i < 10; i++ {
		identity := fmt.Sprintf("user%d@x.edu", i)
		if c, ok := table.Lookup(identity); ok {
			require.Equal(t, identity, c.Identity)
		}
	}
}
