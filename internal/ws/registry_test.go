package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnIDsAreStableAndDistinct(t *testing.T) {
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u1", "Alice")

	require.NotEmpty(t, c1.ID())
	assert.Equal(t, c1.ID(), c1.ID())
	assert.NotEqual(t, c1.ID(), c2.ID(), "two handles for the same user stay distinguishable")
}

func TestRegistryJoinAndMembers(t *testing.T) {
	reg := NewRegistry()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")

	reg.Join("a1", c1)
	reg.Join("a1", c2)

	members := reg.Members("a1")
	require.Len(t, members, 2)
	assert.Equal(t, 1, reg.Rooms())
}

func TestRegistryLeaveReportsEmptiness(t *testing.T) {
	reg := NewRegistry()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")

	reg.Join("a1", c1)
	reg.Join("a1", c2)

	assert.False(t, reg.Leave("a1", c1), "room still has a member")
	assert.True(t, reg.Leave("a1", c2), "last member out empties the room")
}

func TestRegistryRemovesEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	c := NewConn(nil, "u1", "Alice")

	reg.Join("a1", c)
	require.Equal(t, 1, reg.Rooms())

	reg.Leave("a1", c)
	assert.Equal(t, 0, reg.Rooms())
	assert.Empty(t, reg.Members("a1"))
}

func TestRegistryLeaveUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	c := NewConn(nil, "u1", "Alice")
	assert.True(t, reg.Leave("nope", c))
}

func TestRegistryRoomsAreIndependent(t *testing.T) {
	reg := NewRegistry()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")

	reg.Join("a1", c1)
	reg.Join("a2", c2)

	require.Equal(t, 2, reg.Rooms())
	assert.Len(t, reg.Members("a1"), 1)
	assert.Len(t, reg.Members("a2"), 1)

	reg.Leave("a1", c1)
	assert.Len(t, reg.Members("a2"), 1, "leaving a1 must not touch a2")
}

func TestRegistryMembersSnapshotIsFresh(t *testing.T) {
	reg := NewRegistry()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")

	reg.Join("a1", c1)
	first := reg.Members("a1")
	require.Len(t, first, 1)

	reg.Join("a1", c2)
	assert.Len(t, reg.Members("a1"), 2)
	assert.Len(t, first, 1, "earlier snapshot stays untouched")
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				c := NewConn(nil, "u", "n")
				reg.Join("a1", c)
				reg.Members("a1")
				reg.Leave("a1", c)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, 0, reg.Rooms())
}
