package ws

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(logger, NewRegistry(), nil, nil)
}

// tryRecv pops one queued outbound frame, if any. The hub runs synchronously
// in these tests, so anything sent is already in the buffer.
func tryRecv(c *Conn) ([]byte, bool) {
	select {
	case b := <-c.out:
		return b, true
	default:
		return nil, false
	}
}

func recvPresence(t *testing.T, c *Conn) []Participant {
	t.Helper()
	b, ok := tryRecv(c)
	require.True(t, ok, "expected a queued frame")
	var f presenceFrame
	require.NoError(t, json.Unmarshal(b, &f))
	require.Equal(t, typePresence, f.Type)
	return f.Users
}

func userIDs(users []Participant) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestJoinBroadcastsPresenceToAllMembers(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")

	h.join("a1", c1)
	assert.ElementsMatch(t, []string{"u1"}, userIDs(recvPresence(t, c1)))

	h.join("a1", c2)
	assert.ElementsMatch(t, []string{"u1", "u2"}, userIDs(recvPresence(t, c1)))
	assert.ElementsMatch(t, []string{"u1", "u2"}, userIDs(recvPresence(t, c2)))
}

func TestRelayExcludesSender(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")
	h.join("a1", c1)
	h.join("a1", c2)
	for _, c := range []*Conn{c1, c2} {
		for {
			if _, ok := tryRecv(c); !ok {
				break
			}
		}
	}

	h.relay("a1", c1, []byte(`{"type":"content","payload":"hello"}`))

	b, ok := tryRecv(c2)
	require.True(t, ok, "peer receives the relayed edit")
	var f contentFrame
	require.NoError(t, json.Unmarshal(b, &f))
	assert.Equal(t, typeContent, f.Type)
	assert.Equal(t, `"hello"`, string(f.Payload))
	assert.Equal(t, "u1", f.From.ID)
	assert.Equal(t, "Alice", f.From.Name)

	_, ok = tryRecv(c1)
	assert.False(t, ok, "sender must not receive its own edit")
}

func TestLeaveRebroadcastsPresence(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")
	h.join("a1", c1)
	h.join("a1", c2)
	for {
		if _, ok := tryRecv(c1); !ok {
			break
		}
	}

	h.drop("a1", c2)

	assert.ElementsMatch(t, []string{"u1"}, userIDs(recvPresence(t, c1)))
	assert.Equal(t, 1, h.registry.Rooms(), "room survives while a member remains")
}

func TestLastLeaveRemovesRoomWithoutBroadcast(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	h.join("a1", c1)
	tryRecv(c1)

	h.drop("a1", c1)

	assert.Equal(t, 0, h.registry.Rooms())
	assert.Empty(t, h.registry.Members("a1"))
	_, ok := tryRecv(c1)
	assert.False(t, ok, "no presence broadcast for an empty room")
}

func TestDropIsIdempotent(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")
	h.join("a1", c1)
	h.join("a1", c2)
	for {
		if _, ok := tryRecv(c1); !ok {
			break
		}
	}

	h.drop("a1", c2)
	h.drop("a1", c2)

	recvPresence(t, c1)
	_, ok := tryRecv(c1)
	assert.False(t, ok, "second drop must not trigger another broadcast")
	assert.Len(t, h.registry.Members("a1"), 1)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")
	h.join("a1", c1)
	h.join("a1", c2)
	for _, c := range []*Conn{c1, c2} {
		for {
			if _, ok := tryRecv(c); !ok {
				break
			}
		}
	}

	h.relay("a1", c1, []byte(`{"type":"ping"}`))
	h.relay("a1", c1, []byte(`not json at all`))
	h.relay("a1", c1, []byte(`{"type":"content"}`))

	_, ok := tryRecv(c2)
	assert.False(t, ok, "bad frames must not reach peers")

	// The connection stays usable for subsequent valid messages
	h.relay("a1", c1, []byte(`{"type":"content","payload":1}`))
	_, ok = tryRecv(c2)
	assert.True(t, ok)
}

func TestBroadcastIsolationBetweenRooms(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	c2 := NewConn(nil, "u2", "Bob")
	h.join("a1", c1)
	h.join("a2", c2)
	tryRecv(c1)
	tryRecv(c2)

	h.relay("a1", c1, []byte(`{"type":"content","payload":"hello"}`))

	_, ok := tryRecv(c2)
	assert.False(t, ok, "a broadcast in room a1 must never reach room a2")
}

func TestSlowPeerDoesNotBlockBroadcast(t *testing.T) {
	h := newTestHub()
	c1 := NewConn(nil, "u1", "Alice")
	slow := NewConn(nil, "u2", "Bob")
	c3 := NewConn(nil, "u3", "Carol")
	slow.out = make(chan []byte) // unbuffered and never read
	h.join("a1", c1)
	h.join("a1", slow)
	h.join("a1", c3)
	for _, c := range []*Conn{c1, c3} {
		for {
			if _, ok := tryRecv(c); !ok {
				break
			}
		}
	}

	h.relay("a1", c1, []byte(`{"type":"content","payload":"x"}`))

	_, ok := tryRecv(c3)
	assert.True(t, ok, "other peers still get the frame")
}

func TestDisplayName(t *testing.T) {
	long := strings.Repeat("x", 150)

	cases := []struct {
		name string
		in   Identity
		want string
	}{
		{"name wins", Identity{ID: "u", Name: "Alice", Email: "a@b.c"}, "Alice"},
		{"email fallback", Identity{ID: "u", Email: "a@b.c"}, "a@b.c"},
		{"guest fallback", Identity{ID: "u"}, guestName},
		{"truncated", Identity{ID: "u", Name: long}, long[:maxDisplayName]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, displayName(tc.in))
		})
	}
}

func TestRoomSelector(t *testing.T) {
	const id = "0d9bb53c-2d1a-4b5e-9b6a-0a1b2c3d4e5f"
	tok := strings.Repeat("ab", 16)

	cases := []struct {
		name        string
		query       string
		wantArticle string
		wantToken   string
		wantOK      bool
	}{
		{"article id", "articleId=" + id, id, "", true},
		{"share token", "shareToken=" + tok, "", tok, true},
		{"token precedence", "articleId=" + id + "&shareToken=" + tok, "", tok, true},
		{"neither", "", "", "", false},
		{"bad uuid", "articleId=not-a-uuid", "", "", false},
		{"non-hex token", "shareToken=zzzzzzzzzzzzzzzz", "", "", false},
		{"short token", "shareToken=abcd", "", "", false},
		{"malformed token with valid id", "articleId=" + id + "&shareToken=zz", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			art, tok, ok := roomSelector(q)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantArticle, art)
			assert.Equal(t, tc.wantToken, tok)
		})
	}
}
