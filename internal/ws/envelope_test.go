package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContent(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		ok    bool
	}{
		{"valid string payload", `{"type":"content","payload":"hello"}`, true},
		{"valid object payload", `{"type":"content","payload":{"ops":[1,2]}}`, true},
		{"unknown type", `{"type":"ping"}`, false},
		{"presence from a client", `{"type":"presence","users":[]}`, false},
		{"missing payload", `{"type":"content"}`, false},
		{"null payload", `{"type":"content","payload":null}`, false},
		{"invalid json", `{"type":`, false},
		{"not an object", `[1,2,3]`, false},
		{"empty frame", ``, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := decodeContent([]byte(tc.frame))
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestEncodeContentCarriesSender(t *testing.T) {
	b := encodeContent(json.RawMessage(`"hello"`), Participant{ID: "u1", Name: "Alice"})

	var f contentFrame
	require.NoError(t, json.Unmarshal(b, &f))
	assert.Equal(t, typeContent, f.Type)
	assert.Equal(t, `"hello"`, string(f.Payload))
	assert.Equal(t, "u1", f.From.ID)
	assert.Equal(t, "Alice", f.From.Name)
}

func TestEncodePresence(t *testing.T) {
	b := encodePresence([]Participant{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}})

	var f presenceFrame
	require.NoError(t, json.Unmarshal(b, &f))
	assert.Equal(t, typePresence, f.Type)
	assert.Len(t, f.Users, 2)
}
