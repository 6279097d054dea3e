package ws

import (
	"bytes"
	"encoding/json"
)

const (
	typeContent  = "content"
	typePresence = "presence"
)

// Participant is the per-user entry in a presence list.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// contentFrame is what the server relays to peers when a member edits.
type contentFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	From    Participant     `json:"from"`
}

// presenceFrame carries the full participant list of a room.
type presenceFrame struct {
	Type  string        `json:"type"`
	Users []Participant `json:"users"`
}

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var jsonNull = []byte("null")

// decodeContent parses an inbound frame and returns its payload when the
// frame is a well-formed content message. Anything else (bad JSON, wrong
// type, missing or null payload) returns ok=false and is dropped by the
// caller; a bad frame never errors out of the connection loop.
func decodeContent(b []byte) (json.RawMessage, bool) {
	var in inboundFrame
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, false
	}
	if in.Type != typeContent {
		return nil, false
	}
	if len(in.Payload) == 0 || bytes.Equal(in.Payload, jsonNull) {
		return nil, false
	}
	return in.Payload, true
}

// encodeContent serializes a relayed edit once; the same bytes go to every
// peer.
func encodeContent(payload json.RawMessage, from Participant) []byte {
	b, _ := json.Marshal(contentFrame{Type: typeContent, Payload: payload, From: from})
	return b
}

// encodePresence serializes the participant list of a room.
func encodePresence(users []Participant) []byte {
	b, _ := json.Marshal(presenceFrame{Type: typePresence, Users: users})
	return b
}
