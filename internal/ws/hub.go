package ws

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/url"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Lampx83/AI-Portal-sub002/pkg/metrics"
)

// Identity is the acting user resolved from an upgrade request.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// IdentityResolver maps an upgrade request to the acting user, or errors
// for unauthenticated callers.
type IdentityResolver interface {
	ResolveIdentity(r *http.Request) (Identity, error)
}

// AccessResolver converts a user plus a room selector (article id or share
// token) into the article id the caller may join. A denial and a nonexistent
// article both come back as an error, indistinguishable to the caller.
type AccessResolver interface {
	ResolveAccess(ctx context.Context, userID, email, articleID, shareToken string) (string, error)
}

// Hub owns the room registry and drives every connection's lifecycle:
// gate the upgrade, join the room, relay content frames, tear down on close.
type Hub struct {
	log      *slog.Logger
	registry *Registry
	identity IdentityResolver
	access   AccessResolver
}

// NewHub wires the hub to its registry and resolvers
func NewHub(logger *slog.Logger, registry *Registry, identity IdentityResolver, access AccessResolver) *Hub {
	return &Hub{log: logger, registry: registry, identity: identity, access: access}
}

// ServeWS handles a new /ws connection for an article room.
// Rejections carry a bare status and no body, so an unauthorized caller
// learns nothing about whether the article exists.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	articleSel, shareToken, ok := roomSelector(r.URL.Query())
	if !ok {
		metrics.RejectedUpgrades.WithLabelValues("selector").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ident, err := h.identity.ResolveIdentity(r)
	if err != nil {
		metrics.RejectedUpgrades.WithLabelValues("identity").Inc()
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	articleID, err := h.access.ResolveAccess(r.Context(), ident.ID, ident.Email, articleSel, shareToken)
	if err != nil {
		metrics.RejectedUpgrades.WithLabelValues("access").Inc()
		w.WriteHeader(http.StatusForbidden)
		return
	}

	conn, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(conn, ident.ID, displayName(ident))
	h.join(articleID, c)
	h.log.Info("ws.join", "article", articleID, "user", ident.ID, "conn", c.ID())

	ctx := r.Context()
	go c.WriteLoop(ctx)

	for {
		frame, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.relay(articleID, c, frame)
	}

	// Transport close and transport error land here alike
	h.drop(articleID, c)
}

// join registers the connection and tells the whole room who is present now
func (h *Hub) join(articleID string, c *Conn) {
	h.registry.Join(articleID, c)
	metrics.ActiveConnections.Inc()
	metrics.ActiveRooms.Set(float64(h.registry.Rooms()))
	h.broadcastPresence(articleID)
}

// relay forwards a content frame to every other member of the room.
// Malformed frames are dropped without touching the connection.
func (h *Hub) relay(articleID string, c *Conn, frame []byte) {
	payload, ok := decodeContent(frame)
	if !ok {
		h.log.Debug("ws.frame.ignored", "article", articleID, "conn", c.ID())
		return
	}
	h.fanOut(articleID, encodeContent(payload, c.Participant()), c.ID())
}

// drop removes the connection from its room and notifies the remaining
// members. Safe to call more than once; only the first call mutates the
// registry.
func (h *Hub) drop(articleID string, c *Conn) {
	c.teardown.Do(func() {
		empty := h.registry.Leave(articleID, c)
		metrics.ActiveConnections.Dec()
		metrics.ActiveRooms.Set(float64(h.registry.Rooms()))
		if !empty {
			h.broadcastPresence(articleID)
		}
		_ = c.Close()
		h.log.Info("ws.leave", "article", articleID, "conn", c.ID())
	})
}

// broadcastPresence sends the fresh participant list to every room member,
// the most recent joiner included
func (h *Hub) broadcastPresence(articleID string) {
	members := h.registry.Members(articleID)
	if len(members) == 0 {
		return
	}
	users := make([]Participant, 0, len(members))
	for _, m := range members {
		users = append(users, m.Participant())
	}
	h.fanOut(articleID, encodePresence(users), "")
}

// fanOut delivers the same bytes to each room member except excludeID.
// Delivery is best-effort per peer: a full buffer drops the frame for that
// peer only.
func (h *Hub) fanOut(articleID string, b []byte, excludeID string) {
	for _, m := range h.registry.Members(articleID) {
		if m.ID() == excludeID {
			continue
		}
		if !m.Send(b) {
			h.log.Debug("ws.send.drop", "article", articleID, "conn", m.ID())
		}
	}
	metrics.BroadcastFrames.Inc()
}

const maxDisplayName = 100

// guestName is the portal's fallback when a token carries neither name nor
// email.
const guestName = "Khách"

// displayName picks name, then email, then the guest fallback, bounded so a
// hostile token cannot inflate presence payloads.
func displayName(id Identity) string {
	name := id.Name
	if name == "" {
		name = id.Email
	}
	if name == "" {
		name = guestName
	}
	if r := []rune(name); len(r) > maxDisplayName {
		name = string(r[:maxDisplayName])
	}
	return name
}

// roomSelector extracts exactly one selector from the query. A share token
// wins when both are present; a malformed value of either rejects the
// upgrade.
func roomSelector(q url.Values) (articleID, shareToken string, ok bool) {
	if tok := q.Get("shareToken"); tok != "" {
		if !validShareToken(tok) {
			return "", "", false
		}
		return "", tok, true
	}
	if id := q.Get("articleId"); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return "", "", false
		}
		return id, "", true
	}
	return "", "", false
}

// validShareToken checks the opaque token is a hex string of sane length
func validShareToken(tok string) bool {
	if len(tok) < 16 || len(tok) > 128 || len(tok)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(tok)
	return err == nil
}
