// Package protocol owns the per-connection session lifecycle and the relay
// of interaction events to the room.
//
// A connection moves through three states: connected (transport open, no
// participant yet), joined (participant registered), gone (removed). Only
// user:join creates a participant and only transport disconnection removes
// one; every other inbound frame either merges fields into the sender's
// record or is relayed per the routing table. Bad input is dropped, never
// answered and never fatal.
package protocol

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/trudypainter/socket-friend/domain"
	"github.com/trudypainter/socket-friend/hub"
	"github.com/trudypainter/socket-friend/metrics"
	"github.com/trudypainter/socket-friend/registry"
)

type Handler struct {
	room     *hub.Room
	users    *registry.Registry
	validate *validator.Validate
}

func NewHandler(room *hub.Room, users *registry.Registry) *Handler {
	return &Handler{
		room:     room,
		users:    users,
		validate: validator.New(),
	}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
		slog.Warn("invalid frame", "clientId", conn.ID(), "error", err)
		return
	}
	metrics.EventsTotal.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case domain.EventUserJoin:
		h.handleJoin(conn, env.Data)
	case domain.EventUserUpdate:
		h.handleUpdate(conn, env.Data)
	case domain.EventModeChange:
		h.handleModeChange(conn, env.Data)
	default:
		h.relay(conn, env)
	}
}

// Disconnect moves the connection to its terminal state: the record is
// removed and the departure is announced to everyone still in the room.
// Safe to call for connections that never joined and safe to call twice;
// only the call that actually removes a record broadcasts.
func (h *Handler) Disconnect(conn domain.Connection) {
	if !h.users.Remove(conn.ID()) {
		return
	}

	frame, err := encode(domain.EventUserLeft, domain.UserLeftPayload{UserID: conn.ID()})
	if err == nil {
		h.room.BroadcastAll(frame)
	}
	slog.Info("user left", "clientId", conn.ID(), "clients", h.users.Count())
}

func (h *Handler) handleJoin(conn domain.Connection, data json.RawMessage) {
	var p domain.Profile
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
			slog.Warn("invalid join payload", "clientId", conn.ID(), "error", err)
			return
		}
	}

	user, err := h.users.Insert(conn.ID(), conn, p)
	if errors.Is(err, registry.ErrDuplicateID) {
		// Ids are minted server-side per connection, so only a repeated
		// user:join on the same connection lands here.
		metrics.DroppedTotal.WithLabelValues(metrics.DropDuplicate).Inc()
		slog.Error("join rejected", "clientId", conn.ID(), "error", err)
		return
	}

	h.echo(conn, domain.EventUserConnected, domain.UserConnectedPayload{UserID: user.ID})
	// Snapshot taken after the insert, so the new participant sees itself.
	h.echo(conn, domain.EventUsersAll, h.users.All())

	joined := domain.UserJoinedPayload{
		UserID:      user.ID,
		Username:    user.Username,
		CursorColor: user.CursorColor,
		AvatarURL:   user.AvatarURL,
	}
	if frame, err := encode(domain.EventUserJoined, joined); err == nil {
		h.room.BroadcastOthers(user.ID, frame)
	}

	slog.Info("user joined", "clientId", user.ID, "username", user.Username, "clients", h.users.Count())
}

func (h *Handler) handleUpdate(conn domain.Connection, data json.RawMessage) {
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
		slog.Warn("invalid update payload", "clientId", conn.ID(), "error", err)
		return
	}

	user, ok := h.users.Update(conn.ID(), p)
	if !ok {
		metrics.DroppedTotal.WithLabelValues(metrics.DropNotJoined).Inc()
		return
	}

	updated := domain.UserUpdatedPayload{
		UserID:      user.ID,
		Username:    p.Username,
		CursorColor: p.CursorColor,
		AvatarURL:   p.AvatarURL,
	}
	if frame, err := encode(domain.EventUserUpdated, updated); err == nil {
		h.room.BroadcastOthers(user.ID, frame)
	}
}

func (h *Handler) handleModeChange(conn domain.Connection, data json.RawMessage) {
	var p domain.ModeChangePayload
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
		slog.Warn("invalid mode payload", "clientId", conn.ID(), "error", err)
		return
	}
	if err := h.validate.Struct(&p); err != nil {
		metrics.DroppedTotal.WithLabelValues(metrics.DropInvalid).Inc()
		slog.Warn("mode change missing fields", "clientId", conn.ID(), "error", err)
		return
	}

	user, ok := h.users.SetMode(conn.ID(), p.Mode)
	if !ok {
		metrics.DroppedTotal.WithLabelValues(metrics.DropNotJoined).Inc()
		return
	}

	out := struct {
		UserID    string `json:"userId"`
		Mode      string `json:"mode"`
		Timestamp int64  `json:"timestamp,omitempty"`
	}{user.ID, p.Mode, p.Timestamp}
	if frame, err := encode(domain.EventModeChange, out); err == nil {
		h.room.BroadcastOthers(user.ID, frame)
	}
}

// relay forwards a table-routed event to its audience with the sender's id
// stamped over whatever identity the client supplied.
func (h *Handler) relay(conn domain.Connection, env domain.Envelope) {
	rt, ok := routes[env.Type]
	if !ok {
		metrics.DroppedTotal.WithLabelValues(metrics.DropUnknown).Inc()
		slog.Warn("unknown event type", "clientId", conn.ID(), "type", env.Type)
		return
	}

	sender, ok := h.users.Get(conn.ID())
	if !ok {
		// Frame raced ahead of the join handshake. Drop without error.
		metrics.DroppedTotal.WithLabelValues(metrics.DropNotJoined).Inc()
		return
	}

	if rt.payload != nil {
		p := rt.payload()
		if err := json.Unmarshal(env.Data, p); err != nil {
			metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
			slog.Warn("invalid payload", "clientId", sender.ID, "type", env.Type, "error", err)
			return
		}
		if err := h.validate.Struct(p); err != nil {
			metrics.DroppedTotal.WithLabelValues(metrics.DropInvalid).Inc()
			slog.Warn("payload missing fields", "clientId", sender.ID, "type", env.Type, "error", err)
			return
		}
	}

	body := make(map[string]any)
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &body); err != nil {
			metrics.DroppedTotal.WithLabelValues(metrics.DropMalformed).Inc()
			slog.Warn("invalid payload", "clientId", sender.ID, "type", env.Type, "error", err)
			return
		}
	}
	body["userId"] = sender.ID

	frame, err := encode(rt.outbound, body)
	if err != nil {
		slog.Warn("marshal error", "clientId", sender.ID, "type", env.Type, "error", err)
		return
	}

	switch rt.shape {
	case shapeAll:
		h.room.BroadcastAll(frame)
	default:
		h.room.BroadcastOthers(sender.ID, frame)
	}
}

func (h *Handler) echo(conn domain.Connection, eventType string, v any) {
	frame, err := encode(eventType, v)
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "type", eventType, "error", err)
		return
	}
	if err := conn.Send(frame); err != nil {
		slog.Warn("send failed", "clientId", conn.ID(), "type", eventType, "error", err)
	}
}

func encode(eventType string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(domain.Envelope{Type: eventType, Data: body})
}
