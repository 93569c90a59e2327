// Package hub delivers outbound frames to a room's audience. The room is
// the addressable broadcast group; membership comes from the session
// registry, which the hub only reads.
package hub

import (
	"log/slog"

	"github.com/trudypainter/socket-friend/registry"
)

type Room struct {
	name  string
	users *registry.Registry
}

func NewRoom(name string, users *registry.Registry) *Room {
	return &Room{name: name, users: users}
}

func (r *Room) Name() string { return r.name }

// SendTo delivers data to a single participant's connection.
func (r *Room) SendTo(id string, data []byte) {
	user, ok := r.users.Get(id)
	if !ok {
		return
	}
	if err := user.Conn.Send(data); err != nil {
		slog.Warn("send failed", "room", r.name, "clientId", id, "error", err)
	}
}

// BroadcastOthers delivers data to every participant except the sender.
// Every recipient receives the identical bytes.
func (r *Room) BroadcastOthers(senderID string, data []byte) {
	for _, user := range r.users.All() {
		if user.ID == senderID {
			continue
		}
		if err := user.Conn.Send(data); err != nil {
			slog.Warn("send failed", "room", r.name, "clientId", user.ID, "error", err)
		}
	}
}

// BroadcastAll delivers data to every participant in the room.
func (r *Room) BroadcastAll(data []byte) {
	for _, user := range r.users.All() {
		if err := user.Conn.Send(data); err != nil {
			slog.Warn("send failed", "room", r.name, "clientId", user.ID, "error", err)
		}
	}
}

func (r *Room) Count() int {
	return r.users.Count()
}
