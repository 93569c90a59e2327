package domain

import "time"

const (
	DefaultCursorColor = "#000000"
	DefaultMode        = "default"
)

// Participant is one connected user's identity and display attributes.
type Participant struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	CursorColor string    `json:"cursorColor"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Mode        string    `json:"mode"`
	ConnectedAt time.Time `json:"connectedAt"`

	Conn Connection `json:"-"`
}

// Profile is the mutable display subset of a Participant. Empty fields in
// a partial update mean "keep the previous value".
type Profile struct {
	Username    string `json:"username,omitempty"`
	CursorColor string `json:"cursorColor,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// DefaultUsername derives a fallback display name from a participant id.
func DefaultUsername(id string) string {
	if len(id) > 5 {
		id = id[:5]
	}
	return "User " + id
}

type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Handler consumes inbound frames and connection teardown signals.
type Handler interface {
	Handle(conn Connection, data []byte)
	Disconnect(conn Connection)
}
