package domain

import "encoding/json"

// Envelope is the one-frame wire format: a named event plus its body.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types (client -> relay).
const (
	EventUserJoin      = "user:join"
	EventUserUpdate    = "user:update"
	EventModeChange    = "mode:change"
	EventCursorMove    = "cursor:move"
	EventCursorClick   = "cursor:click"
	EventDrawingStart  = "drawing:start"
	EventDrawingStroke = "drawing:stroke"
	EventDrawingEnd    = "drawing:end"
	EventMusicNote     = "music:note"
	EventCombatAttack  = "combat:attack"
	EventSwordAttack   = "sword:attack"
	EventSwordHit      = "sword:hit"
	EventEmojiDraw     = "emoji:draw"
	EventChatMessage   = "chat:message"
	EventChatTyping    = "chat:typing"
	EventChatFade      = "chat:fade"
)

// Outbound event types (relay -> client).
const (
	EventUserConnected = "user:connected"
	EventUsersAll      = "users:all"
	EventUserJoined    = "user:joined"
	EventUserUpdated   = "user:updated"
	EventUserLeft      = "user:left"
	EventCursorUpdate  = "cursor:update"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Per-kind inbound payloads. The validate tags are the required-field
// contract; fields clients attach beyond these pass through the relay
// untouched. Position fields are pointers so presence is checkable
// ({x:0,y:0} is a valid position).

type CursorPayload struct {
	Position  *Position `json:"position" validate:"required"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

type ModeChangePayload struct {
	Mode      string `json:"mode" validate:"required"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type StrokePayload struct {
	Points []Position `json:"points" validate:"required,min=1"`
	Color  string     `json:"color,omitempty"`
	Width  float64    `json:"width,omitempty"`
}

type NotePayload struct {
	Instrument string    `json:"instrument,omitempty"`
	Note       string    `json:"note" validate:"required"`
	Position   *Position `json:"position,omitempty"`
}

type AttackPayload struct {
	Weapon    string    `json:"weapon,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Position  *Position `json:"position" validate:"required"`
	Power     float64   `json:"power,omitempty"`
}

type SwordPayload struct {
	Position *Position `json:"position" validate:"required"`
	Velocity float64   `json:"velocity,omitempty"`
}

type EmojiPayload struct {
	Position *Position `json:"position" validate:"required"`
	Emoji    string    `json:"emoji" validate:"required"`
	Size     float64   `json:"size,omitempty"`
}

type ChatPayload struct {
	Message string `json:"message" validate:"required"`
}

// Outbound lifecycle payloads.

type UserConnectedPayload struct {
	UserID string `json:"userId"`
}

type UserJoinedPayload struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	CursorColor string `json:"cursorColor"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type UserUpdatedPayload struct {
	UserID      string `json:"userId"`
	Username    string `json:"username,omitempty"`
	CursorColor string `json:"cursorColor,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type UserLeftPayload struct {
	UserID string `json:"userId"`
}
