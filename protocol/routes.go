package protocol

import "github.com/trudypainter/socket-friend/domain"

type deliveryShape int

const (
	shapeOthers deliveryShape = iota // every participant except the sender
	shapeAll                         // every participant in the room
)

// route describes how one inbound event kind is relayed: the event type
// stamped on the outbound frame, the audience, and a payload prototype
// whose validate tags name the kind's required fields. A nil payload means
// the body is relayed as-is with no required fields.
//
// Adding an interaction kind is a new table entry, not new control flow.
type route struct {
	outbound string
	shape    deliveryShape
	payload  func() any
}

var routes = map[string]route{
	domain.EventCursorMove: {
		outbound: domain.EventCursorUpdate,
		shape:    shapeOthers,
		payload:  func() any { return &domain.CursorPayload{} },
	},
	domain.EventCursorClick: {
		outbound: domain.EventCursorClick,
		shape:    shapeOthers,
		payload:  func() any { return &domain.CursorPayload{} },
	},
	domain.EventDrawingStart: {
		outbound: domain.EventDrawingStart,
		shape:    shapeOthers,
	},
	domain.EventDrawingStroke: {
		outbound: domain.EventDrawingStroke,
		shape:    shapeOthers,
		payload:  func() any { return &domain.StrokePayload{} },
	},
	domain.EventDrawingEnd: {
		outbound: domain.EventDrawingEnd,
		shape:    shapeOthers,
	},
	domain.EventMusicNote: {
		outbound: domain.EventMusicNote,
		shape:    shapeOthers,
		payload:  func() any { return &domain.NotePayload{} },
	},
	domain.EventCombatAttack: {
		outbound: domain.EventCombatAttack,
		shape:    shapeOthers,
		payload:  func() any { return &domain.AttackPayload{} },
	},
	domain.EventSwordAttack: {
		outbound: domain.EventSwordAttack,
		shape:    shapeOthers,
		payload:  func() any { return &domain.SwordPayload{} },
	},
	domain.EventSwordHit: {
		outbound: domain.EventSwordHit,
		shape:    shapeOthers,
	},
	domain.EventEmojiDraw: {
		outbound: domain.EventEmojiDraw,
		shape:    shapeOthers,
		payload:  func() any { return &domain.EmojiPayload{} },
	},
	domain.EventChatMessage: {
		outbound: domain.EventChatMessage,
		shape:    shapeOthers,
		payload:  func() any { return &domain.ChatPayload{} },
	},
	domain.EventChatTyping: {
		outbound: domain.EventChatTyping,
		shape:    shapeOthers,
		payload:  func() any { return &domain.ChatPayload{} },
	},
	domain.EventChatFade: {
		outbound: domain.EventChatFade,
		shape:    shapeOthers,
	},
}
