package realtime

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates server-to-client room events. The set is closed:
// adding a kind means touching this file, not silently ignoring a string.
type EventType string

const (
	EventCommentAdded   EventType = "comment_added"
	EventCommentUpdated EventType = "comment_updated"
	EventCommentDeleted EventType = "comment_deleted"
	EventReplyAdded     EventType = "reply_added"
	EventCommentHovered EventType = "comment_hovered"
)

// Event is the wire envelope fanned out to every socket in a project room.
// Delivery is best-effort: the store stays the source of truth and clients
// reconcile by re-fetching the comment list on reconnect.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// CommentDeletedPayload carries just the id; receivers drop the comment and
// clear their active marker if it was the deleted one.
type CommentDeletedPayload struct {
	ID string `json:"id"`
}

// HoverPayload is presence-only and never persisted. ClientID lets receivers
// ignore their own hovers when bridged back.
type HoverPayload struct {
	CommentID  string `json:"commentId"`
	IsHovering bool   `json:"isHovering"`
	ClientID   string `json:"clientId"`
}

// ClientMessageType discriminates client-to-server messages.
type ClientMessageType string

const (
	MsgJoinProject  ClientMessageType = "join_project"
	MsgHoverComment ClientMessageType = "hover_comment"
)

// ClientMessage is what a connected socket may send: a single join announcing
// which project room it views, then hover notifications.
type ClientMessage struct {
	Type       ClientMessageType `json:"type"`
	ProjectID  string            `json:"projectId"`
	CommentID  string            `json:"commentId"`
	IsHovering bool              `json:"isHovering"`
}

// DecodeClientMessage parses and validates an inbound socket message.
// Unknown types are an error, not a no-op.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("realtime: malformed client message: %w", err)
	}
	switch msg.Type {
	case MsgJoinProject:
		if msg.ProjectID == "" {
			return ClientMessage{}, fmt.Errorf("realtime: join_project requires projectId")
		}
	case MsgHoverComment:
		if msg.ProjectID == "" || msg.CommentID == "" {
			return ClientMessage{}, fmt.Errorf("realtime: hover_comment requires projectId and commentId")
		}
	default:
		return ClientMessage{}, fmt.Errorf("realtime: unknown client message type %q", msg.Type)
	}
	return msg, nil
}
