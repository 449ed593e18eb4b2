package overlay

import (
	"encoding/json"
	"fmt"
)

// FrameMessageType discriminates the cross-document messages exchanged
// between the embedded overlay (inside the proxied iframe) and the hosting
// dashboard page.
type FrameMessageType string

const (
	FrameMarkerClicked    FrameMessageType = "MARKER_CLICKED"
	FrameHighlightComment FrameMessageType = "HIGHLIGHT_COMMENT"
	FrameMarkerHover      FrameMessageType = "MARKER_HOVER"
	FrameCommentAdded     FrameMessageType = "COMMENT_ADDED"
	FrameCommentUpdated   FrameMessageType = "COMMENT_UPDATED"
	FrameCommentDeleted   FrameMessageType = "COMMENT_DELETED"
	FrameRemoteHover      FrameMessageType = "REMOTE_HOVER"
)

// FrameMessage is the tagged union carried over window.postMessage. Both
// ends treat the channel as untrusted and validate shape before acting.
type FrameMessage struct {
	Type       FrameMessageType `json:"type"`
	ProjectID  string           `json:"projectId,omitempty"`
	CommentID  string           `json:"commentId,omitempty"`
	IsHovering *bool            `json:"isHovering,omitempty"`
	Comment    json.RawMessage  `json:"comment,omitempty"`
}

// DecodeFrameMessage parses and validates a cross-frame message. Unknown
// types and messages missing their required fields are rejected; a new
// message kind must be added to this switch before it can flow.
func DecodeFrameMessage(raw []byte) (FrameMessage, error) {
	var msg FrameMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return FrameMessage{}, fmt.Errorf("overlay: malformed frame message: %w", err)
	}

	switch msg.Type {
	case FrameMarkerClicked, FrameHighlightComment, FrameCommentDeleted:
		if msg.CommentID == "" {
			return FrameMessage{}, fmt.Errorf("overlay: %s requires commentId", msg.Type)
		}
	case FrameMarkerHover, FrameRemoteHover:
		if msg.CommentID == "" {
			return FrameMessage{}, fmt.Errorf("overlay: %s requires commentId", msg.Type)
		}
		if msg.IsHovering == nil {
			return FrameMessage{}, fmt.Errorf("overlay: %s requires isHovering", msg.Type)
		}
	case FrameCommentUpdated:
		if len(msg.Comment) == 0 {
			return FrameMessage{}, fmt.Errorf("overlay: %s requires comment", msg.Type)
		}
	case FrameCommentAdded:
		// Carries only the optional commentId of the new comment.
	default:
		return FrameMessage{}, fmt.Errorf("overlay: unknown frame message type %q", msg.Type)
	}
	return msg, nil
}
