// Package realtime fans comment, reply and hover events out to every viewer
// of a project. One room per project, WebSocket transport, best-effort
// at-most-once delivery; an optional Redis bridge relays events between
// server processes.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// publishFunc pushes a serialized bridge envelope to other server processes.
type publishFunc func(ctx context.Context, projectID string, payload []byte) error

// Hub tracks which sockets joined which project room and multicasts events
// to them. Events for project P reach only sockets joined to room P.
type Hub struct {
	processID string

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	publish publishFunc
}

func NewHub() *Hub {
	return &Hub{
		processID: uuid.NewString(),
		rooms:     map[string]map[*Client]struct{}{},
	}
}

func (h *Hub) join(c *Client, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.projectID != "" {
		h.leaveLocked(c)
	}
	c.projectID = projectID
	room, ok := h.rooms[projectID]
	if !ok {
		room = map[*Client]struct{}{}
		h.rooms[projectID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
}

func (h *Hub) leaveLocked(c *Client) {
	if room, ok := h.rooms[c.projectID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.projectID)
		}
	}
}

// Broadcast marshals ev and delivers it to every socket in the project's
// room, plus the cross-process bridge when one is attached. Send failures
// drop the slow client rather than block the caller.
func (h *Hub) Broadcast(ctx context.Context, projectID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("realtime: marshal event: %v", err)
		return
	}
	h.broadcastLocal(projectID, payload, nil)
	if h.publish != nil {
		env, _ := json.Marshal(bridgeEnvelope{Origin: h.processID, Event: payload})
		if err := h.publish(ctx, projectID, env); err != nil {
			log.Printf("realtime: bridge publish: %v", err)
		}
	}
}

// relayHover multicasts a hover event to the sender's room, excluding the
// sender itself. Presence only, nothing persisted, no bridge guarantee
// beyond best effort.
func (h *Hub) relayHover(ctx context.Context, from *Client, msg ClientMessage) {
	ev := Event{Type: EventCommentHovered, Data: HoverPayload{
		CommentID:  msg.CommentID,
		IsHovering: msg.IsHovering,
		ClientID:   from.id,
	}}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.broadcastLocal(msg.ProjectID, payload, from)
	if h.publish != nil {
		env, _ := json.Marshal(bridgeEnvelope{Origin: h.processID, Event: payload})
		if err := h.publish(ctx, msg.ProjectID, env); err != nil {
			log.Printf("realtime: bridge publish: %v", err)
		}
	}
}

func (h *Hub) broadcastLocal(projectID string, payload []byte, skip *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[projectID] {
		if c == skip {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// Client can't keep up; close its channel and let the write
			// pump tear the connection down.
			go c.drop()
		}
	}
}

// RoomSize reports how many sockets are joined to a project room.
func (h *Hub) RoomSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}
