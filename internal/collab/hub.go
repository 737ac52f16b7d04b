package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/annotato/annotato/backend-go/internal/document"
)

// DocumentLoader fetches the latest persisted document for a task.
type DocumentLoader func(taskID string) (*document.TaskDocument, error)

// DocumentSaver persists a new snapshot for a task.
type DocumentSaver func(taskID string, doc json.RawMessage) error

type Room struct {
	taskID   string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *DocumentState
}

func NewRoom(taskID string, state *DocumentState) *Room {
	return &Room{
		taskID:   taskID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // taskID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	loader     DocumentLoader
	saver      DocumentSaver
}

func NewHub(loader DocumentLoader, saver DocumentSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop flushes every dirty room to storage and halts the hub loop.
func (h *Hub) Stop() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for taskID, room := range h.rooms {
		h.saveRoom(taskID, room)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.TaskID]
	if !ok {
		doc, err := h.loader(client.TaskID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load document", "task", client.TaskID, "error", err)
			client.conn.Close(websocket.StatusInternalError, "document unavailable")
			return
		}
		state, err := NewDocumentState(doc)
		if err != nil {
			h.mu.Unlock()
			slog.Error("rebuild shape graph", "task", client.TaskID, "error", err)
			client.conn.Close(websocket.StatusInternalError, "document unavailable")
			return
		}
		room = NewRoom(client.TaskID, state)
		h.rooms[client.TaskID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Full document sync for the new client
	docJSON, err := room.state.Snapshot()
	if err != nil {
		slog.Error("marshal document", "task", client.TaskID, "error", err)
	} else {
		syncPayload, _ := json.Marshal(DocSyncPayload{
			Document: docJSON,
			Seq:      room.state.ServerSeq(),
		})
		client.Send(&Message{Type: TypeDocSync, Payload: syncPayload})
	}

	// Current presence state
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.TaskID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "task", client.TaskID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.TaskID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		h.saveRoom(client.TaskID, room)
		delete(h.rooms, client.TaskID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(client.TaskID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "task", client.TaskID)
}

// saveRoom persists a dirty room. Caller holds h.mu.
func (h *Hub) saveRoom(taskID string, room *Room) {
	if !room.state.Dirty() {
		return
	}
	docJSON, err := room.state.Snapshot()
	if err != nil {
		slog.Error("marshal document", "task", taskID, "error", err)
		return
	}
	if err := h.saver(taskID, docJSON); err != nil {
		slog.Error("save document", "task", taskID, "error", err)
		return
	}
	room.state.MarkSaved()
	slog.Info("document saved", "task", taskID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.TaskID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if room.presence.Update(sender.UserID, &presence) && presence.ItemID != "" {
		slog.Debug("annotator switched item",
			"user", sender.UserID, "task", sender.TaskID, "item", presence.ItemID)
	}

	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.TaskID, outMsg, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		h.nack(sender, "", "invalid operation payload")
		return
	}
	op := submit.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.TaskID]
	h.mu.RUnlock()
	if !ok {
		h.nack(sender, op.ID, "room not found")
		return
	}

	serverSeq, shapeID, err := room.state.ApplyOperation(op)
	if err != nil {
		slog.Warn("operation rejected", "type", op.Type, "user", sender.UserID, "error", err)
		h.nack(sender, op.ID, err.Error())
		return
	}

	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: GetServerTimestamp(),
		ShapeID:         shapeID,
	})
	sender.Send(&Message{Type: TypeOpAck, Payload: ackPayload})

	broadcastPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: serverSeq,
	})
	broadcastMsg := &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: broadcastPayload,
	}
	h.broadcastToRoom(sender.TaskID, broadcastMsg, sender.ClientID)
}

func (h *Hub) nack(client *Client, opID, reason string) {
	payload, _ := json.Marshal(OperationNackPayload{
		OperationID: opID,
		Reason:      reason,
	})
	client.Send(&Message{Type: TypeOpNack, Payload: payload})
}

func (h *Hub) broadcastToRoom(taskID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[taskID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
