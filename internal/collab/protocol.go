package collab

import (
	"encoding/json"

	"github.com/annotato/annotato/backend-go/internal/shape"
)

type Message struct {
	Type     string          `json:"type"`
	TaskID   string          `json:"taskId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// PresencePayload is what each annotator shares with the room: where their
// cursor is in image coordinates, which shapes they have selected, and the
// task item they are viewing.
type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []int      `json:"selection,omitempty"`
	ItemID      string     `json:"itemId,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types accepted by op.submit.
const (
	OpLabelCreate  = "label.create"
	OpLabelDelete  = "label.delete"
	OpInsertVertex = "shape.insertVertex"
	OpDeleteVertex = "shape.deleteVertex"
	OpMoveVertex   = "shape.moveVertex"
	OpConvertEdge  = "edge.convert"
	OpReverse      = "shape.reverse"
	OpPushPath     = "shape.pushPath"
	OpRectSet      = "rect.set"
)

// Operation is a single document mutation. Which fields are read depends
// on Type.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// Shape targeting
	ShapeID   int `json:"shapeId,omitempty"`
	Index     int `json:"index,omitempty"`
	EdgeIndex int `json:"edgeIndex,omitempty"`

	// Geometry
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`

	// edge.convert
	Kind          shape.EdgeKind `json:"kind,omitempty"`
	ControlPoints [][2]float64   `json:"controlPoints,omitempty"`

	// label.create / label.delete
	LabelID  string             `json:"labelId,omitempty"`
	ItemID   string             `json:"itemId,omitempty"`
	Category string             `json:"category,omitempty"`
	Record   *shape.ShapeRecord `json:"record,omitempty"`

	// shape.pushPath
	SourceID int  `json:"sourceId,omitempty"`
	StartID  int  `json:"startId,omitempty"`
	EndID    int  `json:"endId,omitempty"`
	UseLong  bool `json:"useLong,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages.
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages. ShapeID carries
// the server-assigned id when label.create renumbered a colliding shape.
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
	ShapeID         int    `json:"shapeId,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages.
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// DocSyncPayload carries the full document on join.
type DocSyncPayload struct {
	Document json.RawMessage `json:"document"`
	Seq      int64           `json:"seq"`
}
