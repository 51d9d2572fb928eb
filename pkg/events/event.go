package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ASSISTANT_REPLY").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used when reconstructing events
// from the bus.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeKnowledgeStored = "KNOWLEDGE_STORED"
	TypeAssistantReply  = "ASSISTANT_REPLY"
)

// NewKnowledgeStored is emitted after a knowledge entry is persisted.
func NewKnowledgeStored(ownerId, entryId, fileName string) Event {
	return BaseEvent{
		Type: TypeKnowledgeStored,
		Data: map[string]interface{}{
			"owner_id":  ownerId,
			"entry_id":  entryId,
			"file_name": fileName,
		},
		OccurredAt: time.Now(),
	}
}

// NewAssistantReply is emitted after each handled turn so connected websocket
// clients see the reply without polling.
func NewAssistantReply(ownerId, reply, mode string) Event {
	return BaseEvent{
		Type: TypeAssistantReply,
		Data: map[string]interface{}{
			"owner_id": ownerId,
			"reply":    reply,
			"mode":     mode,
		},
		OccurredAt: time.Now(),
	}
}
