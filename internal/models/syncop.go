package models

import "encoding/json"

// EntityType names the kind of record a sync operation carries.
type EntityType string

const (
	EntityDiary  EntityType = "diary"
	EntityFolder EntityType = "folder"
	EntityTask   EntityType = "task"
)

// Action names the mutation a sync operation replays remotely.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// SyncOperation is one durable entry in the sync queue: a snapshot of a
// mutation that still has to be applied to the remote replica.
type SyncOperation struct {
	// ID is a local correlation key (type+action+timestamp+random
	// suffix). Uniqueness is best-effort, which is acceptable because the
	// id never leaves this machine.
	ID string `json:"id"`

	Type EntityType `json:"type"`

	Action Action `json:"action"`

	// Data is an opaque snapshot of the entity at enqueue time. For
	// deletes it carries at least the entity id.
	Data json.RawMessage `json:"data"`

	UserID string `json:"userId"`

	// Timestamp is the enqueue time in epoch-ms.
	Timestamp int64 `json:"timestamp"`

	// RetryCount counts failed delivery attempts. Operations reaching the
	// configured maximum are pruned after the next drain pass.
	RetryCount int `json:"retryCount"`

	LastError string `json:"lastError,omitempty"`
}

// EntityID extracts the id field from the operation's data snapshot.
// Returns empty if the snapshot has no id.
func (op SyncOperation) EntityID() string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(op.Data, &probe); err != nil {
		return ""
	}
	return probe.ID
}
