package models

// Folder groups diaries. Nesting is a single level in practice: a folder
// may reference a parent, but parents themselves stay at the root.
type Folder struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// ParentID is a weak reference to another folder; empty means root.
	ParentID string `json:"parentId,omitempty"`

	// Color is an optional display hint (e.g. "#ff7043").
	Color string `json:"color,omitempty"`

	CreatedAt int64 `json:"createdAt"`
}
