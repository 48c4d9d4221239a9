package model

import "time"

type ActorKind string

const (
	ActorKindHuman ActorKind = "human"
	ActorKindAgent ActorKind = "agent"
)

type Actor struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
	Name string    `json:"name"`
}

type Facility struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Site      string    `json:"site,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

type Line struct {
	ID         string    `json:"id"`
	FacilityID string    `json:"facilityId"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	Archived   bool      `json:"archived"`
}

// Equipment statuses are a fixed vocabulary.
const (
	EquipmentStatusOperational = "operational"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusDown        = "down"
	EquipmentStatusRetired     = "retired"
)

type Equipment struct {
	ID         string `json:"id"`
	FacilityID string `json:"facilityId"`
	LineID     string `json:"lineId"`

	// Rank orders equipment within a line (lexicographic fractional indexing).
	Rank string `json:"rank,omitempty"`

	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"`
	Serial   string `json:"serial,omitempty"`
	Location string `json:"location,omitempty"`
	StatusID string `json:"status,omitempty"`

	// Critical marks equipment whose downtime halts the line.
	Critical bool     `json:"critical"`
	Notes    string   `json:"notes,omitempty"` // markdown
	Tags     []string `json:"tags,omitempty"`
	Archived bool     `json:"archived"`

	OwnerActorID    string  `json:"ownerActorId"`
	AssignedActorID *string `json:"assignedActorId,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	WorkOrderStatusOpen       = "open"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusDone       = "done"
)

type WorkOrder struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipmentId"`

	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	StatusID    string  `json:"status"`
	Priority    bool    `json:"priority"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"` // YYYY-MM-DD

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	InspectionResultPending = "pending"
	InspectionResultPass    = "pass"
	InspectionResultFail    = "fail"
)

type Inspection struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipmentId"`

	Checkpoint string `json:"checkpoint"`
	Result     string `json:"result"`
	Measured   string `json:"measured,omitempty"`
	Note       string `json:"note,omitempty"`

	InspectorID string    `json:"inspectorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	ActorID  string    `json:"actorId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
