package perm

import (
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

// CanEditEquipment enforces ownership rules for mutating an equipment record.
//
// Rules:
//   - Assignment acts as an edit lock: when a record is assigned, only the
//     assignee can edit it. A human can still edit records assigned to an
//     agent (agents work on behalf of the plant staff, not the other way
//     around).
//   - Unassigned records: the owner can edit, and a human can edit records
//     owned by an agent.
func CanEditEquipment(db *store.DB, actorID string, eq *model.Equipment) bool {
	if db == nil || eq == nil {
		return false
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false
	}
	actor, ok := db.FindActor(actorID)
	if !ok {
		return false
	}

	if eq.AssignedActorID != nil && strings.TrimSpace(*eq.AssignedActorID) != "" {
		assignedID := strings.TrimSpace(*eq.AssignedActorID)
		if assignedID == actorID {
			return true
		}
		if actor.Kind == model.ActorKindHuman {
			if assignee, ok := db.FindActor(assignedID); ok && assignee.Kind == model.ActorKindAgent {
				return true
			}
		}
		return false
	}

	if strings.TrimSpace(eq.OwnerActorID) == actorID {
		return true
	}
	if actor.Kind == model.ActorKindHuman {
		if owner, ok := db.FindActor(strings.TrimSpace(eq.OwnerActorID)); ok && owner.Kind == model.ActorKindAgent {
			return true
		}
	}
	return false
}
