package mutate

import (
	"errors"
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/perm"
	"plantdeck/internal/store"
)

var ErrTakeAssignedRequired = errors.New("equipment is already assigned; pass --take-assigned to take it anyway")

type AssignOpts struct {
	// TakeAssigned is only relevant when assigning the record to the current
	// actor (claim behavior). If false, taking a record already assigned to
	// another actor returns ErrTakeAssignedRequired.
	TakeAssigned bool
}

type AssignResult struct {
	Equipment    *model.Equipment
	Changed      bool
	EventPayload map[string]any
}

// SetAssignedActor sets (or clears) the assigned actor for an equipment
// record, enforcing permissions via internal/perm.
//
// Callers are responsible for saving db and appending the equipment.set_assign event.
func SetAssignedActor(db *store.DB, actorID, equipmentID string, assignedActorID *string, opts AssignOpts) (AssignResult, error) {
	equipmentID = strings.TrimSpace(equipmentID)
	actorID = strings.TrimSpace(actorID)
	if db == nil || equipmentID == "" || actorID == "" {
		return AssignResult{}, nil
	}

	eq, ok := db.FindEquipment(equipmentID)
	if !ok {
		return AssignResult{}, NotFoundError{Kind: "equipment", ID: equipmentID}
	}

	next := ""
	if assignedActorID != nil {
		next = strings.TrimSpace(*assignedActorID)
	}

	// Clear assignment (no claim semantics).
	if next == "" {
		if !perm.CanEditEquipment(db, actorID, eq) {
			return AssignResult{}, OwnerOnlyError{ActorID: actorID, OwnerActorID: eq.OwnerActorID, EquipmentID: equipmentID}
		}
		if eq.AssignedActorID == nil || strings.TrimSpace(*eq.AssignedActorID) == "" {
			return AssignResult{Equipment: eq, Changed: false}, nil
		}
		eq.AssignedActorID = nil
		return AssignResult{
			Equipment:    eq,
			Changed:      true,
			EventPayload: map[string]any{"assignedActorId": nil},
		}, nil
	}

	if _, ok := db.FindActor(next); !ok {
		return AssignResult{}, NotFoundError{Kind: "actor", ID: next}
	}

	// No-op: already assigned to target.
	if eq.AssignedActorID != nil && strings.TrimSpace(*eq.AssignedActorID) == next {
		return AssignResult{Equipment: eq, Changed: false}, nil
	}

	// Claim coordination: if taking for ourselves, don't steal unless requested.
	if next == actorID && eq.AssignedActorID != nil {
		curAssigned := strings.TrimSpace(*eq.AssignedActorID)
		if curAssigned != "" && curAssigned != actorID && !opts.TakeAssigned {
			return AssignResult{}, ErrTakeAssignedRequired
		}
		// Taking over bypasses the assignment edit lock.
		tmp := next
		eq.AssignedActorID = &tmp
		return AssignResult{
			Equipment:    eq,
			Changed:      true,
			EventPayload: map[string]any{"assignedActorId": eq.AssignedActorID},
		}, nil
	}

	if !perm.CanEditEquipment(db, actorID, eq) {
		return AssignResult{}, OwnerOnlyError{ActorID: actorID, OwnerActorID: eq.OwnerActorID, EquipmentID: equipmentID}
	}

	tmp := next
	eq.AssignedActorID = &tmp
	return AssignResult{
		Equipment:    eq,
		Changed:      true,
		EventPayload: map[string]any{"assignedActorId": eq.AssignedActorID},
	}, nil
}
