package mutate

import (
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/perm"
	"plantdeck/internal/store"
)

type ArchiveResult struct {
	Equipment    *model.Equipment
	Changed      bool
	EventPayload map[string]any
}

// SetEquipmentArchived sets equipment.Archived. It enforces permissions via internal/perm.
// Callers are responsible for saving db and appending the equipment.archive event.
func SetEquipmentArchived(db *store.DB, actorID, equipmentID string, archived bool) (ArchiveResult, error) {
	equipmentID = strings.TrimSpace(equipmentID)
	actorID = strings.TrimSpace(actorID)
	if db == nil || equipmentID == "" || actorID == "" {
		return ArchiveResult{}, nil
	}

	eq, ok := db.FindEquipment(equipmentID)
	if !ok {
		return ArchiveResult{}, NotFoundError{Kind: "equipment", ID: equipmentID}
	}
	if !perm.CanEditEquipment(db, actorID, eq) {
		return ArchiveResult{}, OwnerOnlyError{ActorID: actorID, OwnerActorID: eq.OwnerActorID, EquipmentID: equipmentID}
	}
	if eq.Archived == archived {
		return ArchiveResult{Equipment: eq, Changed: false}, nil
	}
	eq.Archived = archived
	return ArchiveResult{
		Equipment: eq,
		Changed:   true,
		EventPayload: map[string]any{
			"archived": eq.Archived,
		},
	}, nil
}
