package mutate

import (
	"errors"
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/perm"
	"plantdeck/internal/store"
)

var ErrStatusNoteRequired = errors.New("status note required")

type SetStatusResult struct {
	Equipment    *model.Equipment
	Changed      bool
	EventPayload map[string]any
}

// SetEquipmentStatus sets equipment.StatusID. Marking equipment down requires
// a note: downtime without a recorded reason is useless to the next shift.
// Callers are responsible for saving db and appending the equipment.set_status event.
func SetEquipmentStatus(db *store.DB, actorID, equipmentID, statusID string, note *string) (SetStatusResult, error) {
	equipmentID = strings.TrimSpace(equipmentID)
	actorID = strings.TrimSpace(actorID)
	if db == nil || equipmentID == "" || actorID == "" {
		return SetStatusResult{}, nil
	}

	statusID, err := store.ParseEquipmentStatus(statusID)
	if err != nil {
		return SetStatusResult{}, err
	}

	eq, ok := db.FindEquipment(equipmentID)
	if !ok {
		return SetStatusResult{}, NotFoundError{Kind: "equipment", ID: equipmentID}
	}
	if !perm.CanEditEquipment(db, actorID, eq) {
		return SetStatusResult{}, OwnerOnlyError{ActorID: actorID, OwnerActorID: eq.OwnerActorID, EquipmentID: equipmentID}
	}

	prev := strings.TrimSpace(eq.StatusID)
	if prev == statusID {
		return SetStatusResult{Equipment: eq, Changed: false}, nil
	}
	if statusID == model.EquipmentStatusDown && (note == nil || strings.TrimSpace(*note) == "") {
		return SetStatusResult{}, ErrStatusNoteRequired
	}

	eq.StatusID = statusID
	payload := map[string]any{
		"from": prev,
		"to":   statusID,
	}
	if note != nil {
		payload["note"] = *note
	}
	return SetStatusResult{
		Equipment:    eq,
		Changed:      true,
		EventPayload: payload,
	}, nil
}
