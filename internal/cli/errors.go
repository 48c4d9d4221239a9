package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type ownerOnlyError struct {
	actorID     string
	ownerID     string
	equipmentID string
}

func (e ownerOnlyError) Error() string {
	return fmt.Sprintf("permission denied: actor %s is not owner %s for equipment %s", e.actorID, e.ownerID, e.equipmentID)
}

func errOwnerOnly(actorID, ownerID, equipmentID string) error {
	return ownerOnlyError{actorID: actorID, ownerID: ownerID, equipmentID: equipmentID}
}
