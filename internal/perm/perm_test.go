package perm

import (
	"testing"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

func permDB() *store.DB {
	return &store.DB{
		Actors: []model.Actor{
			{ID: "act-ada", Kind: model.ActorKindHuman, Name: "Ada"},
			{ID: "act-bo", Kind: model.ActorKindHuman, Name: "Bo"},
			{ID: "act-bot", Kind: model.ActorKindAgent, Name: "inspector-bot"},
		},
	}
}

func TestCanEditEquipment_OwnerAndStrangers(t *testing.T) {
	db := permDB()
	eq := &model.Equipment{ID: "eq-a", OwnerActorID: "act-ada"}

	if !CanEditEquipment(db, "act-ada", eq) {
		t.Fatalf("owner should edit")
	}
	if CanEditEquipment(db, "act-bot", eq) {
		t.Fatalf("agent should not edit a human-owned record")
	}
	if CanEditEquipment(db, "act-ghost", eq) {
		t.Fatalf("unknown actor should not edit")
	}
	// Humans may edit each other's unassigned records only via ownership.
	if CanEditEquipment(db, "act-bo", eq) {
		t.Fatalf("non-owner human should not edit")
	}
}

func TestCanEditEquipment_AssignmentIsAnEditLock(t *testing.T) {
	db := permDB()
	bo := "act-bo"
	eq := &model.Equipment{ID: "eq-a", OwnerActorID: "act-ada", AssignedActorID: &bo}

	if !CanEditEquipment(db, "act-bo", eq) {
		t.Fatalf("assignee should edit")
	}
	if CanEditEquipment(db, "act-ada", eq) {
		t.Fatalf("owner should be locked out while assigned to another human")
	}
}

func TestCanEditEquipment_HumanOverridesAgent(t *testing.T) {
	db := permDB()
	bot := "act-bot"

	assignedToBot := &model.Equipment{ID: "eq-a", OwnerActorID: "act-ada", AssignedActorID: &bot}
	if !CanEditEquipment(db, "act-bo", assignedToBot) {
		t.Fatalf("human should edit a record assigned to an agent")
	}
	if !CanEditEquipment(db, "act-bot", assignedToBot) {
		t.Fatalf("agent assignee should edit")
	}

	ownedByBot := &model.Equipment{ID: "eq-b", OwnerActorID: "act-bot"}
	if !CanEditEquipment(db, "act-ada", ownedByBot) {
		t.Fatalf("human should edit an agent-owned record")
	}
}
