package mutate

import (
	"fmt"
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

type InspectionResult struct {
	Inspection   *model.Inspection
	Changed      bool
	EventPayload map[string]any
}

// SetInspectionResult resolves a pending inspection to pass or fail (or back
// to pending). Callers are responsible for saving db and appending the
// inspection.set_result event.
func SetInspectionResult(db *store.DB, actorID, inspectionID, result string) (InspectionResult, error) {
	inspectionID = strings.TrimSpace(inspectionID)
	actorID = strings.TrimSpace(actorID)
	result = strings.ToLower(strings.TrimSpace(result))
	if db == nil || inspectionID == "" || actorID == "" {
		return InspectionResult{}, nil
	}
	if _, ok := db.FindActor(actorID); !ok {
		return InspectionResult{}, NotFoundError{Kind: "actor", ID: actorID}
	}

	switch result {
	case model.InspectionResultPending, model.InspectionResultPass, model.InspectionResultFail:
	default:
		return InspectionResult{}, fmt.Errorf("unknown inspection result %q (want pending|pass|fail)", result)
	}

	insp, ok := db.FindInspection(inspectionID)
	if !ok {
		return InspectionResult{}, NotFoundError{Kind: "inspection", ID: inspectionID}
	}

	from := insp.Result
	if from == result {
		return InspectionResult{Inspection: insp, Changed: false}, nil
	}
	insp.Result = result
	return InspectionResult{
		Inspection: insp,
		Changed:    true,
		EventPayload: map[string]any{
			"from": from,
			"to":   result,
		},
	}, nil
}
