package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"plantdeck/internal/model"
)

// DB is the in-memory image of one workspace. SQLite is the source of truth;
// Load materializes it and Save writes it back wholesale.
type DB struct {
	Version           int                `json:"version"`
	CurrentActorID    string             `json:"currentActorId,omitempty"`
	CurrentFacilityID string             `json:"currentFacilityId,omitempty"`
	Actors            []model.Actor      `json:"actors"`
	Facilities        []model.Facility   `json:"facilities"`
	Lines             []model.Line       `json:"lines"`
	Equipment         []model.Equipment  `json:"equipment"`
	WorkOrders        []model.WorkOrder  `json:"workOrders"`
	Inspections       []model.Inspection `json:"inspections"`

	// Derived indexes for fast per-equipment lookups in the TUI. Not persisted.
	idxBuilt            bool                          `json:"-"`
	idxEquipmentByLine  map[string][]model.Equipment  `json:"-"`
	idxWorkOrdersByEq   map[string][]model.WorkOrder  `json:"-"`
	idxInspectionsByEq  map[string][]model.Inspection `json:"-"`
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".plantdeck")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".plantdeck"), nil
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

// NextID returns a fresh prefixed id (eq-xxxxxxxx, fac-xxxxxxxx, ...),
// retrying on the unlikely collision.
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 50; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failure or a pathological run of collisions; fall back to a
	// counting suffix so callers always get something unique.
	n := 1
	for {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !idExists(db, id) {
			return id
		}
		n++
	}
}

func (db *DB) FindActor(id string) (*model.Actor, bool) {
	for i := range db.Actors {
		if db.Actors[i].ID == id {
			return &db.Actors[i], true
		}
	}
	return nil, false
}

func (db *DB) FindFacility(id string) (*model.Facility, bool) {
	for i := range db.Facilities {
		if db.Facilities[i].ID == id {
			return &db.Facilities[i], true
		}
	}
	return nil, false
}

func (db *DB) FindLine(id string) (*model.Line, bool) {
	for i := range db.Lines {
		if db.Lines[i].ID == id {
			return &db.Lines[i], true
		}
	}
	return nil, false
}

func (db *DB) FindEquipment(id string) (*model.Equipment, bool) {
	for i := range db.Equipment {
		if db.Equipment[i].ID == id {
			return &db.Equipment[i], true
		}
	}
	return nil, false
}

func (db *DB) FindWorkOrder(id string) (*model.WorkOrder, bool) {
	for i := range db.WorkOrders {
		if db.WorkOrders[i].ID == id {
			return &db.WorkOrders[i], true
		}
	}
	return nil, false
}

func (db *DB) FindInspection(id string) (*model.Inspection, bool) {
	for i := range db.Inspections {
		if db.Inspections[i].ID == id {
			return &db.Inspections[i], true
		}
	}
	return nil, false
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxEquipmentByLine = map[string][]model.Equipment{}
	db.idxWorkOrdersByEq = map[string][]model.WorkOrder{}
	db.idxInspectionsByEq = map[string][]model.Inspection{}

	for _, e := range db.Equipment {
		if e.Archived {
			continue
		}
		lid := strings.TrimSpace(e.LineID)
		if lid == "" {
			continue
		}
		db.idxEquipmentByLine[lid] = append(db.idxEquipmentByLine[lid], e)
	}

	for _, w := range db.WorkOrders {
		id := strings.TrimSpace(w.EquipmentID)
		if id == "" {
			continue
		}
		db.idxWorkOrdersByEq[id] = append(db.idxWorkOrdersByEq[id], w)
	}
	for id := range db.idxWorkOrdersByEq {
		orders := db.idxWorkOrdersByEq[id]
		sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
		db.idxWorkOrdersByEq[id] = orders
	}

	for _, in := range db.Inspections {
		id := strings.TrimSpace(in.EquipmentID)
		if id == "" {
			continue
		}
		db.idxInspectionsByEq[id] = append(db.idxInspectionsByEq[id], in)
	}
	for id := range db.idxInspectionsByEq {
		ins := db.idxInspectionsByEq[id]
		sort.Slice(ins, func(i, j int) bool { return ins[i].CreatedAt.After(ins[j].CreatedAt) })
		db.idxInspectionsByEq[id] = ins
	}

	db.idxBuilt = true
}

// LineEquipment returns non-archived equipment on a line, ordered by rank.
func (db *DB) LineEquipment(lineID string) []model.Equipment {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	rows := db.idxEquipmentByLine[strings.TrimSpace(lineID)]
	out := make([]model.Equipment, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return compareEquipmentByRank(out[i], out[j]) < 0 })
	return out
}

func (db *DB) WorkOrdersForEquipment(equipmentID string) []model.WorkOrder {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxWorkOrdersByEq[strings.TrimSpace(equipmentID)]
}

func (db *DB) InspectionsForEquipment(equipmentID string) []model.Inspection {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxInspectionsByEq[strings.TrimSpace(equipmentID)]
}

func NormalizeActorKind(s string) (model.ActorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return model.ActorKindHuman, nil
	case "agent":
		return model.ActorKindAgent, nil
	default:
		return "", fmt.Errorf("invalid actor kind: %q (expected human|agent)", s)
	}
}

func ParseEquipmentStatus(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.EquipmentStatusOperational:
		return model.EquipmentStatusOperational, nil
	case model.EquipmentStatusMaintenance:
		return model.EquipmentStatusMaintenance, nil
	case model.EquipmentStatusDown:
		return model.EquipmentStatusDown, nil
	case model.EquipmentStatusRetired:
		return model.EquipmentStatusRetired, nil
	default:
		return "", fmt.Errorf("invalid equipment status: %q (expected operational|maintenance|down|retired)", s)
	}
}
