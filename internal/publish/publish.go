package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"plantdeck/internal/store"
)

type WriteOptions struct {
	IncludeArchived bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WriteEquipment(db *store.DB, equipmentID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	equipmentID = strings.TrimSpace(equipmentID)
	if equipmentID == "" {
		return WriteResult{}, errors.New("missing equipmentID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderEquipmentMarkdown(db, equipmentID, RenderOptions{
		IncludeArchived: opt.IncludeArchived,
	})
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "equipment")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, equipmentID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func WriteLine(db *store.DB, lineID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return WriteResult{}, errors.New("missing lineID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	// Rank order, same as the line view.
	rows := db.LineEquipment(lineID)

	lineDir := filepath.Join(toDir, "lines", lineID)
	equipmentDir := filepath.Join(lineDir, "equipment")
	if err := os.MkdirAll(equipmentDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexMD, err := RenderLineIndexMarkdown(db, lineID, rows, RenderOptions{
		IncludeArchived: opt.IncludeArchived,
	})
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(lineDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Write unit pages (stop on first error).
	written := []string{indexPath}
	for _, eq := range rows {
		if eq.Archived && !opt.IncludeArchived {
			continue
		}
		md, err := RenderEquipmentMarkdown(db, eq.ID, RenderOptions{
			IncludeArchived: opt.IncludeArchived,
		})
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(equipmentDir, eq.ID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
