package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	for _, a := range db.Actors {
		if a.ID == id {
			return true
		}
	}
	for _, f := range db.Facilities {
		if f.ID == id {
			return true
		}
	}
	for _, l := range db.Lines {
		if l.ID == id {
			return true
		}
	}
	for _, e := range db.Equipment {
		if e.ID == id {
			return true
		}
	}
	for _, w := range db.WorkOrders {
		if w.ID == id {
			return true
		}
	}
	for _, in := range db.Inspections {
		if in.ID == id {
			return true
		}
	}
	return false
}
