package form

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultTech is the row appended by the "add" action.
var DefaultTech = TechEntry{Title: "", Knowledge: "0"}

// TechList is the ordered techs sequence. Entries can be appended and edited
// in place; there is no removal or reordering.
type TechList struct {
	entries []TechEntry
	newID   func() string
}

func NewTechList() *TechList {
	return &TechList{newID: uuid.NewString}
}

// Append adds entry at the end under a fresh identity key. No validation runs.
func (l *TechList) Append(entry TechEntry) TechEntry {
	entry.ID = l.newID()
	l.entries = append(l.entries, entry)
	return entry
}

// Restore re-adds a row that already has an identity key, as posted back by
// a rendered page. Rows without a key get a fresh one.
func (l *TechList) Restore(entry TechEntry) TechEntry {
	if entry.ID == "" {
		entry.ID = l.newID()
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Set edits one sub-field of the entry at index i.
func (l *TechList) Set(i int, field, raw string) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("techs index %d out of range (len %d)", i, len(l.entries))
	}
	switch field {
	case "title":
		l.entries[i].Title = raw
	case "knowledge":
		l.entries[i].Knowledge = raw
	default:
		return fmt.Errorf("unknown techs field %q", field)
	}
	return nil
}

func (l *TechList) Len() int { return len(l.entries) }

// Entries returns a copy of the rows in append order.
func (l *TechList) Entries() []TechEntry {
	out := make([]TechEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
