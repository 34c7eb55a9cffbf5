package domain

import (
	"testing"
	"time"
)

func TestChangeTypeValid(t *testing.T) {
	for _, c := range []ChangeType{ChangeTypeIn, ChangeTypeOut, ChangeTypeAdjustment} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	for _, c := range []ChangeType{"", "in", "RESTOCK"} {
		if c.Valid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestNewLogRejectsBadEntries(t *testing.T) {
	at := time.Now()

	cases := []struct {
		name       string
		changeType ChangeType
		delta      int64
	}{
		{"zero delta", ChangeTypeIn, 0},
		{"negative IN", ChangeTypeIn, -5},
		{"positive OUT", ChangeTypeOut, 5},
		{"unknown type", ChangeType("MOVE"), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewLog(1, 2, tc.changeType, tc.delta, "", at); err != ErrInvalidEntry {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestNewLogTrimsNote(t *testing.T) {
	at := time.Now()

	entry, err := NewLog(1, 2, ChangeTypeAdjustment, -3, "  stocktake  ", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Note == nil || *entry.Note != "stocktake" {
		t.Fatalf("expected trimmed note, got %v", entry.Note)
	}

	entry, err = NewLog(1, 2, ChangeTypeIn, 3, "   ", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Note != nil {
		t.Fatalf("expected blank note to be dropped, got %q", *entry.Note)
	}
}
