package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-05-01T12:00:00Z"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "42" || decoded.CreatedAt != "2026-05-01T12:00:00Z" {
		t.Fatalf("unexpected cursor: %+v", decoded)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if _, err := DecodeCursor("!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := DecodeCursor("bm90LWpzb24="); err == nil {
		t.Fatal("expected error for invalid json payload")
	}
}
