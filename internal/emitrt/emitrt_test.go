package emitrt

import "testing"

func TestHasCapability(t *testing.T) {
	cases := []struct {
		name       string
		negotiated string
		want       bool
	}{
		{"FogOfWar", "FogOfWar NewCityNames", true},
		{"NewCityNames", "FogOfWar NewCityNames", true},
		{"Missing", "FogOfWar NewCityNames", false},
		{"Solo", "Solo", true},
		{"X", "", false},
	}
	for _, c := range cases {
		if got := HasCapability(c.name, c.negotiated); got != c.want {
			t.Errorf("HasCapability(%q, %q) = %v, want %v", c.name, c.negotiated, got, c.want)
		}
	}
}

func TestFieldErrorMessage(t *testing.T) {
	e := &FieldError{Field: "hp", Reason: "negative"}
	if e.Error() != "receive hp: negative" {
		t.Fatalf("unexpected message: %q", e.Error())
	}
	e2 := &FieldError{Field: "hp"}
	if e2.Error() != "receive hp: field error" {
		t.Fatalf("unexpected default message: %q", e2.Error())
	}
}

func TestSnapshotTableLookupStoreDelete(t *testing.T) {
	type key struct{ A, B uint16 }
	tbl := NewSnapshotTable[key, string]()

	if v := tbl.Lookup(key{1, 2}); v != nil {
		t.Fatalf("expected nil for unseen key")
	}
	val := "first"
	tbl.Store(key{1, 2}, &val)
	if v := tbl.Lookup(key{1, 2}); v == nil || *v != "first" {
		t.Fatalf("expected stored value, got %v", v)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected len 1, got %d", tbl.Len())
	}
	tbl.Delete(key{1, 2})
	if v := tbl.Lookup(key{1, 2}); v != nil {
		t.Fatalf("expected nil after delete")
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected len 0 after delete, got %d", tbl.Len())
	}
}
