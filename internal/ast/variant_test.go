package ast

import (
	"testing"

	"github.com/go-test/deep"
)

func mustPacket(t *testing.T, tagName string, tagNumber uint16, fields []Field) *Packet {
	t.Helper()
	p, err := NewPacket(tagName, tagNumber, ClientToServer, InfoNone, Flags{}, nil, fields)
	if err != nil {
		t.Fatalf("NewPacket(%s): %v", tagName, err)
	}
	return p
}

func TestExpandVariantsNoCapabilities(t *testing.T) {
	p := mustPacket(t, "unit_move", 10, []Field{
		{Name: "unit_id", Type: FieldType{WireKind: "uint16", StorageKind: "int"}, IsKey: true},
		{Name: "x", Type: FieldType{WireKind: "uint8", StorageKind: "int"}},
	})

	variants, err := ExpandVariants(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(variants))
	}
	v := variants[0]
	if v.Index != 100 {
		t.Errorf("Index = %d, want 100", v.Index)
	}
	if len(v.Predicate()) != 0 {
		t.Errorf("Predicate() = %v, want empty (constant true)", v.Predicate())
	}
	if len(v.Fields) != 2 {
		t.Errorf("Fields = %v, want both fields present", v.Fields)
	}
}

func TestExpandVariantsPowerSetAndStableIndex(t *testing.T) {
	p := mustPacket(t, "unit_info", 11, []Field{
		{Name: "unit_id", Type: FieldType{WireKind: "uint16", StorageKind: "int"}, IsKey: true},
		{Name: "hp", Type: FieldType{WireKind: "uint8", StorageKind: "int"}, AddCap: "hitpoints"},
		{Name: "veteran", Type: FieldType{WireKind: "uint8", StorageKind: "bool"}, RemoveCap: "no_veterans"},
	})

	variants, err := ExpandVariants(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(variants) != 4 {
		t.Fatalf("got %d variants, want 2^2 = 4", len(variants))
	}

	seen := map[int]bool{}
	for _, v := range variants {
		if v.Index < 100 || v.Index > 103 {
			t.Errorf("variant index %d out of expected [100,103] range", v.Index)
		}
		if seen[v.Index] {
			t.Errorf("duplicate variant index %d", v.Index)
		}
		seen[v.Index] = true

		hasHP := false
		for _, f := range v.Fields {
			if f.Name == "hp" {
				hasHP = true
			}
		}
		wantHP := false
		for _, c := range v.PositiveCaps {
			if c == "hitpoints" {
				wantHP = true
			}
		}
		if hasHP != wantHP {
			t.Errorf("variant %d: hp field present=%v, want %v (PositiveCaps=%v)", v.Index, hasHP, wantHP, v.PositiveCaps)
		}
	}

	// Re-expanding must reproduce an identical variant set: enumeration
	// order is a pure function of the sorted capability names.
	again, err := ExpandVariants(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := range variants {
		if diff := deep.Equal(variants[i].PositiveCaps, again[i].PositiveCaps); diff != nil {
			t.Errorf("variant %d PositiveCaps changed across re-expansion: %v", i, diff)
		}
		if variants[i].Index != again[i].Index {
			t.Errorf("variant %d index changed across re-expansion: %d vs %d", i, variants[i].Index, again[i].Index)
		}
	}
}

func TestNewPacketRejectsThreeKeys(t *testing.T) {
	_, err := NewPacket("too_many_keys", 12, ClientToServer, InfoNone, Flags{}, nil, []Field{
		{Name: "a", Type: FieldType{WireKind: "uint8", StorageKind: "int"}, IsKey: true},
		{Name: "b", Type: FieldType{WireKind: "uint8", StorageKind: "int"}, IsKey: true},
		{Name: "c", Type: FieldType{WireKind: "uint8", StorageKind: "int"}, IsKey: true},
	})
	if err == nil {
		t.Fatal("expected an error for 3 key fields, got nil")
	}
}

func TestNewPacketRejectsEmptyDirectionSet(t *testing.T) {
	_, err := NewPacket("no_direction", 13, 0, InfoNone, Flags{}, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an empty direction set, got nil")
	}
}

func TestNewPacketRejectsDsendOnEmptyPacket(t *testing.T) {
	_, err := NewPacket("empty_dsend", 14, ClientToServer, InfoNone, Flags{DirectSend: true}, nil, nil)
	if err == nil {
		t.Fatal("expected an error for dsend on an empty packet, got nil")
	}
}

func TestNewPacketRejectsRank2StringArray(t *testing.T) {
	_, err := NewPacket("bad_strings", 15, ClientToServer, InfoNone, Flags{}, nil, []Field{
		{Name: "names", Type: FieldType{WireKind: "string", StorageKind: "string"}, ArrayRank: 2,
			Sizes: [2]ArraySize{{Declared: "4", Used: "4", Old: "4"}, {Declared: "8", Used: "8", Old: "8"}}},
	})
	if err == nil {
		t.Fatal("expected an error for a rank-2 string array, got nil")
	}
}
