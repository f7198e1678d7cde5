package parse

import (
	"strings"
	"testing"

	"github.com/freeciv21/packetgen/internal/ast"
)

func TestParseBasicPacket(t *testing.T) {
	const src = `
type COORD = uint16(int)

# a comment line
unit_move = 10; cs, sc
	COORD x, y;
	uint8(bool) moved;
	uint8(int) key; key
end
`
	proto, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(proto.Packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(proto.Packets))
	}
	p := proto.Packets[0]
	if p.TagName != "unit_move" || p.TagNumber != 10 {
		t.Errorf("got tag %s/%d, want unit_move/10", p.TagName, p.TagNumber)
	}
	if !p.HasDirection(ast.ClientToServer) || !p.HasDirection(ast.ServerToClient) {
		t.Errorf("directions = %v, want both cs and sc", p.Directions)
	}
	if len(p.Fields) != 4 {
		t.Fatalf("got %d fields, want 4 (x, y, moved, key)", len(p.Fields))
	}
	if p.Fields[0].Type.WireKind != "uint16" || p.Fields[0].Type.StorageKind != "int" {
		t.Errorf("field x type = %+v, want uint16(int) (alias resolved)", p.Fields[0].Type)
	}
	if !p.Fields[3].IsKey {
		t.Errorf("field `key` should carry the key flag")
	}
}

func TestParseArraySizes(t *testing.T) {
	const src = `
unit_list = 20; cs
	uint16(int) ids[MAX_UNITS];
	uint8(int) grid[4][8];
end
`
	proto, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := proto.Packets[0]
	if p.Fields[0].ArrayRank != 1 || p.Fields[0].Sizes[0].Declared != "MAX_UNITS" {
		t.Errorf("ids field = %+v, want rank 1 sized MAX_UNITS", p.Fields[0])
	}
	if p.Fields[1].ArrayRank != 2 || p.Fields[1].Sizes[0].Declared != "4" || p.Fields[1].Sizes[1].Declared != "8" {
		t.Errorf("grid field = %+v, want rank 2 sized [4][8]", p.Fields[1])
	}
}

func TestParseCancelSet(t *testing.T) {
	const src = `
unit_info = 30; sc
	uint16(int) unit_id; key
end

unit_remove = 31; sc, cancel(unit_info)
	uint16(int) unit_id; key
end
`
	proto, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var remove *ast.Packet
	for _, p := range proto.Packets {
		if p.TagName == "unit_remove" {
			remove = p
		}
	}
	if remove == nil {
		t.Fatal("unit_remove not found")
	}
	if len(remove.CancelSet) != 1 || remove.CancelSet[0] != "unit_info" {
		t.Errorf("CancelSet = %v, want [unit_info]", remove.CancelSet)
	}
}

func TestParseMissingEndFails(t *testing.T) {
	const src = `
unit_move = 10; cs
	uint16(int) x;
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a missing `end`, got nil")
	}
}

func TestParseDuplicateTagNumberFails(t *testing.T) {
	const src = `
unit_a = 10; cs
	uint8(int) x;
end

unit_b = 10; cs
	uint8(int) y;
end
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a duplicate tag number, got nil")
	}
}

func TestParseUndeclaredCancelTargetFails(t *testing.T) {
	const src = `
unit_remove = 31; sc, cancel(does_not_exist)
	uint16(int) unit_id; key
end
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a cancel() naming an undeclared packet, got nil")
	}
}

func TestParseThreeKeyFieldsFails(t *testing.T) {
	const src = `
too_many_keys = 40; cs
	uint8(int) a; key
	uint8(int) b; key
	uint8(int) c; key
end
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for 3 key fields, got nil")
	}
}

func TestParseRank2StringArrayFails(t *testing.T) {
	const src = `
bad_strings = 41; cs
	string(string) names[4][8];
end
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a rank-2 string array, got nil")
	}
}
