package gen

import (
	"go/format"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

func samplePackets(t *testing.T) []*ast.Packet {
	t.Helper()
	move, err := ast.NewPacket("unit_move", 10, ast.ClientToServer, ast.InfoNone, ast.Flags{}, nil, []ast.Field{
		{Name: "unit_id", Type: ast.FieldType{WireKind: "uint16", StorageKind: "int"}, IsKey: true},
		{Name: "x", Type: ast.FieldType{WireKind: "uint8", StorageKind: "int"}},
		{Name: "y", Type: ast.FieldType{WireKind: "uint8", StorageKind: "int"}},
	})
	require.NoError(t, err)
	info, err := ast.NewPacket("unit_info", 11, ast.ServerToClient, ast.InfoNone, ast.Flags{}, nil, []ast.Field{
		{Name: "unit_id", Type: ast.FieldType{WireKind: "uint16", StorageKind: "int"}, IsKey: true},
		{Name: "hp", Type: ast.FieldType{WireKind: "uint8", StorageKind: "int"}, AddCap: "hitpoints"},
		{Name: "moved", Type: ast.FieldType{WireKind: "uint8", StorageKind: "bool"}},
	})
	require.NoError(t, err)
	return []*ast.Packet{move, info}
}

// formattable renders body wrapped in a minimal package so go/format
// can check it parses as syntactically valid Go, without pulling in
// golang.org/x/tools/imports (which needs a real module/build
// environment this test doesn't have).
func formattable(t *testing.T, body string) {
	t.Helper()
	src := "package packets\n\n" + body
	_, err := format.Source([]byte(src))
	require.NoErrorf(t, err, "emitted source does not parse as Go:\n%s", src)
}

func TestEmitCommonTypesIsValidGo(t *testing.T) {
	packets := samplePackets(t)
	p := emit.NewPrinter("common_types.go", emit.PackageName("packets"), "")
	EmitCommonTypes(p, packets)
	formattable(t, p.Raw())
}

func TestEmitCommonImplIsValidGo(t *testing.T) {
	packets := samplePackets(t)
	allVariants, err := ExpandAllVariants(packets)
	require.NoError(t, err)

	p := emit.NewPrinter("common_impl.go", emit.PackageName("packets"), "")
	EmitCommonImpl(p, packets, allVariants, Options{FoldBoolIntoHeader: true, Package: emit.PackageName("packets")})
	body := p.Raw()
	formattable(t, body)

	assert.Contains(t, body, "InstallCapabilityHandlers", "unit_info's capability-gated hp field needs a capability installer")
	assert.Contains(t, body, "InstallInitialHandlers", "unit_move's single variant needs an initial installer")
}

func TestEmitClientServerDispatchIsValidGo(t *testing.T) {
	packets := samplePackets(t)

	clientTypes := emit.NewPrinter("client_types.go", emit.PackageName("packets"), "")
	EmitClientHandlerInterface(clientTypes, packets)
	formattable(t, clientTypes.Raw())

	clientImpl := emit.NewPrinter("client_impl.go", emit.PackageName("packets"), "")
	EmitClientDispatch(clientImpl, packets)
	body := clientImpl.Raw()
	formattable(t, body)
	assert.Contains(t, body, "DispatchClientPacket")
	assert.NotContains(t, body, "PacketUnitMove", "client dispatch should not route unit_move (cs-only)")

	serverTypes := emit.NewPrinter("server_types.go", emit.PackageName("packets"), "")
	EmitServerHandlerInterface(serverTypes, packets)
	formattable(t, serverTypes.Raw())

	serverImpl := emit.NewPrinter("server_impl.go", emit.PackageName("packets"), "")
	EmitServerDispatch(serverImpl, packets)
	body = serverImpl.Raw()
	formattable(t, body)
	assert.Contains(t, body, "DispatchServerPacket")
	assert.NotContains(t, body, "PacketUnitInfo", "server dispatch should not route unit_info (sc-only)")
}
