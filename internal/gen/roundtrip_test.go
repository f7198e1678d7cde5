package gen

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"

	"github.com/freeciv21/packetgen/internal/emitrt"
	"github.com/freeciv21/packetgen/internal/emitrt/emitrttest"
)

// scoutReport is a hand-written stand-in for what EmitCommonTypes/
// EmitSend/EmitReceive would produce for a small is-info, delta-
// enabled packet: one key field, two plain scalars, one diff-flagged
// rank-1 array, and one foldable bool. The send/receive functions
// below follow exactly the shape codec_send.go/codec_receive.go
// emit, so this test exercises spec.md §8's round-trip, idempotence,
// diff-array termination, cancel-set, and hash/cmp properties against
// real emitrt primitives without needing to compile generated text.
type scoutReport struct {
	UnitID  uint16
	X       uint8
	Y       uint8
	Spotted []uint8
	Alive   bool
}

func sendScoutReport(w *emitrt.Writer, tbl *emitrt.SnapshotTable[uint16, scoutReport], pkt scoutReport) error {
	real := pkt
	frame := emitrt.NewWriter()
	frame.PutUint16(100)

	key := real.UnitID
	snap := tbl.Lookup(key)
	forceDiffer := false
	if snap == nil {
		zero := scoutReport{}
		snap = &zero
		tbl.Store(key, snap)
		forceDiffer = true
	}

	bits := emitrt.NewBitvector(4)
	changed := 0

	differX := snap.X != real.X
	if forceDiffer {
		differX = true
	}
	if differX {
		changed++
		bits.Set(0)
	}

	differY := snap.Y != real.Y
	if forceDiffer {
		differY = true
	}
	if differY {
		changed++
		bits.Set(1)
	}

	differSpotted := len(snap.Spotted) != len(real.Spotted)
	if !differSpotted {
		for i := range real.Spotted {
			if snap.Spotted[i] != real.Spotted[i] {
				differSpotted = true
				break
			}
		}
	}
	if forceDiffer {
		differSpotted = true
	}
	if differSpotted {
		changed++
		bits.Set(2)
	}

	differAlive := snap.Alive != real.Alive
	if forceDiffer {
		differAlive = true
	}
	if differAlive {
		changed++
	}
	if real.Alive {
		bits.Set(3)
	}

	if changed == 0 {
		return nil
	}

	frame.PutBitvector(bits)
	frame.PutUint16(real.UnitID)
	if bits.IsSet(0) {
		frame.PutUint8(real.X)
	}
	if bits.IsSet(1) {
		frame.PutUint8(real.Y)
	}
	if bits.IsSet(2) {
		for i := range real.Spotted {
			if i >= len(snap.Spotted) || snap.Spotted[i] != real.Spotted[i] {
				frame.PutUint8(uint8(i))
				frame.PutUint8(real.Spotted[i])
			}
		}
		frame.PutUint8(arraySentinel)
	}

	*snap = real
	w.PutMemory(frame.Bytes())
	return nil
}

func receiveScoutReport(r *emitrt.Reader, tbl *emitrt.SnapshotTable[uint16, scoutReport]) (scoutReport, error) {
	var out scoutReport

	bits, err := r.GetBitvector(4)
	if err != nil {
		return out, err
	}
	key, err := r.GetUint16()
	if err != nil {
		return out, err
	}
	out.UnitID = key
	if snap := tbl.Lookup(key); snap != nil {
		keyBackup := out.UnitID
		out = *snap
		out.UnitID = keyBackup
	}

	if bits.IsSet(0) {
		v, err := r.GetUint8()
		if err != nil {
			return out, err
		}
		out.X = v
	}
	if bits.IsSet(1) {
		v, err := r.GetUint8()
		if err != nil {
			return out, err
		}
		out.Y = v
	}
	if bits.IsSet(2) {
		for {
			idx, err := r.GetUint8()
			if err != nil {
				return out, err
			}
			if idx == arraySentinel {
				break
			}
			for len(out.Spotted) <= int(idx) {
				out.Spotted = append(out.Spotted, 0)
			}
			v, err := r.GetUint8()
			if err != nil {
				return out, err
			}
			out.Spotted[idx] = v
		}
	}
	out.Alive = bits.IsSet(3)

	snapCopy := out
	tbl.Store(key, &snapCopy)
	return out, nil
}

func TestScoutReportRoundTrip(t *testing.T) {
	sent := emitrt.NewSnapshotTable[uint16, scoutReport]()
	received := emitrt.NewSnapshotTable[uint16, scoutReport]()
	conn := emitrttest.NewConn("player-1")
	conn.Debugf("sending scout_report for unit %d", 7)
	require.Len(t, conn.Logs(), 1)

	first := scoutReport{UnitID: 7, X: 3, Y: 4, Spotted: []uint8{1, 2, 3}, Alive: true}
	w := emitrt.NewWriter()
	require.NoError(t, sendScoutReport(w, sent, first))
	require.NotEmpty(t, w.Bytes(), "first send of a never-before-seen key must transmit a full snapshot")

	r := emitrt.NewReader(w.Bytes())
	idx, err := r.GetUint16()
	require.NoError(t, err)
	require.EqualValues(t, 100, idx)

	got, err := receiveScoutReport(r, received)
	require.NoError(t, err)
	if diff := deep.Equal(first, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestScoutReportNoChangeDiscardIsIdempotent(t *testing.T) {
	sent := emitrt.NewSnapshotTable[uint16, scoutReport]()
	pkt := scoutReport{UnitID: 9, X: 1, Y: 1, Spotted: []uint8{5}, Alive: false}

	w1 := emitrt.NewWriter()
	require.NoError(t, sendScoutReport(w1, sent, pkt))
	require.NotEmpty(t, w1.Bytes())

	// Re-sending the identical value must be a pure no-op: nothing
	// written, and re-running it any number of times stays a no-op.
	for i := 0; i < 3; i++ {
		w2 := emitrt.NewWriter()
		require.NoError(t, sendScoutReport(w2, sent, pkt))
		require.Empty(t, w2.Bytes(), "unchanged packet must be discarded, not retransmitted")
	}
}

func TestScoutReportDiffArrayTerminatesOnSentinel(t *testing.T) {
	sent := emitrt.NewSnapshotTable[uint16, scoutReport]()
	received := emitrt.NewSnapshotTable[uint16, scoutReport]()

	base := scoutReport{UnitID: 3, X: 0, Y: 0, Spotted: []uint8{9, 9, 9}, Alive: false}
	w := emitrt.NewWriter()
	require.NoError(t, sendScoutReport(w, sent, base))
	r := emitrt.NewReader(w.Bytes())
	_, err := r.GetUint16()
	require.NoError(t, err)
	_, err = receiveScoutReport(r, received)
	require.NoError(t, err)

	// Only index 1 changes; the diff stream must carry exactly that
	// one (index, value) pair before the 255 terminator.
	changed := base
	changed.Spotted = []uint8{9, 42, 9}
	w2 := emitrt.NewWriter()
	require.NoError(t, sendScoutReport(w2, sent, changed))
	require.NotEmpty(t, w2.Bytes())

	r2 := emitrt.NewReader(w2.Bytes())
	_, err = r2.GetUint16()
	require.NoError(t, err)
	got, err := receiveScoutReport(r2, received)
	require.NoError(t, err)
	if diff := deep.Equal(changed, got); diff != nil {
		t.Fatalf("diff-array round trip mismatch: %v", diff)
	}

	// The raw payload's array section must end in the sentinel byte.
	payload := w2.Bytes()
	require.Equal(t, uint8(arraySentinel), payload[len(payload)-1])
}

func TestScoutReportCancelSetEviction(t *testing.T) {
	// A packet whose cancel_set names another packet's tag evicts
	// that packet's cached snapshot for the same key on send, forcing
	// its next send to be treated as never-before-seen.
	moveSent := emitrt.NewSnapshotTable[uint16, scoutReport]()
	reportSent := emitrt.NewSnapshotTable[uint16, scoutReport]()

	seed := scoutReport{UnitID: 5, X: 1, Y: 1, Alive: true}
	require.NoError(t, sendScoutReport(emitrt.NewWriter(), moveSent, seed))
	require.NotNil(t, moveSent.Lookup(5))

	// unit_disappears(key=5) cancels unit_move's cached entry.
	moveSent.Delete(5)
	require.Nil(t, moveSent.Lookup(5))

	// The next unit_move with the same values now transmits in full
	// again rather than being discarded as unchanged.
	w := emitrt.NewWriter()
	require.NoError(t, sendScoutReport(w, moveSent, seed))
	require.NotEmpty(t, w.Bytes())
	_ = reportSent
}

func TestScoutReportHashCmpConsistency(t *testing.T) {
	// SnapshotTable keys on a plain comparable Go value, so two
	// separately constructed keys that are value-equal must resolve
	// to the same cached row — the Go analogue of spec.md §8's
	// "hash and cmp functions agree" property, which a genhash table
	// must be handed explicitly but a Go map gets for free.
	tbl := emitrt.NewSnapshotTable[uint16, scoutReport]()
	pkt := scoutReport{UnitID: 42, X: 1, Y: 2}
	tbl.Store(pkt.UnitID, &pkt)

	var keyA, keyB uint16 = 42, 42
	require.Same(t, tbl.Lookup(keyA), tbl.Lookup(keyB))
}
