package emitrt

// SnapshotTable holds one variant's per-connection cache of prior
// packet values, keyed by that variant's key fields — the Go analogue
// of the original's per-packet genhash table (spec.md §5). Unlike
// genhash, which needs caller-supplied hash/cmp functions because its
// keys are void*, a Go map keyed on a comparable struct gets
// structural hashing and equality for free; K is that per-variant key
// struct (empty struct{} for a 0-key packet, a single field's type
// for 1 key, a 2-field struct for 2 keys).
//
// packetgen's codec emitter still emits an explicit hash/cmp function
// pair per variant (spec.md §8's hash/cmp consistency property) for
// testability, even though SnapshotTable itself has no need of them —
// see DESIGN.md.
type SnapshotTable[K comparable, V any] struct {
	rows map[K]*V
}

// NewSnapshotTable returns an empty table.
func NewSnapshotTable[K comparable, V any]() *SnapshotTable[K, V] {
	return &SnapshotTable[K, V]{rows: make(map[K]*V)}
}

// Lookup returns the cached value for key, or nil if this is the
// first time key has been seen on this connection.
func (t *SnapshotTable[K, V]) Lookup(key K) *V {
	return t.rows[key]
}

// Store replaces the cached value for key, the step generated send
// logic takes after successfully transmitting a delta (or a full
// packet on first sight of key).
func (t *SnapshotTable[K, V]) Store(key K, v *V) {
	t.rows[key] = v
}

// Delete drops key's cached value, the Go analogue of the original's
// genhash_remove call in packet-specific close/cancel handling.
func (t *SnapshotTable[K, V]) Delete(key K) {
	delete(t.rows, key)
}

// Len reports how many keys are currently cached.
func (t *SnapshotTable[K, V]) Len() int { return len(t.rows) }
