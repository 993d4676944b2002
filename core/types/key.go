package types

import "bytes"

// Key is an opaque serialized verification key. An empty key means the
// guarded capability is absent: entities without an admin key are immutable,
// tokens without a freeze key can never be frozen, and so on. The engine
// never inspects key material; signature checks happen in an external
// verifier fed by the signing-requirement resolver.
type Key []byte

// Empty reports whether the key is absent.
func (k Key) Empty() bool { return len(k) == 0 }

// Equal compares two keys byte for byte.
func (k Key) Equal(other Key) bool { return bytes.Equal(k, other) }

// Clone returns an independent copy of the key bytes.
func (k Key) Clone() Key {
	if len(k) == 0 {
		return nil
	}
	dup := make(Key, len(k))
	copy(dup, k)
	return dup
}
