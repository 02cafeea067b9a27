package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is the set of key types an index can both order and hash.
type Key interface {
	string | int | int32 | int64 | uint | uint32 | uint64
}

// KeyToHash returns a stable 64-bit xxhash of key. Integers are hashed over
// their little-endian encoding so that neighbouring keys spread out.
func KeyToHash[K Key](key K) uint64 {
	var buf [8]byte
	switch k := any(key).(type) {
	case string:
		return xxhash.Sum64String(k)
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], k)
	default:
		panic("Key type not supported")
	}
	return xxhash.Sum64(buf[:])
}
