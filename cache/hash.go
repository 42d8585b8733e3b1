package cache

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Hasher accumulates an FNV-1a content hash over the fields that
// influence a cached object's identity. Callers write every field that
// would produce a distinct native object, in a stable order, mirroring
// the hashWrite* helpers used to key GPU pipeline caches.
type Hasher struct {
	h hash.Hash64
}

// NewHasher returns a Hasher seeded with the FNV-1a offset basis.
func NewHasher() *Hasher {
	return &Hasher{h: fnv.New64a()}
}

func (hr *Hasher) WriteString(s string) *Hasher {
	hr.h.Write([]byte(s))
	return hr
}

func (hr *Hasher) WriteBytes(b []byte) *Hasher {
	hr.h.Write(b)
	return hr
}

func (hr *Hasher) WriteUint32(v uint32) *Hasher {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	hr.h.Write(b[:])
	return hr
}

func (hr *Hasher) WriteUint64(v uint64) *Hasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	hr.h.Write(b[:])
	return hr
}

func (hr *Hasher) WriteBool(v bool) *Hasher {
	if v {
		return hr.WriteUint32(1)
	}
	return hr.WriteUint32(0)
}

// Sum64 returns the accumulated hash.
func (hr *Hasher) Sum64() uint64 { return hr.h.Sum64() }
