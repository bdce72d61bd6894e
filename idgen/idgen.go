// Copyright (c) 2025 BVK Chaitanya

package idgen

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/google/uuid"
)

// Generator creates a deterministic sequence of uuids derived from a seed
// string. The id at a given offset is always the same, so a consumer that
// persists its seed and offset can repeat an interrupted request with the
// same id and let the receiver deduplicate.
type Generator struct {
	base uuid.UUID

	next uint64
}

func New(seed string, offset uint64) *Generator {
	base := uuid.UUID(md5.Sum([]byte(seed)))
	return &Generator{base: base, next: offset}
}

func (v *Generator) Offset() uint64 {
	return v.next
}

func (v *Generator) NextID() uuid.UUID {
	var buf [16 + 8]byte
	copy(buf[:16], v.base[:])
	binary.BigEndian.PutUint64(buf[16:], v.next)
	v.next++
	return uuid.UUID(md5.Sum(buf[:]))
}

// RevertID takes back the most recently issued id so that the next NextID
// call returns it again.
func (v *Generator) RevertID() {
	if v.next > 0 {
		v.next--
	}
}
