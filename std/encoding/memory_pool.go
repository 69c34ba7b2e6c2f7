package encoding

import (
	"bytes"
	"hash"

	"github.com/cespare/xxhash"
	"github.com/named-data/ndnc/std/types/sync_pool"
)

type hashPoolObj struct {
	hash   hash.Hash64
	buffer bytes.Buffer
}

// sum writes the encoding produced by fill into the hasher.
// fill receives a buffer of exactly size bytes.
func (obj *hashPoolObj) sum(size int, fill func(Buffer) int) uint64 {
	obj.buffer.Grow(size)
	buf := obj.buffer.AvailableBuffer()[:size]
	fill(buf)
	obj.hash.Write(buf)
	return obj.hash.Sum64()
}

var xxHashPool = sync_pool.New(
	func() *hashPoolObj {
		return &hashPoolObj{hash: xxhash.New()}
	},
	func(obj *hashPoolObj) {
		obj.hash.Reset()
		obj.buffer.Reset()
	},
)
