package nbt

import "github.com/delaneyj/toolbelt"

const (
	scratchSize    = 4 << 10
	maxPooledBytes = 256 << 10
)

var scratchPool = toolbelt.New(func() []byte { return make([]byte, 0, scratchSize) })

func getScratch() []byte {
	return scratchPool.Get()[:0]
}

func putScratch(b []byte) {
	if b == nil || cap(b) > maxPooledBytes {
		return
	}
	scratchPool.Put(b[:0])
}
