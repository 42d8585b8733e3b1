package nodes

import (
	"strconv"

	"github.com/galvanized/vixen/gpu"
)

// uint32ToHandle and handleToUint32 let a small scalar ride through the
// Resource carrier's Handle field when a node output is conceptually a
// number (an image index) rather than a native GPU object.
func uint32ToHandle(v uint32) gpu.Handle {
	return gpu.Handle(strconv.FormatUint(uint64(v), 10))
}

func handleToUint32(h gpu.Handle) uint32 {
	v, _ := strconv.ParseUint(string(h), 10, 32)
	return uint32(v)
}
