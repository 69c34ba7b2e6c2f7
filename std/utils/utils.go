package utils

import "github.com/named-data/ndnc/std/types/optional"

// NDNcVersion from source control, set by the linker.
var NDNcVersion string = "unknown"

// ConvertNonce converts a big-endian nonce of up to 4 bytes to an integer.
func ConvertNonce(nonce []byte) (ret optional.Optional[uint32]) {
	x := uint32(0)
	for _, b := range nonce {
		x = (x << 8) | uint32(b)
	}
	ret.Set(x)
	return ret
}

// If is the ternary operator (eager evaluation)
func If[T any](cond bool, t, f T) T {
	if cond {
		return t
	}
	return f
}
