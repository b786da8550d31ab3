package locus

import "fmt"

// assert panics on a violated internal invariant: a corrupted arena or a
// bug in a range/k-NN walk, never a caller input error (those return
// ErrInvalidArgument instead).
func assert(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
