package hilbert

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeOrigin(t *testing.T) {
	require.Equal(t, uint32(0), Encode(0, 0))
}

func TestEncodeIsInjective(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inputs := make(map[uint64]struct{}, 2000)
	keys := make(map[uint32]struct{}, 2000)
	for i := 0; i < 2000; i++ {
		x := uint32(rng.Intn(Max + 1))
		y := uint32(rng.Intn(Max + 1))
		if _, dup := inputs[uint64(x)<<32|uint64(y)]; dup {
			continue
		}
		inputs[uint64(x)<<32|uint64(y)] = struct{}{}
		key := Encode(x, y)
		_, collision := keys[key]
		require.False(t, collision, "collision at (%d, %d) -> %d", x, y, key)
		keys[key] = struct{}{}
	}
}

func TestEncodeEqualInputsEqualOutputs(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		x := uint32(rng.Intn(Max + 1))
		y := uint32(rng.Intn(Max + 1))
		require.Equal(t, Encode(x, y), Encode(x, y))
	}
}

func TestEncodeDifferentInputsDifferentOutputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		x1, y1 := uint32(rng.Intn(Max+1)), uint32(rng.Intn(Max+1))
		x2, y2 := uint32(rng.Intn(Max+1)), uint32(rng.Intn(Max+1))
		if x1 == x2 && y1 == y2 {
			continue
		}
		require.NotEqual(t, Encode(x1, y1), Encode(x2, y2))
	}
}
