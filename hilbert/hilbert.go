// Package hilbert implements the bit-twiddling Hilbert space-filling curve
// encoder the R-tree and segmental R-tree packers use to turn a cloud of 2D
// boxes into a 1D ordering with good spatial locality.
//
// The encoder is a port of
// https://github.com/rawrunprotected/hilbert_curves (public domain). The
// packers need an allocation-free uint32 round trip on the hot construction
// path, which rules out arbitrary-precision curve libraries.
package hilbert

// Bits is the order of the curve: X and Y each range over [0, 1<<Bits).
const Bits = 16

// Max is the largest valid X or Y coordinate, 2^Bits - 1.
const Max = 1<<Bits - 1

// Encode maps a pair of coordinates in [0, Max] to their position along the
// Hilbert curve on the 2^Bits x 2^Bits grid, a value in [0, 2^(2*Bits)).
// Encode is a bijection over its domain and Encode(0, 0) == 0.
func Encode(x, y uint32) uint32 {
	var a, b, c, d uint32

	a = x ^ y
	b = Max ^ a
	c = Max ^ (x | y)
	d = x & (y ^ Max)

	a, b, c, d = a|(b>>1), (a>>1)^a, ((c>>1)^(b&(d>>1)))^c, ((a&(c>>1))^(d>>1))^d

	a, b, c, d = (a&(a>>2))^(b&(b>>2)),
		(a&(b>>2))^(b&((a^b)>>2)),
		c^((a&(c>>2))^(b&(d>>2))),
		d^((b&(c>>2))^((a^b)&(d>>2)))

	a, b, c, d = (a&(a>>4))^(b&(b>>4)),
		(a&(b>>4))^(b&((a^b)>>4)),
		c^((a&(c>>4))^(b&(d>>4))),
		d^((b&(c>>4))^((a^b)&(d>>4)))

	c ^= (a & (c >> 8)) ^ (b & (d >> 8))
	d ^= (b & (c >> 8)) ^ ((a ^ b) & (d >> 8))

	a, b = c^(c>>1), d^(d>>1)

	i0 := x ^ y
	i1 := b | (Max ^ (i0 | a))

	return (interleave(i1) << 1) | interleave(i0)
}

func interleave(v uint32) uint32 {
	v = (v | (v << 8)) & 0x00FF00FF
	v = (v | (v << 4)) & 0x0F0F0F0F
	v = (v | (v << 2)) & 0x33333333
	v = (v | (v << 1)) & 0x55555555
	return v
}
