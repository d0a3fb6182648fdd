// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mintcp

// Wrap32 is a 32-bit sequence number as it appears on the wire. Each
// direction of a connection has its own zero point (the ISN); absolute
// 64-bit stream indices wrap around it modulo 2^32.
type Wrap32 uint32

// Wrap maps an absolute sequence number onto the wire representation
// relative to zeroPoint.
func Wrap(n uint64, zeroPoint Wrap32) Wrap32 {
	return zeroPoint + Wrap32(n)
}

// Unwrap returns the absolute sequence number that wraps to w and lies
// closest to checkpoint. Neighboring candidates are 2^32 apart, so the
// closest one is unique up to a tie, which is broken toward the smaller
// value.
func (w Wrap32) Unwrap(zeroPoint Wrap32, checkpoint uint64) uint64 {
	const span = 1 << 32
	offset := uint64(uint32(w - zeroPoint))
	k := checkpoint >> 32

	best := offset + k*span
	if k > 0 {
		if c := offset + (k-1)*span; absDiff(c, checkpoint) <= absDiff(best, checkpoint) {
			best = c
		}
	}
	if k < (1<<32)-1 {
		if c := offset + (k+1)*span; absDiff(c, checkpoint) < absDiff(best, checkpoint) {
			best = c
		}
	}
	return best
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
