package mintcp

import "testing"

func TestWrapBasics(t *testing.T) {
	if got := Wrap(0, 0); got != 0 {
		t.Fatalf("Wrap(0,0) = %v, want 0", got)
	}
	if got := Wrap(3*(1<<32), 0); got != 0 {
		t.Fatalf("Wrap(3<<32,0) = %v, want 0", got)
	}
	if got := Wrap(3*(1<<32)+17, 15); got != 32 {
		t.Fatalf("Wrap(3<<32+17,15) = %v, want 32", got)
	}
	if got := Wrap(7, 0xFFFFFFFD); got != 4 {
		t.Fatalf("wraparound past 2^32 = %v, want 4", got)
	}
}

func TestUnwrapRoundTrip(t *testing.T) {
	isns := []Wrap32{0, 1, 0xDEADBEEF, 0xFFFFFFFF}
	ns := []uint64{
		0, 1, 17, 0xFFFF, 1 << 31, 1 << 32, (1 << 32) + 1,
		3<<32 + 12345, 1 << 40, (1 << 63) - 1,
	}
	for _, isn := range isns {
		for _, n := range ns {
			if got := Wrap(n, isn).Unwrap(isn, n); got != n {
				t.Fatalf("unwrap(wrap(%d,%v),%v,%d) = %d", n, isn, isn, n, got)
			}
		}
	}
}

func TestUnwrapPicksClosest(t *testing.T) {
	// seqno 17 relative to zero point 0, checkpoint deep in the stream:
	// the unique closest candidate is 17 + k<<32 for the right k.
	checkpoint := uint64(5 << 32)
	if got := Wrap32(17).Unwrap(0, checkpoint); got != 5<<32+17 {
		t.Fatalf("Unwrap = %d, want %d", got, uint64(5<<32+17))
	}

	// a seqno just behind the checkpoint must resolve backward, not a
	// full 2^32 ahead
	checkpoint = 5 << 32
	w := Wrap(checkpoint-10, 0)
	if got := w.Unwrap(0, checkpoint); got != checkpoint-10 {
		t.Fatalf("Unwrap = %d, want %d", got, checkpoint-10)
	}

	// near zero the k-1 candidate would underflow and must be skipped
	if got := Wrap32(5).Unwrap(0, 3); got != 5 {
		t.Fatalf("Unwrap = %d, want 5", got)
	}
}

func TestUnwrapFirstByte(t *testing.T) {
	isn := Wrap32(0x9F1C2D3B)
	if got := (isn + 1).Unwrap(isn, 0); got != 1 {
		t.Fatalf("Unwrap = %d, want 1", got)
	}
}
