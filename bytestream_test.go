package mintcp

import (
	"bytes"
	"testing"
)

func TestByteStreamPushPop(t *testing.T) {
	s := NewByteStream(2)
	w, r := s.Writer(), s.Reader()

	w.Push([]byte("cat"))
	if got := r.Peek(); !bytes.Equal(got, []byte("ca")) {
		t.Fatalf("buffer = %q, want %q", got, "ca")
	}
	if w.BytesPushed() != 2 {
		t.Fatalf("bytesPushed = %d, want 2", w.BytesPushed())
	}
	if w.AvailableCapacity() != 0 {
		t.Fatalf("availableCapacity = %d, want 0", w.AvailableCapacity())
	}

	r.Pop(1)
	if got := r.Peek(); !bytes.Equal(got, []byte("a")) {
		t.Fatalf("buffer = %q, want %q", got, "a")
	}
	if r.BytesPopped() != 1 {
		t.Fatalf("bytesPopped = %d, want 1", r.BytesPopped())
	}

	w.Push([]byte("tt"))
	if got := r.Peek(); !bytes.Equal(got, []byte("at")) {
		t.Fatalf("buffer = %q, want %q", got, "at")
	}
	if w.BytesPushed() != 3 {
		t.Fatalf("bytesPushed = %d, want 3", w.BytesPushed())
	}

	w.Close()
	if !w.IsClosed() {
		t.Fatal("IsClosed = false after Close")
	}
	if r.IsFinished() {
		t.Fatal("IsFinished = true with bytes still buffered")
	}
	r.Pop(2)
	if !r.IsFinished() {
		t.Fatal("IsFinished = false after draining a closed stream")
	}
}

func TestByteStreamCounterInvariant(t *testing.T) {
	s := NewByteStream(7)
	w, r := s.Writer(), s.Reader()

	check := func() {
		t.Helper()
		if w.BytesPushed()-r.BytesPopped() != r.BytesBuffered() {
			t.Fatalf("invariant violated: pushed=%d popped=%d buffered=%d",
				w.BytesPushed(), r.BytesPopped(), r.BytesBuffered())
		}
		if r.BytesBuffered() > 7 {
			t.Fatalf("buffered %d exceeds capacity", r.BytesBuffered())
		}
	}

	for i := 0; i < 50; i++ {
		w.Push([]byte("abcde"))
		check()
		r.Pop(3)
		check()
	}
}

func TestByteStreamPopZeroAndOverPop(t *testing.T) {
	s := NewByteStream(4)
	s.Writer().Push([]byte("ab"))
	r := s.Reader()

	r.Pop(0)
	if r.BytesPopped() != 0 || r.BytesBuffered() != 2 {
		t.Fatalf("pop(0) mutated stream: popped=%d buffered=%d", r.BytesPopped(), r.BytesBuffered())
	}

	r.Pop(100)
	if r.BytesPopped() != 2 || r.BytesBuffered() != 0 {
		t.Fatalf("over-pop: popped=%d buffered=%d", r.BytesPopped(), r.BytesBuffered())
	}
}

func TestByteStreamErrorSticky(t *testing.T) {
	s := NewByteStream(4)
	if s.Reader().HasError() || s.Writer().HasError() {
		t.Fatal("fresh stream reports error")
	}
	s.Reader().SetError()
	if !s.Writer().HasError() {
		t.Fatal("error not shared between views")
	}
}

func TestByteStreamSharedViews(t *testing.T) {
	s := NewByteStream(8)
	s.Writer().Push([]byte("hello"))
	if got := s.Reader().BytesBuffered(); got != 5 {
		t.Fatalf("reader sees %d bytes, want 5", got)
	}
	s.Reader().Pop(5)
	if got := s.Writer().AvailableCapacity(); got != 8 {
		t.Fatalf("writer sees capacity %d, want 8", got)
	}
}
