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

// ByteStream is a bounded in-memory FIFO of bytes with a producing and a
// consuming end. The two ends are exposed as Writer and Reader views that
// share the single underlying buffer; bytesPushed - bytesPopped always
// equals the number of buffered bytes, which never exceeds capacity.
type ByteStream struct {
	capacity    uint64
	buf         []byte
	bytesPushed uint64
	bytesPopped uint64
	closed      bool
	err         bool
}

// NewByteStream creates a stream that buffers at most capacity bytes.
func NewByteStream(capacity uint64) *ByteStream {
	return &ByteStream{capacity: capacity}
}

// Writer returns the producing view of the stream.
func (s *ByteStream) Writer() *Writer { return (*Writer)(s) }

// Reader returns the consuming view of the stream.
func (s *ByteStream) Reader() *Reader { return (*Reader)(s) }

// Writer is the producing end of a ByteStream.
type Writer ByteStream

// Push appends data to the stream, truncating silently to whatever
// capacity is available. It returns the number of bytes accepted.
func (w *Writer) Push(data []byte) int {
	n := len(data)
	if avail := w.AvailableCapacity(); uint64(n) > avail {
		n = int(avail)
	}
	w.buf = append(w.buf, data[:n]...)
	w.bytesPushed += uint64(n)
	return n
}

// Close signals that nothing more will be written. The flag is sticky.
func (w *Writer) Close() { w.closed = true }

// IsClosed reports whether the stream has been closed for writing.
func (w *Writer) IsClosed() bool { return w.closed }

// AvailableCapacity returns how many bytes can be pushed right now.
func (w *Writer) AvailableCapacity() uint64 {
	return w.capacity - uint64(len(w.buf))
}

// BytesPushed returns the cumulative number of bytes written.
func (w *Writer) BytesPushed() uint64 { return w.bytesPushed }

// SetError marks the stream as broken. The flag is sticky.
func (w *Writer) SetError() { w.err = true }

// HasError reports whether the stream has been marked broken.
func (w *Writer) HasError() bool { return w.err }

// Reader is the consuming end of a ByteStream.
type Reader ByteStream

// Peek returns a view of the currently buffered bytes. The returned slice
// is only valid until the next mutation of the stream.
func (r *Reader) Peek() []byte { return r.buf }

// Pop removes up to n bytes from the front of the buffer.
func (r *Reader) Pop(n uint64) {
	if n > uint64(len(r.buf)) {
		n = uint64(len(r.buf))
	}
	r.buf = r.buf[n:]
	r.bytesPopped += n
	if len(r.buf) == 0 {
		r.buf = nil
	}
}

// IsFinished reports whether the stream is closed and fully drained.
func (r *Reader) IsFinished() bool { return r.closed && len(r.buf) == 0 }

// BytesBuffered returns the number of bytes pushed but not yet popped.
func (r *Reader) BytesBuffered() uint64 { return uint64(len(r.buf)) }

// BytesPopped returns the cumulative number of bytes consumed.
func (r *Reader) BytesPopped() uint64 { return r.bytesPopped }

// SetError marks the stream as broken. The flag is sticky.
func (r *Reader) SetError() { r.err = true }

// HasError reports whether the stream has been marked broken.
func (r *Reader) HasError() bool { return r.err }
