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

import "sort"

// pendingSpan is a contiguous run of bytes waiting for the gap before it
// to fill. Spans are kept sorted by start index, pairwise disjoint and
// never adjacent: touching runs are merged on insert.
type pendingSpan struct {
	start uint64
	data  []byte
}

func (p *pendingSpan) end() uint64 { return p.start + uint64(len(p.data)) }

// Reassembler accepts substrings of a byte stream at arbitrary offsets, in
// any order and with arbitrary overlap, and writes them to its output
// stream in order. Bytes beyond the output's available capacity are
// dropped; the cumulative ack state of a connection is derived from how
// far the output has advanced.
type Reassembler struct {
	output    *ByteStream
	nextIndex uint64
	pending   []pendingSpan
	eof       bool
	eofIndex  uint64
}

// NewReassembler creates a reassembler writing to output.
func NewReassembler(output *ByteStream) *Reassembler {
	return &Reassembler{output: output}
}

// Writer returns the producing view of the output stream.
func (r *Reassembler) Writer() *Writer { return r.output.Writer() }

// Reader returns the consuming view of the output stream.
func (r *Reassembler) Reader() *Reader { return r.output.Reader() }

// Insert merges data starting at the absolute stream index firstIndex into
// the reassembly buffer, pushes whatever has become contiguous to the
// output, and closes the output once the last byte has been written.
// Overlapping inserts must carry identical bytes; when they do not, the
// freshest insert wins.
func (r *Reassembler) Insert(firstIndex uint64, data []byte, isLast bool) {
	endIndex := firstIndex + uint64(len(data))

	if isLast {
		r.eof = true
		r.eofIndex = endIndex
	}

	// A substring at or beyond EOF carries nothing new; close the output
	// if everything before EOF has already been written.
	if r.eof && firstIndex >= r.eofIndex {
		if r.nextIndex >= r.eofIndex {
			r.output.Writer().Close()
		}
		return
	}

	windowEnd := r.nextIndex + r.output.Writer().AvailableCapacity()
	if endIndex <= r.nextIndex || firstIndex >= windowEnd {
		return
	}

	// Clamp to the window and to EOF.
	if firstIndex < r.nextIndex {
		data = data[r.nextIndex-firstIndex:]
		firstIndex = r.nextIndex
	}
	endIndex = firstIndex + uint64(len(data))
	if endIndex > windowEnd {
		data = data[:windowEnd-firstIndex]
		endIndex = windowEnd
	}
	if r.eof && endIndex > r.eofIndex {
		data = data[:r.eofIndex-firstIndex]
		endIndex = r.eofIndex
	}

	if len(data) > 0 {
		r.merge(firstIndex, data)
		r.drain()
	}

	if r.eof && r.nextIndex >= r.eofIndex {
		r.output.Writer().Close()
	}
}

// merge folds data into pending, coalescing every span it overlaps or
// touches into a single one.
func (r *Reassembler) merge(firstIndex uint64, data []byte) {
	endIndex := firstIndex + uint64(len(data))
	mergeStart, mergeEnd := firstIndex, endIndex

	// lo is the first span that can touch the new data; hi is one past
	// the last.
	lo := sort.Search(len(r.pending), func(i int) bool {
		return r.pending[i].end() >= firstIndex
	})
	hi := lo
	for hi < len(r.pending) && r.pending[hi].start <= mergeEnd {
		if e := r.pending[hi].end(); e > mergeEnd {
			mergeEnd = e
		}
		hi++
	}
	if lo < len(r.pending) && r.pending[lo].start < mergeStart {
		mergeStart = r.pending[lo].start
	}

	if lo == hi {
		// No overlap: insert a fresh copy in order.
		span := pendingSpan{start: firstIndex, data: append([]byte(nil), data...)}
		r.pending = append(r.pending, pendingSpan{})
		copy(r.pending[lo+1:], r.pending[lo:])
		r.pending[lo] = span
		return
	}

	merged := make([]byte, mergeEnd-mergeStart)
	for i := lo; i < hi; i++ {
		copy(merged[r.pending[i].start-mergeStart:], r.pending[i].data)
	}
	copy(merged[firstIndex-mergeStart:], data)

	r.pending[lo] = pendingSpan{start: mergeStart, data: merged}
	r.pending = append(r.pending[:lo+1], r.pending[hi:]...)
}

// drain pushes every span that has become contiguous with the output.
func (r *Reassembler) drain() {
	for len(r.pending) > 0 && r.pending[0].start == r.nextIndex {
		seg := r.pending[0]
		r.output.Writer().Push(seg.data)
		r.nextIndex += uint64(len(seg.data))
		r.pending = r.pending[1:]
	}
	if len(r.pending) == 0 {
		r.pending = nil
	}
}

// BytesPending returns the number of bytes held for reassembly. It is
// derived from the spans themselves rather than cached.
func (r *Reassembler) BytesPending() uint64 {
	var total uint64
	for i := range r.pending {
		total += uint64(len(r.pending[i].data))
	}
	return total
}

// NextIndex returns the next absolute stream index the reassembler will
// write, which equals the output's cumulative pushed byte count.
func (r *Reassembler) NextIndex() uint64 { return r.nextIndex }
