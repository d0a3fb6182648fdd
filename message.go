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

// SenderMessage is the data-bearing half of a segment: what a Sender emits
// and a peer's Receiver consumes.
type SenderMessage struct {
	// Seqno is the wire sequence number of the segment's first sequence
	// slot. When SYN is set, it carries the sender's ISN.
	Seqno Wrap32

	SYN     bool
	FIN     bool
	RST     bool
	Payload []byte
}

// SeqLen returns the number of sequence numbers the segment occupies:
// SYN and FIN take one slot each in addition to the payload bytes.
func (m *SenderMessage) SeqLen() uint64 {
	n := uint64(len(m.Payload))
	if m.SYN {
		n++
	}
	if m.FIN {
		n++
	}
	return n
}

// ReceiverMessage is the acknowledgment half of a segment: what a Receiver
// emits and a peer's Sender consumes.
type ReceiverMessage struct {
	// Ackno is the next wire sequence number the receiver expects. It is
	// meaningless until AckValid is set, which happens once a SYN has
	// been received.
	Ackno    Wrap32
	AckValid bool

	// WindowSize is the remaining capacity of the receiver's output
	// stream, clamped to 16 bits.
	WindowSize uint16

	RST bool
}

// TransmitFunc delivers one outgoing segment to the substrate. The core
// never stores it and presumes best-effort delivery only.
type TransmitFunc func(SenderMessage)
