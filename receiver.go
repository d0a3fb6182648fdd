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

// Receiver translates incoming segments into reassembler insertions and
// produces the acknowledgment going back to the peer. It learns its zero
// point from the first SYN and ignores all traffic before it except an
// RST, which sets the stream error at any time.
type Receiver struct {
	reassembler *Reassembler
	isn         Wrap32
	hasISN      bool
}

// NewReceiver creates a receiver feeding the given reassembler.
func NewReceiver(reassembler *Reassembler) *Receiver {
	return &Receiver{reassembler: reassembler}
}

// Receive processes one segment from the peer.
func (r *Receiver) Receive(msg SenderMessage) {
	if msg.RST {
		r.reassembler.Reader().SetError()
		return
	}

	if !r.hasISN {
		if !msg.SYN {
			return
		}
		r.isn = msg.Seqno
		r.hasISN = true
	}

	// The SYN occupies absolute seqno 0, so payload byte k lives at
	// stream index k; on any other segment the stream index is the
	// unwrapped absolute seqno minus one.
	var firstIndex uint64
	if !msg.SYN {
		checkpoint := 1 + r.reassembler.Writer().BytesPushed()
		abs := msg.Seqno.Unwrap(r.isn, checkpoint)
		if abs == 0 {
			// A data segment can never start at the SYN's slot.
			return
		}
		firstIndex = abs - 1
	}

	if len(msg.Payload) > 0 || msg.FIN {
		r.reassembler.Insert(firstIndex, msg.Payload, msg.FIN)
	}
}

// Message returns the current acknowledgment: the next expected wire
// seqno (absent before the SYN), the available window, and the error flag.
func (r *Receiver) Message() ReceiverMessage {
	var out ReceiverMessage
	out.RST = r.reassembler.Reader().HasError()

	wnd := r.reassembler.Writer().AvailableCapacity()
	if wnd > 0xFFFF {
		wnd = 0xFFFF
	}
	out.WindowSize = uint16(wnd)

	if !r.hasISN {
		return out
	}

	ackAbs := 1 + r.reassembler.Writer().BytesPushed()
	if r.reassembler.Writer().IsClosed() {
		ackAbs++ // the assembled FIN occupies one seqno
	}
	out.Ackno = Wrap(ackAbs, r.isn)
	out.AckValid = true
	return out
}
