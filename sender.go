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

// outSegment is a transmitted, not yet fully acknowledged segment. The
// payload is an owned copy: retransmission must reproduce the exact bytes
// even after the outbound stream has popped them.
type outSegment struct {
	absSeqno uint64
	payload  []byte
	syn      bool
	fin      bool
	// probe marks a segment sent while the peer advertised a zero
	// window; its retransmissions do not back off the RTO.
	probe bool
}

func (s *outSegment) seqLen() uint64 {
	n := uint64(len(s.payload))
	if s.syn {
		n++
	}
	if s.fin {
		n++
	}
	return n
}

// Sender fragments an outbound ByteStream into segments sized to the
// peer's advertised window, keeps copies of everything in flight, and
// retransmits the oldest outstanding segment on timeout with exponential
// backoff. A peer advertising a zero window is probed with single-byte
// segments so a window reopening is never missed.
type Sender struct {
	stream     *ByteStream
	isn        Wrap32
	initialRTO uint64

	nextSeqno     uint64 // next absolute seqno to assign; 0 means SYN unsent
	bytesInFlight uint64
	outstanding   []outSegment
	windowSize    uint16
	lastAck       uint64
	finSent       bool

	rto             uint64
	elapsed         uint64
	timerRunning    bool
	consecutiveRetx uint64
}

// NewSender creates a sender over the given outbound stream. isn pins the
// zero point of this direction; initialRTO is the retransmission timeout
// in milliseconds before any backoff.
func NewSender(stream *ByteStream, isn Wrap32, initialRTO uint64) *Sender {
	return &Sender{stream: stream, isn: isn, initialRTO: initialRTO}
}

// Writer returns the producing view of the outbound stream.
func (s *Sender) Writer() *Writer { return s.stream.Writer() }

// Reader returns the consuming view of the outbound stream.
func (s *Sender) Reader() *Reader { return s.stream.Reader() }

// SequenceNumbersInFlight returns how many sequence numbers are
// outstanding, counting SYN and FIN.
func (s *Sender) SequenceNumbersInFlight() uint64 { return s.bytesInFlight }

// ConsecutiveRetransmissions returns how many times in a row the oldest
// outstanding segment has been retransmitted without progress.
func (s *Sender) ConsecutiveRetransmissions() uint64 { return s.consecutiveRetx }

// Push reads from the outbound stream and transmits as many segments as
// the peer's window allows. A zero advertised window is treated as one so
// the sender keeps probing.
func (s *Sender) Push(transmit TransmitFunc) {
	effectiveWin := uint64(s.windowSize)
	if effectiveWin == 0 {
		effectiveWin = 1
	}

	for s.bytesInFlight < effectiveWin {
		avail := effectiveWin - s.bytesInFlight
		syn := s.nextSeqno == 0

		// Index of the next unsent byte within the stream buffer.
		// Data byte k occupies absolute seqno k+1.
		var dataIndex uint64
		if !syn {
			dataIndex = (s.nextSeqno - 1) - s.stream.Reader().BytesPopped()
		}

		buf := s.stream.Reader().Peek()
		var bufAvail uint64
		if dataIndex < uint64(len(buf)) {
			bufAvail = uint64(len(buf)) - dataIndex
		}

		synLen := uint64(0)
		if syn {
			synLen = 1
		}
		maxPayload := bufAvail
		if maxPayload > MaxPayloadSize {
			maxPayload = MaxPayloadSize
		}
		if maxPayload > avail-synLen {
			maxPayload = avail - synLen
		}

		// FIN rides along only once the stream is closed, the chosen
		// payload drains everything buffered, and the window still has
		// room for the extra slot.
		fin := false
		if s.stream.Writer().IsClosed() && !s.finSent {
			if maxPayload == 0 {
				fin = avail >= synLen+1
			} else {
				fin = dataIndex+maxPayload == uint64(len(buf)) && avail >= synLen+maxPayload+1
			}
		}

		if !syn && maxPayload == 0 && !fin {
			break
		}

		msg := SenderMessage{
			Seqno: Wrap(s.nextSeqno, s.isn),
			SYN:   syn,
			FIN:   fin,
			RST:   s.stream.Writer().HasError(),
		}
		if maxPayload > 0 {
			msg.Payload = append([]byte(nil), buf[dataIndex:dataIndex+maxPayload]...)
		}

		transmit(msg)

		if seqLen := msg.SeqLen(); seqLen > 0 {
			s.outstanding = append(s.outstanding, outSegment{
				absSeqno: s.nextSeqno,
				payload:  msg.Payload,
				syn:      msg.SYN,
				fin:      msg.FIN,
				probe:    s.windowSize == 0 && s.nextSeqno != 0,
			})
			s.bytesInFlight += seqLen
			s.nextSeqno += seqLen
			if msg.FIN {
				s.finSent = true
			}
			if !s.timerRunning {
				s.timerRunning = true
				s.elapsed = 0
				s.rto = s.initialRTO
			}
		}
	}
}

// MakeEmptyMessage returns a zero-length segment carrying the current
// seqno, used to deliver an ACK or RST without consuming sequence space.
// It never touches retransmission state.
func (s *Sender) MakeEmptyMessage() SenderMessage {
	return SenderMessage{
		Seqno: Wrap(s.nextSeqno, s.isn),
		RST:   s.stream.Writer().HasError(),
	}
}

// Receive processes an acknowledgment from the peer. Acks of unsent data
// and acks carrying no new information are ignored without touching the
// retransmission timer.
func (s *Sender) Receive(msg ReceiverMessage) {
	if msg.RST {
		s.stream.Writer().SetError()
		return
	}

	s.windowSize = msg.WindowSize

	if !msg.AckValid {
		return
	}

	ackAbs := msg.Ackno.Unwrap(s.isn, s.nextSeqno)
	if ackAbs > s.nextSeqno {
		return
	}
	if ackAbs <= s.lastAck {
		return
	}
	s.lastAck = ackAbs

	for len(s.outstanding) > 0 {
		seg := &s.outstanding[0]
		if seg.absSeqno+seg.seqLen() > ackAbs {
			break
		}
		s.bytesInFlight -= seg.seqLen()
		s.outstanding = s.outstanding[1:]
	}
	if len(s.outstanding) == 0 {
		s.outstanding = nil
	}

	// Drop acknowledged bytes from the outbound stream. Absolute seqno 0
	// is the SYN, so ackAbs-1 is the count of acked data bytes.
	ackedData := uint64(0)
	if ackAbs > 0 {
		ackedData = ackAbs - 1
	}
	if popped := s.stream.Reader().BytesPopped(); ackedData > popped {
		toPop := ackedData - popped
		if buffered := s.stream.Reader().BytesBuffered(); toPop > buffered {
			toPop = buffered
		}
		s.stream.Reader().Pop(toPop)
	}

	s.rto = s.initialRTO
	s.consecutiveRetx = 0
	s.elapsed = 0
	s.timerRunning = len(s.outstanding) > 0
}

// Tick advances the retransmission timer by deltaMS milliseconds and, on
// expiry, retransmits the oldest outstanding segment. Real
// retransmissions double the RTO; zero-window probes do not.
func (s *Sender) Tick(deltaMS uint64, transmit TransmitFunc) {
	if !s.timerRunning {
		return
	}

	s.elapsed += deltaMS
	if s.elapsed < s.rto {
		return
	}

	if len(s.outstanding) == 0 {
		s.timerRunning = false
		s.elapsed = 0
		return
	}

	seg := &s.outstanding[0]
	transmit(SenderMessage{
		Seqno:   Wrap(seg.absSeqno, s.isn),
		SYN:     seg.syn,
		FIN:     seg.fin,
		Payload: seg.payload,
	})

	if seg.seqLen() > 0 && !seg.probe {
		s.consecutiveRetx++
		s.rto *= 2
	}
	s.elapsed = 0
}
