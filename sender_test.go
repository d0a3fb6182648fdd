package mintcp

import (
	"bytes"
	"testing"
)

type capture struct {
	msgs []SenderMessage
}

func (c *capture) transmit(msg SenderMessage) { c.msgs = append(c.msgs, msg) }

func (c *capture) take() []SenderMessage {
	out := c.msgs
	c.msgs = nil
	return out
}

func newTestSender(capacity uint64, isn Wrap32, rto uint64) *Sender {
	return NewSender(NewByteStream(capacity), isn, rto)
}

func ackOf(isn Wrap32, abs uint64, wnd uint16) ReceiverMessage {
	return ReceiverMessage{Ackno: Wrap(abs, isn), AckValid: true, WindowSize: wnd}
}

func TestSenderEmitsSYNUnderDefaultZeroWindow(t *testing.T) {
	isn := Wrap32(0xABCD)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Push(c.transmit)
	msgs := c.take()
	if len(msgs) != 1 {
		t.Fatalf("got %d segments, want 1", len(msgs))
	}
	if !msgs[0].SYN || msgs[0].FIN || len(msgs[0].Payload) != 0 {
		t.Fatalf("unexpected opening segment: %+v", msgs[0])
	}
	if msgs[0].Seqno != isn {
		t.Fatalf("seqno = %v, want %v", msgs[0].Seqno, isn)
	}
	if s.SequenceNumbersInFlight() != 1 {
		t.Fatalf("in flight = %d, want 1", s.SequenceNumbersInFlight())
	}
	if !s.timerRunning {
		t.Fatal("retransmission timer not running")
	}

	// a second push changes nothing while the probe window is full
	s.Push(c.transmit)
	if got := c.take(); len(got) != 0 {
		t.Fatalf("extra segments emitted: %d", len(got))
	}
}

func TestSenderRetransmitBackoff(t *testing.T) {
	s := newTestSender(64, 0, 1000)
	var c capture
	s.Push(c.transmit)
	c.take()

	s.Tick(999, c.transmit)
	if got := c.take(); len(got) != 0 {
		t.Fatalf("retransmitted before RTO expired")
	}

	s.Tick(1, c.transmit)
	if got := c.take(); len(got) != 1 || !got[0].SYN {
		t.Fatalf("expected SYN retransmission, got %+v", got)
	}
	if s.ConsecutiveRetransmissions() != 1 || s.rto != 2000 {
		t.Fatalf("consecutiveRetx = %d rto = %d, want 1/2000", s.ConsecutiveRetransmissions(), s.rto)
	}

	s.Tick(2000, c.transmit)
	if got := c.take(); len(got) != 1 {
		t.Fatalf("expected second retransmission")
	}
	if s.ConsecutiveRetransmissions() != 2 || s.rto != 4000 {
		t.Fatalf("consecutiveRetx = %d rto = %d, want 2/4000", s.ConsecutiveRetransmissions(), s.rto)
	}
}

func TestSenderZeroWindowProbeNoBackoff(t *testing.T) {
	isn := Wrap32(7)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Push(c.transmit)
	c.take()
	s.Receive(ackOf(isn, 1, 0)) // SYN acked, window closed

	s.Writer().Push([]byte("AB"))
	s.Push(c.transmit)
	msgs := c.take()
	if len(msgs) != 1 || !bytes.Equal(msgs[0].Payload, []byte("A")) {
		t.Fatalf("expected 1-byte probe, got %+v", msgs)
	}
	if !s.outstanding[0].probe {
		t.Fatal("probe segment not marked")
	}

	s.Tick(1000, c.transmit)
	if got := c.take(); len(got) != 1 || !bytes.Equal(got[0].Payload, []byte("A")) {
		t.Fatalf("expected probe retransmission, got %+v", got)
	}
	if s.ConsecutiveRetransmissions() != 0 || s.rto != 1000 {
		t.Fatalf("probe backed off: consecutiveRetx = %d rto = %d", s.ConsecutiveRetransmissions(), s.rto)
	}
}

func TestSenderFillsWindowWithMaxPayloadSegments(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(4096, isn, 1000)
	var c capture

	s.Push(c.transmit)
	c.take()
	s.Receive(ackOf(isn, 1, 65535))

	data := bytes.Repeat([]byte("x"), 2500)
	s.Writer().Push(data)
	s.Push(c.transmit)
	msgs := c.take()
	if len(msgs) != 3 {
		t.Fatalf("got %d segments, want 3", len(msgs))
	}
	if len(msgs[0].Payload) != MaxPayloadSize || len(msgs[1].Payload) != MaxPayloadSize || len(msgs[2].Payload) != 500 {
		t.Fatalf("payload sizes = %d/%d/%d", len(msgs[0].Payload), len(msgs[1].Payload), len(msgs[2].Payload))
	}
	if msgs[0].Seqno != Wrap(1, isn) || msgs[1].Seqno != Wrap(1001, isn) || msgs[2].Seqno != Wrap(2001, isn) {
		t.Fatalf("seqnos = %v/%v/%v", msgs[0].Seqno, msgs[1].Seqno, msgs[2].Seqno)
	}
	if s.SequenceNumbersInFlight() != 2500 {
		t.Fatalf("in flight = %d, want 2500", s.SequenceNumbersInFlight())
	}
}

func TestSenderRespectsPeerWindow(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(4096, isn, 1000)
	var c capture

	s.Push(c.transmit)
	c.take()
	s.Receive(ackOf(isn, 1, 4))

	s.Writer().Push([]byte("abcdefgh"))
	s.Push(c.transmit)
	msgs := c.take()
	if len(msgs) != 1 || !bytes.Equal(msgs[0].Payload, []byte("abcd")) {
		t.Fatalf("expected 4-byte segment, got %+v", msgs)
	}

	// acking the segment reopens the window for the next four bytes
	s.Receive(ackOf(isn, 5, 4))
	s.Push(c.transmit)
	msgs = c.take()
	if len(msgs) != 1 || !bytes.Equal(msgs[0].Payload, []byte("efgh")) {
		t.Fatalf("expected 4-byte follow-up, got %+v", msgs)
	}
}

func TestSenderFINPiggybacksOnFinalSegment(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Writer().Push([]byte("hi"))
	s.Writer().Close()
	s.Receive(ReceiverMessage{WindowSize: 64})
	s.Push(c.transmit)
	msgs := c.take()
	if len(msgs) != 1 {
		t.Fatalf("got %d segments, want 1", len(msgs))
	}
	if !msgs[0].SYN || !msgs[0].FIN || !bytes.Equal(msgs[0].Payload, []byte("hi")) {
		t.Fatalf("unexpected segment: %+v", msgs[0])
	}
	if s.SequenceNumbersInFlight() != 4 {
		t.Fatalf("in flight = %d, want 4", s.SequenceNumbersInFlight())
	}

	// FIN is never sent twice
	s.Push(c.transmit)
	if got := c.take(); len(got) != 0 {
		t.Fatalf("FIN emitted twice: %+v", got)
	}
}

func TestSenderFINWaitsForWindowRoom(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Writer().Push([]byte("ab"))
	s.Writer().Close()
	s.Receive(ReceiverMessage{WindowSize: 3})
	s.Push(c.transmit)
	msgs := c.take()
	// window 3 holds SYN + both bytes but not the FIN slot
	if len(msgs) != 1 || msgs[0].FIN || !bytes.Equal(msgs[0].Payload, []byte("ab")) {
		t.Fatalf("unexpected segments: %+v", msgs)
	}

	s.Receive(ackOf(isn, 3, 3))
	s.Push(c.transmit)
	msgs = c.take()
	if len(msgs) != 1 || !msgs[0].FIN || len(msgs[0].Payload) != 0 {
		t.Fatalf("expected bare FIN, got %+v", msgs)
	}
}

func TestSenderAckPopsOutstandingAndStream(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Push(c.transmit)
	c.take()
	s.Receive(ackOf(isn, 1, 64))
	s.Writer().Push([]byte("abcd"))
	s.Push(c.transmit)
	c.take()
	if s.SequenceNumbersInFlight() != 4 {
		t.Fatalf("in flight = %d, want 4", s.SequenceNumbersInFlight())
	}

	s.Receive(ackOf(isn, 5, 64))
	if s.SequenceNumbersInFlight() != 0 {
		t.Fatalf("in flight = %d, want 0", s.SequenceNumbersInFlight())
	}
	if got := s.Reader().BytesPopped(); got != 4 {
		t.Fatalf("bytesPopped = %d, want 4", got)
	}
	if s.timerRunning {
		t.Fatal("timer still running with nothing outstanding")
	}
}

func TestSenderIgnoresBogusAcks(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Push(c.transmit)
	c.take()

	// ack of data never sent
	s.Receive(ackOf(isn, 100, 64))
	if s.lastAck != 0 || s.SequenceNumbersInFlight() != 1 {
		t.Fatalf("bogus ack accepted: lastAck=%d inflight=%d", s.lastAck, s.SequenceNumbersInFlight())
	}

	s.Receive(ackOf(isn, 1, 64))
	if s.lastAck != 1 {
		t.Fatalf("lastAck = %d, want 1", s.lastAck)
	}

	// stale ack must not disturb the timer
	s.Writer().Push([]byte("zz"))
	s.Push(c.transmit)
	c.take()
	s.Tick(600, c.transmit)
	s.Receive(ackOf(isn, 1, 64))
	if s.elapsed != 600 {
		t.Fatalf("stale ack reset the timer: elapsed = %d", s.elapsed)
	}
}

func TestSenderAckMonotonic(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(64, isn, 1000)
	var c capture

	s.Push(c.transmit)
	s.Receive(ackOf(isn, 1, 64))
	s.Writer().Push([]byte("abcdef"))
	s.Push(c.transmit)
	c.take()

	acks := []uint64{3, 2, 5, 4, 7, 1}
	prev := uint64(0)
	for _, a := range acks {
		s.Receive(ackOf(isn, a, 64))
		if s.lastAck < prev {
			t.Fatalf("lastAck went backward: %d after %d", s.lastAck, prev)
		}
		prev = s.lastAck
	}
	if s.lastAck != 7 {
		t.Fatalf("lastAck = %d, want 7", s.lastAck)
	}
}

func TestSenderInFlightMatchesOutstanding(t *testing.T) {
	isn := Wrap32(0)
	s := newTestSender(4096, isn, 1000)
	var c capture

	s.Push(c.transmit)
	s.Receive(ackOf(isn, 1, 2048))
	s.Writer().Push(bytes.Repeat([]byte("y"), 1500))
	s.Push(c.transmit)
	c.take()

	var sum uint64
	for i := range s.outstanding {
		sum += s.outstanding[i].seqLen()
		if i > 0 && s.outstanding[i].absSeqno <= s.outstanding[i-1].absSeqno {
			t.Fatal("outstanding not sorted by absolute seqno")
		}
	}
	if sum != s.bytesInFlight {
		t.Fatalf("bytesInFlight = %d, sum(outstanding) = %d", s.bytesInFlight, sum)
	}
}

func TestSenderRSTHandling(t *testing.T) {
	s := newTestSender(64, 0, 1000)
	var c capture

	s.Receive(ReceiverMessage{RST: true, WindowSize: 64})
	if !s.Writer().HasError() {
		t.Fatal("RST did not set stream error")
	}
	if msg := s.MakeEmptyMessage(); !msg.RST {
		t.Fatalf("empty message does not carry RST: %+v", msg)
	}
	if s.windowSize != 0 {
		t.Fatalf("window updated from an RST message: %d", s.windowSize)
	}
	_ = c
}

func TestSenderMakeEmptyMessageDoesNotTouchState(t *testing.T) {
	s := newTestSender(64, Wrap32(9), 1000)
	var c capture
	s.Push(c.transmit)
	c.take()

	msg := s.MakeEmptyMessage()
	if msg.SeqLen() != 0 {
		t.Fatalf("empty message consumes sequence space: %+v", msg)
	}
	if msg.Seqno != Wrap(1, 9) {
		t.Fatalf("seqno = %v, want %v", msg.Seqno, Wrap(1, 9))
	}
	if s.SequenceNumbersInFlight() != 1 || len(s.outstanding) != 1 {
		t.Fatal("MakeEmptyMessage altered retransmission state")
	}
}
