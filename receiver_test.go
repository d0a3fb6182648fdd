package mintcp

import (
	"bytes"
	"testing"
)

func newTestReceiver(capacity uint64) *Receiver {
	return NewReceiver(NewReassembler(NewByteStream(capacity)))
}

func TestReceiverWindowAndAckAfterSYN(t *testing.T) {
	r := newTestReceiver(4096)
	isn := Wrap32(0x12345678)

	r.Receive(SenderMessage{Seqno: isn, SYN: true})
	msg := r.Message()
	if !msg.AckValid {
		t.Fatal("ackno absent after SYN")
	}
	if msg.Ackno != Wrap(1, isn) {
		t.Fatalf("ackno = %v, want %v", msg.Ackno, Wrap(1, isn))
	}
	if msg.WindowSize != 4096 {
		t.Fatalf("windowSize = %d, want 4096", msg.WindowSize)
	}
}

func TestReceiverIgnoresPreSYN(t *testing.T) {
	r := newTestReceiver(64)
	r.Receive(SenderMessage{Seqno: 100, Payload: []byte("hello")})
	msg := r.Message()
	if msg.AckValid {
		t.Fatal("ackno present before SYN")
	}
	if got := r.reassembler.Writer().BytesPushed(); got != 0 {
		t.Fatalf("bytesPushed = %d, want 0", got)
	}
}

func TestReceiverAssemblesPayloads(t *testing.T) {
	r := newTestReceiver(64)
	isn := Wrap32(5)
	r.Receive(SenderMessage{Seqno: isn, SYN: true, Payload: []byte("ab")})
	r.Receive(SenderMessage{Seqno: Wrap(3, isn), Payload: []byte("cd")})
	if got := r.reassembler.Reader().Peek(); !bytes.Equal(got, []byte("abcd")) {
		t.Fatalf("stream = %q, want %q", got, "abcd")
	}
	if got := r.Message().Ackno; got != Wrap(5, isn) {
		t.Fatalf("ackno = %v, want %v", got, Wrap(5, isn))
	}
}

func TestReceiverAcksAssembledFIN(t *testing.T) {
	r := newTestReceiver(64)
	isn := Wrap32(0)
	r.Receive(SenderMessage{Seqno: isn, SYN: true})
	r.Receive(SenderMessage{Seqno: Wrap(1, isn), Payload: []byte("hi"), FIN: true})

	// SYN + 2 data bytes + FIN
	if got := r.Message().Ackno; got != Wrap(4, isn) {
		t.Fatalf("ackno = %v, want %v", got, Wrap(4, isn))
	}
	if !r.reassembler.Writer().IsClosed() {
		t.Fatal("stream not closed after FIN assembled")
	}
}

func TestReceiverFINWaitsForGap(t *testing.T) {
	r := newTestReceiver(64)
	isn := Wrap32(0)
	r.Receive(SenderMessage{Seqno: isn, SYN: true})
	r.Receive(SenderMessage{Seqno: Wrap(3, isn), Payload: []byte("cd"), FIN: true})
	if got := r.Message().Ackno; got != Wrap(1, isn) {
		t.Fatalf("ackno = %v, want %v", got, Wrap(1, isn))
	}

	r.Receive(SenderMessage{Seqno: Wrap(1, isn), Payload: []byte("ab")})
	if got := r.Message().Ackno; got != Wrap(6, isn) {
		t.Fatalf("ackno = %v, want %v", got, Wrap(6, isn))
	}
}

func TestReceiverWindowClamped(t *testing.T) {
	r := newTestReceiver(1 << 20)
	if got := r.Message().WindowSize; got != 0xFFFF {
		t.Fatalf("windowSize = %d, want 65535", got)
	}
}

func TestReceiverRSTSetsError(t *testing.T) {
	r := newTestReceiver(64)
	r.Receive(SenderMessage{Seqno: 0, RST: true})
	if !r.reassembler.Reader().HasError() {
		t.Fatal("error flag not set on RST")
	}
	if !r.Message().RST {
		t.Fatal("outgoing message does not carry RST")
	}
}

func TestReceiverDiscardsSeqnoAtISN(t *testing.T) {
	r := newTestReceiver(64)
	isn := Wrap32(42)
	r.Receive(SenderMessage{Seqno: isn, SYN: true})

	// a non-SYN segment at the ISN unwraps to absolute 0, which no data
	// byte can occupy
	r.Receive(SenderMessage{Seqno: isn, Payload: []byte("bogus")})
	if got := r.reassembler.Writer().BytesPushed(); got != 0 {
		t.Fatalf("bytesPushed = %d, want 0", got)
	}
}
