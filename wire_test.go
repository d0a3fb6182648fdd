package mintcp

import (
	"bytes"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	data := SenderMessage{
		Seqno:   Wrap32(0xCAFEBABE),
		SYN:     true,
		FIN:     true,
		Payload: []byte("payload"),
	}
	ack := ReceiverMessage{
		Ackno:      Wrap32(0x1234),
		AckValid:   true,
		WindowSize: 777,
	}

	pkt := newPacket(data, ack)
	buf := make([]byte, pkt.size())
	n := pkt.encode(buf)
	if n != headerSize+len(data.Payload) {
		t.Fatalf("encode returned %d, want %d", n, headerSize+len(data.Payload))
	}

	got, err := decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sm := got.senderMessage()
	if sm.Seqno != data.Seqno || !sm.SYN || !sm.FIN || sm.RST || !bytes.Equal(sm.Payload, data.Payload) {
		t.Fatalf("sender message mismatch: %+v", sm)
	}
	rm := got.receiverMessage()
	if rm.Ackno != ack.Ackno || !rm.AckValid || rm.WindowSize != 777 || rm.RST {
		t.Fatalf("receiver message mismatch: %+v", rm)
	}
}

func TestPacketRSTFromEitherHalf(t *testing.T) {
	pkt := newPacket(SenderMessage{}, ReceiverMessage{RST: true})
	if pkt.flags&flagRST == 0 {
		t.Fatal("receiver RST not propagated to the wire")
	}

	pkt = newPacket(SenderMessage{RST: true}, ReceiverMessage{})
	if pkt.flags&flagRST == 0 {
		t.Fatal("sender RST not propagated to the wire")
	}
}

func TestDecodeRejectsShortInput(t *testing.T) {
	if _, err := decode(make([]byte, headerSize-1)); err == nil {
		t.Fatal("short datagram accepted")
	}

	// header claims more payload than the datagram carries
	pkt := newPacket(SenderMessage{Payload: []byte("abcdef")}, ReceiverMessage{})
	buf := make([]byte, pkt.size())
	pkt.encode(buf)
	if _, err := decode(buf[:len(buf)-2]); err == nil {
		t.Fatal("truncated datagram accepted")
	}
}
