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

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Wire layout of one datagram, little endian. Each datagram carries both
// directions' control state so every data segment piggybacks the current
// acknowledgment:
//
//	0       4       8       10      12   13       16
//	+-------+-------+--------+-------+----+--------+----------+
//	| seqno | ackno | window | len   |flg | unused | payload  |
//	+-------+-------+--------+-------+----+--------+----------+
const (
	headerSize = 16

	flagSYN = 1 << 0
	flagFIN = 1 << 1
	flagRST = 1 << 2
	flagACK = 1 << 3
)

var errPacketTooShort = errors.New("packet too short")
var errPacketTruncated = errors.New("packet payload truncated")

// packet is the unit of exchange between two sessions: one sender message
// plus the emitting side's current receiver message.
type packet struct {
	seqno   Wrap32
	ackno   Wrap32
	wnd     uint16
	flags   uint8
	payload []byte
}

func (p *packet) size() int { return headerSize + len(p.payload) }

// encode writes the packet into buf, which must hold at least p.size()
// bytes, and returns the number of bytes written.
func (p *packet) encode(buf []byte) int {
	binary.LittleEndian.PutUint32(buf, uint32(p.seqno))
	binary.LittleEndian.PutUint32(buf[4:], uint32(p.ackno))
	binary.LittleEndian.PutUint16(buf[8:], p.wnd)
	binary.LittleEndian.PutUint16(buf[10:], uint16(len(p.payload)))
	buf[12] = p.flags
	buf[13] = 0
	buf[14] = 0
	buf[15] = 0
	copy(buf[headerSize:], p.payload)
	return p.size()
}

// decode parses one datagram. The returned payload aliases data.
func decode(data []byte) (packet, error) {
	var p packet
	if len(data) < headerSize {
		return p, errors.WithStack(errPacketTooShort)
	}
	p.seqno = Wrap32(binary.LittleEndian.Uint32(data))
	p.ackno = Wrap32(binary.LittleEndian.Uint32(data[4:]))
	p.wnd = binary.LittleEndian.Uint16(data[8:])
	length := int(binary.LittleEndian.Uint16(data[10:]))
	p.flags = data[12]
	if len(data) < headerSize+length {
		return p, errors.WithStack(errPacketTruncated)
	}
	p.payload = data[headerSize : headerSize+length]
	return p, nil
}

// senderMessage extracts the data-bearing half of the packet.
func (p *packet) senderMessage() SenderMessage {
	return SenderMessage{
		Seqno:   p.seqno,
		SYN:     p.flags&flagSYN != 0,
		FIN:     p.flags&flagFIN != 0,
		RST:     p.flags&flagRST != 0,
		Payload: p.payload,
	}
}

// receiverMessage extracts the acknowledgment half of the packet.
func (p *packet) receiverMessage() ReceiverMessage {
	return ReceiverMessage{
		Ackno:      p.ackno,
		AckValid:   p.flags&flagACK != 0,
		WindowSize: p.wnd,
		RST:        p.flags&flagRST != 0,
	}
}

// newPacket combines an outgoing sender message with the local receiver's
// current acknowledgment.
func newPacket(data SenderMessage, ack ReceiverMessage) packet {
	var flags uint8
	if data.SYN {
		flags |= flagSYN
	}
	if data.FIN {
		flags |= flagFIN
	}
	if data.RST || ack.RST {
		flags |= flagRST
	}
	if ack.AckValid {
		flags |= flagACK
	}
	return packet{
		seqno:   data.Seqno,
		ackno:   ack.Ackno,
		wnd:     ack.WindowSize,
		flags:   flags,
		payload: data.Payload,
	}
}
