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

const (
	// MaxPayloadSize bounds the payload of a single segment. SYN and FIN
	// still occupy sequence numbers on top of it.
	MaxPayloadSize = 1000

	// DefaultCapacity is the per-direction stream buffer size in bytes,
	// which also bounds the advertised receive window.
	DefaultCapacity = 65535

	// DefaultRTO is the initial retransmission timeout in milliseconds.
	DefaultRTO = 400

	// DefaultInterval is the pace of the internal update timer in
	// milliseconds; it drives retransmissions and window probing.
	DefaultInterval = 20

	// mtuLimit caps the size of a single datagram on the wire.
	mtuLimit = 1500
)
