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

// Package mintcp implements a user-space TCP endpoint over unreliable
// datagram substrates: a reliable, ordered, flow-controlled byte stream
// exposed through the standard net.Conn / net.Listener interfaces.
//
// The protocol core (ByteStream, Reassembler, Receiver, Sender, Wrap32)
// is passive and single-threaded; Session serializes all access to it and
// drives it from the packet loop and an update timer.
package mintcp

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const (
	// each encrypted datagram is led by a nonce and a CRC32 of the body
	nonceSize       = 16
	crcSize         = 4
	cryptHeaderSize = nonceSize + crcSize

	// acceptBacklog is the maximum number of half-open sessions queued
	// on a listener.
	acceptBacklog = 128

	// closeLinger bounds how long a closed session keeps retransmitting
	// an unacknowledged FIN before tearing down.
	closeLinger = 3 * time.Second
)

var (
	errInvalidOperation = errors.New("invalid operation")
	errConnReset        = errors.New("connection reset by peer")
	errTimeout          = &timeoutError{}
)

// timeoutError satisfies net.Error for deadline expiry.
type timeoutError struct{}

func (*timeoutError) Error() string   { return "timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }

type (
	// Session is one reliable bidirectional stream over a packet
	// connection, implementing net.Conn.
	Session struct {
		conn    net.PacketConn // the underlying packet connection
		ownConn bool           // true if we created conn internally
		remote  net.Addr       // remote peer address
		l       *Listener      // non-nil when accepted by a Listener
		block   BlockCrypt     // packet encryption, nil for plaintext
		nonce   Entropy

		// mu serializes every touch of the protocol core below.
		mu       sync.Mutex
		sender   *Sender
		receiver *Receiver
		interval time.Duration // update timer period
		txCount  uint64        // datagrams emitted, for ack piggyback detection
		xmit     []byte        // scratch buffer for outgoing datagrams

		rd time.Time // read deadline
		wd time.Time // write deadline

		// notifications
		die          chan struct{} // session fully terminated
		dieOnce      sync.Once
		closeOnce    sync.Once
		chReadEvent  chan struct{} // Read() may proceed without blocking
		chWriteEvent chan struct{} // Write() may proceed without blocking

		// socket error handling
		socketReadError      atomic.Value
		socketWriteError     atomic.Value
		chSocketReadError    chan struct{}
		chSocketWriteError   chan struct{}
		socketReadErrorOnce  sync.Once
		socketWriteErrorOnce sync.Once
	}

	setReadBuffer interface {
		SetReadBuffer(bytes int) error
	}

	setWriteBuffer interface {
		SetWriteBuffer(bytes int) error
	}
)

// newSession creates a session for either side of a connection.
func newSession(conn net.PacketConn, ownConn bool, remote net.Addr, l *Listener, block BlockCrypt, capacity, rto, interval int) *Session {
	s := new(Session)
	s.conn = conn
	s.ownConn = ownConn
	s.remote = remote
	s.l = l
	s.block = block
	s.die = make(chan struct{})
	s.chReadEvent = make(chan struct{}, 1)
	s.chWriteEvent = make(chan struct{}, 1)
	s.chSocketReadError = make(chan struct{})
	s.chSocketWriteError = make(chan struct{})
	s.xmit = make([]byte, mtuLimit)

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rto <= 0 {
		rto = DefaultRTO
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.interval = time.Duration(interval) * time.Millisecond

	s.sender = NewSender(NewByteStream(uint64(capacity)), randomISN(), uint64(rto))
	s.receiver = NewReceiver(NewReassembler(NewByteStream(uint64(capacity))))

	if s.block != nil {
		s.nonce = new(nonceAES128)
		s.nonce.Init()
	}

	if l == nil { // it's a client connection
		go s.readLoop()
		atomic.AddUint64(&DefaultSnmp.ActiveOpens, 1)
	} else {
		atomic.AddUint64(&DefaultSnmp.PassiveOpens, 1)
	}
	go s.updater()

	currestab := atomic.AddUint64(&DefaultSnmp.CurrEstab, 1)
	maxconn := atomic.LoadUint64(&DefaultSnmp.MaxConn)
	if currestab > maxconn {
		atomic.CompareAndSwapUint64(&DefaultSnmp.MaxConn, maxconn, currestab)
	}

	// the opening SYN goes out immediately; the update timer keeps
	// retransmitting it until acknowledged
	s.mu.Lock()
	s.flush()
	s.mu.Unlock()
	return s
}

// Read implements net.Conn.
func (s *Session) Read(b []byte) (n int, err error) {
	for {
		s.mu.Lock()
		reader := s.receiver.reassembler.Reader()
		if buffered := reader.Peek(); len(buffered) > 0 {
			wasChoked := s.receiver.reassembler.Writer().AvailableCapacity() == 0
			n = copy(b, buffered)
			reader.Pop(uint64(n))
			if wasChoked {
				// the advertised window reopens; tell the peer
				// instead of waiting for its next probe
				s.ack()
			}
			s.mu.Unlock()
			atomic.AddUint64(&DefaultSnmp.BytesReceived, uint64(n))
			return n, nil
		}
		if reader.HasError() {
			s.mu.Unlock()
			return 0, errors.WithStack(errConnReset)
		}
		if reader.IsFinished() {
			s.mu.Unlock()
			return 0, io.EOF
		}

		// deadline for current reading operation
		var timeout *time.Timer
		var c <-chan time.Time
		if !s.rd.IsZero() {
			if time.Now().After(s.rd) {
				s.mu.Unlock()
				return 0, errors.WithStack(errTimeout)
			}
			delay := time.Until(s.rd)
			timeout = time.NewTimer(delay)
			c = timeout.C
		}
		s.mu.Unlock()

		// wait for inbound data to arrive
		select {
		case <-s.chReadEvent:
		case <-c:
		case <-s.chSocketReadError:
			if timeout != nil {
				timeout.Stop()
			}
			return 0, s.socketReadError.Load().(error)
		case <-s.die:
			if timeout != nil {
				timeout.Stop()
			}
			return 0, errors.WithStack(io.ErrClosedPipe)
		}
		if timeout != nil {
			timeout.Stop()
		}
	}
}

// Write implements net.Conn.
func (s *Session) Write(b []byte) (n int, err error) {
	for {
		select {
		case <-s.chSocketWriteError:
			return n, s.socketWriteError.Load().(error)
		case <-s.die:
			return n, errors.WithStack(io.ErrClosedPipe)
		default:
		}

		s.mu.Lock()
		writer := s.sender.Writer()
		if writer.HasError() {
			s.mu.Unlock()
			return n, errors.WithStack(errConnReset)
		}
		if writer.IsClosed() {
			s.mu.Unlock()
			return n, errors.WithStack(io.ErrClosedPipe)
		}
		if avail := writer.AvailableCapacity(); avail > 0 {
			chunk := b
			if uint64(len(chunk)) > avail {
				chunk = chunk[:avail]
			}
			m := writer.Push(chunk)
			b = b[m:]
			n += m
			s.flush()
			if len(b) == 0 {
				s.mu.Unlock()
				atomic.AddUint64(&DefaultSnmp.BytesSent, uint64(n))
				return n, nil
			}
		}

		// deadline for current writing operation
		var timeout *time.Timer
		var c <-chan time.Time
		if !s.wd.IsZero() {
			if time.Now().After(s.wd) {
				s.mu.Unlock()
				return n, errors.WithStack(errTimeout)
			}
			delay := time.Until(s.wd)
			timeout = time.NewTimer(delay)
			c = timeout.C
		}
		s.mu.Unlock()

		// wait for the peer to drain its window
		select {
		case <-s.chWriteEvent:
		case <-c:
		case <-s.chSocketWriteError:
			if timeout != nil {
				timeout.Stop()
			}
			return n, s.socketWriteError.Load().(error)
		case <-s.die:
			if timeout != nil {
				timeout.Stop()
			}
			return n, errors.WithStack(io.ErrClosedPipe)
		}
		if timeout != nil {
			timeout.Stop()
		}
	}
}

// Close closes the outbound stream, emits a FIN and lingers briefly so
// the FIN can be retransmitted, then tears the session down.
func (s *Session) Close() error {
	var once bool
	s.closeOnce.Do(func() {
		once = true
	})
	if !once {
		return errors.WithStack(io.ErrClosedPipe)
	}

	s.mu.Lock()
	s.sender.Writer().Close()
	s.flush()
	done := len(s.sender.outstanding) == 0
	s.mu.Unlock()

	if done {
		s.terminate()
	} else {
		time.AfterFunc(closeLinger, s.terminate)
	}
	return nil
}

// terminate releases the session's resources; it is idempotent.
func (s *Session) terminate() {
	var once bool
	s.dieOnce.Do(func() {
		close(s.die)
		once = true
	})
	if !once {
		return
	}
	atomic.AddUint64(&DefaultSnmp.CurrEstab, ^uint64(0))
	if s.l != nil {
		s.l.closeSession(s.remote)
	}
	if s.ownConn {
		s.conn.Close()
	}
}

// LocalAddr implements net.Conn.
func (s *Session) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// RemoteAddr implements net.Conn.
func (s *Session) RemoteAddr() net.Addr { return s.remote }

// SetDeadline implements net.Conn.
func (s *Session) SetDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rd = t
	s.wd = t
	s.notifyReadEvent()
	s.notifyWriteEvent()
	return nil
}

// SetReadDeadline implements net.Conn.
func (s *Session) SetReadDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rd = t
	s.notifyReadEvent()
	return nil
}

// SetWriteDeadline implements net.Conn.
func (s *Session) SetWriteDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wd = t
	s.notifyWriteEvent()
	return nil
}

// SetReadBuffer sets the socket read buffer for client sessions, i.e.
// sessions not accepted by a Listener.
func (s *Session) SetReadBuffer(bytes int) error {
	if s.l == nil {
		if nc, ok := s.conn.(setReadBuffer); ok {
			return nc.SetReadBuffer(bytes)
		}
	}
	return errors.WithStack(errInvalidOperation)
}

// SetWriteBuffer sets the socket write buffer for client sessions, i.e.
// sessions not accepted by a Listener.
func (s *Session) SetWriteBuffer(bytes int) error {
	if s.l == nil {
		if nc, ok := s.conn.(setWriteBuffer); ok {
			return nc.SetWriteBuffer(bytes)
		}
	}
	return errors.WithStack(errInvalidOperation)
}

// SequenceNumbersInFlight reports the unacknowledged sequence span of the
// outbound direction.
func (s *Session) SequenceNumbersInFlight() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender.SequenceNumbersInFlight()
}

// ConsecutiveRetransmissions reports the current retransmission streak of
// the outbound direction.
func (s *Session) ConsecutiveRetransmissions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender.ConsecutiveRetransmissions()
}

// flush drives the sender; the caller must hold mu.
func (s *Session) flush() {
	s.sender.Push(s.transmit)
}

// ack emits an empty segment carrying the current acknowledgment and
// window; the caller must hold mu.
func (s *Session) ack() {
	s.transmit(s.sender.MakeEmptyMessage())
}

// transmit encodes one outgoing segment together with the local
// acknowledgment state and puts it on the wire; the caller must hold mu.
func (s *Session) transmit(msg SenderMessage) {
	pkt := newPacket(msg, s.receiver.Message())

	overhead := 0
	if s.block != nil {
		overhead = cryptHeaderSize
	}
	buf := s.xmit
	n := pkt.encode(buf[overhead:]) + overhead

	if s.block != nil {
		s.nonce.Fill(buf[:nonceSize])
		checksum := crc32.ChecksumIEEE(buf[cryptHeaderSize:n])
		binary.LittleEndian.PutUint32(buf[nonceSize:], checksum)
		s.block.Encrypt(buf[:n], buf[:n])
	}

	s.txCount++
	atomic.AddUint64(&DefaultSnmp.OutSegs, 1)
	if pkt.flags&flagRST != 0 {
		atomic.AddUint64(&DefaultSnmp.RSTSegs, 1)
	}
	if _, err := s.conn.WriteTo(buf[:n], s.remote); err != nil {
		s.notifyWriteError(errors.WithStack(err))
	}
}

// readLoop pumps datagrams from a connection owned by this session.
func (s *Session) readLoop() {
	buf := make([]byte, mtuLimit)
	for {
		n, _, err := s.conn.ReadFrom(buf)
		if err != nil {
			s.notifyReadError(errors.WithStack(err))
			return
		}
		s.packetInput(buf[:n])
	}
}

// packetInput strips the crypt header and feeds the wire bytes into the
// protocol core.
func (s *Session) packetInput(data []byte) {
	data, ok := stripCryptHeader(s.block, data)
	if !ok {
		return
	}
	pkt, err := decode(data)
	if err != nil {
		atomic.AddUint64(&DefaultSnmp.PacketsCorrupted, 1)
		return
	}
	s.segmentInput(pkt)
}

// segmentInput runs one decoded segment through receiver and sender and
// pushes whatever became possible: freed window, an ack, or new data.
func (s *Session) segmentInput(pkt packet) {
	atomic.AddUint64(&DefaultSnmp.InSegs, 1)

	s.mu.Lock()
	s.sender.Receive(pkt.receiverMessage())
	s.receiver.Receive(pkt.senderMessage())

	txBefore := s.txCount
	s.flush()
	// a data-bearing segment must be acknowledged even when nothing is
	// flowing the other way
	ackNeeded := len(pkt.payload) > 0 || pkt.flags&(flagSYN|flagFIN) != 0
	if ackNeeded && s.txCount == txBefore {
		s.ack()
	}

	reader := s.receiver.reassembler.Reader()
	readable := len(reader.Peek()) > 0 || reader.IsFinished() || reader.HasError()
	writer := s.sender.Writer()
	writable := writer.AvailableCapacity() > 0 || writer.HasError()
	rst := pkt.flags&flagRST != 0
	s.mu.Unlock()

	if rst {
		atomic.AddUint64(&DefaultSnmp.RSTSegs, 1)
		atomic.AddUint64(&DefaultSnmp.EstabResets, 1)
	}
	if readable {
		s.notifyReadEvent()
	}
	if writable {
		s.notifyWriteEvent()
	}
}

// updater drives retransmission and zero-window probing until the
// session dies.
func (s *Session) updater() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			delta := uint64(now.Sub(last) / time.Millisecond)
			last = now
			s.mu.Lock()
			s.sender.Tick(delta, func(msg SenderMessage) {
				if s.sender.outstanding[0].probe {
					atomic.AddUint64(&DefaultSnmp.ProbeSegs, 1)
				} else {
					atomic.AddUint64(&DefaultSnmp.RetransSegs, 1)
				}
				s.transmit(msg)
			})
			s.flush()
			s.mu.Unlock()
		case <-s.die:
			return
		}
	}
}

func (s *Session) notifyReadEvent() {
	select {
	case s.chReadEvent <- struct{}{}:
	default:
	}
}

func (s *Session) notifyWriteEvent() {
	select {
	case s.chWriteEvent <- struct{}{}:
	default:
	}
}

func (s *Session) notifyReadError(err error) {
	s.socketReadErrorOnce.Do(func() {
		s.socketReadError.Store(err)
		close(s.chSocketReadError)
	})
}

func (s *Session) notifyWriteError(err error) {
	s.socketWriteErrorOnce.Do(func() {
		s.socketWriteError.Store(err)
		close(s.chSocketWriteError)
	})
}

// stripCryptHeader decrypts a datagram in place and verifies its
// checksum, returning the wire bytes that follow the crypt header.
func stripCryptHeader(block BlockCrypt, data []byte) ([]byte, bool) {
	if block == nil {
		if len(data) < headerSize {
			atomic.AddUint64(&DefaultSnmp.PacketsTooSmall, 1)
			return nil, false
		}
		return data, true
	}
	if len(data) < cryptHeaderSize+headerSize {
		atomic.AddUint64(&DefaultSnmp.PacketsTooSmall, 1)
		return nil, false
	}
	block.Decrypt(data, data)
	checksum := crc32.ChecksumIEEE(data[cryptHeaderSize:])
	if checksum != binary.LittleEndian.Uint32(data[nonceSize:]) {
		atomic.AddUint64(&DefaultSnmp.InCsumErrors, 1)
		return nil, false
	}
	return data[cryptHeaderSize:], true
}

type (
	// Listener waits for incoming sessions on a packet connection.
	Listener struct {
		block    BlockCrypt     // packet encryption
		conn     net.PacketConn // the underlying packet connection
		ownConn  bool
		capacity int
		rto      int
		interval int

		sessions    map[string]*Session
		sessionLock sync.RWMutex
		chAccepts   chan *Session

		die     chan struct{}
		dieOnce sync.Once

		socketReadError     atomic.Value
		chSocketReadError   chan struct{}
		socketReadErrorOnce sync.Once

		rd atomic.Value // accept deadline
	}
)

// monitor pumps datagrams and demultiplexes them onto sessions by remote
// address.
func (l *Listener) monitor() {
	buf := make([]byte, mtuLimit)
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			l.notifyReadError(errors.WithStack(err))
			return
		}
		l.packetInput(buf[:n], from)
	}
}

func (l *Listener) packetInput(data []byte, addr net.Addr) {
	data, ok := stripCryptHeader(l.block, data)
	if !ok {
		return
	}
	pkt, err := decode(data)
	if err != nil {
		atomic.AddUint64(&DefaultSnmp.PacketsCorrupted, 1)
		return
	}

	l.sessionLock.RLock()
	s := l.sessions[addr.String()]
	l.sessionLock.RUnlock()

	if s != nil {
		s.segmentInput(pkt)
		return
	}

	// only an opening SYN may establish a new session
	if pkt.flags&flagSYN == 0 || len(l.chAccepts) >= cap(l.chAccepts) {
		return
	}
	s = newSession(l.conn, false, addr, l, l.block, l.capacity, l.rto, l.interval)
	s.segmentInput(pkt)
	l.sessionLock.Lock()
	l.sessions[addr.String()] = s
	l.sessionLock.Unlock()
	l.chAccepts <- s
}

func (l *Listener) notifyReadError(err error) {
	l.socketReadErrorOnce.Do(func() {
		l.socketReadError.Store(err)
		close(l.chSocketReadError)

		// propagate to all sessions
		l.sessionLock.RLock()
		for _, s := range l.sessions {
			s.notifyReadError(err)
		}
		l.sessionLock.RUnlock()
	})
}

// SetReadBuffer sets the socket read buffer of the underlying connection.
func (l *Listener) SetReadBuffer(bytes int) error {
	if nc, ok := l.conn.(setReadBuffer); ok {
		return nc.SetReadBuffer(bytes)
	}
	return errors.WithStack(errInvalidOperation)
}

// SetWriteBuffer sets the socket write buffer of the underlying
// connection.
func (l *Listener) SetWriteBuffer(bytes int) error {
	if nc, ok := l.conn.(setWriteBuffer); ok {
		return nc.SetWriteBuffer(bytes)
	}
	return errors.WithStack(errInvalidOperation)
}

// Accept implements net.Listener.
func (l *Listener) Accept() (net.Conn, error) {
	return l.AcceptSession()
}

// AcceptSession accepts a new session from a remote peer.
func (l *Listener) AcceptSession() (*Session, error) {
	var timeout <-chan time.Time
	if tdeadline, ok := l.rd.Load().(time.Time); ok && !tdeadline.IsZero() {
		timeout = time.After(time.Until(tdeadline))
	}

	select {
	case <-timeout:
		return nil, errors.WithStack(errTimeout)
	case c := <-l.chAccepts:
		return c, nil
	case <-l.chSocketReadError:
		return nil, l.socketReadError.Load().(error)
	case <-l.die:
		return nil, errors.WithStack(io.ErrClosedPipe)
	}
}

// SetDeadline implements the Accept deadline.
func (l *Listener) SetDeadline(t time.Time) error {
	l.rd.Store(t)
	return nil
}

// Close stops Accept from returning sessions. A listener that created its
// own packet connection closes it, which also cuts off every session
// carried on it; over a connection handed to ServeConn, established
// sessions keep running.
func (l *Listener) Close() error {
	var once bool
	l.dieOnce.Do(func() {
		close(l.die)
		once = true
	})
	if !once {
		return errors.WithStack(io.ErrClosedPipe)
	}
	if l.ownConn {
		return l.conn.Close()
	}
	return nil
}

// closeSession removes a session from the demultiplexer.
func (l *Listener) closeSession(remote net.Addr) bool {
	l.sessionLock.Lock()
	defer l.sessionLock.Unlock()
	if _, ok := l.sessions[remote.String()]; ok {
		delete(l.sessions, remote.String())
		return true
	}
	return false
}

// Addr implements net.Listener.
func (l *Listener) Addr() net.Addr { return l.conn.LocalAddr() }

// Listen listens for incoming connections on laddr with defaults.
func Listen(laddr string) (net.Listener, error) {
	return ListenWithOptions(laddr, nil, DefaultCapacity, DefaultRTO)
}

// ListenWithOptions listens on laddr with packet encryption block, a
// per-direction stream buffer of capacity bytes, and an initial
// retransmission timeout of rto milliseconds.
func ListenWithOptions(laddr string, block BlockCrypt, capacity, rto int) (*Listener, error) {
	udpaddr, err := net.ResolveUDPAddr("udp", laddr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	conn, err := net.ListenUDP("udp", udpaddr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return serveConn(block, capacity, rto, conn, true)
}

// ServeConn turns an existing packet connection into a listener.
func ServeConn(block BlockCrypt, capacity, rto int, conn net.PacketConn) (*Listener, error) {
	return serveConn(block, capacity, rto, conn, false)
}

func serveConn(block BlockCrypt, capacity, rto int, conn net.PacketConn, ownConn bool) (*Listener, error) {
	l := new(Listener)
	l.conn = conn
	l.ownConn = ownConn
	l.block = block
	l.capacity = capacity
	l.rto = rto
	l.sessions = make(map[string]*Session)
	l.chAccepts = make(chan *Session, acceptBacklog)
	l.die = make(chan struct{})
	l.chSocketReadError = make(chan struct{})
	go l.monitor()
	return l, nil
}

// Dial connects to raddr with defaults.
func Dial(raddr string) (net.Conn, error) {
	return DialWithOptions(raddr, nil, DefaultCapacity, DefaultRTO)
}

// DialWithOptions connects to raddr with packet encryption block, a
// per-direction stream buffer of capacity bytes, and an initial
// retransmission timeout of rto milliseconds.
func DialWithOptions(raddr string, block BlockCrypt, capacity, rto int) (*Session, error) {
	udpaddr, err := net.ResolveUDPAddr("udp", raddr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewConn(conn, true, udpaddr, block, capacity, rto)
}

// NewConn establishes a session over an existing packet connection.
func NewConn(conn net.PacketConn, ownConn bool, raddr net.Addr, block BlockCrypt, capacity, rto int) (*Session, error) {
	return newSession(conn, ownConn, raddr, nil, block, capacity, rto, 0), nil
}
