package mintcp

import (
	"bytes"
	"crypto/sha1"
	"io"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

func listenEcho(t *testing.T, block BlockCrypt) (net.Addr, *Listener) {
	t.Helper()
	l, err := ListenWithOptions("127.0.0.1:0", block, 65535, 100)
	if err != nil {
		t.Fatalf("ListenWithOptions: %v", err)
	}
	go func() {
		for {
			conn, err := l.AcceptSession()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				io.Copy(c, c)
			}(conn)
		}
	}()
	return l.Addr(), l
}

func dialTest(t *testing.T, raddr net.Addr, block BlockCrypt) *Session {
	t.Helper()
	s, err := DialWithOptions(raddr.String(), block, 65535, 100)
	if err != nil {
		t.Fatalf("DialWithOptions: %v", err)
	}
	return s
}

func TestSessionEcho(t *testing.T) {
	addr, l := listenEcho(t, nil)
	defer l.Close()

	s := dialTest(t, addr, nil)
	defer s.Close()
	s.SetDeadline(time.Now().Add(10 * time.Second))

	msg := []byte("hello over unreliable datagrams")
	if _, err := s.Write(msg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(s, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(buf, msg) {
		t.Fatalf("echo = %q, want %q", buf, msg)
	}
}

func TestSessionEchoEncrypted(t *testing.T) {
	pass := pbkdf2.Key([]byte("supersecret"), []byte("mintcp-test"), 1024, 32, sha1.New)
	block, err := NewAESBlockCrypt(pass)
	if err != nil {
		t.Fatalf("NewAESBlockCrypt: %v", err)
	}

	addr, l := listenEcho(t, block)
	defer l.Close()

	s := dialTest(t, addr, block)
	defer s.Close()
	s.SetDeadline(time.Now().Add(10 * time.Second))

	msg := bytes.Repeat([]byte("0123456789"), 1000) // several segments worth
	go func() {
		s.Write(msg)
	}()
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(s, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(buf, msg) {
		t.Fatal("large echo mismatch")
	}
}

func TestSessionReadEOFAfterPeerClose(t *testing.T) {
	l, err := ListenWithOptions("127.0.0.1:0", nil, 65535, 100)
	if err != nil {
		t.Fatalf("ListenWithOptions: %v", err)
	}
	defer l.Close()

	go func() {
		conn, err := l.AcceptSession()
		if err != nil {
			return
		}
		conn.Write([]byte("bye"))
		conn.Close()
	}()

	s := dialTest(t, l.Addr(), nil)
	defer s.Close()
	s.SetDeadline(time.Now().Add(10 * time.Second))

	data, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(data, []byte("bye")) {
		t.Fatalf("data = %q, want %q", data, "bye")
	}
}

func TestSessionReadDeadline(t *testing.T) {
	addr, l := listenEcho(t, nil)
	defer l.Close()

	s := dialTest(t, addr, nil)
	defer s.Close()

	s.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	buf := make([]byte, 16)
	_, err := s.Read(buf)
	nerr, ok := errors.Cause(err).(net.Error)
	if !ok || !nerr.Timeout() {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestListenerAcceptDeadline(t *testing.T) {
	l, err := ListenWithOptions("127.0.0.1:0", nil, 65535, 100)
	if err != nil {
		t.Fatalf("ListenWithOptions: %v", err)
	}
	defer l.Close()

	l.SetDeadline(time.Now().Add(100 * time.Millisecond))
	if _, err := l.Accept(); err == nil {
		t.Fatal("Accept returned without a peer")
	}
}
