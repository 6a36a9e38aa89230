// network.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package ardrone

import (
	"net"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

const (
	// DefaultHost is the address of the drone on its own access point
	DefaultHost = "192.168.1.1"
	// DefaultPort is the drone's AT command port
	DefaultPort = 5556
)

// ErrNotConnected is returned when sending on a transport that has not been connected.
var ErrNotConnected = errors.New("ardrone: transport not connected")

// Transport is the interface that wraps the datagram operations the Drone needs.
type Transport interface {
	Connect(host string, port int) error
	Send(b []byte) error
	Close() error
}

// NewTransport returns a StubTransport if stub is set, otherwise a UDPTransport.
func NewTransport(stub bool) Transport {
	if stub {
		return NewStubTransport()
	}
	return &UDPTransport{}
}

// UDPTransport sends each datagram to the drone over a connected UDP socket.
type UDPTransport struct {
	mu   sync.Mutex
	conn *net.UDPConn
}

// Connect resolves the drone's address and dials it.
func (u *UDPTransport) Connect(host string, port int) error {
	droneAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return errors.Wrap(err, "ardrone: resolve drone address")
	}
	conn, err := net.DialUDP("udp", nil, droneAddr)
	if err != nil {
		return errors.Wrap(err, "ardrone: dial udp")
	}
	u.mu.Lock()
	if u.conn != nil {
		u.conn.Close()
	}
	u.conn = conn
	u.mu.Unlock()
	return nil
}

// Send writes b as a single datagram.
func (u *UDPTransport) Send(b []byte) error {
	u.mu.Lock()
	conn := u.conn
	u.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	_, err := conn.Write(b)
	return err
}

// Close closes the socket, it is safe to call more than once.
func (u *UDPTransport) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	return err
}

const stubLogCapacity = 256

// StubTransport performs no network I/O, it keeps the most recent datagrams
// in memory for inspection.  It is used in stub mode and by the tests.
type StubTransport struct {
	mu       sync.Mutex
	log      [][]byte
	connects int
	closed   bool

	connectErr, sendErr error // returned by Connect and Send when set
}

// NewStubTransport returns an empty StubTransport.
func NewStubTransport() *StubTransport {
	return &StubTransport{}
}

// Connect records the connection attempt.
func (s *StubTransport) Connect(host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connects++
	s.closed = false
	return nil
}

// Send copies b into the log, dropping the oldest datagram when full.
func (s *StubTransport) Send(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	frame := make([]byte, len(b))
	copy(frame, b)
	if len(s.log) == stubLogCapacity {
		s.log = append(s.log[:0], s.log[1:]...)
	}
	s.log = append(s.log, frame)
	return nil
}

// Close marks the stub closed.
func (s *StubTransport) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Sent returns a copy of the logged datagrams, oldest first.
func (s *StubTransport) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.log))
	for i, p := range s.log {
		cp := make([]byte, len(p))
		copy(cp, p)
		out[i] = cp
	}
	return out
}

// Connects returns the number of successful Connect calls.
func (s *StubTransport) Connects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connects
}

// Closed returns true if Close has been called since the last Connect.
func (s *StubTransport) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SetConnectErr makes subsequent Connect calls fail with err, nil clears it.
func (s *StubTransport) SetConnectErr(err error) {
	s.mu.Lock()
	s.connectErr = err
	s.mu.Unlock()
}

// SetSendErr makes subsequent Send calls fail with err, nil clears it.
func (s *StubTransport) SetSendErr(err error) {
	s.mu.Lock()
	s.sendErr = err
	s.mu.Unlock()
}

// Reset empties the log.
func (s *StubTransport) Reset() {
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
}
