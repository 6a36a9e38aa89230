// ardrone.go

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
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultPeriod is the delay between two commands, the drone falls back
// to hovering or landing if commands stop arriving.
const DefaultPeriod = 30 * time.Millisecond

const firstSeq = 1

// sent once straight after connecting, before any AT command
var handshake = []byte{1}

// ErrAlreadyRunning is returned by Connect or Start while the control loop is running.
var ErrAlreadyRunning = errors.New("ardrone: control loop already running")

// Drone holds the control connection to an AR.Drone and the loop feeding it commands.
type Drone struct {
	state     *FlightState
	transport Transport
	enc       Encoder
	period    time.Duration
	stubMode  bool
	logger    *slog.Logger

	mu       sync.Mutex // this mutex protects the loop fields below
	seq      uint32
	running  bool
	stopChan chan struct{} // closed to ask the loop to exit
	loopWg   sync.WaitGroup
}

// Option configures a Drone.
type Option func(*Drone)

// WithTransport sets the transport, by default one is chosen by NewTransport.
func WithTransport(t Transport) Option {
	return func(d *Drone) { d.transport = t }
}

// WithStubMode suppresses the handshake and all network I/O.  Any transport
// other than a StubTransport is replaced by a new StubTransport.
func WithStubMode(stub bool) Option {
	return func(d *Drone) { d.stubMode = stub }
}

// WithEncoder sets the encoder, eg. to use CRLF terminators.
func WithEncoder(e Encoder) Option {
	return func(d *Drone) { d.enc = e }
}

// WithPeriod overrides DefaultPeriod.
func WithPeriod(p time.Duration) Option {
	return func(d *Drone) {
		if p > 0 {
			d.period = p
		}
	}
}

// WithLogger sets the logger, slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(d *Drone) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns an idle Drone which will fly according to state.
// If state is nil a new FlightState is created, see State().
func New(state *FlightState, opts ...Option) *Drone {
	if state == nil {
		state = NewFlightState()
	}
	d := &Drone{
		state:  state,
		enc:    DefaultEncoder,
		period: DefaultPeriod,
		logger: slog.Default(),
		seq:    firstSeq,
	}
	for _, opt := range opts {
		opt(d)
	}
	if _, isStub := d.transport.(*StubTransport); d.stubMode && d.transport != nil && !isStub {
		d.logger.Warn("stub mode set, ignoring the given transport")
		d.transport = nil
	}
	if d.transport == nil {
		d.transport = NewTransport(d.stubMode)
	}
	return d
}

// State returns the FlightState the Drone reads on every tick.
func (d *Drone) State() *FlightState { return d.state }

// Connect attempts to connect to a drone at the provided address, says hello to it
// and starts the control loop.  It returns as soon as the loop is running.
func (d *Drone) Connect(host string, port int) error {
	if d.Running() {
		return ErrAlreadyRunning
	}
	if err := d.transport.Connect(host, port); err != nil {
		return err
	}
	if !d.stubMode {
		if err := d.transport.Send(handshake); err != nil {
			d.transport.Close()
			return errors.Wrap(err, "ardrone: send handshake")
		}
	}
	d.logger.Info("connected", "host", host, "port", port, "stub", d.stubMode)
	return d.Start()
}

// ConnectDefault connects to the drone on its default address.
func (d *Drone) ConnectDefault() error {
	return d.Connect(DefaultHost, DefaultPort)
}

// Start (re)starts the control loop on an already connected transport.
// After Stop(), call Wait() before restarting.
func (d *Drone) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyRunning
	}
	d.running = true
	d.stopChan = make(chan struct{})
	d.loopWg.Add(1)
	go d.controlLoop(d.stopChan)
	d.logger.Info("control loop started", "period", d.period)
	return nil
}

// Stop asks the control loop to exit at the start of its next iteration, it does not wait.
// Calling Stop when the loop is not running does nothing.
func (d *Drone) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.stopChan == nil {
		return
	}
	close(d.stopChan)
	d.stopChan = nil
}

// Wait blocks until the control loop has exited.
func (d *Drone) Wait() {
	d.loopWg.Wait()
}

// Close stops the control loop and releases the transport.
func (d *Drone) Close() error {
	d.Stop()
	d.Wait()
	return d.transport.Close()
}

// Running returns true while the control loop is running.
func (d *Drone) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Sequence returns the sequence number the next command will carry.
func (d *Drone) Sequence() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

func (d *Drone) controlLoop(stop <-chan struct{}) {
	defer d.loopWg.Done()

	for {
		select {
		case <-stop:
			d.mu.Lock()
			d.seq = firstSeq
			d.running = false
			d.mu.Unlock()
			d.logger.Info("control loop stopped")
			return
		default:
		}

		d.tick()

		// wait for the next tick, a stop request cuts the wait short
		wait := time.NewTimer(d.period)
		select {
		case <-stop:
		case <-wait.C:
		}
		wait.Stop()
	}
}

// tick sends one command, send errors are logged and otherwise ignored
func (d *Drone) tick() {
	d.mu.Lock()
	seq := d.seq
	d.mu.Unlock()

	cmd := d.enc.Encode(d.state.NextAction(seq))
	d.logger.Debug("command", "seq", seq, "cmd", strings.TrimRight(string(cmd), "\r\n"))
	if err := d.transport.Send(cmd.Bytes()); err != nil {
		d.logger.Warn("send failed", "seq", seq, "err", err)
	}

	d.mu.Lock()
	d.seq++
	d.mu.Unlock()
}
