// state.go

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
	"math"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ErrStickListenerRunning is returned if a second stick listener is requested.
var ErrStickListenerRunning = errors.New("ardrone: stick listener already running")

const stickChanSize = 10

// FlightState holds the desired flight of the drone.
// It is safe for concurrent use; the Drone reads it once per tick and any
// number of input sources may write to it.
type FlightState struct {
	mu                               sync.RWMutex // protects all the fields below
	strafeX, strafeY, ascendY, rollX float64      // all in [-1,1] when set via the setters
	flying                           bool         // the mode asked for by the pilot
	isFlying                         bool         // the mode we last sent a command for

	stickMu        sync.Mutex
	stickChan      chan StickMessage
	stickListening bool
}

// StickMessage holds a complete set of axis values, eg. from a joystick.
// Each value is clamped to [-1,1] when applied.
type StickMessage struct {
	StrafeX, StrafeY, Ascend, Roll float64
}

// NewFlightState returns a FlightState on the ground with all axes at zero.
func NewFlightState() *FlightState {
	return &FlightState{}
}

// clamp limits v to [lo,hi], NaN and negative zero become zero
func clamp[T constraints.Float](v, lo, hi T) T {
	switch {
	case v != v, v == 0:
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// normalize is used by the direct setters
func normalize(v float64) float64 {
	return clamp(v, -1, 1)
}

// normalizePositive only enforces the lower bound, magnitudes above 1 are passed through.
// Negative zero comes back as literal zero.
func normalizePositive(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return v
}

// SetStrafeX sets the left (-) / right (+) velocity.
func (fs *FlightState) SetStrafeX(v float64) {
	fs.mu.Lock()
	fs.strafeX = normalize(v)
	fs.mu.Unlock()
}

// SetStrafeY sets the forward (-) / backward (+) velocity.
func (fs *FlightState) SetStrafeY(v float64) {
	fs.mu.Lock()
	fs.strafeY = normalize(v)
	fs.mu.Unlock()
}

// SetAscend sets the down (-) / up (+) velocity.
func (fs *FlightState) SetAscend(v float64) {
	fs.mu.Lock()
	fs.ascendY = normalize(v)
	fs.mu.Unlock()
}

// SetRoll sets the anticlockwise (-) / clockwise (+) rotation speed.
func (fs *FlightState) SetRoll(v float64) {
	fs.mu.Lock()
	fs.rollX = normalize(v)
	fs.mu.Unlock()
}

// StrafeX returns the current left/right velocity.
func (fs *FlightState) StrafeX() float64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.strafeX
}

// StrafeY returns the current forward/backward velocity.
func (fs *FlightState) StrafeY() float64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.strafeY
}

// Ascend returns the current vertical velocity.
func (fs *FlightState) Ascend() float64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.ascendY
}

// Roll returns the current rotation speed.
func (fs *FlightState) Roll() float64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.rollX
}

// TakeOff asks for the drone to take off, the command is sent on the next tick.
func (fs *FlightState) TakeOff() {
	fs.mu.Lock()
	fs.flying = true
	fs.mu.Unlock()
}

// Land asks for the drone to land, the command is sent on the next tick.
func (fs *FlightState) Land() {
	fs.mu.Lock()
	fs.flying = false
	fs.mu.Unlock()
}

// Flying returns true if a takeoff has been requested and not cancelled by Land().
func (fs *FlightState) Flying() bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.flying
}

// IsFlying returns true if the last takeoff/land command actually sent was a takeoff.
func (fs *FlightState) IsFlying() bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.isFlying
}

// UpdateSticks does a one-off update of all four axes.
func (fs *FlightState) UpdateSticks(sm StickMessage) {
	fs.mu.Lock()
	fs.strafeX = normalize(sm.StrafeX)
	fs.strafeY = normalize(sm.StrafeY)
	fs.ascendY = normalize(sm.Ascend)
	fs.rollX = normalize(sm.Roll)
	fs.mu.Unlock()
}

// StartStickListener starts a Goroutine which listens for StickMessages on a channel
// and applies them to the FlightState.  Only one listener may run at a time.
func (fs *FlightState) StartStickListener() (chan<- StickMessage, error) {
	fs.stickMu.Lock()
	defer fs.stickMu.Unlock()
	if fs.stickListening {
		return nil, ErrStickListenerRunning
	}
	fs.stickListening = true
	fs.stickChan = make(chan StickMessage, stickChanSize)
	go fs.stickListener(fs.stickChan)
	return fs.stickChan, nil
}

// StopStickListener closes the listener's channel, a new listener may then be started.
func (fs *FlightState) StopStickListener() {
	fs.stickMu.Lock()
	defer fs.stickMu.Unlock()
	if !fs.stickListening {
		return
	}
	close(fs.stickChan)
	fs.stickChan = nil
	fs.stickListening = false
}

func (fs *FlightState) stickListener(sc <-chan StickMessage) {
	for sm := range sc {
		fs.UpdateSticks(sm)
	}
}

// NextAction decides what should be sent to the drone for the given sequence number.
// A change of flying mode is reported exactly once and takes priority over movement.
func (fs *FlightState) NextAction(seq uint32) Action {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	switch {
	case fs.flying && !fs.isFlying:
		fs.isFlying = true
		return Action{Kind: ActionTakeoff, Seq: seq}
	case !fs.flying && fs.isFlying:
		fs.isFlying = false
		return Action{Kind: ActionLand, Seq: seq}
	case fs.isFlying && (fs.strafeX != 0 || fs.strafeY != 0 || fs.ascendY != 0 || fs.rollX != 0):
		return Action{
			Kind:   ActionMove,
			Seq:    seq,
			X:      fs.strafeX,
			Y:      fs.strafeY,
			Ascend: fs.ascendY,
			Roll:   fs.rollX,
		}
	}
	return Action{Kind: ActionHover, Seq: seq}
}

// NextCommand is NextAction encoded with DefaultEncoder.
func (fs *FlightState) NextCommand(seq uint32) Command {
	return DefaultEncoder.Encode(fs.NextAction(seq))
}
