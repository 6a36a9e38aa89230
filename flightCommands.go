// flightCommands.go

// This file contains the high-level flight API built on top of FlightState

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

import "time"

// Suggested magnitudes for the directional helpers
const (
	DefaultSpeed       = 0.3
	DefaultRotateSpeed = 0.5
)

// *** The following are 'macro' commands which are here purely
// *** to make the drone easier to use in some circumstances.
// *** Magnitudes below zero are treated as zero, magnitudes above one are not capped.

// GoUp tells the drone to start climbing at the given speed.
func (fs *FlightState) GoUp(speed float64) {
	fs.setAscend(normalizePositive(speed))
}

// GoDown tells the drone to start descending at the given speed.
func (fs *FlightState) GoDown(speed float64) {
	fs.setAscend(negate(normalizePositive(speed)))
}

// GoForward tells the drone to start moving forward at the given speed.
func (fs *FlightState) GoForward(speed float64) {
	fs.setStrafeY(negate(normalizePositive(speed)))
}

// GoBackward tells the drone to start moving backward at the given speed.
func (fs *FlightState) GoBackward(speed float64) {
	fs.setStrafeY(normalizePositive(speed))
}

// GoLeft tells the drone to start moving left at the given speed.
func (fs *FlightState) GoLeft(speed float64) {
	fs.setStrafeX(negate(normalizePositive(speed)))
}

// GoRight tells the drone to start moving right at the given speed.
func (fs *FlightState) GoRight(speed float64) {
	fs.setStrafeX(normalizePositive(speed))
}

// RotateLeft tells the drone to start rotating anticlockwise at the given speed.
func (fs *FlightState) RotateLeft(speed float64) {
	fs.setRoll(negate(normalizePositive(speed)))
}

// RotateRight tells the drone to start rotating clockwise at the given speed.
func (fs *FlightState) RotateRight(speed float64) {
	fs.setRoll(normalizePositive(speed))
}

// StopAscend stops any vertical movement.
func (fs *FlightState) StopAscend() { fs.setAscend(0) }

// StopForwardBackward stops any forward or backward movement.
func (fs *FlightState) StopForwardBackward() { fs.setStrafeY(0) }

// StopLeftRight stops any sideways movement.
func (fs *FlightState) StopLeftRight() { fs.setStrafeX(0) }

// StopRotate stops any rotation.
func (fs *FlightState) StopRotate() { fs.setRoll(0) }

// Stop zeroes all four axes, it does not land the drone.
func (fs *FlightState) Stop() {
	fs.mu.Lock()
	fs.strafeX = 0
	fs.strafeY = 0
	fs.ascendY = 0
	fs.rollX = 0
	fs.mu.Unlock()
}

// Hover is an alias for Stop() - useful as a panic action!
func (fs *FlightState) Hover() {
	fs.Stop()
}

// *** End of 'macro' commands ***

// The timed variants below return immediately, a Goroutine stops the movement
// on that axis after the given duration.  The caller may optionally listen on
// the 'done' channel for a signal that the movement has been stopped.

// GoUpFor climbs for the given duration.
func (fs *FlightState) GoUpFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoUp(speed)
	return fs.after(d, fs.StopAscend)
}

// GoDownFor descends for the given duration.
func (fs *FlightState) GoDownFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoDown(speed)
	return fs.after(d, fs.StopAscend)
}

// GoForwardFor moves forward for the given duration.
func (fs *FlightState) GoForwardFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoForward(speed)
	return fs.after(d, fs.StopForwardBackward)
}

// GoBackwardFor moves backward for the given duration.
func (fs *FlightState) GoBackwardFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoBackward(speed)
	return fs.after(d, fs.StopForwardBackward)
}

// GoLeftFor moves left for the given duration.
func (fs *FlightState) GoLeftFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoLeft(speed)
	return fs.after(d, fs.StopLeftRight)
}

// GoRightFor moves right for the given duration.
func (fs *FlightState) GoRightFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.GoRight(speed)
	return fs.after(d, fs.StopLeftRight)
}

// RotateLeftFor rotates anticlockwise for the given duration.
func (fs *FlightState) RotateLeftFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.RotateLeft(speed)
	return fs.after(d, fs.StopRotate)
}

// RotateRightFor rotates clockwise for the given duration.
func (fs *FlightState) RotateRightFor(speed float64, d time.Duration) (done <-chan bool) {
	fs.RotateRight(speed)
	return fs.after(d, fs.StopRotate)
}

func (fs *FlightState) after(d time.Duration, stop func()) <-chan bool {
	done := make(chan bool, 1) // buffered so send doesn't block
	go func() {
		time.Sleep(d)
		stop()
		done <- true
	}()
	return done
}

// negate flips the sign without producing a negative zero, which would encode as math.MinInt32
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// the unexported setters store as given, the callers have already applied normalizePositive()

func (fs *FlightState) setStrafeX(v float64) {
	fs.mu.Lock()
	fs.strafeX = v
	fs.mu.Unlock()
}

func (fs *FlightState) setStrafeY(v float64) {
	fs.mu.Lock()
	fs.strafeY = v
	fs.mu.Unlock()
}

func (fs *FlightState) setAscend(v float64) {
	fs.mu.Lock()
	fs.ascendY = v
	fs.mu.Unlock()
}

func (fs *FlightState) setRoll(v float64) {
	fs.mu.Lock()
	fs.rollX = v
	fs.mu.Unlock()
}
