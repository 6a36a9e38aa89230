// ardrone project state_test.go

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
	"log"
	"math"
	"sync"
	"testing"
	"time"
)

func TestSettersClamp(t *testing.T) {
	fs := NewFlightState()
	for _, v := range []float64{-100, -1.5, -1, -0.3, 0, 0.7, 1, 1.0001, 42, math.Inf(1), math.Inf(-1)} {
		want := math.Max(-1, math.Min(1, v))
		fs.SetStrafeX(v)
		fs.SetStrafeY(v)
		fs.SetAscend(v)
		fs.SetRoll(v)
		if fs.StrafeX() != want || fs.StrafeY() != want || fs.Ascend() != want || fs.Roll() != want {
			t.Errorf("Setting %v gave %v,%v,%v,%v expected %v",
				v, fs.StrafeX(), fs.StrafeY(), fs.Ascend(), fs.Roll(), want)
		}
	}
}

func TestSetterNaN(t *testing.T) {
	fs := NewFlightState()
	fs.SetRoll(math.NaN())
	if fs.Roll() != 0 {
		t.Errorf("NaN should be stored as 0, got %v", fs.Roll())
	}
	fs.SetStrafeX(math.Copysign(0, -1))
	if math.Signbit(fs.StrafeX()) {
		t.Error("Negative zero should be stored as 0")
	}
}

func TestFreshStateHovers(t *testing.T) {
	fs := NewFlightState()
	if got := fs.NextCommand(1); got != HoverCommand(1) {
		t.Errorf("Expected hover, got %q", got)
	}
	if fs.Flying() || fs.IsFlying() {
		t.Error("Fresh state should not be flying")
	}
}

func TestTakeoffIsEdgeTriggered(t *testing.T) {
	fs := NewFlightState()
	fs.TakeOff()
	if got := fs.NextCommand(5); got != "AT*REF=5,290718208\n" {
		t.Errorf("Expected takeoff, got %q", got)
	}
	if !fs.IsFlying() {
		t.Error("IsFlying should follow the takeoff")
	}
	for seq := uint32(6); seq < 10; seq++ {
		if a := fs.NextAction(seq); a.Kind == ActionTakeoff {
			t.Fatalf("Second takeoff sent at seq %d", seq)
		}
	}
}

func TestMoveAfterTakeoff(t *testing.T) {
	fs := NewFlightState()
	fs.TakeOff()
	fs.NextAction(9)
	fs.SetStrafeX(1.0)
	if got := fs.NextCommand(10); got != "AT*PCMD=10,1,1065353216,0,0,0\n" {
		t.Errorf("Expected move, got %q", got)
	}
	fs.Stop()
	if got := fs.NextCommand(11); got != HoverCommand(11) {
		t.Errorf("Expected hover after Stop, got %q", got)
	}
}

func TestLandIsEdgeTriggered(t *testing.T) {
	fs := NewFlightState()
	fs.TakeOff()
	fs.NextAction(1)
	fs.Land()
	if a := fs.NextAction(2); a.Kind != ActionLand {
		t.Errorf("Expected land, got %s", a.Kind)
	}
	if a := fs.NextAction(3); a.Kind != ActionHover {
		t.Errorf("Expected hover after land, got %s", a.Kind)
	}
}

func TestTransitionBeatsMovement(t *testing.T) {
	fs := NewFlightState()
	fs.SetAscend(0.5)
	fs.TakeOff()
	if a := fs.NextAction(1); a.Kind != ActionTakeoff {
		t.Errorf("Expected takeoff before movement, got %s", a.Kind)
	}
	if a := fs.NextAction(2); a.Kind != ActionMove || a.Ascend != 0.5 {
		t.Errorf("Expected move after takeoff, got %+v", a)
	}
	fs.Land()
	if a := fs.NextAction(3); a.Kind != ActionLand {
		t.Errorf("Expected land before movement, got %s", a.Kind)
	}
}

func TestNoMovementOnGround(t *testing.T) {
	fs := NewFlightState()
	fs.SetStrafeY(-0.7)
	if a := fs.NextAction(1); a.Kind != ActionHover {
		t.Errorf("Expected hover while landed, got %s", a.Kind)
	}
}

func TestTakeoffLandBeforeTick(t *testing.T) {
	fs := NewFlightState()
	fs.TakeOff()
	fs.Land()
	if a := fs.NextAction(1); a.Kind != ActionHover {
		t.Errorf("Takeoff cancelled before a tick should not be sent, got %s", a.Kind)
	}
}

func TestUpdateSticks(t *testing.T) {
	fs := NewFlightState()
	fs.UpdateSticks(StickMessage{StrafeX: 2, StrafeY: -0.25, Ascend: -3, Roll: 0.5})
	if fs.StrafeX() != 1 || fs.StrafeY() != -0.25 || fs.Ascend() != -1 || fs.Roll() != 0.5 {
		t.Errorf("Unexpected axes %v,%v,%v,%v", fs.StrafeX(), fs.StrafeY(), fs.Ascend(), fs.Roll())
	}
}

func TestStickListener(t *testing.T) {
	fs := NewFlightState()
	sc, err := fs.StartStickListener()
	if err != nil {
		t.Fatalf("StartStickListener failed with error %v", err)
	}
	if _, err = fs.StartStickListener(); err != ErrStickListenerRunning {
		t.Errorf("Expected ErrStickListenerRunning, got %v", err)
	}
	sc <- StickMessage{Roll: -0.5}

	deadline := time.Now().Add(time.Second)
	for fs.Roll() != -0.5 {
		if time.Now().After(deadline) {
			t.Fatal("Stick update never applied")
		}
		time.Sleep(time.Millisecond)
	}
	log.Println("Stick update applied")

	fs.StopStickListener()
	fs.StopStickListener()
	if _, err = fs.StartStickListener(); err != nil {
		t.Errorf("Restarting the listener failed with %v", err)
	}
	fs.StopStickListener()
}

func TestConcurrentWriters(t *testing.T) {
	fs := NewFlightState()
	fs.TakeOff()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				fs.SetStrafeX(float64(i) / 10)
				fs.GoUp(0.1)
				fs.StopRotate()
			}
		}(i)
	}
	for seq := uint32(1); seq <= 100; seq++ {
		a := fs.NextAction(seq)
		if a.X < -1 || a.X > 1 {
			t.Fatalf("Axis out of range: %v", a.X)
		}
	}
	wg.Wait()
}
