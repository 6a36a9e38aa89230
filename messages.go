// messages.go

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
	"strconv"
	"strings"
)

// AT command prefixes
const (
	atRef  = "AT*REF="
	atPcmd = "AT*PCMD="
)

// AT*REF argument values
const (
	refTakeoff = 290718208 // bit 9 set on top of the mandatory 18,20,22,24,28 bits
	refLand    = 290717696
)

// AT*PCMD flag values
const (
	pcmdHover = 0 // ignore the four motion arguments
	pcmdMove  = 1
)

// Line terminators accepted by the drone
const (
	TerminatorLF   = "\n"
	TerminatorCRLF = "\r\n"
)

// Command is a single encoded AT command, ready to be sent in one datagram.
type Command string

// Bytes returns the ASCII bytes of the command.
func (c Command) Bytes() []byte { return []byte(c) }

// Len returns the length of the command in bytes.
func (c Command) Len() int { return len(c) }

// ActionKind identifies which command family an Action encodes to.
type ActionKind int

// Action kinds...
const (
	ActionHover ActionKind = iota
	ActionTakeoff
	ActionLand
	ActionMove
)

func (k ActionKind) String() string {
	switch k {
	case ActionHover:
		return "hover"
	case ActionTakeoff:
		return "takeoff"
	case ActionLand:
		return "land"
	case ActionMove:
		return "move"
	}
	return "unknown"
}

// Action is the decision taken for one tick; velocities are only used by ActionMove.
type Action struct {
	Kind               ActionKind
	Seq                uint32
	X, Y, Ascend, Roll float64
}

// Encoder turns Actions into AT commands.
// The zero value uses LF as its terminator.
type Encoder struct {
	Terminator string
}

// DefaultEncoder terminates commands with a single LF.
var DefaultEncoder = Encoder{Terminator: TerminatorLF}

func (e Encoder) terminator() string {
	if e.Terminator == "" {
		return TerminatorLF
	}
	return e.Terminator
}

// Encode renders the given Action.
func (e Encoder) Encode(a Action) Command {
	switch a.Kind {
	case ActionTakeoff:
		return e.Takeoff(a.Seq)
	case ActionLand:
		return e.Land(a.Seq)
	case ActionMove:
		return e.Move(a.Seq, a.X, a.Y, a.Ascend, a.Roll)
	}
	return e.Hover(a.Seq)
}

// Takeoff returns the AT*REF takeoff command.
func (e Encoder) Takeoff(seq uint32) Command {
	return e.ref(seq, refTakeoff)
}

// Land returns the AT*REF land command.
func (e Encoder) Land(seq uint32) Command {
	return e.ref(seq, refLand)
}

// Hover returns an AT*PCMD with the move flag cleared and all arguments literal zero.
func (e Encoder) Hover(seq uint32) Command {
	return e.pcmd(seq, pcmdHover, "0,0,0,0")
}

// Move returns an AT*PCMD asking for the given velocities, each expected in [-1,1].
// x strafes left/right, y forward/backward, ascend up/down and roll rotates.
func (e Encoder) Move(seq uint32, x, y, ascend, roll float64) Command {
	return e.pcmd(seq, pcmdMove, joinArgs(
		FloatToInt32Bits(x), FloatToInt32Bits(y), FloatToInt32Bits(ascend), FloatToInt32Bits(roll)))
}

// Strafe moves along the x and y axes only.
func (e Encoder) Strafe(seq uint32, x, y float64) Command {
	return e.pcmd(seq, pcmdMove, joinArgs(FloatToInt32Bits(x), FloatToInt32Bits(y), 0, 0))
}

// StrafeLeftRight moves along the x axis only.
func (e Encoder) StrafeLeftRight(seq uint32, v float64) Command {
	return e.pcmd(seq, pcmdMove, joinArgs(FloatToInt32Bits(v), 0, 0, 0))
}

// StrafeForwardBackward moves along the y axis only.
func (e Encoder) StrafeForwardBackward(seq uint32, v float64) Command {
	return e.pcmd(seq, pcmdMove, joinArgs(0, FloatToInt32Bits(v), 0, 0))
}

// AscendDescend moves vertically only.
func (e Encoder) AscendDescend(seq uint32, v float64) Command {
	return e.pcmd(seq, pcmdMove, joinArgs(0, 0, FloatToInt32Bits(v), 0))
}

func (e Encoder) ref(seq uint32, code int) Command {
	var sb strings.Builder
	sb.WriteString(atRef)
	sb.WriteString(strconv.FormatUint(uint64(seq), 10))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(code))
	sb.WriteString(e.terminator())
	return Command(sb.String())
}

func (e Encoder) pcmd(seq uint32, mode int, args string) Command {
	var sb strings.Builder
	sb.WriteString(atPcmd)
	sb.WriteString(strconv.FormatUint(uint64(seq), 10))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(mode))
	sb.WriteByte(',')
	sb.WriteString(args)
	sb.WriteString(e.terminator())
	return Command(sb.String())
}

func joinArgs(vals ...int32) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(strs, ",")
}

// TakeoffCommand encodes a takeoff using DefaultEncoder.
func TakeoffCommand(seq uint32) Command { return DefaultEncoder.Takeoff(seq) }

// LandCommand encodes a landing using DefaultEncoder.
func LandCommand(seq uint32) Command { return DefaultEncoder.Land(seq) }

// HoverCommand encodes a hover using DefaultEncoder.
func HoverCommand(seq uint32) Command { return DefaultEncoder.Hover(seq) }

// MoveCommand encodes a movement using DefaultEncoder.
func MoveCommand(seq uint32, x, y, ascend, roll float64) Command {
	return DefaultEncoder.Move(seq, x, y, ascend, roll)
}

// FloatToInt32Bits narrows v to a single-precision float and returns its bit pattern
// as a signed integer, which is how AT*PCMD carries velocities.
// Eg. 1.0 gives 1065353216 and -0.5 gives -1090519040.
func FloatToInt32Bits(v float64) int32 {
	return int32(math.Float32bits(float32(v)))
}
