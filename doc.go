/*Package ardrone provides an easy-to-use, standalone API for flying a Parrot AR.Drone 2.0.

Disclaimer

AR.Drone is a trademark of Parrot.  The author(s) of this package is/are in no way affiliated with Parrot.

Use this package at your own risk.  The author(s) is/are in no way responsible for any damage caused either to or by the
drone when using this software.

Features

The following features have been implemented...
  * Takeoff and landing
  * Stick-based flight control, ie. for joystick, game-, or flight-controller
  * Macro-level flight control, eg. GoForward(), GoUp(), and timed variants such as GoUpFor()
  * A stub mode which runs everything except the network I/O, for testing and simulation
  * Optional YAML configuration and rotating log files

Concepts

The Control Loop

The drone expects a steady stream of AT commands on UDP port 5556, if they stop arriving it hovers and then lands.
Once connected, a Drone runs a Goroutine which sends one command every 30ms.  Each command carries a sequence number
which starts at 1 and goes up by one per command; Stop() ends the loop and resets the number.

Flight State

You never send commands directly.  Instead you change a FlightState (eg. TakeOff(), SetStrafeX(), GoLeft()) and the
control loop turns whatever the state is at each tick into the next command.  A change between flying and landed is
sent exactly once, ahead of any movement, and when nothing is moving a hover command is sent.

Velocities are in the range -1 to 1.  The direct setters clamp to that range, the directional helpers take a
non-negative magnitude and apply the sign for you.

Funcs vs. Channels

The sticks may be set either by single-shot function calls or via a channel, ie. UpdateSticks() vs. StartStickListener().
The channel is buffered so sending on it should return immediately.

*/
package ardrone
