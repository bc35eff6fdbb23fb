// Package sim drives a physics engine with a cooldown state machine.
//
// A [Controller] is advanced once per animation frame. While Running, each
// frame performs one engine tick until one of three cooldown conditions
// holds: the tick cap is exceeded, the wall-clock budget since the last
// countdown reset is spent, or a positive alpha minimum is undercut. The
// controller then moves to Stopped and later frames are no-ops, so the
// caller can keep painting the settled layout at full frame rate.
//
// Nothing here returns an error; an empty node set simply ticks an empty
// engine.
package sim
