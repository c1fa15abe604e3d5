package emulator

import (
	"time"
)

// Clock paces execution to a T-state frequency.
type Clock struct {
	Frequency int // T-states per second. Zero disables pacing.

	running bool
	start   time.Time
	cycles  int
}

// Reset restarts the clock at the current time.
func (clk *Clock) Reset() {
	clk.running = true
	clk.start = time.Now()
	clk.cycles = 0
}

// Stop the clock. Pulses are ignored until the next Reset.
func (clk *Clock) Stop() {
	clk.running = false
}

// Running returns true if the clock is pacing pulses.
func (clk *Clock) Running() bool {
	return clk.running
}

// Cycles returns the T-states pulsed since the last Reset.
func (clk *Clock) Cycles() int {
	return clk.cycles
}

// Pulse accounts for cycles T-states, sleeping until they are due.
func (clk *Clock) Pulse(cycles int) {
	if !clk.running {
		return
	}

	clk.cycles += cycles
	if clk.Frequency <= 0 {
		return
	}

	due := clk.start.Add(time.Duration(clk.cycles) * time.Second / time.Duration(clk.Frequency))
	wait := time.Until(due)
	if wait > 0 {
		time.Sleep(wait)
	}
}
