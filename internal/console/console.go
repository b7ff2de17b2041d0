// Package console implements the control surface (C7): it owns a CPU, a
// bus decoder and a loaded cartridge, and exposes the handful of entry
// points a host (the CLI, the TUI monitor, or a test) drives the machine
// through.
package console

import (
	"fmt"

	"cyclenes/internal/bus"
	"cyclenes/internal/cartridge"
	"cyclenes/internal/cpu"
)

// Console wires a CPU to a bus decoder and, once LoadCartridge runs, a
// mapper. The zero value is not usable; build one with New.
type Console struct {
	CPU  *cpu.CPU
	Bus  *bus.Decoder
	Cart *cartridge.Cartridge
}

// New constructs a Console with an unpopulated bus; PowerOn requires a
// cartridge to already be loaded via LoadCartridge.
func New() *Console {
	b := bus.New()
	return &Console{
		CPU: cpu.NewCPU(b),
		Bus: b,
	}
}

// LoadCartridge parses path and installs its mapper onto the bus. It may
// be called again to swap carts; the CPU is left halted until PowerOn.
func (c *Console) LoadCartridge(path string) error {
	cart, err := cartridge.Load(path)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	c.Cart = cart
	c.Bus.SetMapper(cart.CPUMapper)
	c.CPU.SetHalt(true)
	return nil
}

// PowerOn initialises registers to their reset values, runs the
// reset-vector sequence, and clears halt. Requires a cartridge to
// already be installed.
func (c *Console) PowerOn() error {
	if c.Cart == nil {
		return fmt.Errorf("console: PowerOn: no cartridge loaded")
	}
	c.CPU.Reset()
	return nil
}

// Step arms single-step mode and clears halt. The next instruction
// retirement re-asserts halt, so a host drives the machine one
// instruction at a time by calling Step then polling StepCycle until it
// reports halted.
func (c *Console) Step() {
	c.CPU.SetSingleStep(true)
	c.CPU.SetHalt(false)
}

// Run clears single-step and clears halt, letting a subsequent run of
// StepCycle calls free-run until the core halts on a fault.
func (c *Console) Run() {
	c.CPU.SetSingleStep(false)
	c.CPU.SetHalt(false)
}

// Break sets halt and arms single-step, stopping the machine at the next
// poll and forcing it back to single-step mode afterward.
func (c *Console) Break() {
	c.CPU.SetHalt(true)
	c.CPU.SetSingleStep(true)
}

// StepCycle is the host's tick entry point: it performs one bus cycle if
// not halted and returns the post-cycle halt flag (0 running, 1 halted).
func (c *Console) StepCycle() int {
	return c.CPU.StepCycle()
}

// RunCycles is a headless-host convenience built on top of Run/StepCycle:
// it arms free-run mode and polls StepCycle until the core halts,
// returning the number of cycles actually executed. maxCycles bounds
// runaway loops when no PPU/APU vblank signal will ever stop it; 0 means
// unbounded.
func (c *Console) RunCycles(maxCycles uint64) uint64 {
	c.Run()
	var n uint64
	for {
		halted := c.StepCycle() != 0
		n++ // the cycle that raises halt is executed too
		if halted || (maxCycles != 0 && n >= maxCycles) {
			break
		}
	}
	return n
}

// Halted reports whether the CPU is currently halted.
func (c *Console) Halted() bool { return c.CPU.Halted() }

// LastFault returns the most recent invalid-opcode fault, if any.
func (c *Console) LastFault() *cpu.Fault { return c.CPU.LastFault() }
