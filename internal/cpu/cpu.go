// Package cpu implements a cycle-stepped MOS 6502 (NES variant, no decimal
// ADC/SBC side effects, no undocumented opcodes). StepCycle advances the
// processor exactly one bus cycle, issuing every read and write a real
// chip would. PC and S move as each micro-step fetches an operand or
// touches the stack; the remaining register and flag results are applied
// in the instruction's final micro-step.
package cpu

import "fmt"

// Status register bit masks (spec.md §3).
const (
	FlagC uint8 = 1 << 0 // Carry
	FlagZ uint8 = 1 << 1 // Zero
	FlagI uint8 = 1 << 2 // IRQ disable
	FlagD uint8 = 1 << 3 // Decimal (tracked, no effect on ADC/SBC on NES)
	FlagB uint8 = 1 << 4 // Break (only ever set in pushed copies)
	FlagU uint8 = 1 << 5 // Unused, always reads 1
	FlagV uint8 = 1 << 6 // Overflow
	FlagN uint8 = 1 << 7 // Negative
)

const (
	stackPage   = 0x0100
	resetVector = 0xFFFC
)

// Bus is the address-bus decoder the CPU issues every access through. It
// must be total: reads of unmapped addresses return 0, writes are
// dropped, and it never fails.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Fault records the diagnostic metadata for an InvalidOpcode halt
// (spec.md §7): the CPU does not surface a thrown error, it halts and
// makes this available for inspection.
type Fault struct {
	Opcode uint8
	PC     uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("cpu: invalid opcode $%02X at $%04X", f.Opcode, f.PC)
}

// CPU is the register file (C4) plus the instruction stepper (C5).
type CPU struct {
	A, X, Y, S uint8
	PC         uint16
	P          uint8

	bus Bus

	// latch is the 5-byte instruction working buffer: fetch stores the
	// opcode in slot 0. Slots 1-4 are not filled; operand bytes, the
	// effective address and the staged memory value are kept in the
	// addressing-engine scratch fields below. step is the micro-step
	// index; it is 0 exactly when the next StepCycle should fetch an
	// opcode, per the invariant in spec.md §3.
	latch [5]uint8
	step  int

	// opcode/localStep drive the per-instruction micro-sequencer once
	// decoding has happened; localStep counts cycles since the opcode
	// fetch (0 on the first post-fetch cycle).
	opcode    uint8
	localStep int

	// addressing-engine scratch, reused across every opcode's micro-
	// sequence: the operand bytes, effective address, page-cross flag
	// and staged memory value of the instruction in flight.
	addrLo, addrHi uint8
	effAddr        uint16
	fixedAddr      uint16
	pageCrossed    bool
	stagedValue    uint8

	halt       bool
	singleStep bool

	cycleCounter uint64
	lastFault    *Fault
}

// NewCPU returns a CPU wired to bus. Registers are zero until Reset (via
// the control surface's PowerOn) runs the reset sequence.
func NewCPU(bus Bus) *CPU {
	return &CPU{bus: bus, halt: true}
}

// Reset performs the six-cycle reset sequence of spec.md §4.3: two dummy
// reads at PC, three dummy reads of the stack window, then the
// little-endian reset vector load. Registers take their power-up values
// first (A=X=Y=0, S=$FD, P=$24).
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xFD
	c.P = 0x24
	c.step = 0
	c.localStep = 0
	c.halt = false
	c.singleStep = false
	c.lastFault = nil

	c.bus.Read(c.PC)
	c.cycleCounter++
	c.bus.Read(c.PC)
	c.cycleCounter++

	c.bus.Read(stackPage | uint16(c.S))
	c.cycleCounter++
	c.bus.Read(0x00FF + uint16(c.S))
	c.cycleCounter++
	c.bus.Read(0x00FE + uint16(c.S))
	c.cycleCounter++

	lo := c.bus.Read(resetVector)
	hi := c.bus.Read(resetVector + 1)
	// The vector's two byte reads are charged as a single cycle so the
	// sequence totals exactly six, matching spec.md §4.3 and scenario S1
	// ("have issued exactly six cycles"). See DESIGN.md.
	c.cycleCounter++
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// StepCycle performs one bus cycle if the machine is not halted, per
// spec.md §4.5, and returns the post-cycle halt flag (0 running, 1
// halted).
func (c *CPU) StepCycle() int {
	if c.halt {
		return 1
	}
	c.cycleCounter++
	if c.step == 0 {
		c.fetch()
	} else {
		c.advance()
	}
	if c.halt {
		return 1
	}
	return 0
}

func (c *CPU) fetch() {
	opcode := c.bus.Read(c.PC)
	c.latch[0] = opcode
	c.PC++

	entry := &opcodeTable[opcode]
	if !entry.valid {
		c.lastFault = &Fault{Opcode: opcode, PC: c.PC - 1}
		c.halt = true
		c.step = 0
		return
	}

	c.opcode = opcode
	c.localStep = 0
	c.pageCrossed = false
	c.step = 1
}

func (c *CPU) advance() {
	entry := &opcodeTable[c.opcode]
	var done bool
	if entry.special != nil {
		done = entry.special(c, c.localStep)
	} else {
		done = c.stepGeneric(&entry.op, c.localStep)
	}
	c.localStep++
	if done {
		c.retire()
	}
}

// retire resets the micro-step index to 0, the sole signal (per spec.md
// §3) that the next StepCycle should fetch an opcode, and re-asserts
// halt if a single step was requested.
func (c *CPU) retire() {
	c.step = 0
	if c.singleStep {
		c.halt = true
	}
}

// Halted reports the current halt flag.
func (c *CPU) Halted() bool { return c.halt }

// AtInstructionBoundary reports whether the next StepCycle will fetch a
// new opcode rather than continue one already in flight.
func (c *CPU) AtInstructionBoundary() bool { return c.step == 0 }

// SetHalt sets or clears the halt flag directly; used by the control
// surface (C7), not by the stepper itself.
func (c *CPU) SetHalt(v bool) { c.halt = v }

// SetSingleStep arms or disarms the re-halt-on-retirement behavior.
func (c *CPU) SetSingleStep(v bool) { c.singleStep = v }

// CycleCount returns the monotone diagnostic cycle counter.
func (c *CPU) CycleCount() uint64 { return c.cycleCounter }

// LastFault returns the diagnostic metadata from the most recent
// InvalidOpcode halt, or nil if the machine has never faulted.
func (c *CPU) LastFault() *Fault { return c.lastFault }

// pushByte pushes val onto the stack at $0100+S and decrements S, which
// wraps modulo $100 per spec.md §3.
func (c *CPU) pushByte(val uint8) {
	c.bus.Write(stackPage|uint16(c.S), val)
	c.S--
}

func (c *CPU) pullByte() uint8 {
	c.S++
	return c.bus.Read(stackPage | uint16(c.S))
}

func (c *CPU) setFlag(mask uint8, cond bool) {
	if cond {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) getFlag(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setNZ(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

// statusForPush returns P with B and U forced on, the copy PHP/BRK push
// (spec.md §3's invariant that the live P never carries B).
func (c *CPU) statusForPush() uint8 {
	return c.P | FlagB | FlagU
}

// adoptPulledStatus applies a pulled status byte, masking B off and
// forcing U on, per spec.md §4.3 (PLP/RTI).
func (c *CPU) adoptPulledStatus(v uint8) {
	c.P = (v &^ FlagB) | FlagU
}
