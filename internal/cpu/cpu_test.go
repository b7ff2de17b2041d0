package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMemory is a flat 64 KiB address space implementing Bus, used so
// tests can poke program bytes and vectors directly without a real
// bus decoder or cartridge.
type mockMemory struct {
	data [0x10000]uint8
}

func (m *mockMemory) Read(addr uint16) uint8        { return m.data[addr] }
func (m *mockMemory) Write(addr uint16, val uint8)  { m.data[addr] = val }
func (m *mockMemory) set(addr uint16, bytes ...uint8) {
	copy(m.data[addr:], bytes)
}

func newTestCPU(resetVectorTarget uint16) (*CPU, *mockMemory) {
	mem := &mockMemory{}
	mem.set(resetVector, uint8(resetVectorTarget), uint8(resetVectorTarget>>8))
	c := NewCPU(mem)
	c.Reset()
	return c, mem
}

func runUntilBoundary(t *testing.T, c *CPU) {
	t.Helper()
	for {
		c.StepCycle()
		if c.Halted() || c.AtInstructionBoundary() {
			return
		}
	}
}

func TestResetTakesSixCycles(t *testing.T) {
	mem := &mockMemory{}
	mem.set(resetVector, 0x00, 0x80)
	c := NewCPU(mem)
	c.Reset()

	assert.Equal(t, uint64(6), c.CycleCount())
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.S)
	assert.Equal(t, uint8(0x24), c.P)
	require.False(t, c.Halted())
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xA9, 0x00) // LDA #$00

	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.getFlag(FlagZ))
	assert.False(t, c.getFlag(FlagN))
	assert.Equal(t, uint16(0x8002), c.PC)
}

func TestLDAImmediateSetsNegativeFlag(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xA9, 0x80) // LDA #$80

	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.getFlag(FlagN))
	assert.False(t, c.getFlag(FlagZ))
}

func TestSTAZeroPageWritesMemory(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xA9, 0x42, 0x85, 0x10) // LDA #$42 ; STA $10

	runUntilBoundary(t, c)
	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0x42), mem.Read(0x0010))
}

func TestAbsoluteXPageCrossCostsExtraCycle(t *testing.T) {
	noCross, memNoCross := newTestCPU(0x8000)
	memNoCross.set(0x8000, 0xBD, 0x00, 0x10) // LDA $1000,X
	memNoCross.data[0x1001] = 0x7F
	noCross.X = 1
	before := noCross.CycleCount()
	runUntilBoundary(t, noCross)
	assert.Equal(t, uint64(4), noCross.CycleCount()-before)

	crossed, memCrossed := newTestCPU(0x8000)
	crossed.X = 0xFF
	memCrossed.set(0x8000, 0xBD, 0x02, 0x10) // LDA $1002,X -> $1101, crosses page
	memCrossed.data[0x1101] = 0x55
	before = crossed.CycleCount()
	runUntilBoundary(t, crossed)
	assert.Equal(t, uint64(5), crossed.CycleCount()-before)
	assert.Equal(t, uint8(0x55), crossed.A)
}

func TestSBCOverflowMatchesSpecFormula(t *testing.T) {
	// A=$50, carry set, SBC #$F0: per the one's-complement-add formula,
	// overflow is clear (80 - (-16) = 96, representable in a signed byte).
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xE9, 0xF0) // SBC #$F0
	c.A = 0x50
	c.setFlag(FlagC, true)

	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0x60), c.A)
	assert.False(t, c.getFlag(FlagV))
	assert.False(t, c.getFlag(FlagC))
}

func TestBranchTakenCrossingPageCostsFourCycles(t *testing.T) {
	// Mirrors the documented scenario: PC at $0080 executing BNE $80
	// with Z clear lands on $0002 and costs 4 cycles.
	c, mem := newTestCPU(0x8000)
	mem.set(0x0080, 0xD0, 0x80) // BNE -128
	c.PC = 0x0080
	c.setFlag(FlagZ, false)

	before := c.CycleCount()
	runUntilBoundary(t, c)

	assert.Equal(t, uint16(0x0002), c.PC)
	assert.Equal(t, uint64(4), c.CycleCount()-before)
}

func TestBranchNotTakenCostsTwoCycles(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xD0, 0x10) // BNE +16
	c.setFlag(FlagZ, true)

	before := c.CycleCount()
	runUntilBoundary(t, c)

	assert.Equal(t, uint16(0x8002), c.PC)
	assert.Equal(t, uint64(2), c.CycleCount()-before)
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	mem.set(0x9000, 0x60)             // RTS
	startS := c.S

	runUntilBoundary(t, c) // JSR
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.Equal(t, startS-2, c.S)

	runUntilBoundary(t, c) // RTS
	assert.Equal(t, uint16(0x8003), c.PC)
	assert.Equal(t, startS, c.S)
}

func TestInvalidOpcodeHalts(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0x02) // unassigned opcode

	runUntilBoundary(t, c)

	require.True(t, c.Halted())
	require.NotNil(t, c.LastFault())
	assert.Equal(t, uint8(0x02), c.LastFault().Opcode)
	assert.Equal(t, uint16(0x8000), c.LastFault().PC)
}

func TestLDASTASequenceMatchesDocumentedCycleCount(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000,
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
		0xA9, 0x00, // LDA #$00
		0xA5, 0x10, // LDA $10
	)

	before := c.CycleCount()
	for i := 0; i < 4; i++ {
		runUntilBoundary(t, c)
	}

	assert.Equal(t, uint8(0x42), c.A)
	assert.False(t, c.getFlag(FlagZ))
	assert.False(t, c.getFlag(FlagN))
	assert.Equal(t, uint8(0x42), mem.Read(0x0010))
	assert.Equal(t, uint64(10), c.CycleCount()-before)
}

func TestADCSignedOverflow(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0x69, 0x01) // ADC #$01
	c.A = 0x7F
	c.setFlag(FlagC, false)

	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.getFlag(FlagV))
	assert.True(t, c.getFlag(FlagN))
	assert.False(t, c.getFlag(FlagZ))
	assert.False(t, c.getFlag(FlagC))
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	mem.data[0x02FF] = 0x34
	mem.data[0x0200] = 0x12 // high byte wraps to start of the same page
	mem.data[0x0300] = 0x99 // must NOT be read

	runUntilBoundary(t, c)

	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestUBitAlwaysSetAndBBitNeverLiveAfterRetirement(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xA9, 0xFF, 0x38, 0xF8) // LDA #$FF ; SEC ; SED

	for i := 0; i < 3; i++ {
		runUntilBoundary(t, c)
		assert.Equal(t, FlagU, c.P&FlagU, "U bit must always read 1")
		assert.Equal(t, uint8(0), c.P&FlagB, "B bit must never be live")
	}
}

func TestDescribeOpcode(t *testing.T) {
	lda := DescribeOpcode(0xA9) // LDA #imm
	assert.True(t, lda.Valid)
	assert.False(t, lda.Custom)
	assert.Equal(t, AmImmediate, lda.Mode)
	assert.Equal(t, "read", lda.Kind)

	sta := DescribeOpcode(0x85) // STA zp
	assert.Equal(t, "write", sta.Kind)

	inc := DescribeOpcode(0xE6) // INC zp
	assert.Equal(t, "rmw", inc.Kind)

	jsr := DescribeOpcode(0x20) // JSR abs, hand-special-cased
	assert.True(t, jsr.Valid)
	assert.True(t, jsr.Custom)

	invalid := DescribeOpcode(0x02)
	assert.False(t, invalid.Valid)
}

func TestINCZeroPageWrapsAndSetsZeroFlag(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.set(0x8000, 0xE6, 0x10) // INC $10
	mem.data[0x0010] = 0xFF

	runUntilBoundary(t, c)

	assert.Equal(t, uint8(0x00), mem.Read(0x0010))
	assert.True(t, c.getFlag(FlagZ))
}
