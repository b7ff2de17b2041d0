package console

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestROM(t *testing.T, prg []byte) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(1) // 1x16KiB PRG bank
	buf.WriteByte(0) // no CHR
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.Write(make([]byte, 8))

	padded := make([]byte, 16*1024)
	copy(padded, prg)
	// reset vector at the end of the bank points at the start of PRG
	padded[len(padded)-4] = 0x00
	padded[len(padded)-3] = 0x80
	buf.Write(padded)

	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestPowerOnRequiresCartridge(t *testing.T) {
	c := New()
	require.Error(t, c.PowerOn())
}

func TestStepArmsSingleStepAndHaltsAtNextRetirement(t *testing.T) {
	// LDA #$01 ; LDA #$02 ; LDA #$03
	path := writeTestROM(t, []byte{0xA9, 0x01, 0xA9, 0x02, 0xA9, 0x03})

	c := New()
	require.NoError(t, c.LoadCartridge(path))
	require.NoError(t, c.PowerOn())

	c.Step()
	for c.StepCycle() == 0 {
	}
	require.True(t, c.Halted())
	require.Equal(t, uint8(0x01), c.CPU.A)

	c.Step()
	for c.StepCycle() == 0 {
	}
	require.True(t, c.Halted())
	require.Equal(t, uint8(0x02), c.CPU.A)
}

func TestBreakHaltsAndRearmsSingleStep(t *testing.T) {
	path := writeTestROM(t, []byte{0xA9, 0x01, 0xA9, 0x02})

	c := New()
	require.NoError(t, c.LoadCartridge(path))
	require.NoError(t, c.PowerOn())

	c.Run()
	c.Break()
	require.True(t, c.Halted())

	// Break rearms single-step, so a subsequent Step+poll still stops
	// at the very next retirement rather than free-running again.
	c.Step()
	for c.StepCycle() == 0 {
	}
	require.True(t, c.Halted())
	require.Equal(t, uint8(0x01), c.CPU.A)
}

func TestLoadCartridgePowerOnAndRun(t *testing.T) {
	// LDA #$01 ; STA $00 ; then an unassigned opcode, which halts the core
	path := writeTestROM(t, []byte{0xA9, 0x01, 0x85, 0x00, 0x02})

	c := New()
	require.NoError(t, c.LoadCartridge(path))
	require.NoError(t, c.PowerOn())

	c.RunCycles(0)

	require.True(t, c.Halted())
	require.NotNil(t, c.LastFault())
	require.Equal(t, uint8(0x01), c.Bus.Read(0x0000))
}
