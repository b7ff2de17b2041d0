package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubMapper struct {
	reads  map[uint16]uint8
	writes map[uint16]uint8
}

func newStubMapper() *stubMapper {
	return &stubMapper{reads: map[uint16]uint8{}, writes: map[uint16]uint8{}}
}

func (s *stubMapper) Read(addr uint16) uint8       { return s.reads[addr] }
func (s *stubMapper) Write(addr uint16, val uint8) { s.writes[addr] = val }

func TestRAMIsMirroredEveryEightHundredBytes(t *testing.T) {
	d := New()
	d.Write(0x0000, 0x42)

	assert.Equal(t, uint8(0x42), d.Read(0x0800))
	assert.Equal(t, uint8(0x42), d.Read(0x1000))
	assert.Equal(t, uint8(0x42), d.Read(0x1800))
}

func TestPPURegistersAreMirroredEveryEightBytes(t *testing.T) {
	d := New()
	h := &recordingHandle{}
	d.SetPPUHandle(h)

	d.Read(0x2000)
	d.Read(0x2008)
	d.Read(0x3FF8)

	assert.Equal(t, []uint16{0x2000, 0x2000, 0x2000}, h.reads)
}

func TestTestModeRegionAlwaysReadsZero(t *testing.T) {
	d := New()
	d.Write(0x4018, 0xFF)
	assert.Equal(t, uint8(0), d.Read(0x4018))
}

func TestCartridgeSpaceRoutesToMapper(t *testing.T) {
	d := New()
	m := newStubMapper()
	d.SetMapper(m)

	d.Write(0x8000, 0x7E)
	assert.Equal(t, uint8(0x7E), m.writes[0x8000])

	m.reads[0xC000] = 0x99
	assert.Equal(t, uint8(0x99), d.Read(0xC000))
}

func TestUnmappedCartridgeSpaceIsTotal(t *testing.T) {
	d := New()
	assert.NotPanics(t, func() {
		assert.Equal(t, uint8(0), d.Read(0x8000))
		d.Write(0x8000, 0x01)
	})
}

type recordingHandle struct {
	reads []uint16
}

func (r *recordingHandle) ReadRegister(addr uint16) uint8 {
	r.reads = append(r.reads, addr)
	return 0
}

func (r *recordingHandle) WriteRegister(addr uint16, val uint8) {}
