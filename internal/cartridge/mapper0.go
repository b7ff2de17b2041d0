package cartridge

// mapper0 implements NROM (mapper 0): a fixed, non-bank-switched PRG window
// with a mask-addressed backing array (spec.md §4.2). One mapper0 instance
// is shared by the CPU-side and PPU-side handles returned by newMapper0,
// each a distinct view (prgMapper0 / chrMapper0) over the same cartridge.
type mapper0 struct {
	prg     []byte
	prgMask uint16

	chr     []byte
	chrMask uint16

	// sram backs $6000-$7FFF. Mapper 0 carts are ROM-only on real
	// hardware, but the source this was distilled from allows writes to
	// PRG backing (see prgMapper0.Write); the trainer (if present) is copied
	// here at $7000 instead of the source's raw hardware-window poke,
	// per spec.md §4.4 step 5 and §9's open question.
	sram [sramSize]byte
}

type prgMapper0 struct{ m *mapper0 }
type chrMapper0 struct{ m *mapper0 }

func newMapper0(prg, chr []byte) (*prgMapper0, *chrMapper0) {
	m := &mapper0{
		prg:     prg,
		prgMask: uint16(len(prg) - 1),
		chr:     chr,
	}
	if len(chr) > 0 {
		m.chrMask = uint16(len(chr) - 1)
	}
	return &prgMapper0{m}, &chrMapper0{m}
}

// Read implements Mapper for the CPU address space: $6000-$7FFF is SRAM,
// $8000-$FFFF indexes the PRG backing by addr & mask, which mirrors a 16
// KiB image across the full 32 KiB window (spec.md §4.2).
func (p *prgMapper0) Read(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return p.m.prg[addr&p.m.prgMask]
	case addr >= 0x6000:
		return p.m.sram[addr-0x6000]
	default:
		return 0
	}
}

// Write stores into PRG backing for $8000+ (a no-op on real NROM hardware,
// preserved for parity with the source per spec.md §9) and into SRAM for
// $6000-$7FFF.
func (p *prgMapper0) Write(addr uint16, val uint8) {
	switch {
	case addr >= 0x8000:
		p.m.prg[addr&p.m.prgMask] = val
	case addr >= 0x6000:
		p.m.sram[addr-0x6000] = val
	}
}

// Read implements Mapper for the PPU address space ($0000-$1FFF CHR).
func (c *chrMapper0) Read(addr uint16) uint8 {
	if len(c.m.chr) == 0 {
		return 0
	}
	return c.m.chr[addr&c.m.chrMask]
}

// Write stores into the CHR backing. A cart whose header declares CHR
// size 0 gets no backing array from the loader, so its writes are
// dropped; CHR-RAM is not emulated.
func (c *chrMapper0) Write(addr uint16, val uint8) {
	if len(c.m.chr) == 0 {
		return
	}
	c.m.chr[addr&c.m.chrMask] = val
}
