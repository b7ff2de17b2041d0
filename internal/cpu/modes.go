package cpu

// AddrMode names one of the CPU's addressing modes (spec.md §4.3).
type AddrMode int

const (
	AmImplied AddrMode = iota
	AmAccumulator
	AmImmediate
	AmZeroPage
	AmZeroPageX
	AmZeroPageY
	AmAbsolute
	AmAbsoluteX
	AmAbsoluteY
	AmIndirectX
	AmIndirectY
)

// accessKind is the access pattern spec.md §9 recommends factoring the
// decode table on: whether the opcode only reads its operand, only
// writes it (no pre-read, so it cannot observe an uninitialised PPU
// register), or reads-modifies-writes it.
type accessKind int

const (
	accRead accessKind = iota
	accWrite
	accRMW
)

// cpuOp is one decode-table entry's addressing/access shape plus the
// kernel functions that do the actual operation. The addressing engine
// (stepGeneric) issues the bus cycles; the kernel only sees values.
type cpuOp struct {
	mode AddrMode
	kind accessKind

	// readApply is called once the operand value is known (accRead).
	readApply func(c *CPU, v uint8)
	// writeValue supplies the byte to store (accWrite); called with no
	// memory access having happened yet.
	writeValue func(c *CPU) uint8
	// rmwApply computes the new value from the old one (accRMW); flag
	// side effects happen inside it.
	rmwApply func(c *CPU, v uint8) uint8
}

// stepGeneric drives one cycle of op's addressing sequence. localStep
// counts cycles since the opcode fetch (0-based). It returns true once
// the instruction has fully retired. Cycle counts and the page-crossing
// rule match spec.md §4.3 exactly: a crossed index performs a dummy read
// of the unfixed address before the real access, and accWrite/accRMW
// opcodes always take the extra indexed cycle regardless of crossing
// (for accWrite that cycle issues no bus access).
func (c *CPU) stepGeneric(op *cpuOp, localStep int) bool {
	switch op.mode {
	case AmAccumulator:
		c.bus.Read(c.PC) // dummy read, PC not advanced
		c.A = op.rmwApply(c, c.A)
		return true

	case AmImmediate:
		v := c.bus.Read(c.PC)
		c.PC++
		op.readApply(c, v)
		return true

	case AmZeroPage:
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			c.effAddr = uint16(c.addrLo)
			return false
		case 1:
			if op.kind == accWrite {
				c.bus.Write(c.effAddr, op.writeValue(c))
				return true
			}
			v := c.bus.Read(c.effAddr)
			if op.kind == accRead {
				op.readApply(c, v)
				return true
			}
			c.stagedValue = v
			return false
		case 2:
			return false // RMW pad cycle; dummy write of old value omitted (spec.md §4.3)
		case 3:
			nv := op.rmwApply(c, c.stagedValue)
			c.bus.Write(c.effAddr, nv)
			return true
		}

	case AmZeroPageX, AmZeroPageY:
		idx := c.X
		if op.mode == AmZeroPageY {
			idx = c.Y
		}
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			return false
		case 1:
			c.bus.Read(uint16(c.addrLo)) // dummy read at base, before indexing
			c.effAddr = uint16(c.addrLo + idx)
			return false
		case 2:
			if op.kind == accWrite {
				c.bus.Write(c.effAddr, op.writeValue(c))
				return true
			}
			v := c.bus.Read(c.effAddr)
			if op.kind == accRead {
				op.readApply(c, v)
				return true
			}
			c.stagedValue = v
			return false
		case 3:
			return false // RMW pad cycle
		case 4:
			nv := op.rmwApply(c, c.stagedValue)
			c.bus.Write(c.effAddr, nv)
			return true
		}

	case AmAbsolute:
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			return false
		case 1:
			c.addrHi = c.bus.Read(c.PC)
			c.PC++
			c.effAddr = uint16(c.addrHi)<<8 | uint16(c.addrLo)
			return false
		case 2:
			if op.kind == accWrite {
				c.bus.Write(c.effAddr, op.writeValue(c))
				return true
			}
			v := c.bus.Read(c.effAddr)
			if op.kind == accRead {
				op.readApply(c, v)
				return true
			}
			c.stagedValue = v
			return false
		case 3:
			return false // RMW pad cycle
		case 4:
			nv := op.rmwApply(c, c.stagedValue)
			c.bus.Write(c.effAddr, nv)
			return true
		}

	case AmAbsoluteX, AmAbsoluteY:
		idx := c.X
		if op.mode == AmAbsoluteY {
			idx = c.Y
		}
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			return false
		case 1:
			c.addrHi = c.bus.Read(c.PC)
			c.PC++
			sum := uint16(c.addrLo) + uint16(idx)
			c.pageCrossed = sum > 0xFF
			c.effAddr = uint16(c.addrHi)<<8 | (sum & 0xFF) // unfixed
			c.fixedAddr = (uint16(c.addrHi)<<8 | uint16(c.addrLo)) + uint16(idx)
			return false
		case 2:
			if op.kind == accWrite {
				return false // extra cycle, no pre-read of the store target
			}
			v := c.bus.Read(c.effAddr) // dummy if crossed or RMW
			if op.kind == accRead {
				if !c.pageCrossed {
					op.readApply(c, v)
					return true
				}
				return false
			}
			return false // accWrite/accRMW always take the extra cycle
		case 3:
			switch op.kind {
			case accRead: // only reached when page crossed
				v := c.bus.Read(c.fixedAddr)
				op.readApply(c, v)
				return true
			case accWrite:
				c.bus.Write(c.fixedAddr, op.writeValue(c))
				return true
			default: // accRMW
				c.stagedValue = c.bus.Read(c.fixedAddr)
				return false
			}
		case 4:
			return false // RMW pad cycle
		case 5:
			nv := op.rmwApply(c, c.stagedValue)
			c.bus.Write(c.fixedAddr, nv)
			return true
		}

	case AmIndirectX:
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			return false
		case 1:
			c.bus.Read(uint16(c.addrLo)) // dummy read at pointer base
			return false
		case 2:
			ptr := c.addrLo + c.X
			lo := c.bus.Read(uint16(ptr))
			c.stagedValue = lo
			c.addrHi = ptr // reuse to carry the indexed pointer forward
			return false
		case 3:
			hi := c.bus.Read(uint16(c.addrHi + 1))
			c.effAddr = uint16(hi)<<8 | uint16(c.stagedValue)
			return false
		case 4:
			if op.kind == accWrite {
				c.bus.Write(c.effAddr, op.writeValue(c))
				return true
			}
			v := c.bus.Read(c.effAddr)
			op.readApply(c, v)
			return true
		}

	case AmIndirectY:
		switch localStep {
		case 0:
			c.addrLo = c.bus.Read(c.PC)
			c.PC++
			return false
		case 1:
			lo := c.bus.Read(uint16(c.addrLo))
			c.stagedValue = lo
			return false
		case 2:
			hi := c.bus.Read(uint16(c.addrLo + 1))
			sum := uint16(c.stagedValue) + uint16(c.Y)
			c.pageCrossed = sum > 0xFF
			c.effAddr = uint16(hi)<<8 | (sum & 0xFF) // unfixed
			c.fixedAddr = (uint16(hi)<<8 | uint16(c.stagedValue)) + uint16(c.Y)
			return false
		case 3:
			if op.kind == accWrite {
				return false // STA always extra, no pre-read of the store target
			}
			v := c.bus.Read(c.effAddr)
			if !c.pageCrossed {
				op.readApply(c, v)
				return true
			}
			return false // reads that crossed need the fixed re-read
		case 4:
			if op.kind == accRead {
				v := c.bus.Read(c.fixedAddr)
				op.readApply(c, v)
				return true
			}
			c.bus.Write(c.fixedAddr, op.writeValue(c))
			return true
		}
	}
	panic("cpu: stepGeneric fell through its addressing-mode switch")
}
