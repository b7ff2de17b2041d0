package cpu

// special.go holds every opcode whose cycle sequence does not fit the
// generic addressing-mode engine in modes.go: branches, flag/register
// opcodes, the stack instructions, and the control-transfer
// instructions (JMP/JSR/RTS/RTI/BRK).

// impliedOp returns a 2-cycle special handler: a dummy read of the next
// instruction byte (not consumed), then apply.
func impliedOp(apply func(c *CPU)) specialFn {
	return func(c *CPU, localStep int) bool {
		c.bus.Read(c.PC) // dummy, per every single-byte opcode on real hardware
		apply(c)
		return true
	}
}

func specialCLC(c *CPU) { c.setFlag(FlagC, false) }
func specialSEC(c *CPU) { c.setFlag(FlagC, true) }
func specialCLI(c *CPU) { c.setFlag(FlagI, false) }
func specialSEI(c *CPU) { c.setFlag(FlagI, true) }
func specialCLV(c *CPU) { c.setFlag(FlagV, false) }
func specialCLD(c *CPU) { c.setFlag(FlagD, false) }
func specialSED(c *CPU) { c.setFlag(FlagD, true) }

func specialTAX(c *CPU) { c.X = c.A; c.setNZ(c.X) }
func specialTXA(c *CPU) { c.A = c.X; c.setNZ(c.A) }
func specialTAY(c *CPU) { c.Y = c.A; c.setNZ(c.Y) }
func specialTYA(c *CPU) { c.A = c.Y; c.setNZ(c.A) }
func specialTSX(c *CPU) { c.X = c.S; c.setNZ(c.X) }
func specialTXS(c *CPU) { c.S = c.X } // does not affect flags

func specialINX(c *CPU) { c.X++; c.setNZ(c.X) }
func specialDEX(c *CPU) { c.X--; c.setNZ(c.X) }
func specialINY(c *CPU) { c.Y++; c.setNZ(c.Y) }
func specialDEY(c *CPU) { c.Y--; c.setNZ(c.Y) }

func specialNOP(c *CPU) {}

// specialPHA/specialPHP push a register (3 cycles: fetch, dummy read, push).
func specialPHA(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.pushByte(c.A)
		return true
	}
	panic("unreachable")
}

func specialPHP(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.pushByte(c.statusForPush())
		return true
	}
	panic("unreachable")
}

// specialPLA/specialPLP pull a register (4 cycles).
func specialPLA(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.bus.Read(stackPage | uint16(c.S))
		return false
	case 2:
		c.A = c.pullByte()
		c.setNZ(c.A)
		return true
	}
	panic("unreachable")
}

func specialPLP(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.bus.Read(stackPage | uint16(c.S))
		return false
	case 2:
		c.adoptPulledStatus(c.pullByte())
		return true
	}
	panic("unreachable")
}

// specialJMPAbs is the 3-cycle absolute jump.
func specialJMPAbs(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.addrLo = c.bus.Read(c.PC)
		c.PC++
		return false
	case 1:
		hi := c.bus.Read(c.PC)
		c.PC = uint16(hi)<<8 | uint16(c.addrLo)
		return true
	}
	panic("unreachable")
}

// specialJMPIndirect is the 5-cycle indirect jump, preserving the
// classic page-wrap bug: if the pointer's low byte is $FF, the high
// byte is fetched from the start of the same page, not the next one.
func specialJMPIndirect(c *CPU, localStep int) bool {
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
		c.stagedValue = c.bus.Read(c.effAddr)
		return false
	case 3:
		hiAddr := (c.effAddr & 0xFF00) | uint16(uint8(c.effAddr)+1)
		hi := c.bus.Read(hiAddr)
		c.PC = uint16(hi)<<8 | uint16(c.stagedValue)
		return true
	}
	panic("unreachable")
}

// specialJSR is the 6-cycle call: push the address of the last byte of
// the JSR instruction (the high address byte's location), low byte
// first is wrong on real hardware — PCH is pushed first.
func specialJSR(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.addrLo = c.bus.Read(c.PC)
		c.PC++
		return false
	case 1:
		c.bus.Read(stackPage | uint16(c.S)) // internal operation
		return false
	case 2:
		c.pushByte(uint8(c.PC >> 8))
		return false
	case 3:
		c.pushByte(uint8(c.PC & 0xFF))
		return false
	case 4:
		hi := c.bus.Read(c.PC)
		c.PC = uint16(hi)<<8 | uint16(c.addrLo)
		return true
	}
	panic("unreachable")
}

// specialRTS is the 6-cycle return.
func specialRTS(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.bus.Read(stackPage | uint16(c.S))
		return false
	case 2:
		c.S++
		c.addrLo = c.bus.Read(stackPage | uint16(c.S))
		return false
	case 3:
		c.S++
		hi := c.bus.Read(stackPage | uint16(c.S))
		c.PC = uint16(hi)<<8 | uint16(c.addrLo)
		return false
	case 4:
		c.bus.Read(c.PC)
		c.PC++
		return true
	}
	panic("unreachable")
}

// specialRTI is the 6-cycle return-from-interrupt. Unlike RTS, the
// restored PC is used as-is, with no trailing increment.
func specialRTI(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		return false
	case 1:
		c.bus.Read(stackPage | uint16(c.S))
		return false
	case 2:
		c.S++
		c.adoptPulledStatus(c.bus.Read(stackPage | uint16(c.S)))
		return false
	case 3:
		c.S++
		c.addrLo = c.bus.Read(stackPage | uint16(c.S))
		return false
	case 4:
		c.S++
		hi := c.bus.Read(stackPage | uint16(c.S))
		c.PC = uint16(hi)<<8 | uint16(c.addrLo)
		return true
	}
	panic("unreachable")
}

// specialBRK is the 7-cycle software interrupt. The byte following the
// opcode is skipped (the traditional BRK "signature" byte), the return
// address and status (with B set) are pushed, and PC loads from $FFFE.
func specialBRK(c *CPU, localStep int) bool {
	switch localStep {
	case 0:
		c.bus.Read(c.PC)
		c.PC++
		return false
	case 1:
		c.pushByte(uint8(c.PC >> 8))
		return false
	case 2:
		c.pushByte(uint8(c.PC & 0xFF))
		return false
	case 3:
		c.pushByte(c.statusForPush())
		return false
	case 4:
		c.addrLo = c.bus.Read(0xFFFE)
		return false
	case 5:
		hi := c.bus.Read(0xFFFF)
		c.PC = uint16(hi)<<8 | uint16(c.addrLo)
		c.setFlag(FlagI, true)
		return true
	}
	panic("unreachable")
}

// branchOp returns the special handler for a conditional branch that
// tests flag against want. The page-crossing rule matches spec.md's own
// worked example: the offset byte is added to the post-fetch PC's low
// byte as an unsigned value purely to decide whether the extra cycle is
// charged, while the branch target itself is computed with the correct
// signed offset.
func branchOp(flag uint8, want bool) specialFn {
	return func(c *CPU, localStep int) bool {
		switch localStep {
		case 0:
			offset := c.bus.Read(c.PC)
			c.PC++
			if c.getFlag(flag) != want {
				return true
			}
			base := c.PC
			target := uint16(int32(base) + int32(int8(offset)))
			cross := uint16(uint8(base)) + uint16(offset)
			c.pageCrossed = cross > 0xFF
			c.effAddr = target
			return false
		case 1:
			c.bus.Read(c.PC)
			if !c.pageCrossed {
				c.PC = c.effAddr
				return true
			}
			return false
		case 2:
			c.PC = c.effAddr
			c.bus.Read(c.PC)
			return true
		}
		panic("unreachable")
	}
}
