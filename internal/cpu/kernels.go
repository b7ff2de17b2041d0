package cpu

// Kernels implement the value-level semantics of each opcode family. They
// never touch the bus; stepGeneric has already turned addressing into a
// plain uint8 (accRead), a value to store (accWrite), or an old/new pair
// (accRMW) by the time a kernel runs.

func kernelORA(c *CPU, v uint8) { c.A |= v; c.setNZ(c.A) }
func kernelAND(c *CPU, v uint8) { c.A &= v; c.setNZ(c.A) }
func kernelEOR(c *CPU, v uint8) { c.A ^= v; c.setNZ(c.A) }

// kernelADC implements spec.md §4.3's formula directly: V is derived from
// the operand actually added (M for ADC), not from A or the result alone.
func kernelADC(c *CPU, v uint8) {
	var carryIn uint16
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(v) + carryIn
	result := uint8(sum)
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (^(c.A^v)&(c.A^result))&0x80 != 0)
	c.A = result
	c.setNZ(result)
}

// kernelSBC subtracts by adding the one's complement of the operand.
// Carry and overflow follow spec.md §4.3's stated formulas directly
// (result <= A for carry; operand_for_op = ~M for the overflow check)
// rather than being derived from the addition's own unsigned overflow.
func kernelSBC(c *CPU, v uint8) {
	oldA := c.A
	m := ^v
	var carryIn uint16
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	sum := uint16(oldA) + uint16(m) + carryIn
	result := uint8(sum)
	c.setFlag(FlagC, result <= oldA)
	c.setFlag(FlagV, (^(oldA^m)&(oldA^result))&0x80 != 0)
	c.A = result
	c.setNZ(result)
}

func kernelLDA(c *CPU, v uint8) { c.A = v; c.setNZ(c.A) }
func kernelLDX(c *CPU, v uint8) { c.X = v; c.setNZ(c.X) }
func kernelLDY(c *CPU, v uint8) { c.Y = v; c.setNZ(c.Y) }

func kernelSTA(c *CPU) uint8 { return c.A }
func kernelSTX(c *CPU) uint8 { return c.X }
func kernelSTY(c *CPU) uint8 { return c.Y }

func compare(c *CPU, reg, v uint8) {
	result := reg - v
	c.setFlag(FlagC, reg >= v)
	c.setFlag(FlagZ, reg == v)
	c.setFlag(FlagN, result&0x80 != 0)
}

func kernelCMP(c *CPU, v uint8) { compare(c, c.A, v) }
func kernelCPX(c *CPU, v uint8) { compare(c, c.X, v) }
func kernelCPY(c *CPU, v uint8) { compare(c, c.Y, v) }

func kernelBIT(c *CPU, v uint8) {
	c.setFlag(FlagZ, c.A&v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
	c.setFlag(FlagV, v&0x40 != 0)
}

func kernelINC(c *CPU, v uint8) uint8 {
	r := v + 1
	c.setNZ(r)
	return r
}

func kernelDEC(c *CPU, v uint8) uint8 {
	r := v - 1
	c.setNZ(r)
	return r
}

func kernelASL(c *CPU, v uint8) uint8 {
	c.setFlag(FlagC, v&0x80 != 0)
	r := v << 1
	c.setNZ(r)
	return r
}

func kernelLSR(c *CPU, v uint8) uint8 {
	c.setFlag(FlagC, v&0x01 != 0)
	r := v >> 1
	c.setNZ(r)
	return r
}

func kernelROL(c *CPU, v uint8) uint8 {
	oldCarry := c.getFlag(FlagC)
	c.setFlag(FlagC, v&0x80 != 0)
	r := v << 1
	if oldCarry {
		r |= 0x01
	}
	c.setNZ(r)
	return r
}

func kernelROR(c *CPU, v uint8) uint8 {
	oldCarry := c.getFlag(FlagC)
	c.setFlag(FlagC, v&0x01 != 0)
	r := v >> 1
	if oldCarry {
		r |= 0x80
	}
	c.setNZ(r)
	return r
}
