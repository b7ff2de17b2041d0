package cpu

// specialFn is a hand-written cycle sequence for an opcode the generic
// addressing engine cannot express (branches, stack ops, jumps, BRK/RTI).
type specialFn func(c *CPU, localStep int) bool

type tableEntry struct {
	valid   bool
	op      cpuOp
	special specialFn
}

var opcodeTable [256]tableEntry

func setGeneric(opcode uint8, mode AddrMode, kind accessKind, op cpuOp) {
	op.mode = mode
	op.kind = kind
	opcodeTable[opcode] = tableEntry{valid: true, op: op}
}

func setSpecial(opcode uint8, fn specialFn) {
	opcodeTable[opcode] = tableEntry{valid: true, special: fn}
}

// OpcodeInfo is the decode table's entry for one opcode byte, exported
// so a host (the monitor) can describe the instruction about to retire
// without reaching into package-internal state.
type OpcodeInfo struct {
	Opcode uint8
	Valid  bool
	Mode   AddrMode
	Kind   string
	Custom bool // true for hand-written special-cased opcodes (branches, stack, jumps)
}

// DescribeOpcode looks up opcode's decode table entry.
func DescribeOpcode(opcode uint8) OpcodeInfo {
	e := opcodeTable[opcode]
	info := OpcodeInfo{Opcode: opcode, Valid: e.valid, Custom: e.special != nil}
	if e.special == nil {
		info.Mode = e.op.mode
		switch e.op.kind {
		case accRead:
			info.Kind = "read"
		case accWrite:
			info.Kind = "write"
		case accRMW:
			info.Kind = "rmw"
		}
	}
	return info
}

func init() {
	buildALUGroup()
	buildShiftGroup()
	buildIndexedLoadStoreAndCompareGroup()
	buildBranches()
	buildImplied()
	buildStack()
	buildJumpsAndInterrupts()
}

// buildALUGroup constructs the 8x8 ORA/AND/EOR/ADC/STA/LDA/CMP/SBC table
// (spec.md §4.3's ALU group), opcode = aaa<<5 | bbb<<2 | 0b01. STA has no
// immediate form; opcode $89 is left invalid.
func buildALUGroup() {
	type aluDef struct {
		readApply func(c *CPU, v uint8)
	}
	aluReads := [8]func(c *CPU, v uint8){
		kernelORA, kernelAND, kernelEOR, kernelADC,
		nil /* STA is write-only */, kernelLDA, kernelCMP, kernelSBC,
	}
	modes := [8]AddrMode{
		AmIndirectX, AmZeroPage, AmImmediate, AmAbsolute,
		AmIndirectY, AmZeroPageX, AmAbsoluteY, AmAbsoluteX,
	}

	for aaa := uint8(0); aaa < 8; aaa++ {
		for bbb := uint8(0); bbb < 8; bbb++ {
			opcode := aaa<<5 | bbb<<2 | 0x01
			mode := modes[bbb]
			if aaa == 4 { // STA
				if mode == AmImmediate {
					continue // $89 stays invalid
				}
				setGeneric(opcode, mode, accWrite, cpuOp{writeValue: kernelSTA})
				continue
			}
			apply := aluReads[aaa]
			setGeneric(opcode, mode, accRead, cpuOp{readApply: apply})
		}
	}
}

// buildShiftGroup wires ASL/ROL/LSR/ROR, the four read-modify-write
// shifters that also support the accumulator addressing mode.
func buildShiftGroup() {
	kernels := [4]func(c *CPU, v uint8) uint8{kernelASL, kernelROL, kernelLSR, kernelROR}
	opcodesByMode := map[AddrMode][4]uint8{
		AmAccumulator: {0x0A, 0x2A, 0x4A, 0x6A},
		AmZeroPage:    {0x06, 0x26, 0x46, 0x66},
		AmZeroPageX:   {0x16, 0x36, 0x56, 0x76},
		AmAbsolute:    {0x0E, 0x2E, 0x4E, 0x6E},
		AmAbsoluteX:   {0x1E, 0x3E, 0x5E, 0x7E},
	}
	for mode, codes := range opcodesByMode {
		for i, opcode := range codes {
			setGeneric(opcode, mode, accRMW, cpuOp{rmwApply: kernels[i]})
		}
	}
}

// buildIndexedLoadStoreAndCompareGroup wires LDX/LDY/STX/STY/CPX/CPY/
// BIT/INC/DEC, spec.md §4.3's remaining read/write/RMW opcodes.
func buildIndexedLoadStoreAndCompareGroup() {
	setGeneric(0x86, AmZeroPage, accWrite, cpuOp{writeValue: kernelSTX})
	setGeneric(0x96, AmZeroPageY, accWrite, cpuOp{writeValue: kernelSTX})
	setGeneric(0x8E, AmAbsolute, accWrite, cpuOp{writeValue: kernelSTX})

	setGeneric(0x84, AmZeroPage, accWrite, cpuOp{writeValue: kernelSTY})
	setGeneric(0x94, AmZeroPageX, accWrite, cpuOp{writeValue: kernelSTY})
	setGeneric(0x8C, AmAbsolute, accWrite, cpuOp{writeValue: kernelSTY})

	setGeneric(0xA2, AmImmediate, accRead, cpuOp{readApply: kernelLDX})
	setGeneric(0xA6, AmZeroPage, accRead, cpuOp{readApply: kernelLDX})
	setGeneric(0xB6, AmZeroPageY, accRead, cpuOp{readApply: kernelLDX})
	setGeneric(0xAE, AmAbsolute, accRead, cpuOp{readApply: kernelLDX})
	setGeneric(0xBE, AmAbsoluteY, accRead, cpuOp{readApply: kernelLDX})

	setGeneric(0xA0, AmImmediate, accRead, cpuOp{readApply: kernelLDY})
	setGeneric(0xA4, AmZeroPage, accRead, cpuOp{readApply: kernelLDY})
	setGeneric(0xB4, AmZeroPageX, accRead, cpuOp{readApply: kernelLDY})
	setGeneric(0xAC, AmAbsolute, accRead, cpuOp{readApply: kernelLDY})
	setGeneric(0xBC, AmAbsoluteX, accRead, cpuOp{readApply: kernelLDY})

	setGeneric(0xE0, AmImmediate, accRead, cpuOp{readApply: kernelCPX})
	setGeneric(0xE4, AmZeroPage, accRead, cpuOp{readApply: kernelCPX})
	setGeneric(0xEC, AmAbsolute, accRead, cpuOp{readApply: kernelCPX})

	setGeneric(0xC0, AmImmediate, accRead, cpuOp{readApply: kernelCPY})
	setGeneric(0xC4, AmZeroPage, accRead, cpuOp{readApply: kernelCPY})
	setGeneric(0xCC, AmAbsolute, accRead, cpuOp{readApply: kernelCPY})

	setGeneric(0x24, AmZeroPage, accRead, cpuOp{readApply: kernelBIT})
	setGeneric(0x2C, AmAbsolute, accRead, cpuOp{readApply: kernelBIT})

	incDec := []struct {
		opcode uint8
		mode   AddrMode
		kernel func(c *CPU, v uint8) uint8
	}{
		{0xC6, AmZeroPage, kernelDEC}, {0xD6, AmZeroPageX, kernelDEC},
		{0xCE, AmAbsolute, kernelDEC}, {0xDE, AmAbsoluteX, kernelDEC},
		{0xE6, AmZeroPage, kernelINC}, {0xF6, AmZeroPageX, kernelINC},
		{0xEE, AmAbsolute, kernelINC}, {0xFE, AmAbsoluteX, kernelINC},
	}
	for _, e := range incDec {
		setGeneric(e.opcode, e.mode, accRMW, cpuOp{rmwApply: e.kernel})
	}
}

func buildBranches() {
	setSpecial(0x10, branchOp(FlagN, false)) // BPL
	setSpecial(0x30, branchOp(FlagN, true))  // BMI
	setSpecial(0x50, branchOp(FlagV, false)) // BVC
	setSpecial(0x70, branchOp(FlagV, true))  // BVS
	setSpecial(0x90, branchOp(FlagC, false)) // BCC
	setSpecial(0xB0, branchOp(FlagC, true))  // BCS
	setSpecial(0xD0, branchOp(FlagZ, false)) // BNE
	setSpecial(0xF0, branchOp(FlagZ, true))  // BEQ
}

func buildImplied() {
	setSpecial(0x18, impliedOp(specialCLC))
	setSpecial(0x38, impliedOp(specialSEC))
	setSpecial(0x58, impliedOp(specialCLI))
	setSpecial(0x78, impliedOp(specialSEI))
	setSpecial(0xB8, impliedOp(specialCLV))
	setSpecial(0xD8, impliedOp(specialCLD))
	setSpecial(0xF8, impliedOp(specialSED))

	setSpecial(0xAA, impliedOp(specialTAX))
	setSpecial(0x8A, impliedOp(specialTXA))
	setSpecial(0xA8, impliedOp(specialTAY))
	setSpecial(0x98, impliedOp(specialTYA))
	setSpecial(0xBA, impliedOp(specialTSX))
	setSpecial(0x9A, impliedOp(specialTXS))

	setSpecial(0xE8, impliedOp(specialINX))
	setSpecial(0xCA, impliedOp(specialDEX))
	setSpecial(0xC8, impliedOp(specialINY))
	setSpecial(0x88, impliedOp(specialDEY))

	setSpecial(0xEA, impliedOp(specialNOP))
}

func buildStack() {
	setSpecial(0x48, specialPHA)
	setSpecial(0x08, specialPHP)
	setSpecial(0x68, specialPLA)
	setSpecial(0x28, specialPLP)
}

func buildJumpsAndInterrupts() {
	setSpecial(0x4C, specialJMPAbs)
	setSpecial(0x6C, specialJMPIndirect)
	setSpecial(0x20, specialJSR)
	setSpecial(0x60, specialRTS)
	setSpecial(0x40, specialRTI)
	setSpecial(0x00, specialBRK)
}
