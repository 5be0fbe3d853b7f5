// cpu_integer.go - Gekko integer instruction handlers

/*
cpu_integer.go - semantics ported from original_source's cpu/ops/integer.rs

Each handler's bit-exact behavior (carry/overflow conditions in particular)
follows the Rust source rather than spec.md's prose, which only describes
these instructions at a summary level. Coverage is the explicit whitelist
DESIGN.md documents: the instructions spec.md's own boundary scenarios (§8)
exercise, plus the rest of the common integer subset a GameCube boot ROM
and apploader actually execute. Genuinely unimplemented opcodes (eqvx,
nandx, rlwnmx — unimplemented in the original too) fall through to the
shared illegal-instruction handler.
*/

package main

const (
	opAddi   = 14
	opAddic  = 12
	opAddicR = 13
	opAddis  = 15
	opSubfic = 8
	opMulli  = 7
	opCmpi   = 11
	opCmpli  = 10
	opAndiR  = 28
	opAndisR = 29
	opOri    = 24
	opOris   = 25
	opXori   = 26
	opXoris  = 27
	opRlwimi = 20
	opRlwinm = 21
	opRlwnm  = 23
)

const (
	xoAddcx   = 10
	xoAddx    = 266
	xoAddex   = 138
	xoAddzex  = 202
	xoSubfcx  = 8
	xoSubfx   = 40
	xoSubfex  = 136
	xoSubfzex = 200
	xoDivwux  = 459
	xoDivwx   = 491
	xoMulhwux = 11
	xoMulhwx  = 75
	xoMullwx  = 235
	xoNegx    = 104
	xoAndx    = 28
	xoAndcx   = 60
	xoOrx     = 444
	xoOrcx    = 412
	xoXorx    = 316
	xoNorx    = 124
	xoNandx   = 476
	xoEqvx    = 284
	xoCmpx    = 0
	xoCmplx   = 32
	xoSlwx    = 24
	xoSrawx   = 792
	xoSrawix  = 824
	xoSrwx    = 536
	xoExtsbx  = 954
	xoExtshx  = 922
)

func (c *CPU) installIntegerOps() {
	c.primary[opAddi] = opAddiHandler
	c.primary[opAddic] = opAddicHandler
	c.primary[opAddicR] = opAddicRHandler
	c.primary[opAddis] = opAddisHandler
	c.primary[opSubfic] = opSubficHandler
	c.primary[opMulli] = opMulliHandler
	c.primary[opCmpi] = opCmpiHandler
	c.primary[opCmpli] = opCmpliHandler
	c.primary[opAndiR] = opAndiRHandler
	c.primary[opAndisR] = opAndisRHandler
	c.primary[opOri] = opOriHandler
	c.primary[opOris] = opOrisHandler
	c.primary[opXori] = opXoriHandler
	c.primary[opXoris] = opXorisHandler
	c.primary[opRlwinm] = opRlwinmxHandler
	c.primary[opRlwimi] = opRlwimixHandler

	c.table31[xoAddcx] = opAddcxHandler
	c.table31[xoAddx] = opAddxHandler
	c.table31[xoAddex] = opAddexHandler
	c.table31[xoAddzex] = opAddzexHandler
	c.table31[xoSubfcx] = opSubfcxHandler
	c.table31[xoSubfx] = opSubfxHandler
	c.table31[xoSubfex] = opSubfexHandler
	c.table31[xoSubfzex] = opSubfzexHandler
	c.table31[xoDivwux] = opDivwuxHandler
	c.table31[xoDivwx] = opDivwxHandler
	c.table31[xoMulhwux] = opMulhwuxHandler
	c.table31[xoMulhwx] = opMulhwxHandler
	c.table31[xoMullwx] = opMullwxHandler
	c.table31[xoNegx] = opNegxHandler
	c.table31[xoAndx] = opAndxHandler
	c.table31[xoAndcx] = opAndcxHandler
	c.table31[xoOrx] = opOrxHandler
	c.table31[xoOrcx] = opOrcxHandler
	c.table31[xoXorx] = opXorxHandler
	c.table31[xoNorx] = opNorxHandler
	c.table31[xoCmpx] = opCmpxHandler
	c.table31[xoCmplx] = opCmplxHandler
	c.table31[xoSlwx] = opSlwxHandler
	c.table31[xoSrwx] = opSrwxHandler
	c.table31[xoSrawx] = opSrawxHandler
	c.table31[xoSrawix] = opSrawixHandler
	c.table31[xoExtsbx] = opExtsbxHandler
	c.table31[xoExtshx] = opExtshxHandler
}

func opAddiHandler(c *CPU, instr Instruction) {
	ra := uint32(0)
	if instr.A() != 0 {
		ra = c.GPR[instr.A()]
	}
	c.GPR[instr.D()] = ra + uint32(signExt16(uint16(instr.Simm())))
}

func opAddisHandler(c *CPU, instr Instruction) {
	ra := uint32(0)
	if instr.A() != 0 {
		ra = c.GPR[instr.A()]
	}
	c.GPR[instr.D()] = ra + uint32(instr.Uimm())<<16
}

func opAddicHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	simm := uint32(signExt16(uint16(instr.Simm())))
	result := ra + simm
	c.XER.Carry = result < ra
	c.GPR[instr.D()] = result
}

func opAddicRHandler(c *CPU, instr Instruction) {
	opAddicHandler(c, instr)
	c.CR.UpdateCR0(c.GPR[instr.D()], &c.XER)
}

func opSubficHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	simm := uint32(signExt16(uint16(instr.Simm())))
	result := simm - ra
	// carry = no borrow, i.e. unsigned simm >= ra
	c.XER.Carry = simm >= ra
	c.GPR[instr.D()] = result
}

func opMulliHandler(c *CPU, instr Instruction) {
	ra := int32(c.GPR[instr.A()])
	simm := int32(instr.Simm())
	c.GPR[instr.D()] = uint32(ra * simm)
}

func opCmpiHandler(c *CPU, instr Instruction) {
	field := instr.D() >> 2
	ra := int32(c.GPR[instr.A()])
	simm := int32(instr.Simm())
	c.CR.SetField(field, cmpField(ra, simm, c.XER.SummaryOverflow))
}

func opCmpliHandler(c *CPU, instr Instruction) {
	field := instr.D() >> 2
	ra := c.GPR[instr.A()]
	uimm := uint32(instr.Uimm())
	c.CR.SetField(field, cmpFieldU(ra, uimm, c.XER.SummaryOverflow))
}

func cmpField(a, b int32, so bool) uint8 {
	var v uint8
	switch {
	case a < b:
		v = crLT
	case a > b:
		v = crGT
	default:
		v = crEQ
	}
	if so {
		v |= crSO
	}
	return v
}

func cmpFieldU(a, b uint32, so bool) uint8 {
	var v uint8
	switch {
	case a < b:
		v = crLT
	case a > b:
		v = crGT
	default:
		v = crEQ
	}
	if so {
		v |= crSO
	}
	return v
}

func opAndiRHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] & uint32(instr.Uimm())
	c.GPR[instr.A()] = result
	c.CR.UpdateCR0(result, &c.XER)
}

func opAndisRHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] & (uint32(instr.Uimm()) << 16)
	c.GPR[instr.A()] = result
	c.CR.UpdateCR0(result, &c.XER)
}

func opOriHandler(c *CPU, instr Instruction) {
	c.GPR[instr.A()] = c.GPR[instr.S()] | uint32(instr.Uimm())
}

func opOrisHandler(c *CPU, instr Instruction) {
	c.GPR[instr.A()] = c.GPR[instr.S()] | uint32(instr.Uimm())<<16
}

func opXoriHandler(c *CPU, instr Instruction) {
	c.GPR[instr.A()] = c.GPR[instr.S()] ^ uint32(instr.Uimm())
}

func opXorisHandler(c *CPU, instr Instruction) {
	c.GPR[instr.A()] = c.GPR[instr.S()] ^ uint32(instr.Uimm())<<16
}

func opRlwinmxHandler(c *CPU, instr Instruction) {
	m := mask(instr.Mb(), instr.Me())
	result := rotl32(c.GPR[instr.S()], instr.Sh()) & m
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opRlwimixHandler(c *CPU, instr Instruction) {
	m := mask(instr.Mb(), instr.Me())
	rotated := rotl32(c.GPR[instr.S()], instr.Sh())
	result := (rotated & m) | (c.GPR[instr.A()] &^ m)
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAddcxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	result := ra + rb
	c.XER.Carry = result < ra
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(ra, rb, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAddxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	result := ra + rb
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(ra, rb, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAddexHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	carryIn := uint32(0)
	if c.XER.Carry {
		carryIn = 1
	}
	result := ra + rb + carryIn
	c.XER.Carry = result < ra || (carryIn == 1 && result == ra)
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(ra, rb, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAddzexHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	carryIn := uint32(0)
	if c.XER.Carry {
		carryIn = 1
	}
	result := ra + carryIn
	c.XER.Carry = result < ra
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(ra, 0, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSubfcxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	result := rb - ra
	c.XER.Carry = rb >= ra
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(^ra, rb, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSubfxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	result := rb - ra
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(checkOverflowed(^ra, rb, result))
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSubfexHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	carryIn := uint32(0)
	if c.XER.Carry {
		carryIn = 1
	}
	result := ^ra + rb + carryIn
	c.XER.Carry = result < rb || (carryIn == 1 && result == rb)
	c.GPR[instr.D()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSubfzexHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	carryIn := uint32(0)
	if c.XER.Carry {
		carryIn = 1
	}
	result := ^ra + carryIn
	c.XER.Carry = result < ^ra || (carryIn == 1 && result == ^ra)
	c.GPR[instr.D()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opDivwuxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	rb := c.GPR[instr.B()]
	overflow := rb == 0
	var result uint32
	if overflow {
		result = 0
	} else {
		result = ra / rb
	}
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(overflow)
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opDivwxHandler(c *CPU, instr Instruction) {
	ra := int32(c.GPR[instr.A()])
	rb := int32(c.GPR[instr.B()])
	overflow := rb == 0 || (uint32(ra) == 0x80000000 && rb == -1)

	var result uint32
	if overflow {
		if uint32(ra) == 0x80000000 && rb == 0 {
			result = 0xFFFFFFFF
		} else {
			result = 0
		}
	} else {
		result = uint32(ra / rb)
	}

	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(overflow)
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opMulhwuxHandler(c *CPU, instr Instruction) {
	ra := uint64(c.GPR[instr.A()])
	rb := uint64(c.GPR[instr.B()])
	result := uint32((ra * rb) >> 32)
	c.GPR[instr.D()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opMulhwxHandler(c *CPU, instr Instruction) {
	ra := int64(int32(c.GPR[instr.A()]))
	rb := int64(int32(c.GPR[instr.B()]))
	result := uint32((ra * rb) >> 32)
	c.GPR[instr.D()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opMullwxHandler(c *CPU, instr Instruction) {
	ra := int64(int32(c.GPR[instr.A()]))
	rb := int64(int32(c.GPR[instr.B()]))
	result := ra * rb
	c.GPR[instr.D()] = uint32(result)
	if instr.Oe() {
		c.XER.SetOverflow(result < -0x80000000 || result > 0x7FFFFFFF)
	}
	if instr.Rc() {
		c.CR.UpdateCR0(uint32(result), &c.XER)
	}
}

func opNegxHandler(c *CPU, instr Instruction) {
	ra := c.GPR[instr.A()]
	result := ^ra + 1
	c.GPR[instr.D()] = result
	if instr.Oe() {
		c.XER.SetOverflow(ra == 0x80000000)
	}
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAndxHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] & c.GPR[instr.B()]
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opAndcxHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] &^ c.GPR[instr.B()]
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opOrxHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] | c.GPR[instr.B()]
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opOrcxHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] | ^c.GPR[instr.B()]
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opXorxHandler(c *CPU, instr Instruction) {
	result := c.GPR[instr.S()] ^ c.GPR[instr.B()]
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opNorxHandler(c *CPU, instr Instruction) {
	result := ^(c.GPR[instr.S()] | c.GPR[instr.B()])
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opCmpxHandler(c *CPU, instr Instruction) {
	field := instr.D() >> 2
	c.CR.SetField(field, cmpField(int32(c.GPR[instr.A()]), int32(c.GPR[instr.B()]), c.XER.SummaryOverflow))
}

func opCmplxHandler(c *CPU, instr Instruction) {
	field := instr.D() >> 2
	c.CR.SetField(field, cmpFieldU(c.GPR[instr.A()], c.GPR[instr.B()], c.XER.SummaryOverflow))
}

func opSlwxHandler(c *CPU, instr Instruction) {
	rb := c.GPR[instr.B()]
	var result uint32
	if rb&0x20 != 0 {
		result = 0
	} else {
		result = c.GPR[instr.S()] << (rb & 0x1F)
	}
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSrwxHandler(c *CPU, instr Instruction) {
	rb := c.GPR[instr.B()]
	var result uint32
	if rb&0x20 != 0 {
		result = 0
	} else {
		result = c.GPR[instr.S()] >> (rb & 0x1F)
	}
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opSrawxHandler(c *CPU, instr Instruction) {
	rs := int32(c.GPR[instr.S()])
	rb := c.GPR[instr.B()]
	var result int32
	var carry bool
	if rb&0x20 != 0 {
		if rs < 0 {
			result = -1
			carry = true
		} else {
			result = 0
		}
	} else {
		shift := rb & 0x1F
		result = rs >> shift
		carry = rs < 0 && (uint32(rs)&((1<<shift)-1)) != 0
	}
	c.XER.Carry = carry
	c.GPR[instr.A()] = uint32(result)
	if instr.Rc() {
		c.CR.UpdateCR0(uint32(result), &c.XER)
	}
}

func opSrawixHandler(c *CPU, instr Instruction) {
	rs := int32(c.GPR[instr.S()])
	sh := instr.Sh()
	result := rs >> sh
	carry := rs < 0 && (uint32(rs)&((1<<sh)-1)) != 0
	c.XER.Carry = carry
	c.GPR[instr.A()] = uint32(result)
	if instr.Rc() {
		c.CR.UpdateCR0(uint32(result), &c.XER)
	}
}

func opExtsbxHandler(c *CPU, instr Instruction) {
	result := uint32(int32(int8(c.GPR[instr.S()])))
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}

func opExtshxHandler(c *CPU, instr Instruction) {
	result := uint32(int32(int16(c.GPR[instr.S()])))
	c.GPR[instr.A()] = result
	if instr.Rc() {
		c.CR.UpdateCR0(result, &c.XER)
	}
}
