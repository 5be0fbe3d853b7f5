// cpu_branch.go - Gekko branch instruction handlers

/*
cpu_branch.go - ported from original_source's cpu/ops/branch.rs

BO-field decoding (the "branch always unless bit 2 says check CTR, bit 4
says check CR" logic) is copied from the Rust source's XOR-based boolean
algebra rather than re-derived from spec.md's prose description, since the
exact operator precedence there is easy to get subtly wrong.
*/

package main

const (
	opBcx = 16
	opBx  = 18

	xoBcctrx = 528
	xoBclrx  = 16

	boDontDecrement = 0x4
)

func (c *CPU) installBranchOps() {
	c.primary[opBx] = opBxHandler
	c.primary[opBcx] = opBcxHandler
	c.table19[xoBcctrx] = opBcctrxHandler
	c.table19[xoBclrx] = opBclrxHandler
}

func opBxHandler(c *CPU, instr Instruction) {
	address := uint32(signExt26(instr.Li() << 2))
	if instr.Aa() {
		c.NIA = address
	} else {
		c.NIA = c.CIA + address
	}
	if instr.Lk() {
		c.SPR[SprLR] = c.CIA + 4
	}
}

func opBcxHandler(c *CPU, instr Instruction) {
	bo := instr.Bo()

	if bo&boDontDecrement == 0 {
		c.SPR[SprCTR]--
	}

	ctrOk := (bo>>2)&1 != 0 || ((boolToU8(c.SPR[SprCTR] != 0))^(bo>>1))&1 != 0
	condOk := (bo>>4)&1 != 0 || c.CR.GetBit(instr.Bi()) == (bo>>3)&1

	if ctrOk && condOk {
		address := uint32(signExt16(instr.Bd() << 2))
		if instr.Aa() {
			c.NIA = address
		} else {
			c.NIA = c.CIA + address
		}
		if instr.Lk() {
			c.SPR[SprLR] = c.CIA + 4
		}
	}
}

func opBcctrxHandler(c *CPU, instr Instruction) {
	bo := instr.Bo()
	condOk := ((bo>>4)|boolToU8(c.CR.GetBit(instr.Bi()) == (bo>>3)&1))&1 != 0
	if condOk {
		c.NIA = c.SPR[SprCTR] &^ 3
		if instr.Lk() {
			c.SPR[SprLR] = c.CIA + 4
		}
	}
}

func opBclrxHandler(c *CPU, instr Instruction) {
	bo := instr.Bo()
	if bo&boDontDecrement == 0 {
		c.SPR[SprCTR]--
	}
	ctrOk := ((bo>>2)|(boolToU8(c.SPR[SprCTR]!=0)^(bo>>1)))&1 != 0
	condOk := ((bo>>4)|boolToU8(c.CR.GetBit(instr.Bi()) == (bo>>3)&1))&1 != 0

	if ctrOk && condOk {
		c.NIA = c.SPR[SprLR] &^ 3
		if instr.Lk() {
			c.SPR[SprLR] = c.CIA + 4
		}
	}
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
