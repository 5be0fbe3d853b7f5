// cpu_loadstore.go - Gekko integer load/store instruction handlers

/*
cpu_loadstore.go - ported from original_source's cpu/ops/load_store.rs

Effective-address computation (effectiveAddress and effectiveAddressUpdate
for the D-form instructions — rA==0 meaning "literal zero" only in the
non-update form) follows the original exactly; no indexed (X-form) loads or
stores are implemented here. spec.md §4.2 only describes the instructions
at the mnemonic level.
*/

package main

const (
	opLwz  = 32
	opLwzu = 33
	opLbz  = 34
	opLbzu = 35
	opStw  = 36
	opStwu = 37
	opStb  = 38
	opStbu = 39
	opLhz  = 40
	opLhzu = 41
	opLha  = 42
	opLhau = 43
	opSth  = 44
	opSthu = 45
	opLmw  = 46
	opStmw = 47
)

func (c *CPU) installLoadStoreOps() {
	c.primary[opLwz] = opLwzHandler
	c.primary[opLwzu] = opLwzuHandler
	c.primary[opLbz] = opLbzHandler
	c.primary[opLbzu] = opLbzuHandler
	c.primary[opStw] = opStwHandler
	c.primary[opStwu] = opStwuHandler
	c.primary[opStb] = opStbHandler
	c.primary[opStbu] = opStbuHandler
	c.primary[opLhz] = opLhzHandler
	c.primary[opLhzu] = opLhzuHandler
	c.primary[opLha] = opLhaHandler
	c.primary[opLhau] = opLhauHandler
	c.primary[opSth] = opSthHandler
	c.primary[opSthu] = opSthuHandler
	c.primary[opLmw] = opLmwHandler
	c.primary[opStmw] = opStmwHandler
}

// effectiveAddress computes the EA for the D-form (rA + SIMM) addressing
// mode, treating rA==0 as a literal zero per the PowerPC manual — used by
// the non-update load/store forms.
func effectiveAddress(c *CPU, instr Instruction) uint32 {
	simm := uint32(signExt16(uint16(instr.Simm())))
	if instr.A() == 0 {
		return simm
	}
	return c.GPR[instr.A()] + simm
}

// effectiveAddressUpdate computes the EA for the update forms, where rA is
// always used as a base register (rA==0 is an illegal encoding per spec).
func effectiveAddressUpdate(c *CPU, instr Instruction) uint32 {
	simm := uint32(signExt16(uint16(instr.Simm())))
	return c.GPR[instr.A()] + simm
}

func (c *CPU) dataAddress(ea uint32) uint32 {
	if c.MSR.DataAddressTranslate {
		phys, err := c.MMU.TranslateData(c.MSR, ea)
		if err != nil {
			panic(err.Error())
		}
		return phys
	}
	return ea
}

func opLwzHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = c.Bus.Read32(c.dataAddress(effectiveAddress(c, instr)))
}

func opLwzuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.GPR[instr.D()] = c.Bus.Read32(c.dataAddress(ea))
	c.GPR[instr.A()] = ea
}

func opLbzHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = uint32(c.Bus.Read8(c.dataAddress(effectiveAddress(c, instr))))
}

func opLbzuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.GPR[instr.D()] = uint32(c.Bus.Read8(c.dataAddress(ea)))
	c.GPR[instr.A()] = ea
}

func opStwHandler(c *CPU, instr Instruction) {
	c.Bus.Write32(c.dataAddress(effectiveAddress(c, instr)), c.GPR[instr.S()])
}

func opStwuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.Bus.Write32(c.dataAddress(ea), c.GPR[instr.S()])
	c.GPR[instr.A()] = ea
}

func opStbHandler(c *CPU, instr Instruction) {
	c.Bus.Write8(c.dataAddress(effectiveAddress(c, instr)), uint8(c.GPR[instr.S()]))
}

func opStbuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.Bus.Write8(c.dataAddress(ea), uint8(c.GPR[instr.S()]))
	c.GPR[instr.A()] = ea
}

func opLhzHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = uint32(c.Bus.Read16(c.dataAddress(effectiveAddress(c, instr))))
}

func opLhzuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.GPR[instr.D()] = uint32(c.Bus.Read16(c.dataAddress(ea)))
	c.GPR[instr.A()] = ea
}

func opLhaHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = uint32(int32(int16(c.Bus.Read16(c.dataAddress(effectiveAddress(c, instr))))))
}

func opLhauHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.GPR[instr.D()] = uint32(int32(int16(c.Bus.Read16(c.dataAddress(ea)))))
	c.GPR[instr.A()] = ea
}

func opSthHandler(c *CPU, instr Instruction) {
	c.Bus.Write16(c.dataAddress(effectiveAddress(c, instr)), uint16(c.GPR[instr.S()]))
}

func opSthuHandler(c *CPU, instr Instruction) {
	ea := effectiveAddressUpdate(c, instr)
	c.Bus.Write16(c.dataAddress(ea), uint16(c.GPR[instr.S()]))
	c.GPR[instr.A()] = ea
}

// opLmwHandler loads consecutive registers rD..r31 from consecutive words
// starting at EA, used by function prologues that spill many GPRs.
func opLmwHandler(c *CPU, instr Instruction) {
	ea := effectiveAddress(c, instr)
	for r := instr.D(); r <= 31; r++ {
		c.GPR[r] = c.Bus.Read32(c.dataAddress(ea))
		ea += 4
	}
}

func opStmwHandler(c *CPU, instr Instruction) {
	ea := effectiveAddress(c, instr)
	for r := instr.S(); r <= 31; r++ {
		c.Bus.Write32(c.dataAddress(ea), c.GPR[r])
		ea += 4
	}
}
