// cpu_system.go - Gekko privileged/system instruction handlers

/*
cpu_system.go - ported from original_source's cpu/ops/system.rs

mtspr's BAT-register routing and the rfi mask (0x87C0FF73, clearing MSR[POW]
via the extra 0xFFFBFFFF mask) are copied verbatim from the original; they
are not derivable from spec.md's summary-level description of "privileged
SPR moves."
*/

package main

const (
	opTwi = 3
	opSc  = 17

	xoMfmsr  = 83
	xoMfspr  = 339
	xoMtmsr  = 146
	xoMtspr  = 467
	xoRfi    = 50
	xoMtcrf  = 144
	xoMfcr   = 19
	xoSync   = 598
	xoIsync  = 150
)

const rfiMask = 0x87C0FF73

func (c *CPU) installSystemOps() {
	c.primary[opSc] = opScHandler
	c.table19[xoRfi] = opRfiHandler
	c.table31[xoMfmsr] = opMfmsrHandler
	c.table31[xoMfspr] = opMfsprHandler
	c.table31[xoMtmsr] = opMtmsrHandler
	c.table31[xoMtspr] = opMtsprHandler
	c.table31[xoMtcrf] = opMtcrfHandler
	c.table31[xoMfcr] = opMfcrHandler
	c.table31[xoSync] = opNopTick
	c.table31[xoIsync] = opNopTick
}

func opNopTick(c *CPU, instr Instruction) {}

func opScHandler(c *CPU, instr Instruction) {
	c.pending |= ExceptionSystemCall
}

func opMfmsrHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = c.MSR.AsUint32()
}

func opMtmsrHandler(c *CPU, instr Instruction) {
	c.MSR = MachineStatusFromUint32(c.GPR[instr.S()])
}

func opMfsprHandler(c *CPU, instr Instruction) {
	i := instr.Spr()
	switch i {
	case SprXER:
		c.GPR[instr.S()] = c.XER.AsUint32()
	case SprIBAT0U, SprIBAT1U, SprIBAT2U, SprIBAT3U:
		c.GPR[instr.S()] = c.MMU.ReadIBATU(batIndex(i, true))
	case SprIBAT0L, SprIBAT1L, SprIBAT2L, SprIBAT3L:
		c.GPR[instr.S()] = c.MMU.ReadIBATL(batIndex(i, false))
	case SprDBAT0U, SprDBAT1U, SprDBAT2U, SprDBAT3U:
		c.GPR[instr.S()] = c.MMU.ReadDBATU(batIndex(i, true))
	case SprDBAT0L, SprDBAT1L, SprDBAT2L, SprDBAT3L:
		c.GPR[instr.S()] = c.MMU.ReadDBATL(batIndex(i, false))
	case SprHID2:
		c.GPR[instr.S()] = c.HID2.AsUint32()
	default:
		c.GPR[instr.S()] = c.SPR[i]
	}
}

func opMtsprHandler(c *CPU, instr Instruction) {
	i := instr.Spr()
	v := c.GPR[instr.S()]
	c.SPR[i] = v

	switch i {
	case SprXER:
		c.XER.SetFromUint32(v)
	case SprIBAT0U, SprIBAT1U, SprIBAT2U, SprIBAT3U:
		c.MMU.WriteIBATU(batIndex(i, true), v)
	case SprIBAT0L, SprIBAT1L, SprIBAT2L, SprIBAT3L:
		c.MMU.WriteIBATL(batIndex(i, false), v)
	case SprDBAT0U, SprDBAT1U, SprDBAT2U, SprDBAT3U:
		c.MMU.WriteDBATU(batIndex(i, true), v)
	case SprDBAT0L, SprDBAT1L, SprDBAT2L, SprDBAT3L:
		c.MMU.WriteDBATL(batIndex(i, false), v)
	case SprHID2:
		c.HID2 = Hid2FromUint32(v)
	}
}

// batIndex maps an SPR number in the IBAT/DBAT ranges to its 0-3 index.
// The *U and *L halves of one pair map to the same index; upper is not
// consulted.
func batIndex(spr int, upper bool) int {
	switch {
	case spr >= SprIBAT0U && spr <= SprIBAT3L:
		return (spr - SprIBAT0U) / 2
	default:
		return (spr - SprDBAT0U) / 2
	}
}

func opMtcrfHandler(c *CPU, instr Instruction) {
	crm := instr.Crm()
	v := c.GPR[instr.S()]
	for field := 0; field < 8; field++ {
		if crm&(1<<uint(7-field)) != 0 {
			shift := uint(28 - 4*field)
			c.CR.SetField(field, uint8(v>>shift)&0xF)
		}
	}
}

func opMfcrHandler(c *CPU, instr Instruction) {
	c.GPR[instr.D()] = c.CR.AsUint32()
}

func opRfiHandler(c *CPU, instr Instruction) {
	srr1 := c.SPR[27]
	msr := c.MSR.AsUint32()
	msr = (msr &^ rfiMask) | (srr1 & rfiMask)
	msr &^= 0x00040000 // clear POW, matching the original's extra mask
	c.MSR = MachineStatusFromUint32(msr)
	c.NIA = c.SPR[26] &^ 3
}
