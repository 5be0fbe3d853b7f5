// cpu_tables.go - opcode dispatch table construction

/*
cpu_tables.go - five-table Gekko decode

Ported in shape from cpu_6502_opcode_table_gen.go's fill-the-whole-table-
then-overlay-real-handlers idiom, generalized from one 256-entry table to
the five PowerPC tables spec.md §4.1 names: the 64-slot primary table plus
extended-opcode subtables for primary opcodes 4, 19, 31, 59, and 63. Each
subtable is built once at construction and starts every slot pointed at the
shared illegal-instruction fallback so an un-overlaid slot (a genuinely
unimplemented opcode) reaches CPU.illegal instead of a nil-pointer panic.
*/

package main

func (c *CPU) initTables() {
	illegalPrimary := func(cpu *CPU, instr Instruction) { cpu.illegal(instr) }
	for i := range c.primary {
		c.primary[i] = illegalPrimary
	}
	for i := range c.table4 {
		c.table4[i] = illegalPrimary
	}
	for i := range c.table19 {
		c.table19[i] = illegalPrimary
	}
	for i := range c.table31 {
		c.table31[i] = illegalPrimary
	}
	for i := range c.table59 {
		c.table59[i] = illegalPrimary
	}
	for i := range c.table63 {
		c.table63[i] = illegalPrimary
	}

	c.installIntegerOps()
	c.installBranchOps()
	c.installLoadStoreOps()
	c.installSystemOps()
	c.installFPUOps()

	c.primary[4] = func(cpu *CPU, instr Instruction) { cpu.table4[instr.XO4()](cpu, instr) }
	c.primary[19] = func(cpu *CPU, instr Instruction) { cpu.table19[instr.XO()](cpu, instr) }
	c.primary[31] = func(cpu *CPU, instr Instruction) { cpu.table31[instr.XO()](cpu, instr) }
	c.primary[59] = func(cpu *CPU, instr Instruction) { cpu.table59[instr.XO59()](cpu, instr) }
	c.primary[63] = func(cpu *CPU, instr Instruction) { cpu.table63[instr.XO()](cpu, instr) }
}

// replicateReserved fills every slot of a subtable whose XO encodes unused
// high bits with the same handler as its canonical low-bit form, matching
// the real decoder's behavior of ignoring reserved bits rather than
// faulting on them. Used for opcode-4 (paired single) and opcode-63
// (double precision) extended forms where the 10-bit XO field has fewer
// than 10 architecturally meaningful bits.
func replicateReserved(table []func(*CPU, Instruction), canonical uint32, significantBits uint32, handler func(*CPU, Instruction)) {
	mask := uint32(1)<<significantBits - 1
	for xo := uint32(0); xo < uint32(len(table)); xo++ {
		if xo&mask == canonical&mask {
			table[xo] = handler
		}
	}
}
