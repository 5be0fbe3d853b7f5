package main

import "testing"

func newTestCPU() *CPU {
	ram := NewMemory()
	bus := NewBus(ram)
	mmu := &Mmu{}
	return NewCPU(bus, mmu)
}

// encodeD builds a D-form instruction word: opcode(6) rD/rS(5) rA(5) simm(16).
func encodeD(opcode uint32, d, a int, simm uint16) Instruction {
	return Instruction(opcode<<26 | uint32(d)<<21 | uint32(a)<<16 | uint32(simm))
}

// TestAddicCarryOnUnsignedOverflow checks addic sets XER.Carry exactly
// when the unsigned addition wraps, per original_source's integer.rs.
func TestAddicCarryOnUnsignedOverflow(t *testing.T) {
	c := newTestCPU()
	c.GPR[3] = 0xFFFFFFFF
	instr := encodeD(12, 4, 3, 1) // addic r4, r3, 1
	opAddicHandler(c, instr)

	if c.GPR[4] != 0 {
		t.Fatalf("r4 = %#08x, want 0", c.GPR[4])
	}
	if !c.XER.Carry {
		t.Fatal("addic should set carry on unsigned wraparound")
	}
}

func TestAddicNoCarry(t *testing.T) {
	c := newTestCPU()
	c.GPR[3] = 5
	instr := encodeD(12, 4, 3, 10)
	opAddicHandler(c, instr)

	if c.GPR[4] != 15 {
		t.Fatalf("r4 = %d, want 15", c.GPR[4])
	}
	if c.XER.Carry {
		t.Fatal("addic should not set carry when there is no wraparound")
	}
}

// TestSubficCarryIsNoBorrow checks subfic's carry meaning: set when the
// subtraction needed no borrow, i.e. simm >= ra (unsigned).
func TestSubficCarryIsNoBorrow(t *testing.T) {
	c := newTestCPU()
	c.GPR[3] = 3
	instr := encodeD(8, 4, 3, 10) // subfic r4, r3, 10 -> 10 - 3
	opSubficHandler(c, instr)

	if c.GPR[4] != 7 {
		t.Fatalf("r4 = %d, want 7", c.GPR[4])
	}
	if !c.XER.Carry {
		t.Fatal("subfic should set carry when simm >= ra (no borrow)")
	}
}

func TestSubficCarryClearOnBorrow(t *testing.T) {
	c := newTestCPU()
	c.GPR[3] = 10
	instr := encodeD(8, 4, 3, 3) // subfic r4, r3, 3 -> 3 - 10, borrows
	opSubficHandler(c, instr)

	if c.XER.Carry {
		t.Fatal("subfic should clear carry when simm < ra (borrow)")
	}
}

// TestCR0StickySummaryOverflow checks that UpdateCR0 copies XER's sticky
// SO bit into CR0 regardless of whether this particular instruction
// itself overflowed, matching cpu/condition_register.rs's UpdateCR0.
func TestCR0StickySummaryOverflow(t *testing.T) {
	c := newTestCPU()
	c.XER.SummaryOverflow = true
	c.GPR[3] = 1

	instr := encodeD(12, 4, 3, 1)
	opAddicRHandler(c, instr) // addic. r4, r3, 1

	field := c.CR.GetField(0)
	if field&crSO == 0 {
		t.Fatal("CR0's SO bit should reflect XER.SummaryOverflow even when this op did not overflow")
	}
}
