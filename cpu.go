// cpu.go - Gekko CPU core: register file, dispatch tables, fetch-decode-execute

/*
cpu.go - Gekko interpreter

Struct layout and construction follow the teacher's per-CPU-family idiom
(cpu_z80.go): a flat register-file struct, a handful of opcode dispatch
tables built once by init*Table() methods and filled with an illegal-
instruction default before real handlers are overlaid, and a Reset that
restores architectural reset state. The actual instruction semantics come
from original_source's cpu/ops/*.rs, not from the teacher (a Z80/6502/M68K
interpreter has nothing in common with Gekko's operations).
*/

package main

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	SprXER = 1
	SprLR  = 8
	SprCTR = 9

	SprIBAT0U = 528
	SprIBAT0L = 529
	SprIBAT1U = 530
	SprIBAT1L = 531
	SprIBAT2U = 532
	SprIBAT2L = 533
	SprIBAT3U = 534
	SprIBAT3L = 535
	SprDBAT0U = 536
	SprDBAT0L = 537
	SprDBAT1U = 538
	SprDBAT1L = 539
	SprDBAT2U = 540
	SprDBAT2L = 541
	SprDBAT3U = 542
	SprDBAT3L = 543

	SprHID2 = 920
	// SprWPAR (Write Pipe Address Register) holds the software-configured
	// gather-pipe base address. It needs no special mtspr/mfspr case: it
	// round-trips through the generic c.SPR map like any other SPR, and
	// the routing it configures is modeled by address instead — stores
	// whose effective address lands in GatherPipeBase..GatherPipeEnd are
	// already dispatched to the gather pipe by bus.go's MapIO, the same
	// mechanism every other MMIO peripheral uses.
	SprWPAR = 921
)

// ExceptionCause is a bitmask of pending exception classes, modeled as a
// bitmask rather than a control-flow unwind per spec.md §7's exception
// model.
type ExceptionCause uint32

const (
	ExceptionSystemReset ExceptionCause = 1 << iota
	ExceptionMachineCheck
	ExceptionDSI
	ExceptionISI
	ExceptionExternal
	ExceptionAlignment
	ExceptionProgram
	ExceptionFPUnavailable
	ExceptionDecrementer
	ExceptionSystemCall
)

var exceptionVector = map[ExceptionCause]uint32{
	ExceptionSystemReset:   0x00100,
	ExceptionMachineCheck:  0x00200,
	ExceptionDSI:           0x00300,
	ExceptionISI:           0x00400,
	ExceptionExternal:      0x00500,
	ExceptionAlignment:     0x00600,
	ExceptionProgram:       0x00700,
	ExceptionFPUnavailable: 0x00800,
	ExceptionDecrementer:   0x00900,
	ExceptionSystemCall:    0x00C00,
}

// Fpr is one paired-single floating-point register: two independent
// double-precision lanes, ps0 and ps1, each stored as raw IEEE-754 bits
// exactly as original_source's cpu.rs Fpr holds them. Scalar
// double-precision ops read/write ps0 only; the ps_* paired-single
// opcodes operate on both lanes independently.
type Fpr struct {
	ps0, ps1 uint64
}

func (f Fpr) Ps0() uint64 { return f.ps0 }
func (f Fpr) Ps1() uint64 { return f.ps1 }

func (f *Fpr) SetPs0(v uint64) { f.ps0 = v }
func (f *Fpr) SetPs1(v uint64) { f.ps1 = v }

func (f *Fpr) SetPs0F64(v float64) { f.ps0 = math.Float64bits(v) }
func (f *Fpr) SetPs1F64(v float64) { f.ps1 = math.Float64bits(v) }

func (f Fpr) Ps0AsF64() float64 { return math.Float64frombits(f.ps0) }
func (f Fpr) Ps1AsF64() float64 { return math.Float64frombits(f.ps1) }

// CPU is the Gekko instruction interpreter.
type CPU struct {
	GPR [32]uint32
	FPR [32]Fpr
	SPR map[int]uint32

	CR   ConditionRegister
	XER  Xer
	MSR  MachineStatus
	HID2 Hid2
	GQR  [8]Gqr

	CIA uint32 // current instruction address
	NIA uint32 // next instruction address

	MMU *Mmu
	Bus *Bus
	TB  TimeBase
	Dec Decrementer

	pending ExceptionCause
	extCause func() bool // polled for ExceptionExternal (PI aggregate)

	running atomic.Bool
	Cycles  uint64

	primary [64]func(*CPU, Instruction)
	table4  [1024]func(*CPU, Instruction)
	table19 [1024]func(*CPU, Instruction)
	table31 [1024]func(*CPU, Instruction)
	table59 [32]func(*CPU, Instruction)
	table63 [1024]func(*CPU, Instruction)

	onIllegal func(cpu *CPU, instr Instruction, cia uint32)
}

func NewCPU(bus *Bus, mmu *Mmu) *CPU {
	cpu := &CPU{
		SPR: make(map[int]uint32),
		MMU: mmu,
		Bus: bus,
	}
	cpu.initTables()
	cpu.Reset()
	return cpu
}

func (c *CPU) Running() bool     { return c.running.Load() }
func (c *CPU) SetRunning(v bool) { c.running.Store(v) }

// SetExternalInterruptSource wires the function the CPU polls to decide
// whether ExceptionExternal is currently asserted — in practice the
// Processor Interface's aggregate cause&mask test.
func (c *CPU) SetExternalInterruptSource(f func() bool) {
	c.extCause = f
}

func (c *CPU) Reset() {
	for i := range c.GPR {
		c.GPR[i] = 0
	}
	for i := range c.FPR {
		c.FPR[i] = Fpr{}
	}
	c.SPR = make(map[int]uint32)
	c.CR = ConditionRegister{}
	c.XER = Xer{}
	c.MSR = NewMachineStatus()
	c.HID2 = Hid2{}
	c.GQR = [8]Gqr{}
	c.CIA = 0
	c.NIA = 0
	c.pending = 0
	c.Cycles = 0
	c.TB = TimeBase{}
	c.Dec = Decrementer{}
}

// EntryAt sets the CPU's current and next-instruction address, used by the
// loader to hand off execution to an apploader trampoline or a DOL's entry
// point.
func (c *CPU) EntryAt(addr uint32) {
	c.NIA = addr
	c.CIA = addr
}

func (c *CPU) ExternalInterrupt(assert bool) {
	if assert {
		c.pending |= ExceptionExternal
	} else {
		c.pending &^= ExceptionExternal
	}
}

// fetch reads the big-endian instruction word at the CPU's current
// instruction address, translating through IBAT when instruction
// translation is enabled.
func (c *CPU) fetch() (Instruction, error) {
	addr := c.CIA
	if c.MSR.InstrAddressTranslate {
		phys, err := c.MMU.TranslateInstruction(c.MSR, addr)
		if err != nil {
			return 0, err
		}
		addr = phys
	}
	return Instruction(c.Bus.Read32(addr)), nil
}

// Step fetches, decodes, and executes exactly one instruction, then
// services any pending exception. It panics on an illegal/unimplemented
// opcode and on an untranslatable address, matching spec.md §7's fatal
// exception policy and the original rustcube's panic!-on-unimplemented
// behavior.
func (c *CPU) Step() {
	if c.extCause != nil {
		c.ExternalInterrupt(c.extCause())
	}

	c.TB.Tick()
	if c.TB.subtick == 0 {
		c.Dec.Tick()
	}
	if c.Dec.Pending {
		c.pending |= ExceptionDecrementer
	}

	instr, err := c.fetch()
	if err != nil {
		panic(err.Error())
	}

	c.CIA = normalizeCIA(c.CIA)
	c.NIA = c.CIA + 4
	c.dispatch(instr)
	c.CIA = c.NIA
	c.Cycles++

	c.serviceException()
}

func normalizeCIA(cia uint32) uint32 { return cia &^ 3 }

func (c *CPU) dispatch(instr Instruction) {
	op := instr.Opcode()
	handler := c.primary[op]
	if handler == nil {
		c.illegal(instr)
		return
	}
	handler(c, instr)
}

func (c *CPU) illegal(instr Instruction) {
	if c.onIllegal != nil {
		c.onIllegal(c, instr, c.CIA)
		return
	}
	panic(fmt.Sprintf("illegal or unimplemented instruction %#08x at %#08x", uint32(instr), c.CIA))
}

// serviceException checks for the highest-priority pending exception and,
// if one exists, vectors to its handler per spec.md §7. Exceptions other
// than the reset/machine-check class are masked by MSR[EE] when they are
// maskable (external, decrementer).
func (c *CPU) serviceException() {
	if c.pending == 0 {
		return
	}

	order := []ExceptionCause{
		ExceptionSystemReset,
		ExceptionMachineCheck,
		ExceptionDSI,
		ExceptionISI,
		ExceptionExternal,
		ExceptionAlignment,
		ExceptionProgram,
		ExceptionFPUnavailable,
		ExceptionDecrementer,
		ExceptionSystemCall,
	}

	for _, cause := range order {
		if c.pending&cause == 0 {
			continue
		}
		if (cause == ExceptionExternal || cause == ExceptionDecrementer) && !c.MSR.ExternalInterrupt {
			continue
		}
		c.vector(cause)
		c.pending &^= cause
		if cause == ExceptionDecrementer {
			c.Dec.Pending = false
		}
		return
	}
}

func (c *CPU) vector(cause ExceptionCause) {
	c.SPR[26] = c.NIA // SRR0: save-restore register 0 (address to resume at)
	c.SPR[27] = c.MSR.AsUint32()

	base := exceptionVector[cause]
	if c.MSR.ExceptionPrefix {
		base |= 0xFFF00000
	}
	c.NIA = base
	c.CIA = base

	c.MSR.ExternalInterrupt = false
	c.MSR.InstrAddressTranslate = false
	c.MSR.DataAddressTranslate = false
}
