package main

import "testing"

// TestCommandProcessorFifoRegisterRoundTrip exercises the CP's own FIFO
// ring register file (distinct from the Processor Interface's), written
// and read as hi/lo 16-bit halves per cp.rs's register layout.
func TestCommandProcessorFifoRegisterRoundTrip(t *testing.T) {
	cp := NewCommandProcessor()

	cp.onWrite(CPBase+cpFifoBaseHi, 2, 0x0001)
	cp.onWrite(CPBase+cpFifoBaseLo, 2, 0x2000)
	if got := cp.fifoBase; got != 0x00012000 {
		t.Fatalf("fifoBase = %#08x, want %#08x", got, 0x00012000)
	}

	cp.onWrite(CPBase+cpFifoEndHi, 2, 0x0001)
	cp.onWrite(CPBase+cpFifoEndLo, 2, 0x4000)
	if got := cp.fifoEnd; got != 0x00014000 {
		t.Fatalf("fifoEnd = %#08x, want %#08x", got, 0x00014000)
	}

	cp.onWrite(CPBase+cpFifoWritePointerHi, 2, 0x0001)
	cp.onWrite(CPBase+cpFifoWritePointerLo, 2, 0x2020)
	if got := cp.onRead(CPBase+cpFifoWritePointerLo, 2); got != 0x2020 {
		t.Fatalf("fifoWritePointer lo = %#08x, want %#08x", got, 0x2020)
	}
	if got := cp.onRead(CPBase+cpFifoWritePointerHi, 2); got != 0x0001 {
		t.Fatalf("fifoWritePointer hi = %#08x, want %#08x", got, 0x0001)
	}
}

// TestCommandProcessorInternalRegisterDispatch exercises the five internal
// register groups LOAD_CP_REG can target: the two matrix index registers
// and the three VAT groups across all eight VAT slots.
func TestCommandProcessorInternalRegisterDispatch(t *testing.T) {
	cp := NewCommandProcessor()

	cp.load(cpRegMatrixIndexA, 0x11111111)
	if cp.matrixIndexA != 0x11111111 {
		t.Fatalf("matrixIndexA = %#08x, want 0x11111111", cp.matrixIndexA)
	}
	cp.load(cpRegMatrixIndexB, 0x22222222)
	if cp.matrixIndexB != 0x22222222 {
		t.Fatalf("matrixIndexB = %#08x, want 0x22222222", cp.matrixIndexB)
	}

	for slot := uint8(0); slot < numVatRegs; slot++ {
		cp.load(cpRegVatGroup0|slot, 0x1000+uint32(slot))
		cp.load(cpRegVatGroup1|slot, 0x2000+uint32(slot))
		cp.load(cpRegVatGroup2|slot, 0x3000+uint32(slot))
	}
	for slot := 0; slot < numVatRegs; slot++ {
		v := cp.vat[slot]
		if v.group0 != 0x1000+uint32(slot) || v.group1 != 0x2000+uint32(slot) || v.group2 != 0x3000+uint32(slot) {
			t.Fatalf("vat[%d] = %+v, want group0/1/2 = 0x1000/2000/3000+%d", slot, v, slot)
		}
	}
}

// newLinkedCP returns a CommandProcessor with link enable set and a ring
// spanning [0x1000, 0x1100), ready to decode a burst written at fifoBase.
func newLinkedCP() *CommandProcessor {
	cp := NewCommandProcessor()
	cp.control = cpCtrlGpLinkEnable | cpCtrlGpFifoReadEnable
	cp.fifoBase = 0x1000
	cp.fifoEnd = 0x1100
	cp.fifoReadPointer = 0x1000
	cp.fifoWritePointer = 0x1000
	return cp
}

// TestGatherPipeBurstDecodesNops exercises the simplest opcode stream: a
// burst of NOPs should drain the ring to zero distance without error.
func TestGatherPipeBurstDecodesNops(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	cp := newLinkedCP()

	burst := make([]byte, gatherPipeBurst)
	bus.WriteBlock(cp.fifoWritePointer, burst)
	cp.GatherPipeBurst(bus, burst)

	if cp.fifoRwDistance != 0 {
		t.Fatalf("fifoRwDistance = %d, want 0 after draining an all-NOP burst", cp.fifoRwDistance)
	}
	if cp.fifoReadPointer != cp.fifoWritePointer {
		t.Fatalf("read pointer = %#x, want it to have caught up to write pointer %#x", cp.fifoReadPointer, cp.fifoWritePointer)
	}
}

// TestGatherPipeBurstLoadCPReg exercises the LOAD_CP_REG opcode (0x08)
// dispatching into the matrix-index-A register.
func TestGatherPipeBurstLoadCPReg(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	cp := newLinkedCP()

	burst := make([]byte, gatherPipeBurst)
	burst[0] = gpOpLoadCPReg
	burst[1] = cpRegMatrixIndexA
	burst[2], burst[3], burst[4], burst[5] = 0xDE, 0xAD, 0xBE, 0xEF
	bus.WriteBlock(cp.fifoWritePointer, burst)
	cp.GatherPipeBurst(bus, burst)

	if cp.matrixIndexA != 0xDEADBEEF {
		t.Fatalf("matrixIndexA = %#08x, want 0xDEADBEEF", cp.matrixIndexA)
	}
}

// TestGatherPipeBurstLoadBPReg exercises the LOAD_BP_REG opcode (0x61)
// dispatching into the BlittingProcessor's CLOCK_0 register.
func TestGatherPipeBurstLoadBPReg(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	cp := newLinkedCP()

	burst := make([]byte, gatherPipeBurst)
	burst[0] = gpOpLoadBPReg
	burst[1] = bpClock0
	burst[2], burst[3], burst[4] = 0x12, 0x34, 0x56
	bus.WriteBlock(cp.fifoWritePointer, burst)
	cp.GatherPipeBurst(bus, burst)

	if cp.bp.clock0 != 0x123456 {
		t.Fatalf("bp.clock0 = %#x, want 0x123456", cp.bp.clock0)
	}
}

// TestGatherPipeBurstShortOperandRewinds checks that a LOAD_BP_REG opcode
// with fewer than 4 trailing bytes in the ring rewinds the read pointer
// and stops, leaving the opcode to be re-decoded once more data arrives.
func TestGatherPipeBurstShortOperandRewinds(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	cp := newLinkedCP()
	cp.fifoEnd = 0x1000 + 8 // tiny ring: only 8 bytes total

	burst := []byte{gpOpLoadBPReg, 0, 0}
	bus.WriteBlock(cp.fifoWritePointer, burst)
	cp.GatherPipeBurst(bus, burst)

	if cp.fifoReadPointer != cp.fifoBase {
		t.Fatalf("read pointer = %#x, want it rewound to fifoBase %#x", cp.fifoReadPointer, cp.fifoBase)
	}
}

// TestGatherPipeBurstVertexOpcodePanics checks that a vertex-draw opcode
// (high bit set) panics, matching the original — there is no rasterizer
// behind this FIFO.
func TestGatherPipeBurstVertexOpcodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on a vertex opcode")
		}
	}()

	ram := NewMemory()
	bus := NewBus(ram)
	cp := newLinkedCP()

	burst := make([]byte, gatherPipeBurst)
	burst[0] = 0x90 // vertex opcode, format bits 0x10
	bus.WriteBlock(cp.fifoWritePointer, burst)
	cp.GatherPipeBurst(bus, burst)
}

// TestGatherPipeBurstPanicsWhenLinkDisabled checks the link-enable guard
// at the top of GatherPipeBurst.
func TestGatherPipeBurstPanicsWhenLinkDisabled(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when gp_link_enable is clear")
		}
	}()

	ram := NewMemory()
	bus := NewBus(ram)
	cp := NewCommandProcessor()

	burst := make([]byte, gatherPipeBurst)
	cp.GatherPipeBurst(bus, burst)
}

// TestBlittingProcessorRegisterDecode exercises a handful of BP registers
// with real side effects: IND_IMASK, EFB_BOXCOORD/SIZE, XFB_ADDR/STRIDE.
func TestBlittingProcessorRegisterDecode(t *testing.T) {
	var bp BlittingProcessor

	bp.Load(uint32(bpIndImask)<<24 | 0x00FF)
	if bp.imask != 0xFF {
		t.Fatalf("imask = %#x, want 0xFF", bp.imask)
	}

	bp.Load(uint32(bpEfbBoxCoord)<<24 | (10 << 10) | 20)
	if bp.efbCoord.x() != 10 || bp.efbCoord.y() != 20 {
		t.Fatalf("efbCoord = {%d %d}, want {10 20}", bp.efbCoord.x(), bp.efbCoord.y())
	}

	bp.Load(uint32(bpXfbAddr)<<24 | 0x001234)
	if bp.xfbAddr != 0x1234 {
		t.Fatalf("xfbAddr = %#x, want 0x1234", bp.xfbAddr)
	}

	bp.Load(uint32(bpXfbStride)<<24 | 40)
	if bp.xfbStride != 40 {
		t.Fatalf("xfbStride = %d, want 40", bp.xfbStride)
	}
}

// TestBlittingProcessorCopyControlRendersToXFB checks that COPY_CONTROL
// with CopyToXfb set logs rather than panics (the panic path is for
// EFB->texture copies, which this emulator never performs).
func TestBlittingProcessorCopyControlRendersToXFB(t *testing.T) {
	var bp BlittingProcessor
	bp.dispCopyYScale = 256
	bp.efbBoxSize = bpCoord(0)

	bp.Load(uint32(bpCopyControl)<<24 | copyCtrlCopyToXfb)
}

// TestTransformUnitRawDataLoad exercises the raw sub-0x1000 data-block
// path: bytes are copied verbatim from the ring into xf.data.
func TestTransformUnitRawDataLoad(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	var xf TransformUnit

	bus.WriteBlock(0x2000, []byte{1, 2, 3, 4})
	xf.Load(1, 0x10, bus, 0x2000)

	if xf.data[0x10] != 1 || xf.data[0x11] != 2 || xf.data[0x12] != 3 || xf.data[0x13] != 4 {
		t.Fatalf("xf.data[0x10:0x14] = %v, want [1 2 3 4]", xf.data[0x10:0x14])
	}
}

// TestTransformUnitNamedRegisterLoad exercises the named-register path:
// XF_NUMCOLORS and the viewport scale registers.
func TestTransformUnitNamedRegisterLoad(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	var xf TransformUnit

	bus.Write32(0x2000, 3)
	xf.Load(1, xfNumColors, bus, 0x2000)
	if xf.numColor != 3 {
		t.Fatalf("numColor = %d, want 3", xf.numColor)
	}

	bus.Write32(0x2004, 0x3F800000) // 1.0f
	xf.Load(1, xfScaleX, bus, 0x2004)
	if xf.viewport.scaleX != 1.0 {
		t.Fatalf("viewport.scaleX = %v, want 1.0", xf.viewport.scaleX)
	}
}

// TestGatherPipeRegisterIOWiring confirms the write-gather window drains
// through to the Command Processor's decode loop when reached via the
// bus, not just via GPFifo.WriteU8 directly.
func TestGatherPipeRegisterIOWiring(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	pi := NewProcessorInterface()
	cp := newLinkedCP()
	gp := NewGPFifo(cp, pi, bus)
	gp.RegisterIO(bus)

	pi.onWrite(PIBase+piFifoWritePtr, 4, 0x3000)

	for i := 0; i < gatherPipeBurst; i++ {
		bus.Write8(GatherPipeBase, 0) // NOP stream
	}

	if cp.fifoRwDistance != 0 {
		t.Fatalf("fifoRwDistance = %d, want 0 after a bus-routed NOP burst", cp.fifoRwDistance)
	}
}
