package main

import "testing"

// TestGatherPipeBurstDrain exercises the documented boundary scenario: a
// 32-byte write-gather burst lands at the Processor Interface's FIFO
// write pointer and the pointer advances by exactly the burst size.
func TestGatherPipeBurstDrain(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	pi := NewProcessorInterface()
	cp := NewCommandProcessor()
	gp := NewGPFifo(cp, pi, bus)

	pi.onWrite(PIBase+piFifoWritePtr, 4, 0x1000)
	cp.onWrite(CPBase+cpControl, 2, cpCtrlGpLinkEnable)

	for i := 0; i < 32; i++ {
		gp.WriteU8(uint8(i))
	}

	for i := 0; i < 32; i++ {
		got := bus.Read8(0x1000 + uint32(i))
		if got != uint8(i) {
			t.Fatalf("memory[%#x] = %#02x, want %#02x", 0x1000+i, got, i)
		}
	}
	if got := pi.FifoWritePointer(); got != 0x1020 {
		t.Fatalf("fifo write pointer = %#08x, want %#08x", got, 0x1020)
	}
	if gp.count != 0 {
		t.Fatalf("gather pipe should be empty after a full burst, count=%d", gp.count)
	}
}

// TestGatherPipePartialBurstHeld checks that fewer than 32 accumulated
// bytes stay buffered rather than draining early.
func TestGatherPipePartialBurstHeld(t *testing.T) {
	ram := NewMemory()
	bus := NewBus(ram)
	pi := NewProcessorInterface()
	cp := NewCommandProcessor()
	gp := NewGPFifo(cp, pi, bus)
	cp.onWrite(CPBase+cpControl, 2, cpCtrlGpLinkEnable)

	for i := 0; i < 31; i++ {
		gp.WriteU8(uint8(i))
	}
	if gp.count != 31 {
		t.Fatalf("count = %d, want 31 (no drain before a full burst)", gp.count)
	}
	if got := pi.FifoWritePointer(); got != 0 {
		t.Fatalf("fifo write pointer advanced before a full burst: %#08x", got)
	}
}
