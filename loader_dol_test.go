package main

import (
	"encoding/binary"
	"testing"
)

// buildDolFile constructs a minimal single-text-section DOL image: one
// text section containing payload at file offset 0xE4 (right after the
// header fields LoadDolFile reads), linked at loadAddr, plus an entry point.
func buildDolFile(payload []byte, loadAddr, entry uint32) []byte {
	file := make([]byte, 0xE4+len(payload))
	header := file[:0xE4]

	binary.BigEndian.PutUint32(header[dolTextOffsetBase:], 0xE4)
	binary.BigEndian.PutUint32(header[dolTextAddressBase:], loadAddr)
	binary.BigEndian.PutUint32(header[dolTextSizeBase:], uint32(len(payload)))
	binary.BigEndian.PutUint32(header[dolEntryPoint:], entry)

	copy(file[0xE4:], payload)
	return file
}

// TestDolLoadWritesSectionsAndEntry matches the documented DOL-load
// boundary scenario: a single text section lands verbatim at its linked
// address and the CPU's next instruction address becomes the DOL's entry
// point.
func TestDolLoadWritesSectionsAndEntry(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}
	const loadAddr = 0x80003000
	const entry = 0x80003100

	path := writeTempFile(t, buildDolFile(payload, loadAddr, entry))

	img, err := LoadDolFile(path)
	if err != nil {
		t.Fatalf("LoadDolFile failed: %v", err)
	}
	if img.entryPoint != entry {
		t.Fatalf("entry point = %#08x, want %#08x", img.entryPoint, entry)
	}

	ram := NewMemory()
	bus := NewBus(ram)
	mmu := &Mmu{}
	cpu := NewCPU(bus, mmu)

	img.Load(cpu, bus)

	got := bus.ReadBlock(loadAddr, len(payload))
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], payload[i])
		}
	}
	if cpu.NIA != entry {
		t.Fatalf("CPU NIA = %#08x, want entry point %#08x", cpu.NIA, entry)
	}
}
