// loader_dol.go - DOL executable loader

/*
loader_dol.go - ported from original_source's dol.rs

A DOL header packs up to 7 text and 11 data section (offset, address,
size) triples at fixed offsets, followed by a bss address/size and an
entry point; sections are copied verbatim into big-endian memory at their
linked addresses and the CPU is pointed at the entry point.
*/

package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	dolNumText = 7
	dolNumData = 11

	dolHeaderSize = 0x100

	dolTextOffsetBase  = 0x00
	dolDataOffsetBase  = 0x1C
	dolTextAddressBase = 0x48
	dolDataAddressBase = 0x64
	dolTextSizeBase    = 0x90
	dolDataSizeBase    = 0xAC
	dolBssAddress      = 0xD8
	dolBssSize         = 0xDC
	dolEntryPoint      = 0xE0
)

type dolSection struct {
	address uint32
	data    []byte
}

// DolImage is a parsed Nintendo DOL executable.
type DolImage struct {
	entryPoint uint32
	sections   []dolSection
}

// LoadDolFile reads and parses a DOL file from disk.
func LoadDolFile(path string) (*DolImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, dolHeaderSize)
	if _, err := f.Read(header[:0xE4]); err != nil {
		return nil, fmt.Errorf("dol: reading header: %w", err)
	}

	img := &DolImage{
		entryPoint: binary.BigEndian.Uint32(header[dolEntryPoint:]),
	}

	for i := 0; i < dolNumText; i++ {
		offset := binary.BigEndian.Uint32(header[dolTextOffsetBase+i*4:])
		if offset == 0 {
			break
		}
		addr := binary.BigEndian.Uint32(header[dolTextAddressBase+i*4:])
		size := binary.BigEndian.Uint32(header[dolTextSizeBase+i*4:])
		buf := make([]byte, size)
		if _, err := f.ReadAt(buf, int64(offset)); err != nil {
			return nil, fmt.Errorf("dol: reading text section %d: %w", i, err)
		}
		img.sections = append(img.sections, dolSection{address: addr, data: buf})
	}

	for i := 0; i < dolNumData; i++ {
		offset := binary.BigEndian.Uint32(header[dolDataOffsetBase+i*4:])
		if offset == 0 {
			break
		}
		addr := binary.BigEndian.Uint32(header[dolDataAddressBase+i*4:])
		size := binary.BigEndian.Uint32(header[dolDataSizeBase+i*4:])
		buf := make([]byte, size)
		if _, err := f.ReadAt(buf, int64(offset)); err != nil {
			return nil, fmt.Errorf("dol: reading data section %d: %w", i, err)
		}
		img.sections = append(img.sections, dolSection{address: addr, data: buf})
	}

	return img, nil
}

// Load writes every section into the bus and points the CPU at the entry
// point, ready to begin execution.
func (img *DolImage) Load(cpu *CPU, bus *Bus) {
	for _, s := range img.sections {
		bus.WriteBlock(s.address, s.data)
	}
	cpu.EntryAt(img.entryPoint)
}
