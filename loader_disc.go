// loader_disc.go - GameCube disc image loader and apploader bootstrap

/*
loader_disc.go - ported from original_source's disc.rs

Boots a disc image the way real hardware does: read the 0x440-byte
header and validate its magic, then read the apploader at disc offset
0x2440 and run its entry point, ApplInit and ApplMain/ApplClose sequence
on the CPU itself. A BLR at the trampoline base serves as the OSReport
callback, the three words after it receive the apploader's function
pointers and transfer arguments, and each call runs with LR=0 so it
returns control here the moment PC reaches zero.
*/

package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

const discMagic = 0xC2339F3D

const (
	discHeaderSize       = 0x440
	discGameCodeOffset   = 0x00
	discMakerCodeOffset  = 0x04
	discMagicOffset      = 0x1C
	discApploaderOffset  = 0x2440
	discApploaderHdrSize = 0x20

	discApploaderEntryOffset   = 0x10
	discApploaderSizeOffset    = 0x14
	discApploaderTrailerOffset = 0x18

	discApploaderLoadAddress = 0x81200000
	discTrampolineBase       = 0x81300000
	blrInstruction            = 0x4E800020
)

// DiscImage wraps an open GameCube disc image file.
type DiscImage struct {
	file      *os.File
	gameCode  uint32
	makerCode uint16
}

// OpenDiscImage validates the disc magic and returns a handle ready for Load.
func OpenDiscImage(path string) (*DiscImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	header := make([]byte, discHeaderSize)
	if _, err := f.Read(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("disc: reading header: %w", err)
	}

	if magic := binary.BigEndian.Uint32(header[discMagicOffset:]); magic != discMagic {
		f.Close()
		return nil, fmt.Errorf("disc: bad magic %#08x, not a GameCube image", magic)
	}

	return &DiscImage{
		file:      f,
		gameCode:  binary.BigEndian.Uint32(header[discGameCodeOffset:]),
		makerCode: binary.BigEndian.Uint16(header[discMakerCodeOffset:]),
	}, nil
}

func (d *DiscImage) Close() error { return d.file.Close() }

// Load runs the disc's apploader to completion on cpu, leaving CIA at the
// game's real entry point (apploader's final GPR[3]) once done.
func (d *DiscImage) Load(cpu *CPU, bus *Bus) error {
	hdr := make([]byte, discApploaderHdrSize)
	if _, err := d.file.ReadAt(hdr, discApploaderOffset); err != nil {
		return fmt.Errorf("disc: reading apploader header: %w", err)
	}

	entry := binary.BigEndian.Uint32(hdr[discApploaderEntryOffset:])
	size := binary.BigEndian.Uint32(hdr[discApploaderSizeOffset:])

	body := make([]byte, size)
	if _, err := d.file.ReadAt(body, discApploaderOffset+discApploaderHdrSize); err != nil {
		return fmt.Errorf("disc: reading apploader body: %w", err)
	}
	bus.WriteBlock(discApploaderLoadAddress, body)

	const base = discTrampolineBase
	bus.Write32(base, blrInstruction) // dummy OSReport -> BLR

	d.runToReturn(cpu, entry, func() {
		cpu.GPR[3] = base + 0x4 // AplInit
		cpu.GPR[4] = base + 0x8 // AplMain
		cpu.GPR[5] = base + 0xC // AplClose
	})

	aplInit := bus.Read32(base + 0x4)
	aplMain := bus.Read32(base + 0x8)
	aplClose := bus.Read32(base + 0xC)

	d.runToReturn(cpu, aplInit, func() {
		cpu.GPR[3] = base // OSReport callback
	})

	for {
		d.runToReturn(cpu, aplMain, func() {
			cpu.GPR[3] = base + 0x4
			cpu.GPR[4] = base + 0x8
			cpu.GPR[5] = base + 0xC
		})
		if cpu.GPR[3] == 0 {
			break
		}

		addr := bus.Read32(base + 0x4)
		size := bus.Read32(base + 0x8)
		offset := bus.Read32(base + 0xC)
		if size > 0 {
			chunk := make([]byte, size)
			if _, err := d.file.ReadAt(chunk, int64(offset)); err != nil {
				return fmt.Errorf("disc: reading apploader transfer: %w", err)
			}
			bus.WriteBlock(addr, chunk)
		}
	}

	d.runToReturn(cpu, aplClose, func() {})

	cpu.EntryAt(cpu.GPR[3])
	return nil
}

// runToReturn sets up GPRs, points PC at entry with LR=0, and single-steps
// the CPU until PC returns to zero, the trampoline convention the real
// apploader protocol relies on.
func (d *DiscImage) runToReturn(cpu *CPU, entry uint32, setupArgs func()) {
	setupArgs()
	cpu.SPR[SprLR] = 0
	cpu.CIA = entry
	for cpu.CIA != 0 {
		cpu.Step()
	}
}
