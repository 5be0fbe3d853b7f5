// si.go - Serial Interface: controller polling register file

/*
si.go - ported from original_source's si.rs

Real controller-poll DMA and joybus protocol are out of scope (no input
device backend is wired); this keeps the register file, including the
tcint/rdstint write-1-to-clear bits si.rs implements, so apploader code
that probes SI's status register during boot sees believable values.
*/

package main

import "log"

const (
	siPoll        = 0x30
	siCommControl = 0x34
	siStatus      = 0x38
	siExiClock    = 0x3C
	siIOBuffer    = 0x80
)

const (
	siRdstInt = 1 << 27
	siTcInt   = 1 << 31
)

type SerialInterface struct {
	poll           uint32
	commAndControl uint32
	status         uint32
	clockCount     uint32
}

func NewSerialInterface() *SerialInterface { return &SerialInterface{} }

func (si *SerialInterface) RegisterIO(bus *Bus) {
	bus.MapIO(SIBase, SIEnd, si.onRead, si.onWrite)
}

func (si *SerialInterface) onRead(addr uint32, size int) uint32 {
	reg := addr - SIBase
	switch reg {
	case siCommControl:
		return si.commAndControl
	case siStatus:
		return si.status
	case siExiClock:
		return si.clockCount
	default:
		log.Printf("si: read from unrecognized register %#x", reg)
		return 0
	}
}

func (si *SerialInterface) onWrite(addr uint32, size int, value uint32) {
	reg := addr - SIBase
	switch reg {
	case siPoll:
		si.poll = value
	case siCommControl:
		value &^= siRdstInt
		value &^= siTcInt
		si.commAndControl = value
	case siStatus:
		si.status = value
	case siExiClock:
		si.clockCount = value
	case siIOBuffer:
		// controller input buffer, ignored without a backend device
	default:
		log.Printf("si: write to unrecognized register %#x = %#x", reg, value)
	}
}
