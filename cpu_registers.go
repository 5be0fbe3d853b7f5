// cpu_registers.go - Gekko special-purpose register models

package main

// ConditionRegister holds the eight 4-bit condition-register fields (CR0-CR7).
// Bit layout within a field follows the PowerPC convention: bit 0 = LT,
// bit 1 = GT, bit 2 = EQ, bit 3 = SO.
type ConditionRegister struct {
	field [8]uint8
}

const (
	crLT = uint8(8)
	crGT = uint8(4)
	crEQ = uint8(2)
	crSO = uint8(1)
)

func (cr *ConditionRegister) SetField(index int, value uint8) {
	cr.field[index] = value & 0xF
}

func (cr *ConditionRegister) GetField(index int) uint8 {
	return cr.field[index]
}

// GetBit reads one of the 32 condition-register bits, numbered MSB-first
// across the eight 4-bit fields (bit 0 is CR0's LT bit).
func (cr *ConditionRegister) GetBit(index int) uint8 {
	return (cr.field[index/4] >> (3 - uint(index%4))) & 1
}

func (cr *ConditionRegister) SetBit(index int, value uint8) {
	n := index / 4
	shift := uint(3 - index%4)
	mask := uint8(1) << shift
	if value != 0 {
		cr.field[n] |= mask
	} else {
		cr.field[n] &^= mask
	}
}

// UpdateCR0 sets CR0 from a signed result and the XER's summary-overflow
// bit, per the Rc=1 side effect every integer op with a record form has.
func (cr *ConditionRegister) UpdateCR0(result uint32, xer *Xer) {
	switch {
	case result == 0:
		cr.field[0] = crEQ
	case result&0x80000000 != 0:
		cr.field[0] = crLT
	default:
		cr.field[0] = crGT
	}
	if xer.SummaryOverflow {
		cr.field[0] |= crSO
	}
}

func (cr *ConditionRegister) AsUint32() uint32 {
	var v uint32
	for i, f := range cr.field {
		v |= uint32(f) << uint(28-4*i)
	}
	return v
}

func (cr *ConditionRegister) SetFromUint32(v uint32) {
	for i := range cr.field {
		cr.field[i] = uint8(v>>uint(28-4*i)) & 0xF
	}
}

// Xer is the Integer Exception Register: SO/OV/CA plus the byte count used
// by string load/store instructions.
type Xer struct {
	SummaryOverflow bool
	Overflow        bool
	Carry           bool
	ByteCount       uint8
}

func (x *Xer) AsUint32() uint32 {
	var v uint32
	if x.SummaryOverflow {
		v |= 1 << 31
	}
	if x.Overflow {
		v |= 1 << 30
	}
	if x.Carry {
		v |= 1 << 29
	}
	v |= uint32(x.ByteCount) & 0x7F
	return v
}

func (x *Xer) SetFromUint32(v uint32) {
	x.SummaryOverflow = v&(1<<31) != 0
	x.Overflow = v&(1<<30) != 0
	x.Carry = v&(1<<29) != 0
	x.ByteCount = uint8(v & 0x7F)
}

// SetOverflow sets OV and, if it's true, latches SO (sticky per spec.md §4.1).
func (x *Xer) SetOverflow(overflow bool) {
	x.Overflow = overflow
	if overflow {
		x.SummaryOverflow = true
	}
}

// MachineStatus is the Gekko MSR.
type MachineStatus struct {
	PowerManagement        bool
	ExceptionLittleEndian  bool
	ExternalInterrupt      bool
	PrivilegeLevel         bool
	FloatingPoint          bool
	MachineCheck           bool
	FPExceptionMode0       bool
	FPExceptionMode1       bool
	SingleStepTrace        bool
	BranchTrace            bool
	ExceptionPrefix        bool
	InstrAddressTranslate  bool
	DataAddressTranslate   bool
	PerformanceMonitorMark bool
	ResetRecoverable       bool
	LittleEndian           bool
}

func NewMachineStatus() MachineStatus {
	return MachineStatus{ExceptionPrefix: true}
}

func (m MachineStatus) Pr() bool { return m.PrivilegeLevel }

func (m MachineStatus) AsUint32() uint32 {
	var v uint32
	set := func(b bool, shift uint) {
		if b {
			v |= 1 << shift
		}
	}
	set(m.PowerManagement, 18)
	set(m.ExceptionLittleEndian, 16)
	set(m.ExternalInterrupt, 15)
	set(m.PrivilegeLevel, 14)
	set(m.FloatingPoint, 13)
	set(m.MachineCheck, 12)
	set(m.FPExceptionMode0, 11)
	set(m.SingleStepTrace, 10)
	set(m.BranchTrace, 9)
	set(m.FPExceptionMode1, 8)
	set(m.ExceptionPrefix, 6)
	set(m.InstrAddressTranslate, 5)
	set(m.DataAddressTranslate, 4)
	set(m.PerformanceMonitorMark, 2)
	set(m.ResetRecoverable, 1)
	set(m.LittleEndian, 0)
	return v
}

func MachineStatusFromUint32(value uint32) MachineStatus {
	bit := func(shift uint) bool { return value&(1<<shift) != 0 }
	return MachineStatus{
		PowerManagement:        bit(18),
		ExceptionLittleEndian:  bit(16),
		ExternalInterrupt:      bit(15),
		PrivilegeLevel:         bit(14),
		FloatingPoint:          bit(13),
		MachineCheck:           bit(12),
		FPExceptionMode0:       bit(11),
		SingleStepTrace:        bit(10),
		BranchTrace:            bit(9),
		FPExceptionMode1:       bit(8),
		ExceptionPrefix:        bit(6),
		InstrAddressTranslate:  bit(5),
		DataAddressTranslate:   bit(4),
		PerformanceMonitorMark: bit(2),
		ResetRecoverable:       bit(1),
		LittleEndian:           bit(0),
	}
}

// Hid2 models the subset of HID2 that paired-single load/store cares about.
type Hid2 struct {
	LoadStoreQuantized bool
	WritePipe          bool
	PairedSingle       bool
	LockedCache        bool
	DMAQueueLength     uint8
}

func (h Hid2) AsUint32() uint32 {
	var v uint32
	if h.LoadStoreQuantized {
		v |= 1 << 31
	}
	if h.WritePipe {
		v |= 1 << 30
	}
	if h.PairedSingle {
		v |= 1 << 29
	}
	if h.LockedCache {
		v |= 1 << 28
	}
	v |= uint32(h.DMAQueueLength&0xF) << 24
	return v
}

func Hid2FromUint32(v uint32) Hid2 {
	return Hid2{
		LoadStoreQuantized: v&(1<<31) != 0,
		WritePipe:          v&(1<<30) != 0,
		PairedSingle:       v&(1<<29) != 0,
		LockedCache:        v&(1<<28) != 0,
		DMAQueueLength:     uint8(v>>24) & 0xF,
	}
}

// Gqr is one of the eight graphics quantization registers used by the
// paired-single quantized load/store instructions.
type Gqr uint32

func (g Gqr) LoadType() uint8  { return uint8(g>>16) & 0x7 }
func (g Gqr) StoreType() uint8 { return uint8(g) & 0x7 }
func (g Gqr) LoadScale() uint8 { return uint8(g>>24) & 0x3F }
func (g Gqr) StoreScale() uint8 { return uint8(g>>8) & 0x3F }
