// instruction.go - Gekko instruction word decoding

package main

// Instruction wraps one raw 32-bit big-endian instruction word and exposes
// the bitfield accessors the opcode handlers need. Field names follow the
// PowerPC manual's mnemonics (rA/rB/rD, BO/BI/BD, etc).
type Instruction uint32

func (i Instruction) Opcode() uint32 { return uint32(i) >> 26 }

func (i Instruction) D() int { return int((uint32(i) >> 21) & 0x1F) }
func (i Instruction) S() int { return int((uint32(i) >> 21) & 0x1F) }
func (i Instruction) A() int { return int((uint32(i) >> 16) & 0x1F) }
func (i Instruction) B() int { return int((uint32(i) >> 11) & 0x1F) }
func (i Instruction) C() int { return int((uint32(i) >> 6) & 0x1F) }

func (i Instruction) Simm() int16  { return int16(uint32(i) & 0xFFFF) }
func (i Instruction) Uimm() uint16 { return uint16(uint32(i) & 0xFFFF) }

// Li returns the raw 24-bit branch-target field of the unconditional
// branch instruction (bits 2-25), unshifted; callers apply <<2 then
// sign_ext_26, per the PowerPC encoding.
func (i Instruction) Li() int32 { return int32((uint32(i) >> 2) & 0xFFFFFF) }

func (i Instruction) Aa() bool { return uint32(i)&0x2 != 0 }
func (i Instruction) Lk() bool { return uint32(i)&0x1 != 0 }

func (i Instruction) Bo() uint8 { return uint8((uint32(i) >> 21) & 0x1F) }
func (i Instruction) Bi() int   { return int((uint32(i) >> 16) & 0x1F) }

// Bd is the raw 14-bit conditional-branch displacement field (bits 16-29
// of the instruction word), unshifted and unextended — callers apply
// <<2 then sign-extend from 16 bits, per the PowerPC encoding.
func (i Instruction) Bd() uint16 { return uint16((uint32(i) >> 2) & 0x3FFF) }

func (i Instruction) Oe() bool { return uint32(i)&0x400 != 0 }
func (i Instruction) Rc() bool { return uint32(i)&0x1 != 0 }

// XO is the 10-bit extended opcode field used by primary opcodes 19/31/63.
func (i Instruction) XO() uint32 { return (uint32(i) >> 1) & 0x3FF }

// XO4 is the 10-bit extended opcode field used by primary opcode 4 (paired
// single), decoded through a 1024-entry table; A-form entries are
// replicated across the slots whose top five bits hold FRC.
func (i Instruction) XO4() uint32 { return (uint32(i) >> 1) & 0x3FF }

// XO59 is the 5-bit extended opcode used by primary opcode 59 (single
// precision floating point arithmetic forms).
func (i Instruction) XO59() uint32 { return (uint32(i) >> 1) & 0x1F }

func (i Instruction) Spr() int {
	raw := (uint32(i) >> 11) & 0x3FF
	return int((raw&0x1F)<<5 | (raw >> 5))
}

func (i Instruction) Crm() uint8 { return uint8((uint32(i) >> 12) & 0xFF) }

func (i Instruction) Mb() uint8 { return uint8((uint32(i) >> 6) & 0x1F) }
func (i Instruction) Me() uint8 { return uint8((uint32(i) >> 1) & 0x1F) }
func (i Instruction) Sh() uint8 { return uint8((uint32(i) >> 11) & 0x1F) }

func (i Instruction) CrbD() int { return int((uint32(i) >> 21) & 0x1F) }
func (i Instruction) CrbA() int { return int((uint32(i) >> 16) & 0x1F) }
func (i Instruction) CrbB() int { return int((uint32(i) >> 11) & 0x1F) }

// QuantOffset, QuantW and QuantI decode the three fields unique to the
// quantized paired-single load/store forms (psq_l/psq_st): a 12-bit
// signed displacement (bits 16-27), the W bit selecting single-value
// (1) vs. paired (0) form (bit 28), and the 3-bit GQR index (bits 29-31).
func (i Instruction) QuantOffset() int32 { return signExt12(uint16((uint32(i) >> 4) & 0xFFF)) }
func (i Instruction) QuantW() bool       { return (uint32(i)>>3)&1 != 0 }
func (i Instruction) QuantI() int        { return int(uint32(i) & 0x7) }

func signExt12(v uint16) int32 { return (int32(v) << 20) >> 20 }
func signExt16(v uint16) int32 { return int32(int16(v)) }
func signExt26(v int32) int32  { return (v << 6) >> 6 }

// mask implements the PowerPC rlwinm-family bit mask generator: a run of
// set bits from mb to me inclusive, wrapping around bit 31 if me < mb.
// Ported exactly from original_source's cpu/util.rs — the wraparound case
// is easy to get backwards.
func mask(mb, me uint8) uint32 {
	m := uint32(0xFFFFFFFF) >> mb
	if me >= 31 {
		m ^= 0
	} else {
		m ^= 0xFFFFFFFF >> (me + 1)
	}
	if me < mb {
		return ^m
	}
	return m
}

func checkOverflowed(a, b, result uint32) bool {
	return ((a^result)&(b^result))>>31 != 0
}

func rotl32(v uint32, n uint8) uint32 {
	n &= 31
	return (v << n) | (v >> (32 - n))
}
