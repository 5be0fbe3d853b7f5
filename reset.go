// reset.go - hard reset support for every bus component

/*
reset.go - adapted from component_reset.go's per-component Reset()
idiom: every component gets its own Reset method that restores it to
constructor defaults in place, and one top-level orchestrator (here
Machine.Reset) calls each of them in turn plus the CPU and main RAM.
*/

package main

func (pi *ProcessorInterface) Reset() {
	pi.cause = 0
	pi.mask = 0
	pi.fifoStart = 0
	pi.fifoEnd = 0
	pi.fifoWritePtr = 0
}

func (vi *VideoInterface) Reset() {
	vi.verticalTiming = 0
	vi.config = 0
	vi.htr0, vi.htr1 = 0, 0
	vi.vto, vi.vte = 0, 0
	vi.bbOdd, vi.bbEven = 0, 0
	vi.fbTopLeft = 0
	vi.beamPosition = 0
	vi.di = [4]viDisplayInterrupt{}
	vi.scalingWidth = 0
	vi.clockSelect = 0
	vi.halfLineCount = 0
}

func (ai *AudioInterface) Reset() {
	ai.control = 0
	ai.volume = 0
	ai.sampleCounter = 0
	ai.interruptTiming = 0
}

func (di *DvdInterface) Reset() {
	di.status = 0
	di.coverStatus = 0
	di.cmdBuf0, di.cmdBuf1, di.cmdBuf2 = 0, 0, 0
	di.dmaAddress = 0
	di.dmaLength = 0
	di.control = 0
	di.config = 0
}

func (si *SerialInterface) Reset() {
	si.poll = 0
	si.commAndControl = 0
	si.status = 0
	si.clockCount = 0
}

func (exi *ExternalInterface) Reset() {
	for i := range exi.channels {
		ipl := exi.channels[i].ipl
		exi.channels[i] = exiChannel{ipl: ipl}
		if ipl != nil {
			ipl.command = 0
			ipl.address = 0
			ipl.write = false
		}
	}
}

func (dsp *DspInterface) Reset() {
	dsp.mailboxIn = dspMailbox{}
	dsp.mailboxOut = dspMailbox{}
	dsp.control = 0
	dsp.aramRefresh = 0
	dsp.dmaMainAddr = 0
	dsp.dmaAramAddr = 0
	dsp.dmaLength = 0
	for i := range dsp.aram {
		dsp.aram[i] = 0
	}
}

func (pe *PixelEngine) Reset() {
	pe.zConfig = 0
	pe.alphaConfig = 0
	pe.destinationAlpha = 0
	pe.alphaMode = 0
	pe.alphaRead = 0
	pe.control = 0
	pe.token = 0
	pe.signalTokenIrq = false
	pe.signalFinishIrq = false
}

func (mi *MemoryInterface) Reset() {
	mi.regs = [0x40]uint32{}
}

func (cp *CommandProcessor) Reset() {
	cp.status = 0
	cp.control = 0
}

// Reset restores the whole machine to power-on state: RAM cleared, every
// peripheral's own Reset run (which zeroes its main registers, not every
// one), the gather-pipe drained, and the CPU back to its architectural
// reset vector at the IPL boot ROM.
func (m *Machine) Reset() {
	m.bus.Reset()
	m.pi.Reset()
	m.vi.Reset()
	m.ai.Reset()
	m.di.Reset()
	m.si.Reset()
	m.exi.Reset()
	m.dsp.Reset()
	m.pe.Reset()
	m.mi.Reset()
	m.cp.Reset()
	m.gp.Reset()
	m.dc.Reset(0x8000)
	m.cpu.Reset()
	m.cpu.EntryAt(BootromBase | 0x100)
}
