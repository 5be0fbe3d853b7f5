// ai.go - Audio Interface: streaming sample-rate clock and interrupt timer

/*
ai.go - ported from original_source's ai.rs

Actual PCM mixing is out of scope; what survives is the control register's
play/stop and sample-counter/interrupt-timing comparison, which is the part
that interacts with the CPU (an AI interrupt on the sample counter crossing
interrupt_timing, used by audio streaming code to refill a DMA buffer).
*/

package main

import "log"

const (
	aiControlStatus  = 0x00
	aiVolume         = 0x04
	aiSampleCounter  = 0x08
	aiInterruptTimer = 0x0C
)

const (
	aiPstat    = 1 << 0
	aiAfr      = 1 << 1
	aiIntMask  = 1 << 2
	aiInt      = 1 << 3
	aiIntValid = 1 << 4
	aiScReset  = 1 << 5
)

var aiSampleRates = [2]uint32{48000, 32000}

type AudioInterface struct {
	pi *ProcessorInterface

	control         uint32
	volume          uint32
	sampleCounter   uint32
	interruptTiming uint32
	sampleRate      uint32
}

func NewAudioInterface(pi *ProcessorInterface) *AudioInterface {
	return &AudioInterface{pi: pi, sampleRate: aiSampleRates[0]}
}

func (ai *AudioInterface) RegisterIO(bus *Bus) {
	bus.MapIO(AIBase, AIEnd, ai.onRead, ai.onWrite)
}

func (ai *AudioInterface) onRead(addr uint32, size int) uint32 {
	reg := addr - AIBase
	switch reg {
	case aiControlStatus:
		return ai.control
	case aiSampleCounter:
		return ai.sampleCounter
	case aiVolume:
		return ai.volume
	default:
		log.Printf("ai: read from unrecognized register %#x", reg)
		return 0
	}
}

func (ai *AudioInterface) onWrite(addr uint32, size int, value uint32) {
	reg := addr - AIBase
	switch reg {
	case aiControlStatus:
		prevAfr := ai.control & aiAfr
		if value&aiInt != 0 {
			value &^= aiInt
		}
		if value&aiScReset != 0 {
			ai.sampleCounter = 0
		}
		ai.control = value &^ aiScReset
		if value&aiAfr != prevAfr {
			if value&aiAfr != 0 {
				ai.sampleRate = aiSampleRates[1]
			} else {
				ai.sampleRate = aiSampleRates[0]
			}
		}
		ai.updateInterrupt()
	case aiVolume:
		ai.volume = value
	case aiInterruptTimer:
		ai.interruptTiming = value
	default:
		log.Printf("ai: write to unrecognized register %#x = %#x", reg, value)
	}
}

// Tick advances the streaming sample counter, raising AI's interrupt once it
// passes the configured timing threshold, mirroring ai.rs's update().
func (ai *AudioInterface) Tick() {
	if ai.control&aiPstat == 0 {
		return
	}
	if ai.sampleCounter > ai.interruptTiming {
		ai.control |= aiInt
		ai.updateInterrupt()
	}
	ai.sampleCounter++
}

func (ai *AudioInterface) updateInterrupt() {
	if ai.control&aiInt != 0 && ai.control&aiIntMask != 0 {
		ai.pi.SetInterrupt(PIInterruptAI)
	} else {
		ai.pi.ClearInterrupt(PIInterruptAI)
	}
}
