// xf.go - Transform Unit: XF register block addressed by LOAD_XF_REG

/*
xf.go - ported from original_source's video/xf.rs

The Transform Unit is the vertex-matrix/lighting register block the
Command Processor's LOAD_XF_REG opcode writes into. Actual transform and
lighting math is out of scope (no rasterizer); what's modeled is the
register decode itself, since the CP decode loop must consume exactly
xf_size words per LOAD_XF_REG command for its FIFO accounting to stay
correct, matching xf.rs's load().
*/

package main

import (
	"log"
	"math"
)

const (
	xfMemSize = 0x1000

	xfError        = 0x1000
	xfDiagnostics  = 0x1001
	xfState0       = 0x1002
	xfState1       = 0x1003
	xfClock        = 0x1004
	xfClipDisable  = 0x1005
	xfPerf0        = 0x1006
	xfNumColors    = 0x1009
	xfAmbient0     = 0x100A
	xfAmbient1     = 0x100B
	xfMaterial0    = 0x100C
	xfMaterial1    = 0x100D
	xfColor0       = 0x100E
	xfColor1       = 0x100F
	xfAlpha0       = 0x1010
	xfAlpha1       = 0x1011
	xfMatrixIndA   = 0x1018
	xfMatrixIndB   = 0x1019
	xfScaleX       = 0x101A
	xfScaleY       = 0x101B
	xfScaleZ       = 0x101C
	xfOffsetX      = 0x101D
	xfOffsetY      = 0x101E
	xfOffsetZ      = 0x101F
	xfNumTex       = 0x103F
	xfTextures0    = 0x1040
	xfTextures7    = 0x1047
	xfDualTex0     = 0x1050
	xfDualTex7     = 0x1057
)

// Viewport holds the XF's six viewport scale/offset registers, each stored
// as the IEEE-754 float the original reads with ram.read_f32.
type Viewport struct {
	scaleX, scaleY, scaleZ    float32
	offsetX, offsetY, offsetZ float32
}

type TransformUnit struct {
	data [xfMemSize]byte

	numColor      uint32
	ambientColor  [2]uint32
	materialColor [2]uint32
	color         [2]uint32
	alpha         [2]uint32
	viewport      Viewport
	matrixIndexA  uint32
	matrixIndexB  uint32
}

// Load consumes size words starting at index from bus, dispatching them to
// address (a raw data-block offset below 0x1000, or a named register at or
// above it), exactly as xf.rs's load does so the CP decode loop's fifo
// accounting for LOAD_XF_REG stays byte-exact.
func (xf *TransformUnit) Load(size, address uint32, bus *Bus, index uint32) {
	if size == 0 {
		panic("xf: zero-size load")
	}

	if address < 0x1000 {
		for i := uint32(0); i < size*4; i++ {
			xf.data[address+i] = bus.Read8(index + i)
		}
		return
	}

	for size > 0 && address < xfDualTex7+1 {
		switch {
		case address == xfError || address == xfDiagnostics || address == xfState0 ||
			address == xfState1 || address == xfClock || address == xfPerf0:
			// ignored
		case address == xfClipDisable:
			// ignored for now
		case address == xfNumColors:
			xf.numColor = bus.Read32(index)
		case address == xfAmbient0 || address == xfAmbient1:
			xf.ambientColor[address-xfAmbient0] = bus.Read32(index)
		case address == xfMaterial0 || address == xfMaterial1:
			xf.materialColor[address-xfMaterial0] = bus.Read32(index)
		case address == xfAlpha0 || address == xfAlpha1:
			xf.alpha[address-xfAlpha0] = bus.Read32(index)
		case address == xfMatrixIndA:
			xf.matrixIndexA = bus.Read32(index)
		case address == xfMatrixIndB:
			xf.matrixIndexB = bus.Read32(index)
		case address == xfColor0 || address == xfColor1:
			xf.color[address-xfColor0] = bus.Read32(index)
		case address == xfScaleX:
			xf.viewport.scaleX = readF32(bus, index)
		case address == xfScaleY:
			xf.viewport.scaleY = readF32(bus, index)
		case address == xfScaleZ:
			xf.viewport.scaleZ = readF32(bus, index)
		case address == xfOffsetX:
			xf.viewport.offsetX = readF32(bus, index)
		case address == xfOffsetY:
			xf.viewport.offsetY = readF32(bus, index)
		case address == xfOffsetZ:
			xf.viewport.offsetZ = readF32(bus, index)
		case address == xfNumTex:
			// ignored
		case address >= xfTextures0 && address <= xfTextures7:
			// ignored
		case address >= xfDualTex0 && address <= xfDualTex7:
			// ignored
		default:
			log.Printf("xf: unknown register write %#x size %#x", address, size)
		}

		index += 4
		size--
		address++
	}
}

func readF32(bus *Bus, addr uint32) float32 {
	return math.Float32frombits(bus.Read32(addr))
}
