// memory.go - Main RAM for the GameCube memory subsystem

package main

import (
	"encoding/binary"
	"sync"
)

// MainMemorySize is the GameCube's 24 MiB of main RAM (MEM1).
const MainMemorySize = 24 * 1024 * 1024

// Memory is a flat, big-endian byte array backing physical RAM. The Gekko
// bus is big-endian end to end, unlike the teacher's little-endian retro
// buses, so every multi-byte access here uses binary.BigEndian.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{data: make([]byte, MainMemorySize)}
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.data {
		m.data[i] = 0
	}
}

func (m *Memory) Read8(addr uint32) uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[addr%MainMemorySize]
}

func (m *Memory) Write8(addr uint32, v uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[addr%MainMemorySize] = v
}

func (m *Memory) Read16(addr uint32) uint16 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := addr % MainMemorySize
	return binary.BigEndian.Uint16(m.data[a : a+2])
}

func (m *Memory) Write16(addr uint32, v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := addr % MainMemorySize
	binary.BigEndian.PutUint16(m.data[a:a+2], v)
}

func (m *Memory) Read32(addr uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := addr % MainMemorySize
	return binary.BigEndian.Uint32(m.data[a : a+4])
}

func (m *Memory) Write32(addr uint32, v uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := addr % MainMemorySize
	binary.BigEndian.PutUint32(m.data[a:a+4], v)
}

func (m *Memory) Read64(addr uint32) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := addr % MainMemorySize
	return binary.BigEndian.Uint64(m.data[a : a+8])
}

func (m *Memory) Write64(addr uint32, v uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := addr % MainMemorySize
	binary.BigEndian.PutUint64(m.data[a:a+8], v)
}

// WriteBlock DMAs a raw byte slice into memory, used by the DOL/disc
// loaders and the gather-pipe burst drain.
func (m *Memory) WriteBlock(addr uint32, block []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := addr % MainMemorySize
	copy(m.data[a:], block)
}

// ReadBlock copies a raw byte range out of memory, used by the debug
// adapter's ReadMemory and the DSP's ARAM DMA.
func (m *Memory) ReadBlock(addr uint32, length int) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := addr % MainMemorySize
	out := make([]byte, length)
	copy(out, m.data[a:])
	return out
}
