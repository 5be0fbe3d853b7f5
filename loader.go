// loader.go - boot media format detection and dispatch

/*
loader.go - adapted from media_loader.go's extension-sniff-then-dispatch
idiom, retargeted from sound-format detection to GameCube boot media: a
.dol is a standalone executable, a .gcm/.iso is a disc image booted
through its apploader, anything else is treated as a raw IPL firmware
image.
*/

package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

type bootMediaType int

const (
	bootMediaDol bootMediaType = iota
	bootMediaDisc
	bootMediaIPL
)

func detectBootMedia(path string) bootMediaType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dol":
		return bootMediaDol
	case ".gcm", ".iso":
		return bootMediaDisc
	default:
		return bootMediaIPL
	}
}

// Boot loads path onto cpu/bus, dispatching by file extension, and leaves
// the CPU ready to begin execution at the resulting entry point.
func Boot(path string, cpu *CPU, bus *Bus, bootrom *Bootrom) error {
	switch detectBootMedia(path) {
	case bootMediaDol:
		img, err := LoadDolFile(path)
		if err != nil {
			return fmt.Errorf("loading dol: %w", err)
		}
		img.Load(cpu, bus)
		return nil
	case bootMediaDisc:
		disc, err := OpenDiscImage(path)
		if err != nil {
			return fmt.Errorf("opening disc image: %w", err)
		}
		defer disc.Close()
		if err := disc.Load(cpu, bus); err != nil {
			return fmt.Errorf("running apploader: %w", err)
		}
		return nil
	default:
		if err := bootrom.Load(path); err != nil {
			return fmt.Errorf("loading ipl: %w", err)
		}
		cpu.EntryAt(BootromBase | 0x100)
		cpu.CIA = BootromBase | 0x100
		return nil
	}
}
