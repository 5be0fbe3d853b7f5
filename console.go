// console.go - interactive command-line debugger front end

/*
console.go - adapted from rcornwell-S370/command/reader/reader.go's
ConsoleReader: a liner-backed prompt loop with history and tab
completion, dispatching each line to a small command table instead of
driving a configuration-file command parser.
*/

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// Console is the REPL wired to a running Machine. Stepping commands act
// directly on the CPU; continue/stop toggle the background Run loop via
// the same atomic running flag the CPU already exposes.
type Console struct {
	m       *Machine
	line    *liner.State
	debug   *GekkoDebugAdapter
}

func NewConsole(m *Machine) *Console {
	return &Console{m: m, line: liner.NewLiner(), debug: NewGekkoDebugAdapter(m.cpu)}
}

var consoleCommands = []string{
	"step", "continue", "stop", "regs", "mem", "break", "watch", "quit", "help",
}

func (c *Console) Run() {
	defer c.line.Close()

	c.line.SetCtrlCAborts(true)
	c.line.SetCompleter(func(line string) []string {
		var out []string
		for _, cmd := range consoleCommands {
			if strings.HasPrefix(cmd, line) {
				out = append(out, cmd)
			}
		}
		return out
	})

	for {
		input, err := c.line.Prompt("gcemu> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line:", err)
			return
		}
		c.line.AppendHistory(input)

		if quit := c.dispatch(strings.Fields(input)); quit {
			return
		}
	}
}

func (c *Console) dispatch(fields []string) (quit bool) {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "step", "s":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			c.debug.Step()
		}
		c.printRegs()
	case "continue", "c":
		c.m.cpu.SetRunning(true)
		fmt.Println("running")
	case "stop":
		c.m.cpu.SetRunning(false)
		fmt.Println("stopped")
	case "regs", "r":
		c.printRegs()
	case "mem", "m":
		if len(fields) < 2 {
			fmt.Println("usage: mem <addr> [count]")
			return false
		}
		c.printMem(fields[1:])
	case "break", "b":
		c.breakCmd(fields[1:])
	case "watch", "w":
		c.watchCmd(fields[1:])
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Println("commands: step [n], continue, stop, regs, mem <addr> [count], break <addr>|clear <addr>|list, watch <addr>|clear <addr>|list, quit")
	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}

func (c *Console) printRegs() {
	cpu := c.m.cpu
	fmt.Printf("CIA=%#08x NIA=%#08x LR=%#08x CTR=%#08x\n", cpu.CIA, cpu.NIA, cpu.SPR[SprLR], cpu.SPR[SprCTR])
	for i := 0; i < 32; i += 4 {
		fmt.Printf("r%-2d=%#08x r%-2d=%#08x r%-2d=%#08x r%-2d=%#08x\n",
			i, cpu.GPR[i], i+1, cpu.GPR[i+1], i+2, cpu.GPR[i+2], i+3, cpu.GPR[i+3])
	}
}

func (c *Console) breakCmd(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: break <addr>|clear <addr>|list")
		return
	}
	switch args[0] {
	case "list":
		for _, addr := range c.debug.ListBreakpoints() {
			fmt.Printf("%#08x\n", addr)
		}
	case "clear":
		if len(args) < 2 {
			fmt.Println("usage: break clear <addr>")
			return
		}
		addr := parseHex(args[1])
		c.debug.ClearBreakpoint(addr)
	default:
		addr := parseHex(args[0])
		c.debug.SetBreakpoint(addr)
		fmt.Printf("breakpoint set at %#08x\n", addr)
	}
}

func (c *Console) watchCmd(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: watch <addr>|clear <addr>|list")
		return
	}
	switch args[0] {
	case "list":
		for _, addr := range c.debug.ListWatchpoints() {
			fmt.Printf("%#08x\n", addr)
		}
	case "clear":
		if len(args) < 2 {
			fmt.Println("usage: watch clear <addr>")
			return
		}
		addr := parseHex(args[1])
		c.debug.ClearWatchpoint(addr)
	default:
		addr := parseHex(args[0])
		c.debug.SetWatchpoint(addr)
		fmt.Printf("watchpoint set at %#08x\n", addr)
	}
}

func parseHex(s string) uint64 {
	v, _ := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	return v
}

func (c *Console) printMem(args []string) {
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		fmt.Println("bad address:", args[0])
		return
	}
	count := 16
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil {
			count = v
		}
	}
	base := uint32(addr)
	for i := 0; i < count; i += 4 {
		fmt.Printf("%#08x: %#08x\n", base+uint32(i), c.m.bus.Read32(base+uint32(i)))
	}
}
