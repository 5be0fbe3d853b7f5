// main.go - entry point: wires CPU, bus, MMU and every peripheral together

/*
main.go - adapted from rcornwell-S370/main.go's getopt/signal-handling
shape, keeping the teacher's own banner idiom (boilerPlate) but dropping
the dual retro-CPU selection and GUI wiring entirely: there is exactly
one CPU family here, no display output, and boot media is an ordinary
file path rather than a -ie32/-m68k mode flag.
*/

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"
)

func boilerPlate() {
	fmt.Println("rustcube-debugger - a GameCube hardware interpreter")
	fmt.Println("Gekko CPU, MEM1, VI/AI/DI/SI/EXI/DSP/PE/MI/CP, DOL/disc/IPL loader")
}

// Machine bundles every component main needs to hold onto for the life
// of the process: the CPU, the bus, and every peripheral that needs a
// periodic Tick alongside CPU execution.
type Machine struct {
	cpu *CPU
	bus *Bus
	mmu *Mmu

	pi  *ProcessorInterface
	vi  *VideoInterface
	ai  *AudioInterface
	di  *DvdInterface
	si  *SerialInterface
	exi *ExternalInterface
	dsp *DspInterface
	dc  *DspCpu
	pe  *PixelEngine
	mi  *MemoryInterface
	cp  *CommandProcessor
	gp  *GPFifo

	rom *Bootrom
}

func NewMachine() *Machine {
	ram := NewMemory()
	bus := NewBus(ram)
	mmu := &Mmu{}
	cpu := NewCPU(bus, mmu)

	pi := NewProcessorInterface()
	vi := NewVideoInterface(pi)
	ai := NewAudioInterface(pi)
	di := NewDvdInterface(pi)
	si := NewSerialInterface()
	exi := NewExternalInterface(bus)
	dsp := NewDspInterface(pi, bus)
	dc := NewDspCpu(dsp)
	pe := NewPixelEngine(pi)
	mi := NewMemoryInterface()
	cp := NewCommandProcessor()
	gp := NewGPFifo(cp, pi, bus)
	rom := NewBootrom()

	pi.RegisterIO(bus)
	vi.RegisterIO(bus)
	ai.RegisterIO(bus)
	di.RegisterIO(bus)
	si.RegisterIO(bus)
	exi.RegisterIO(bus)
	dsp.RegisterIO(bus)
	pe.RegisterIO(bus)
	mi.RegisterIO(bus)
	cp.RegisterIO(bus)
	gp.RegisterIO(bus)
	rom.RegisterIO(bus)

	cpu.SetExternalInterruptSource(pi.Asserted)

	return &Machine{
		cpu: cpu, bus: bus, mmu: mmu,
		pi: pi, vi: vi, ai: ai, di: di, si: si, exi: exi,
		dsp: dsp, dc: dc, pe: pe, mi: mi, cp: cp, gp: gp,
		rom: rom,
	}
}

// Run drives the CPU and the peripherals that need periodic attention
// (VI field timing, AI sample counting, the DSP's own instruction
// stream) from one goroutine, matching spec.md §5's model of ticking
// peripherals between CPU steps rather than on separate suspension
// points inside Step.
func (m *Machine) Run(stop <-chan struct{}) {
	m.cpu.SetRunning(true)
	defer m.cpu.SetRunning(false)

	for {
		select {
		case <-stop:
			return
		default:
		}
		if !m.cpu.Running() {
			time.Sleep(time.Millisecond)
			continue
		}
		m.cpu.Step()
		m.vi.Tick()
		m.ai.Tick()
		m.dc.Step()
	}
}

var Logger *slog.Logger

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optVerbose := getopt.BoolLong("verbose", 'v', "Mirror log output to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Println("Usage: rustcube-debugger [-v] [-l logfile] <file.dol|file.gcm|file.iso|ipl.bin>")
		os.Exit(1)
	}
	bootPath := args[0]

	out := os.Stdout
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Printf("failed to create log file: %v\n", err)
			os.Exit(1)
		}
		out = f
	}
	Logger = NewLogger(out, *optVerbose)
	slog.SetDefault(Logger)

	boilerPlate()

	machine := NewMachine()
	if err := Boot(bootPath, machine.cpu, machine.bus, machine.rom); err != nil {
		Logger.Error("boot failed", "error", err)
		os.Exit(1)
	}
	Logger.Info("booted", "path", bootPath, "entry", fmt.Sprintf("%#08x", machine.cpu.CIA))

	stop := make(chan struct{})
	go machine.Run(stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	console := NewConsole(machine)
	consoleDone := make(chan struct{})
	go func() {
		console.Run()
		close(consoleDone)
	}()

	select {
	case <-sigChan:
		Logger.Info("shutting down on signal")
	case <-consoleDone:
		Logger.Info("shutting down on console exit")
	}
	close(stop)
	time.Sleep(10 * time.Millisecond)
}
