package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/kouen-dev/go-satemu/internal/frontend/sdlaudio"
	"github.com/kouen-dev/go-satemu/internal/frontend/terminal"
	"github.com/kouen-dev/go-satemu/saturn"
	"github.com/kouen-dev/go-satemu/saturn/cartridge"
	"github.com/kouen-dev/go-satemu/saturn/clock"
	"github.com/kouen-dev/go-satemu/saturn/debug"
)

func main() {
	app := cli.NewApp()
	app.Name = "satemu"
	app.Description = "Sega Saturn core runner"
	app.Usage = "satemu [options]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "cart",
			Usage: "cartridge kind to install in the expansion slot: none, backup, dram8, dram32, rom",
			Value: "backup",
		},
		cli.StringFlag{
			Name:  "cart-rom",
			Usage: "path to a ROM image, required when --cart=rom",
		},
		cli.IntFlag{
			Name:  "backup-size",
			Usage: "backup cartridge size in bytes, when --cart=backup",
			Value: 32 * 1024,
		},
		cli.StringFlag{
			Name:  "standard",
			Usage: "video timing standard: ntsc or pal",
			Value: "ntsc",
		},
		cli.StringFlag{
			Name:  "dot",
			Usage: "horizontal dot clock: 320 or 352",
			Value: "320",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run headless (required, unless --terminal is set)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "disc",
			Usage: "report a disc as inserted in the CD block drive",
		},
		cli.BoolFlag{
			Name:  "audio",
			Usage: "stream the SCSP's mixed output through SDL2 audio",
		},
		cli.BoolFlag{
			Name:  "terminal",
			Usage: "show a live tcell register inspector instead of running a fixed number of frames",
		},
		cli.StringFlag{
			Name:  "load-state",
			Usage: "path to a save state to resume from",
		},
		cli.StringFlag{
			Name:  "save-state",
			Usage: "path to write a save state to after running",
		},
		cli.StringFlag{
			Name:  "trace",
			Usage: "comma-separated dev-log categories to trace, or 'all' (default: none)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("satemu: run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	std, err := parseStandard(c.String("standard"))
	if err != nil {
		return err
	}
	dot, err := parseDotClock(c.String("dot"))
	if err != nil {
		return err
	}

	cart, err := buildCartridge(c.String("cart"), c.String("cart-rom"), c.Int("backup-size"))
	if err != nil {
		return err
	}

	tracer := buildTracer(c.String("trace"))

	core := saturn.New(std, dot, cart, tracer)

	if c.String("load-state") != "" {
		f, err := os.Open(c.String("load-state"))
		if err != nil {
			return fmt.Errorf("opening save state: %w", err)
		}
		err = core.LoadState(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("loading save state: %w", err)
		}
		slog.Info("resumed from save state", "path", c.String("load-state"))
	}

	if c.Bool("disc") {
		core.CDBlock.Drive.CloseTray(true)
	}

	if c.Bool("audio") {
		sink, err := sdlaudio.Open()
		if err != nil {
			return fmt.Errorf("opening audio sink: %w", err)
		}
		defer sink.Close()
		core.SCSP.OutputSample = sink.Push
	}

	cycles := cyclesPerFrame(std)

	if c.Bool("terminal") {
		insp, err := terminal.New(core)
		if err != nil {
			return fmt.Errorf("opening terminal inspector: %w", err)
		}
		go runFrames(core, cycles, c.Int("frames"), insp.Stop)
		insp.Run()
	} else {
		frames := c.Int("frames")
		if frames <= 0 {
			cli.ShowAppHelp(c)
			return errors.New("--frames must be positive in headless mode")
		}
		runFrames(core, cycles, frames, nil)
	}

	if c.String("save-state") != "" {
		f, err := os.Create(c.String("save-state"))
		if err != nil {
			return fmt.Errorf("creating save state: %w", err)
		}
		err = core.SaveState(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("writing save state: %w", err)
		}
		slog.Info("wrote save state", "path", c.String("save-state"))
	}

	return nil
}

// cyclesPerFrame approximates a 60 Hz (NTSC) or 50 Hz (PAL) frame budget in
// master clock cycles; an external video driver would normally derive this
// from its own scanline/dot counters instead.
func cyclesPerFrame(std clock.Standard) int64 {
	if std == clock.PAL {
		return 56875000 / 50
	}
	return 57272727 / 60
}

func runFrames(core *saturn.Saturn, cycles int64, frames int, done func()) {
	for i := 0; frames <= 0 || i < frames; i++ {
		core.RunFrame(cycles)
		core.TriggerVBlankIN()
		core.TriggerVBlankOUT()
		if frames <= 0 && i%60 == 0 {
			slog.Debug("frame progress", "frame", i)
		}
	}
	if done != nil {
		done()
	}
}

func parseStandard(s string) (clock.Standard, error) {
	switch s {
	case "ntsc":
		return clock.NTSC, nil
	case "pal":
		return clock.PAL, nil
	default:
		return 0, fmt.Errorf("unknown --standard %q (want ntsc or pal)", s)
	}
}

func parseDotClock(s string) (clock.DotClock, error) {
	switch s {
	case "320":
		return clock.Dot320, nil
	case "352":
		return clock.Dot352, nil
	default:
		return 0, fmt.Errorf("unknown --dot %q (want 320 or 352)", s)
	}
}

func buildCartridge(kind, romPath string, backupSize int) (*cartridge.Cartridge, error) {
	switch kind {
	case "none":
		return cartridge.NewNone(), nil
	case "backup":
		return cartridge.NewBackupMemory(backupSize), nil
	case "dram8":
		return cartridge.NewDRAM8Mbit(), nil
	case "dram32":
		return cartridge.NewDRAM32Mbit(), nil
	case "rom":
		if romPath == "" {
			return nil, errors.New("--cart=rom requires --cart-rom")
		}
		data, err := os.ReadFile(romPath)
		if err != nil {
			return nil, fmt.Errorf("reading --cart-rom: %w", err)
		}
		return cartridge.NewROM(data), nil
	default:
		return nil, fmt.Errorf("unknown --cart %q (want none, backup, dram8, dram32, rom)", kind)
	}
}

func buildTracer(spec string) debug.Tracer {
	if spec == "" {
		return debug.Nop
	}
	if spec == "all" {
		return debug.NewSlogTracer(nil, debug.AllCategories)
	}

	var enabled debug.Category
	for _, name := range strings.Split(spec, ",") {
		switch name {
		case "scheduler":
			enabled |= debug.CategoryScheduler
		case "bus":
			enabled |= debug.CategoryBus
		case "cartridge":
			enabled |= debug.CategoryCartridge
		case "sysmem":
			enabled |= debug.CategorySysmem
		case "scu":
			enabled |= debug.CategorySCU
		case "scudsp":
			enabled |= debug.CategorySCUDSP
		case "scsp":
			enabled |= debug.CategorySCSP
		case "cdblock":
			enabled |= debug.CategoryCDBlock
		case "saturn":
			enabled |= debug.CategoryFacade
		}
	}
	return debug.NewSlogTracer(nil, enabled)
}
