// Package main implements the gones command-line entry point: run a ROM
// headlessly or in an Ebitengine bus-activity window, inspect it through
// the interactive monitor, or dump its iNES header.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/urfave/cli.v2"

	"cyclenes/internal/busview"
	"cyclenes/internal/cartridge"
	"cyclenes/internal/console"
	"cyclenes/internal/emuconfig"
	"cyclenes/internal/monitor"
	"cyclenes/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "gones",
		Usage:   "cycle-stepped MOS 6502 / NES CPU core",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			runCommand(),
			monitorCommand(),
			infoCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("gones: %v", err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "power on a ROM and run it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Aliases: []string{"r"}, Usage: "path to iNES ROM file (falls back to config rom.path)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to JSON config file"},
			&cli.BoolFlag{Name: "nogui", Usage: "run headless, no bus-activity window"},
			&cli.Uint64Flag{Name: "max-cycles", Usage: "stop after this many cycles in headless mode (0 = unbounded)"},
		},
		Action: func(c *cli.Context) error {
			cfg := emuconfig.NewConfig()
			if path := c.String("config"); path != "" {
				if err := cfg.LoadFromFile(path); err != nil {
					return fmt.Errorf("gones run: %w", err)
				}
			}

			romPath := c.String("rom")
			if romPath == "" {
				romPath = cfg.ROM.Path
			}
			if romPath == "" {
				return fmt.Errorf("gones run: no ROM given (-rom or config rom.path)")
			}

			maxCycles := cfg.ROM.MaxCycles
			if c.IsSet("max-cycles") {
				maxCycles = c.Uint64("max-cycles")
			}

			con := console.New()
			fmt.Printf("📁 Loading ROM: %s\n", romPath)
			if err := con.LoadCartridge(romPath); err != nil {
				return fmt.Errorf("gones run: %w", err)
			}
			if err := con.PowerOn(); err != nil {
				return fmt.Errorf("gones run: %w", err)
			}
			if cfg.ROM.StartHalted {
				con.Break()
			}

			if c.Bool("nogui") {
				fmt.Println("🖥️  Headless mode requested")
				n := runHeadless(con, maxCycles, cfg.Debug)
				fmt.Printf("ran %d cycles\n", n)
				if f := con.LastFault(); f != nil {
					fmt.Printf("🛑 %s\n", f.Error())
				}
				return nil
			}

			game := busview.New(con, 1000)
			ebiten.SetWindowTitle("gones — bus activity")
			if err := ebiten.RunGame(game); err != nil {
				return fmt.Errorf("gones run: %w", err)
			}
			return nil
		},
	}
}

// runHeadless drives con to completion, honoring debug.TraceCycles (log
// every cycle at PC) and debug.Breakpoints (stop, still halted, the
// moment PC matches one at an instruction boundary). It returns the
// cycle count actually executed. If con was left halted by a prior
// StartHalted break request, it reports immediately without running.
func runHeadless(con *console.Console, maxCycles uint64, dbg emuconfig.DebugConfig) uint64 {
	if con.Halted() {
		log.Printf("[%s] start-halted: not running", dbg.LogLevel)
		return 0
	}

	breakpoints := make(map[uint16]bool, len(dbg.Breakpoints))
	for _, bp := range dbg.Breakpoints {
		breakpoints[bp] = true
	}

	con.Run()
	var n uint64
	for {
		halted := con.StepCycle() != 0
		n++ // the cycle that raises halt is executed too
		if halted {
			break
		}
		if dbg.TraceCycles {
			log.Printf("[%s] cycle %d PC=$%04X", dbg.LogLevel, n, con.CPU.PC)
		}
		if con.CPU.AtInstructionBoundary() && breakpoints[con.CPU.PC] {
			log.Printf("[%s] breakpoint hit at $%04X after %d cycles", dbg.LogLevel, con.CPU.PC, n)
			con.Break()
			break
		}
		if maxCycles != 0 && n >= maxCycles {
			break
		}
	}
	return n
}

func monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "power on a ROM and step it in the interactive TUI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Aliases: []string{"r"}, Usage: "path to iNES ROM file", Required: true},
		},
		Action: func(c *cli.Context) error {
			con := console.New()
			if err := con.LoadCartridge(c.String("rom")); err != nil {
				return fmt.Errorf("gones monitor: %w", err)
			}
			if err := con.PowerOn(); err != nil {
				return fmt.Errorf("gones monitor: %w", err)
			}
			if _, err := monitor.New(con, 0).Run(); err != nil {
				return fmt.Errorf("gones monitor: %w", err)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print detailed build information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "short", Usage: "print a one-line version summary"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("short") {
				fmt.Println(version.GetDetailedVersion())
				return nil
			}
			version.PrintBuildInfo()
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "print a ROM's iNES header fields",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Aliases: []string{"r"}, Usage: "path to iNES ROM file", Required: true},
		},
		Action: func(c *cli.Context) error {
			cart, err := cartridge.Load(c.String("rom"))
			if err != nil {
				return fmt.Errorf("gones info: %w", err)
			}
			fmt.Printf("mapper:      %d\n", cart.MapperID)
			fmt.Printf("PRG-ROM:     %d bytes\n", cart.PRGSize())
			fmt.Printf("PRG-RAM:     %d bytes\n", cart.PRGRAMSize)
			fmt.Printf("has trainer: %t\n", cart.HasTrainer())
			return nil
		},
	}
}
