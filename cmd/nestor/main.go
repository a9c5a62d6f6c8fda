// Command nestor runs the NES emulator core. The run subcommand works
// headlessly: load a ROM, step it for a fixed number of frames, and report a
// framebuffer checksum — useful for the golden test-ROM corpus and for
// driving/replaying .playback recordings without any host display attached.
// The gui subcommand runs a ROM interactively in an SDL window instead.
package main

import (
	"crypto/sha256"
	"fmt"
	"os"

	"nestor/config"
	"nestor/console"
	"nestor/ines"
	"nestor/playback"
	"nestor/ui"
)

const version = "0.1.0"

func main() {
	ctx, cli := parseArgs(os.Args[1:])
	switch ctx.Command() {
	case "run <rom>":
		runRom(&cli.Run)
	case "gui <rom>":
		runGUI(&cli.GUI)
	case "rom-infos <rom>":
		romInfos(&cli.RomInfos)
	case "version":
		fmt.Println("nestor", version)
	default:
		fatalf("unknown command %q", ctx.Command())
	}
}

func runGUI(cmd *GUI) {
	rom, err := ines.Open(cmd.RomPath)
	checkf(err, "failed to load %s", cmd.RomPath)

	c, err := console.New(rom)
	checkf(err, "failed to power on console")

	cfg := config.LoadOrDefault()
	c.PowerCycle(cfg.ConsistentRAM)

	if ram, err := config.LoadRAM(romSaveName(rom)); err == nil {
		c.RestoreBatteryRAM(ram)
	}

	err = ui.Run(c, "nestor - "+cmd.RomPath, cmd.Scale)

	if ram := c.BatteryRAM(); ram != nil {
		config.SaveRAM(romSaveName(rom), ram)
	}
	checkf(err, "gui exited with an error")
}

func romInfos(cmd *RomInfos) {
	rom, err := ines.Open(cmd.RomPath)
	checkf(err, "failed to load %s", cmd.RomPath)
	rom.PrintInfos(os.Stdout)
}

func runRom(cmd *Run) {
	rom, err := ines.Open(cmd.RomPath)
	checkf(err, "failed to load %s", cmd.RomPath)

	c, err := console.New(rom)
	checkf(err, "failed to power on console")

	cfg := config.LoadOrDefault()
	seed := cfg.ConsistentRAM
	if cmd.ConsistentRAM != 0 {
		seed = cmd.ConsistentRAM
	}
	c.PowerCycle(seed)

	if ram, err := config.LoadRAM(romSaveName(rom)); err == nil {
		c.RestoreBatteryRAM(ram)
	}

	var rec *playback.Recorder
	var player *playback.Player
	switch {
	case cmd.Play != "":
		data, err := os.ReadFile(cmd.Play)
		checkf(err, "failed to read %s", cmd.Play)
		player, err = playback.Load(data)
		checkf(err, "failed to parse %s", cmd.Play)
		checkf(player.CheckCartridge(rom), "%s was not recorded against %s", cmd.Play, cmd.RomPath)
		if cmd.Frames == 0 || uint32(cmd.Frames) > player.FrameCount() {
			cmd.Frames = int(player.FrameCount())
		}
	case cmd.Record != "":
		rec = playback.NewRecorder(rom, seed)
	}

	var inputs [2]console.ControllerState
	for frame := 0; frame < cmd.Frames; frame++ {
		if player != nil {
			inputs = player.InputsAt(uint32(frame))
		}
		c.StepFrame(inputs)
		if rec != nil {
			rec.Record(uint32(frame), inputs)
		}
	}

	if rec != nil {
		checkf(os.WriteFile(cmd.Record, rec.Bytes(), 0644), "failed to write %s", cmd.Record)
	}

	if ram := c.BatteryRAM(); ram != nil {
		checkf(config.SaveRAM(romSaveName(rom), ram), "failed to save battery RAM")
	}

	fb := c.Framebuffer()
	fmt.Printf("frame=%d checksum=%x\n", cmd.Frames, sha256.Sum256(fb.Pix))
	if dropped := c.DroppedAudioSamples(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d audio samples to mixer overflow\n", dropped)
	}
}

func romSaveName(rom *ines.Rom) string {
	return fmt.Sprintf("%x", sha256.Sum256(rom.PRG))[:16]
}
