package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nestor/log"
)

type CLI struct {
	Run      Run      `cmd:"" help:"Run a ROM headlessly for a fixed number of frames, reporting a framebuffer checksum."`
	GUI      GUI      `cmd:"" help:"Run a ROM in a window, with keyboard input and audio."`
	RomInfos RomInfos `cmd:"" name:"rom-infos" help:"Show ROM header information."`
	Version  Version  `cmd:"" help:"Show nestor's version."`

	Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
}

type GUI struct {
	RomPath    string `arg:"" name:"rom" help:"${rompath_help}" required:"true" type:"existingfile"`
	Scale      int    `name:"scale" help:"Window scale factor." default:"3"`
	Fullscreen bool   `name:"fullscreen" help:"Has no effect: the window always opens at --scale times the NES resolution."`
}

type Run struct {
	RomPath string `arg:"" name:"rom" help:"${rompath_help}" required:"true" type:"existingfile"`

	Speed         int    `name:"speed" help:"Emulation speed, percent of full speed." default:"100"`
	Scale         int    `name:"scale" help:"Framebuffer scale factor (host display hint only)." default:"3"`
	Fullscreen    bool   `name:"fullscreen" help:"Start in fullscreen (host display hint only)."`
	ConsistentRAM uint64 `name:"consistent-ram" help:"Power-on RAM seed; 0 zero-fills RAM, any other value fills it with a pseudo-random pattern derived from the seed." default:"0"`
	Frames        int    `name:"frames" help:"Number of frames to run before exiting." default:"600"`
	Record        string `name:"record" help:"Write a .playback recording of this run to FILE." placeholder:"FILE"`
	Play          string `name:"play" help:"Replay a .playback recording instead of running live." placeholder:"FILE"`
}

type RomInfos struct {
	RomPath string `arg:"" name:"rom" type:"existingfile"`
}

type Version struct{}

var vars = kong.Vars{
	"rompath_help": "Path to an iNES (.nes) ROM image.",
	"log_help":     "Enable logging for specified modules.",
}

func parseArgs(args []string) (*kong.Context, *CLI) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("nestor"),
		kong.Description("NES emulator core CLI."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")
	return ctx, &cli
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s
  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}
		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}
	return nil
}

type logModMask log.ModuleMask

// Decode implements kong.MapperValue, turning a comma-separated module list
// into a debug mask the same way the teacher's --log flag does.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	var nolog, allLogs bool

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs || lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}
	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}
	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
