// This file is part of Gopher99.
//
// Gopher99 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher99 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher99.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jetsetilly/gopher99/debugger"
	"github.com/jetsetilly/gopher99/debugger/colorterm"
	"github.com/jetsetilly/gopher99/hardware"
	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/performance"
	"github.com/jetsetilly/gopher99/statsview"
	"github.com/jetsetilly/gopher99/version"
)

// the console runs at sixty frames per second when it is keeping up.
const targetFPS = 60.0

func main() {
	os.Exit(launch())
}

func launch() int {
	// emulation mode is the first argument, if it doesn't look like a flag
	mode := "RUN"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = strings.ToUpper(args[0])
		args = args[1:]
	}

	flags := flag.NewFlagSet("gopher99", flag.ExitOnError)
	romFile := flags.String("rom", "", "console ROM file")
	cartFile := flags.String("cart", "", "cartridge ROM file")
	gromFile := flags.String("grom", "", "GROM file (attached at the console origin)")
	stateFile := flags.String("state", "", "machine snapshot to restore on startup")
	stats := flags.Bool("stats", false, "launch the statistics server")
	profile := flags.String("profile", "none", "write profiling files: cpu, mem or cpu,mem")
	plainTerm := flags.Bool("term", false, "use the plain terminal in the debugger")
	echoLog := flags.Bool("log", false, "echo log entries to stderr as they happen")
	flags.Parse(args)

	if *echoLog {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* stats server not available in this build")
		}
	}

	console := hardware.NewTI99()

	if *romFile != "" {
		data, err := os.ReadFile(*romFile)
		if err != nil {
			fmt.Printf("* %v\n", err)
			return 10
		}
		console.LoadConsoleROM(data)
	}
	if *cartFile != "" {
		data, err := os.ReadFile(*cartFile)
		if err != nil {
			fmt.Printf("* %v\n", err)
			return 10
		}
		console.AttachCartridge(data)
	}
	if *gromFile != "" {
		data, err := os.ReadFile(*gromFile)
		if err != nil {
			fmt.Printf("* %v\n", err)
			return 10
		}
		console.AttachGROM(0, data)
	}

	console.Reset()

	if *stateFile != "" {
		f, err := os.Open(*stateFile)
		if err != nil {
			fmt.Printf("* %v\n", err)
			return 10
		}
		err = console.LoadState(f)
		f.Close()
		if err != nil {
			fmt.Printf("* %v\n", err)
			return 10
		}
	}

	var err error

	switch mode {
	case "RUN", "PLAY":
		err = performance.Profile(*profile, "gopher99", func() error {
			return play(console)
		})
	case "DEBUG":
		var term debugger.Terminal
		if *plainTerm {
			term = &debugger.PlainTerminal{}
		} else {
			term = &colorterm.ColorTerminal{}
		}
		err = debugger.NewDebugger(console, term).Start()
	case "VERSION":
		fmt.Printf("%s (%s)\n", version.ApplicationName, version.Version())
	default:
		fmt.Printf("* unknown emulation mode: %s\n", mode)
		return 10
	}

	if err != nil {
		fmt.Printf("* %v\n", err)
		return 20
	}

	return 0
}

// play runs the console freely until ctrl-c or a breakpoint sentinel in the
// loaded ROM, then reports how well the emulation kept up with the hardware.
func play(console *hardware.TI99) error {
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	startTime := time.Now()
	startFrame := console.Frame()

	err := console.Run(func() bool {
		select {
		case <-intChan:
			return false
		default:
			return true
		}
	})
	if err != nil {
		return err
	}

	if console.CPU.BreakpointHit {
		fmt.Printf("* break at %04x\n", console.CPU.PC)
	}

	elapsed := time.Since(startTime).Seconds()
	if elapsed > 0 {
		fps := float64(console.Frame()-startFrame) / elapsed
		fmt.Printf("%d frames in %.2fs. %.1f fps (%.1f%% of target)\n",
			console.Frame()-startFrame, elapsed, fps, fps/targetFPS*100)
		fmt.Printf("%d machine cycles. %.2f MHz effective\n",
			console.Mem.TotalCycles(), float64(console.Mem.TotalCycles())/elapsed/1e6)
	}

	return nil
}
