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

// Package debugger is the console's terminal debugger: stepping in both
// directions, breakpoints on fetch, watchpoints on data access, inspection
// of registers, memory and device state.
package debugger

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gopher99/curated"
	"github.com/jetsetilly/gopher99/hardware"
	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// sentinel errors raised by the debugger.
const (
	// a command was badly formed. the pattern's argument explains how.
	BadCommand = "debugger: %v"
)

const prompt = "(99) "

// Debugger is the interactive command loop around a console.
type Debugger struct {
	console *hardware.TI99
	term    Terminal
	bp      *breakpoints

	// SIGINT stops a running emulation rather than the program
	intChan chan os.Signal

	quit bool
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type.
func NewDebugger(console *hardware.TI99, term Terminal) *Debugger {
	return &Debugger{
		console: console,
		term:    term,
		bp:      newBreakpoints(console.Mem),
		intChan: make(chan os.Signal, 1),
	}
}

// Start the interactive command loop. Returns when the user quits.
func (dbg *Debugger) Start() error {
	if err := dbg.term.Initialise(); err != nil {
		return err
	}
	defer dbg.term.CleanUp()

	signal.Notify(dbg.intChan, os.Interrupt)
	defer signal.Stop(dbg.intChan)

	// echo new log entries to the terminal as they happen
	logger.SetEcho(&termWriter{term: dbg.term})
	defer logger.SetEcho(nil)

	dbg.printState()

	for !dbg.quit {
		input, err := dbg.term.ReadLine(prompt)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := dbg.parseCommand(input); err != nil {
			dbg.term.Print(StyleError, "%v", err)
		}
	}

	return nil
}

// termWriter echoes the central logger to the debugging terminal.
type termWriter struct {
	term Terminal
}

func (tw *termWriter) Write(p []byte) (int, error) {
	tw.term.Print(StyleLog, "%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func (dbg *Debugger) printState() {
	dbg.term.Print(StyleInstruction, "%s", dbg.console.CPU.LastResult.String())
	dbg.term.Print(StyleOutput, "%s  scanline=%d frame=%d", dbg.console.CPU.String(),
		dbg.console.Scanline(), dbg.console.Frame())
}

// parse a numeric argument. hexadecimal is the debugger's native base.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "$")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, curated.Errorf(BadCommand, fmt.Sprintf("not an address: %s", s))
	}
	return uint16(v), nil
}

func (dbg *Debugger) parseCommand(input string) error {
	tokens := strings.Fields(strings.ToUpper(input))
	if len(tokens) == 0 {
		return nil
	}
	args := tokens[1:]

	switch tokens[0] {
	case "RUN", "R":
		return dbg.cmdRun()

	case "STEP", "S":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		return dbg.cmdStep(n)

	case "BACK", "B":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		return dbg.cmdBack(n)

	case "BREAK":
		if len(args) != 1 {
			return curated.Errorf(BadCommand, "BREAK <address>")
		}
		address, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		dbg.bp.addFetch(address)
		dbg.term.Print(StyleOutput, "break %04x", address)

	case "WATCH":
		if len(args) != 1 {
			return curated.Errorf(BadCommand, "WATCH <address>")
		}
		address, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		dbg.bp.addData(address)
		dbg.term.Print(StyleOutput, "watch %04x", address)

	case "CLEAR":
		dbg.bp.clear()
		dbg.term.Print(StyleOutput, "breakpoints cleared")

	case "LIST":
		dbg.term.Print(StyleOutput, "%s", dbg.bp.String())

	case "REGS":
		dbg.cmdRegs()

	case "PEEK":
		if len(args) < 1 {
			return curated.Errorf(BadCommand, "PEEK <address> [words]")
		}
		address, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		n := 1
		if len(args) > 1 {
			if v, cerr := strconv.Atoi(args[1]); cerr == nil && v > 0 {
				n = v
			}
		}
		dbg.cmdPeek(address, n)

	case "POKE":
		if len(args) != 2 {
			return curated.Errorf(BadCommand, "POKE <address> <value>")
		}
		address, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		value, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		return dbg.console.Mem.Poke(address, value)

	case "BANK":
		if len(args) == 0 {
			dbg.term.Print(StyleOutput, "bank %d of %d",
				dbg.console.Mem.Cart.GetBank(), dbg.console.Mem.Cart.NumBanks())
			return nil
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return curated.Errorf(BadCommand, "BANK [number]")
		}
		dbg.console.Mem.Cart.SetBank(v)

	case "LOG":
		s := &strings.Builder{}
		logger.Tail(s, 20)
		if s.Len() == 0 {
			dbg.term.Print(StyleOutput, "log is empty")
		} else {
			dbg.term.Print(StyleLog, "%s", strings.TrimSuffix(s.String(), "\n"))
		}

	case "MEMVIZ":
		if len(args) != 1 {
			return curated.Errorf(BadCommand, "MEMVIZ <file>")
		}
		return dbg.cmdMemviz(strings.Fields(input)[1])

	case "RESET":
		dbg.console.Reset()
		dbg.printState()

	case "QUIT", "Q", "EXIT":
		dbg.quit = true

	case "HELP", "?":
		dbg.term.Print(StyleOutput, helpText)

	default:
		return curated.Errorf(BadCommand, fmt.Sprintf("unrecognised command: %s", tokens[0]))
	}

	return nil
}

const helpText = `RUN              run until breakpoint or interrupt (ctrl-c stops)
STEP [n]         execute n instructions (default 1)
BACK [n]         undo n instructions (default 1)
BREAK <addr>     break when the PC reaches addr
WATCH <addr>     break after any data access of addr
CLEAR            remove all breakpoints and watches
LIST             list breakpoints and watches
REGS             show CPU state and workspace registers
PEEK <addr> [n]  inspect n words of memory
POKE <addr> <v>  write a word of memory
BANK [n]         show or set the cartridge bank
LOG              show recent log entries
MEMVIZ <file>    write a graph of the machine state to file (dot format)
RESET            reset the console
QUIT             leave the debugger`

func (dbg *Debugger) cmdRun() error {
	// drain any interrupt that arrived while we were at the prompt
	select {
	case <-dbg.intChan:
	default:
	}

	if dbg.console.CPU.BreakpointHit {
		dbg.bp.arm(dbg.console.CPU.PC)
	}

	// a data watchpoint cannot stop the CPU through BreakpointHit; it latches
	// in the breakpoints instance and is picked up here at the end of the
	// scanline
	err := dbg.console.Run(func() bool {
		if dbg.bp.dataHit {
			return false
		}
		select {
		case <-dbg.intChan:
			return false
		default:
			return true
		}
	})
	if err != nil {
		return err
	}

	dbg.reportStop()
	return nil
}

func (dbg *Debugger) cmdStep(n int) error {
	for i := 0; i < n; i++ {
		if dbg.console.CPU.BreakpointHit {
			dbg.bp.arm(dbg.console.CPU.PC)
		}
		if err := dbg.console.Step(); err != nil {
			return err
		}
		if dbg.console.CPU.BreakpointHit || dbg.bp.dataHit {
			break
		}
	}
	dbg.reportStop()
	return nil
}

func (dbg *Debugger) cmdBack(n int) error {
	for i := 0; i < n; i++ {
		if err := dbg.console.Undo(); err != nil {
			if curated.Is(err, rewind.Exhausted) {
				dbg.term.Print(StyleOutput, "no more history")
				break
			}
			return err
		}
	}
	dbg.printState()
	return nil
}

func (dbg *Debugger) reportStop() {
	if dbg.console.CPU.BreakpointHit {
		dbg.term.Print(StyleOutput, "break at %04x", dbg.console.CPU.PC)
	}
	if address, hit := dbg.bp.checkDataHit(); hit {
		dbg.term.Print(StyleOutput, "watch at %04x", address)
	}
	dbg.printState()
}

func (dbg *Debugger) cmdRegs() {
	dbg.term.Print(StyleOutput, "%s", dbg.console.CPU.String())
	for r := uint16(0); r < 16; r += 4 {
		dbg.term.Print(StyleOutput, "R%-2d=%04x R%-2d=%04x R%-2d=%04x R%-2d=%04x",
			r, dbg.console.CPU.PeekReg(r),
			r+1, dbg.console.CPU.PeekReg(r+1),
			r+2, dbg.console.CPU.PeekReg(r+2),
			r+3, dbg.console.CPU.PeekReg(r+3))
	}
}

func (dbg *Debugger) cmdPeek(address uint16, n int) {
	for i := 0; i < n; i++ {
		a := address + uint16(i*2)
		dbg.term.Print(StyleOutput, "%04x: %04x", a, dbg.console.Mem.Peek(a))
	}
}

// cmdMemviz dumps the object graph of the whole console as a graphviz
// document. Surprisingly useful for spotting wiring mistakes.
func (dbg *Debugger) cmdMemviz(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(BadCommand, err)
	}
	defer f.Close()

	memviz.Map(f, dbg.console)
	dbg.term.Print(StyleOutput, "machine graph written to %s", filename)
	return nil
}
