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

package debugger_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jetsetilly/gopher99/debugger"
	"github.com/jetsetilly/gopher99/hardware"
	"github.com/jetsetilly/gopher99/test"
)

// scriptTerminal feeds a canned command sequence to the debugger and collects
// everything it prints. Input running out ends the session, as though the
// user had typed ctrl-d.
type scriptTerminal struct {
	commands []string
	output   strings.Builder
}

func (st *scriptTerminal) Initialise() error {
	return nil
}

func (st *scriptTerminal) CleanUp() {
}

func (st *scriptTerminal) ReadLine(prompt string) (string, error) {
	if len(st.commands) == 0 {
		return "", io.EOF
	}
	c := st.commands[0]
	st.commands = st.commands[1:]
	return c, nil
}

func (st *scriptTerminal) Print(style debugger.Style, format string, a ...interface{}) {
	st.output.WriteString(fmt.Sprintf(format, a...))
	st.output.WriteString("\n")
}

func newScriptedConsole() *hardware.TI99 {
	ti := hardware.NewTI99()

	ti.Mem.Poke(0x0000, 0x8300) // reset WP
	ti.Mem.Poke(0x0002, 0x0010) // reset PC

	ti.Mem.Poke(0x0010, 0x04e0) // CLR @>83f0
	ti.Mem.Poke(0x0012, 0x83f0)
	ti.Mem.Poke(0x0014, 0x10ff) // JMP $

	ti.Reset()
	return ti
}

func TestWatchpointStopsRunningEmulation(t *testing.T) {
	ti := newScriptedConsole()

	// the fetch breakpoint on the jump is a backstop: if the watch fails to
	// stop the emulation the session still ends at the next fetch instead of
	// spinning
	term := &scriptTerminal{commands: []string{
		"BREAK 0014",
		"WATCH 83F0",
		"RUN",
	}}

	dbg := debugger.NewDebugger(ti, term)
	test.Equate(t, dbg.Start(), nil)

	test.ExpectedSuccess(t, strings.Contains(term.output.String(), "watch at 83f0"))
	test.ExpectedFailure(t, strings.Contains(term.output.String(), "break at"))
}

func TestWatchpointStopsStepSequence(t *testing.T) {
	ti := newScriptedConsole()

	term := &scriptTerminal{commands: []string{
		"WATCH 83F0",
		"STEP 10",
	}}

	dbg := debugger.NewDebugger(ti, term)
	test.Equate(t, dbg.Start(), nil)

	test.ExpectedSuccess(t, strings.Contains(term.output.String(), "watch at 83f0"))

	// the step sequence ended on the watched access: the jump at 0x0014 has
	// not executed
	test.Equate(t, ti.CPU.PC, 0x0014)
}
