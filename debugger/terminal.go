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

package debugger

import (
	"bufio"
	"fmt"
	"os"
)

// Style hints for terminal output. Terminals that can differentiate styles
// (with colour, say) should do so; terminals that can't just print.
type Style int

// List of valid Style values.
const (
	StyleOutput Style = iota
	StyleInstruction
	StyleError
	StyleLog
)

// Terminal is the debugger's user interface.
type Terminal interface {
	Initialise() error
	CleanUp()

	// ReadLine prints the prompt and blocks for a line of input. An io.EOF
	// error ends the debugging session cleanly.
	ReadLine(prompt string) (string, error)

	Print(style Style, format string, a ...interface{})
}

// PlainTerminal is the minimal implementation of the Terminal interface:
// undecorated stdin and stdout. Useful when output is being piped, and as
// the fallback when the colour terminal can't initialise.
type PlainTerminal struct {
	input *bufio.Reader
}

// Initialise implements the Terminal interface.
func (pt *PlainTerminal) Initialise() error {
	pt.input = bufio.NewReader(os.Stdin)
	return nil
}

// CleanUp implements the Terminal interface.
func (pt *PlainTerminal) CleanUp() {
}

// ReadLine implements the Terminal interface.
func (pt *PlainTerminal) ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)
	return pt.input.ReadString('\n')
}

// Print implements the Terminal interface.
func (pt *PlainTerminal) Print(style Style, format string, a ...interface{}) {
	s := fmt.Sprintf(format, a...)
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	fmt.Print(s)
}
