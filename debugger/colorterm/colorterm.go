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

// Package colorterm implements the debugger's Terminal interface for ANSI
// terminals: styled output and a tidy prompt.
package colorterm

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jetsetilly/gopher99/debugger"
	"github.com/jetsetilly/gopher99/debugger/colorterm/easyterm"
)

// ColorTerminal implements the debugger's Terminal interface with ANSI
// colour.
type ColorTerminal struct {
	easyterm.Terminal

	reader *bufio.Reader
}

// Initialise implements the debugger Terminal interface.
func (ct *ColorTerminal) Initialise() error {
	if err := ct.Terminal.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	ct.CanonicalMode()
	ct.reader = bufio.NewReader(os.Stdin)
	return nil
}

// CleanUp implements the debugger Terminal interface.
func (ct *ColorTerminal) CleanUp() {
	ct.Terminal.Print("%s\r", ansiNormal)
	ct.Terminal.CleanUp()
}

// ReadLine implements the debugger Terminal interface.
func (ct *ColorTerminal) ReadLine(prompt string) (string, error) {
	ct.Terminal.Print("%s%s%s", ansiBold, prompt, ansiNormal)
	s, err := ct.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return s, nil
}

// Print implements the debugger Terminal interface.
func (ct *ColorTerminal) Print(style debugger.Style, format string, a ...interface{}) {
	s := fmt.Sprintf(format, a...)
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	ct.Terminal.Print("%s%s%s", styleSequence(style), s, ansiNormal)
}
