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

// Package easyterm wraps "github.com/pkg/term/termios" with friendlier
// names, mode bookkeeping and terminal geometry tracking.
package easyterm

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Geometry is the dimensions of the output terminal.
type Geometry struct {
	Rows uint16
	Cols uint16

	// pixels. zero on terminals that don't report them
	X uint16
	Y uint16
}

// Terminal is a posix terminal with saved mode attributes. Usually embedded
// in another type.
type Terminal struct {
	input  *os.File
	output *os.File

	geometry Geometry

	canonicalAttr unix.Termios
	cbreakAttr    unix.Termios
	rawAttr       unix.Termios

	// geometry is updated from the SIGWINCH handler
	mu          sync.Mutex
	endHandler  chan bool
	handlerDone chan bool
}

// Initialise the terminal, saving the current mode attributes so that
// CleanUp() can put everything back.
func (term *Terminal) Initialise(input *os.File, output *os.File) error {
	if input == nil || output == nil {
		return fmt.Errorf("easyterm: terminal requires input and output files")
	}
	term.input = input
	term.output = output

	if err := termios.Tcgetattr(term.input.Fd(), &term.canonicalAttr); err != nil {
		return err
	}
	termios.Cfmakecbreak(&term.cbreakAttr)
	termios.Cfmakeraw(&term.rawAttr)

	term.endHandler = make(chan bool)
	term.handlerDone = make(chan bool)

	_ = term.updateGeometry()
	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			term.handlerDone <- true
		}()
		for {
			select {
			case <-sigwinch:
				_ = term.updateGeometry()
			case <-term.endHandler:
				return
			}
		}
	}()

	return nil
}

// CleanUp restores the terminal to the mode it was found in.
func (term *Terminal) CleanUp() {
	term.endHandler <- true
	<-term.handlerDone
	term.CanonicalMode()
}

// Print writes the formatted string to the output file.
func (term *Terminal) Print(format string, a ...interface{}) {
	term.output.WriteString(fmt.Sprintf(format, a...))
	term.output.Sync()
}

// Geometry returns the current terminal dimensions.
func (term *Terminal) Geometry() Geometry {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.geometry
}

func (term *Terminal) updateGeometry() error {
	term.mu.Lock()
	defer term.mu.Unlock()

	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, term.output.Fd(),
		uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(&term.geometry)))
	if errno != 0 {
		return fmt.Errorf("easyterm: cannot read terminal geometry (%d)", errno)
	}
	return nil
}

// CanonicalMode puts the terminal into normal, line-buffered mode.
func (term *Terminal) CanonicalMode() {
	termios.Tcsetattr(term.input.Fd(), termios.TCIFLUSH, &term.canonicalAttr)
}

// CBreakMode puts the terminal into character-at-a-time mode.
func (term *Terminal) CBreakMode() {
	termios.Tcsetattr(term.input.Fd(), termios.TCIFLUSH, &term.cbreakAttr)
}

// RawMode puts the terminal into raw mode.
func (term *Terminal) RawMode() {
	termios.Tcsetattr(term.input.Fd(), termios.TCIFLUSH, &term.rawAttr)
}

// Flush empties the terminal's input and output buffers.
func (term *Terminal) Flush() error {
	if err := termios.Tcflush(term.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	return termios.Tcflush(term.output.Fd(), termios.TCOFLUSH)
}
