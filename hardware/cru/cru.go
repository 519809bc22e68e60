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

// Package cru implements the bit-serial communication bus and the interface
// controller that lives on it.
//
// The CRU is a 4096-bit address space quite separate from memory. The CPU
// reads and writes individual bits with dedicated instructions; the interface
// controller occupies the bottom of the bit space and provides the interrupt
// funnel, the keyboard scanning lines and a countdown timer. Other cards on
// the bus claim higher bit addresses; the only one the console emulates is
// the memory expansion's map-in/map-out control bit.
package cru

import (
	"github.com/jetsetilly/gopher99/hardware/cpu"
	"github.com/jetsetilly/gopher99/logger"
)

// bit addresses decoded by the interface controller.
const (
	// bit zero selects between I/O mode and timer mode
	bitTimerMode = 0

	// interrupt input pins in I/O mode
	PinExternal = 1
	PinVDP      = 2
	PinTimer    = 3

	// keyboard sense lines in I/O mode
	bitKeyboardFirst = 3
	bitKeyboardLast  = 10

	// keyboard column select outputs
	bitColumnFirst = 18
	bitColumnLast  = 20

	// the memory expansion card's control bit
	BitExpansionMap = uint16(0x0400)
)

// every interrupt source funnels into this CPU level. the console wires only
// one of the CPU's interrupt lines.
const consoleInterruptLevel = 1

// the timer decrements once for every timerDivider CPU cycles.
const timerDivider = 64

// Controller is the programmable systems interface at the bottom of the CRU
// bit space: interrupt funnel, keyboard matrix scanner and countdown timer.
//
// It implements the CRUBus interface declared by the cpu package.
type Controller struct {
	irq *cpu.Interrupts

	// timer mode exposes the clock register through bits one to fourteen.
	// I/O mode exposes the interrupt pins and keyboard sense lines instead
	timerMode bool

	// the clock register. a non-zero value starts the decrementer; on
	// expiry the decrementer reloads and the timer pin is raised
	clock       uint16
	decrementer uint16
	accumulator int

	// interrupt input pins and their enables. pins are level-triggered and
	// active high here; the inversion to the bus's active low convention
	// happens at ReadBit
	pins    [16]bool
	enabled [16]bool

	// pressed keys, one row bitmap per column
	keys   [8]uint8
	column int

	// output bits latched by CRU writes
	outputs [32]bool

	// mapper is told when the program maps the memory expansion in or out
	mapper func(bool)
}

// NewController is the preferred method of initialisation for the Controller
// type. The interrupt lines of the supplied CPU are driven directly.
func NewController(irq *cpu.Interrupts) *Controller {
	return &Controller{irq: irq}
}

// AttachExpansionMapper registers the function called when the memory
// expansion's control bit is written.
func (ctrl *Controller) AttachExpansionMapper(mapper func(bool)) {
	ctrl.mapper = mapper
}

// Reset the controller to its power-on state.
func (ctrl *Controller) Reset() {
	ctrl.timerMode = false
	ctrl.clock = 0
	ctrl.decrementer = 0
	ctrl.accumulator = 0
	ctrl.pins = [16]bool{}
	ctrl.enabled = [16]bool{}
	ctrl.keys = [8]uint8{}
	ctrl.column = 0
	ctrl.outputs = [32]bool{}
	if ctrl.irq != nil {
		ctrl.irq.Deassert(consoleInterruptLevel)
	}
}

// funnel the pin states into the CPU's single console interrupt line.
func (ctrl *Controller) updateInterruptLine() {
	if ctrl.irq == nil {
		return
	}
	for p := 1; p < len(ctrl.pins); p++ {
		if ctrl.pins[p] && ctrl.enabled[p] {
			ctrl.irq.Assert(consoleInterruptLevel)
			return
		}
	}
	ctrl.irq.Deassert(consoleInterruptLevel)
}

// SetPin asserts or withdraws an interrupt input pin. The VDP drives PinVDP
// at the top of every vertical blank.
func (ctrl *Controller) SetPin(pin int, asserted bool) {
	ctrl.pins[pin&0xf] = asserted
	ctrl.updateInterruptLine()
}

// SetKey presses or releases a key in the scanning matrix.
func (ctrl *Controller) SetKey(column int, row int, pressed bool) {
	if pressed {
		ctrl.keys[column&0x7] |= 1 << (row & 0x7)
	} else {
		ctrl.keys[column&0x7] &^= 1 << (row & 0x7)
	}
}

// Step the countdown timer forward. Called with the cycles consumed since the
// previous call; the timer decrements at a fixed division of the CPU clock
// and raises the timer pin when it reaches zero.
func (ctrl *Controller) Step(cycles int) {
	if ctrl.clock == 0 {
		return
	}

	ctrl.accumulator += cycles
	for ctrl.accumulator >= timerDivider {
		ctrl.accumulator -= timerDivider
		ctrl.decrementer--
		if ctrl.decrementer == 0 {
			ctrl.decrementer = ctrl.clock
			ctrl.pins[PinTimer] = true
			ctrl.updateInterruptLine()
		}
	}
}

// ReadBit implements the CRUBus interface declared by the cpu package.
//
// Input pins are active low on the bus: an asserted interrupt pin and a
// pressed key both read false.
func (ctrl *Controller) ReadBit(bit uint16) bool {
	switch {
	case bit == bitTimerMode:
		return ctrl.timerMode

	case ctrl.timerMode && bit >= 1 && bit <= 14:
		return ctrl.decrementer&(1<<(bit-1)) != 0

	case bit >= bitKeyboardFirst && bit <= bitKeyboardLast:
		// the keyboard sense lines share bit addresses with some of the
		// interrupt pins; a pressed key in the selected column pulls the
		// line low
		row := int(bit) - bitKeyboardFirst
		if ctrl.keys[ctrl.column]&(1<<row) != 0 {
			return false
		}
		return !ctrl.pins[bit&0xf]

	case bit >= 1 && bit <= 15:
		return !ctrl.pins[bit&0xf]

	case bit < 32:
		return ctrl.outputs[bit]

	case bit == BitExpansionMap:
		return true
	}

	logger.Logf("cru", "read of unserviced bit %#04x", bit)
	return false
}

// WriteBit implements the CRUBus interface declared by the cpu package.
func (ctrl *Controller) WriteBit(bit uint16, value bool) {
	switch {
	case bit == bitTimerMode:
		ctrl.timerMode = value
		return

	case ctrl.timerMode && bit >= 1 && bit <= 14:
		mask := uint16(1) << (bit - 1)
		if value {
			ctrl.clock |= mask
		} else {
			ctrl.clock &^= mask
		}
		// writing the clock register restarts the decrementer
		ctrl.decrementer = ctrl.clock
		ctrl.accumulator = 0
		return

	case ctrl.timerMode && bit == 15:
		// the soft reset bit. nothing on the console distinguishes it from
		// a power cycle of the controller
		if !value {
			ctrl.Reset()
		}
		return

	case bit >= 1 && bit <= 15:
		// enabling a pin's interrupt also acknowledges the timer: the timer
		// pin is latched rather than level-driven
		ctrl.enabled[bit&0xf] = value
		if bit == PinTimer {
			ctrl.pins[PinTimer] = false
		}
		ctrl.updateInterruptLine()
		return

	case bit < 32:
		ctrl.outputs[bit] = value
		if bit >= bitColumnFirst && bit <= bitColumnLast {
			ctrl.column = 0
			for b := 0; b < 3; b++ {
				if ctrl.outputs[bitColumnFirst+b] {
					ctrl.column |= 1 << b
				}
			}
		}
		return

	case bit == BitExpansionMap:
		if ctrl.mapper != nil {
			ctrl.mapper(value)
		}
		return
	}

	logger.Logf("cru", "write to unserviced bit %#04x", bit)
}
