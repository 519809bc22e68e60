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

package cru_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/hardware/cpu"
	"github.com/jetsetilly/gopher99/hardware/cru"
	"github.com/jetsetilly/gopher99/test"
)

func TestInterruptFunnel(t *testing.T) {
	var irq cpu.Interrupts
	ctrl := cru.NewController(&irq)

	// an asserted pin with the enable clear does not reach the CPU
	ctrl.SetPin(cru.PinVDP, true)
	test.ExpectedFailure(t, irq.Asserted(1))

	// the pin reads active low
	test.ExpectedFailure(t, ctrl.ReadBit(cru.PinVDP))

	// enabling the pin forwards the pending request
	ctrl.WriteBit(cru.PinVDP, true)
	test.ExpectedSuccess(t, irq.Asserted(1))

	// withdrawing the pin withdraws the request
	ctrl.SetPin(cru.PinVDP, false)
	test.ExpectedFailure(t, irq.Asserted(1))
}

func TestCountdownTimer(t *testing.T) {
	var irq cpu.Interrupts
	ctrl := cru.NewController(&irq)

	// enter timer mode and load a clock value of two
	ctrl.WriteBit(0, true)
	ctrl.WriteBit(2, true)
	test.ExpectedSuccess(t, ctrl.ReadBit(2))

	// back to I/O mode, enable the timer interrupt
	ctrl.WriteBit(0, false)
	ctrl.WriteBit(cru.PinTimer, true)
	test.ExpectedFailure(t, irq.Asserted(1))

	// two decrements at sixty-four cycles each
	ctrl.Step(64)
	test.ExpectedFailure(t, irq.Asserted(1))
	ctrl.Step(64)
	test.ExpectedSuccess(t, irq.Asserted(1))

	// re-enabling the pin acknowledges the latched timer interrupt
	ctrl.WriteBit(cru.PinTimer, true)
	test.ExpectedFailure(t, irq.Asserted(1))
}

func TestKeyboardMatrix(t *testing.T) {
	var irq cpu.Interrupts
	ctrl := cru.NewController(&irq)

	// a key in column one, row two. sense lines read active low
	ctrl.SetKey(1, 2, true)

	// column zero selected: nothing pressed there
	test.ExpectedSuccess(t, ctrl.ReadBit(5))

	// select column one
	ctrl.WriteBit(18, true)
	test.ExpectedFailure(t, ctrl.ReadBit(5))

	ctrl.SetKey(1, 2, false)
	test.ExpectedSuccess(t, ctrl.ReadBit(5))
}

func TestExpansionMapBit(t *testing.T) {
	var irq cpu.Interrupts
	ctrl := cru.NewController(&irq)

	var mapped = true
	ctrl.AttachExpansionMapper(func(m bool) {
		mapped = m
	})

	ctrl.WriteBit(cru.BitExpansionMap, false)
	test.ExpectedFailure(t, mapped)

	ctrl.WriteBit(cru.BitExpansionMap, true)
	test.ExpectedSuccess(t, mapped)
}
