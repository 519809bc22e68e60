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

// Package execution tracks the result of instruction execution. The CPU
// updates one Result value per instruction; the debugger reads it for its
// step and trace output.
package execution

import (
	"fmt"

	"github.com/jetsetilly/gopher99/hardware/cpu/instructions"
)

// Result records the progress of a single instruction.
type Result struct {
	// Address the opcode was fetched from
	Address uint16

	// the opcode word itself
	Opcode uint16

	// the decoded definition. nil until decoding has happened
	Defn *instructions.Definition

	// number of cycles the instruction has consumed, including bus access
	// and addressing mode costs. valid when Final is true
	Cycles int

	// whether the instruction has completed
	Final bool
}

// Reset the result in preparation for a new instruction.
func (r *Result) Reset() {
	r.Address = 0
	r.Opcode = 0
	r.Defn = nil
	r.Cycles = 0
	r.Final = false
}

func (r Result) String() string {
	if r.Defn == nil {
		return fmt.Sprintf("%04x: %04x ???", r.Address, r.Opcode)
	}
	if !r.Final {
		return fmt.Sprintf("%04x: %04x %s ...", r.Address, r.Opcode, r.Defn.Operator)
	}
	return fmt.Sprintf("%04x: %04x %s [%d]", r.Address, r.Opcode, r.Defn.Operator, r.Cycles)
}
