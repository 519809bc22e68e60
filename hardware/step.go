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

package hardware

import (
	"github.com/jetsetilly/gopher99/logger"
)

// Step executes exactly one instruction, regardless of where the scanline's
// cycle budget stands.
//
// The instruction runs against a zeroed cycle counter so that a data
// breakpoint firing mid-instruction (which zeroes the counter) cannot corrupt
// the scanline schedule. The true counter value is patched into the undo log
// afterwards and the measured cost applied to the schedule.
func (ti *TI99) Step() error {
	ti.CPU.ServicePendingInterrupt()

	wasIdle := ti.CPU.Idle
	saved := ti.Mem.Cycles()
	ti.Mem.SetCycles(0)

	err := ti.CPU.ExecuteInstruction()
	cost := ti.Mem.Cycles()

	// an idle step and a breakpointed fetch push no undo records, so there
	// is nothing to patch
	if err == nil && !wasIdle && !ti.CPU.BreakpointHit {
		if ferr := ti.Rec.FixLastCycleRecord(saved); ferr != nil {
			logger.Logf("ti99", "step: %v", ferr)
		}
	}

	ti.Mem.SetCycles(saved + cost)

	return err
}
