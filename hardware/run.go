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

// The console is scheduled in scanline quanta. The shared cycle counter is
// pushed negative by one scanline's budget and the CPU runs until it climbs
// above zero; instruction overshoot carries into the next scanline because
// the budget is subtracted from the running counter rather than from zero.
const (
	// CPU cycles per scanline: the 3MHz processor clock divided by 262
	// scanlines at 60 frames per second
	CyclesPerScanline = 191

	// ScanlinesPerFrame for the NTSC console.
	ScanlinesPerFrame = 262

	// the scanline on which the vertical blanking interval begins and the
	// VDP raises its interrupt
	vblankScanline = 192
)

// RunScanline executes instructions until the scanline's cycle budget is
// exhausted, then performs the end-of-scanline work: stepping the countdown
// timer and, at the top of the vertical blank, raising the VDP interrupt.
//
// Returns early, mid-scanline, when an instruction fetch hits a breakpoint;
// the remaining budget is preserved for the resume.
func (ti *TI99) RunScanline() error {
	if !ti.midScanline {
		ti.Mem.SetCycles(ti.Mem.Cycles() - CyclesPerScanline)
		ti.midScanline = true
	}

	for ti.Mem.Cycles() <= 0 {
		ti.CPU.ServicePendingInterrupt()

		if err := ti.CPU.ExecuteInstruction(); err != nil {
			return err
		}

		if ti.CPU.BreakpointHit {
			return nil
		}
	}

	// a data watchpoint forces the counter positive mid-budget, so control can
	// arrive here with most of the scanline unexecuted. the scanline is closed
	// out in full anyway; the scheduling error is bounded by one scanline
	ti.midScanline = false
	ti.CRU.Step(CyclesPerScanline)

	ti.scanline++
	if ti.scanline == vblankScanline {
		ti.VDP.SetVerticalBlank()
	}
	if ti.scanline >= ScanlinesPerFrame {
		ti.scanline = 0
		ti.frame++
	}

	return nil
}

// Run the console until the continue check says otherwise or a breakpoint
// hits. The check is consulted once per scanline, which is frequent enough
// for interactive response without costing measurable speed.
func (ti *TI99) Run(continueCheck func() bool) error {
	if continueCheck == nil {
		continueCheck = func() bool { return true }
	}

	for continueCheck() {
		if err := ti.RunScanline(); err != nil {
			return err
		}
		if ti.CPU.BreakpointHit {
			return nil
		}
	}

	return nil
}
