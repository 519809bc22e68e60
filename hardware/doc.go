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

// Package hardware assembles the console from its parts: CPU, memory bus,
// interface controller, video processor, graphics ROM and sound generator.
//
// The TI99 type owns the scheduling of the whole machine. Time advances in
// scanline quanta against a single shared cycle counter (owned by the memory
// bus, because that is where nearly all time is spent); RunScanline() is the
// unit of work for normal running, Step() for the debugger, Undo() for
// stepping backwards.
package hardware
