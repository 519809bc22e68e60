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

// Package cpu emulates the 16-bit processor at the heart of the console.
//
// The processor is unusual in that it keeps its sixteen general purpose
// registers in memory rather than on the chip. The workspace pointer names
// the block of memory holding the registers; a "context switch" (BLWP, XOP,
// RTWP and interrupt servicing) is therefore very cheap, amounting to a
// change of the workspace pointer with the outgoing context stored in three
// registers of the incoming workspace.
//
// Instructions execute atomically: ExecuteInstruction() commits all of an
// instruction's effects and charges all of its cycles before returning. Cycle
// counts are the sum of the decoded instruction's base cost, the addressing
// mode costs, and the cost of every bus access the instruction performs; the
// bus charges access costs itself, which is how wait states on the
// multiplexed bus slow the CPU down without the CPU knowing.
//
// Interrupt requests are level-triggered lines sampled between instructions.
// The lowest asserted level wins and is compared against the status
// register's interrupt mask; level zero is never masked.
package cpu
