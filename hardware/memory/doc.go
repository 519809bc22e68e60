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

// Package memory implements the console's memory bus: a page-granular
// dispatch table routing every access in the 64KB address space to the
// owning handler.
//
// The bus is where cycle time is accounted for. Every word access charges
// the fixed memory access cost plus the page's wait states to the shared
// cycle counter; the CPU's register file lives in memory, so even
// register-to-register instructions pay bus time. The choice of wait states
// reflects the original machine: console ROM and the scratchpad sit on the
// fast 16-bit bus, everything else is behind the multiplexed 8-bit bus.
//
// Pages are either directly backed (RAM, ROM, the banked cartridge) or
// claimed by a device handler (VDP, GROM, sound). Devices supply a safe-read
// alongside the live handler so that the debugger can inspect memory without
// disturbing address latches or status flags.
//
// Breakpoints are implemented by shadowing pages. A shadowed page consults
// the debugger's fetch and access predicates: a fetch hit aborts the decode
// loop before the instruction executes, a data hit zeroes the cycle counter
// so the CPU loop yields after the current instruction. Removing breakpoints
// restores the preserved original handlers exactly.
package memory
