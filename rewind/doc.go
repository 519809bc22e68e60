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

// Package rewind gives the emulation exact reverse execution. Unlike a
// snapshotting scheme, the history is a flat log of individual mutations:
// every component pushes a compact 32-bit record for every change it makes to
// machine state, and undoing one instruction means walking the log backwards
// to the previous instruction boundary, applying each record's inverse.
//
// The log is a fixed-capacity ring. Under pressure the oldest records are
// silently discarded - bounded, lossy history is the design, not a failure.
// The only error the package raises during normal use is Exhausted, when a
// rewind request finds no instruction boundary left in the ring.
//
// The core correctness property, exercised by the test suite here and in the
// hardware package: executing an instruction, popping it, and executing it
// again must produce byte-identical machine state.
package rewind
