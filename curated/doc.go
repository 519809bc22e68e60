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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function.
//
//	err := curated.Errorf("model: %v", err)
//
// The pattern string can be stored and reused. A stored pattern can then be
// used to test the identity of an error deep in the error chain:
//
//	const timeout = "communication timeout"
//
//	err := doSomething()
//	if curated.Is(err, timeout) {
//		fixTimeout()
//	}
//
// The Is() function checks the outer-most error in the chain, while Has()
// checks the entire chain. Patterns with placeholder verbs can be matched by
// passing the unformatted pattern to Is() or Has().
//
// Sentinel errors for the emulation's core packages are defined close to the
// code that raises them. See the rewind and memory packages in particular.
package curated
