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

package cpu

import (
	"fmt"
	"math/bits"
)

// StatusRegister is the CPU's status word. The flag bits live in the top of
// the word, the interrupt mask in the bottom four bits; everything in between
// reads as zero.
type StatusRegister struct {
	// L> - logical (unsigned) greater than
	LogicalGreater bool

	// A> - arithmetic (signed) greater than
	ArithmeticGreater bool

	// EQ
	Equal bool

	// C - carry out of the most significant bit
	Carry bool

	// OV - signed overflow
	Overflow bool

	// OP - odd parity. only byte operations touch this
	OddParity bool

	// X - set while an extended operation (XOP) is in progress
	ExtendedOp bool

	// the interrupt mask. levels above this value are held off. only the
	// bottom four bits are significant
	InterruptMask uint16
}

// bit positions within the status word.
const (
	maskLogicalGreater    = 0x8000
	maskArithmeticGreater = 0x4000
	maskEqual             = 0x2000
	maskCarry             = 0x1000
	maskOverflow          = 0x0800
	maskOddParity         = 0x0400
	maskExtendedOp        = 0x0200
	maskInterrupt         = 0x000f
)

// Value packs the status register into its word representation.
func (sr *StatusRegister) Value() uint16 {
	var v uint16
	if sr.LogicalGreater {
		v |= maskLogicalGreater
	}
	if sr.ArithmeticGreater {
		v |= maskArithmeticGreater
	}
	if sr.Equal {
		v |= maskEqual
	}
	if sr.Carry {
		v |= maskCarry
	}
	if sr.Overflow {
		v |= maskOverflow
	}
	if sr.OddParity {
		v |= maskOddParity
	}
	if sr.ExtendedOp {
		v |= maskExtendedOp
	}
	return v | (sr.InterruptMask & maskInterrupt)
}

// Load unpacks a status word into the status register. Undefined bits are
// dropped.
func (sr *StatusRegister) Load(v uint16) {
	sr.LogicalGreater = v&maskLogicalGreater != 0
	sr.ArithmeticGreater = v&maskArithmeticGreater != 0
	sr.Equal = v&maskEqual != 0
	sr.Carry = v&maskCarry != 0
	sr.Overflow = v&maskOverflow != 0
	sr.OddParity = v&maskOddParity != 0
	sr.ExtendedOp = v&maskExtendedOp != 0
	sr.InterruptMask = v & maskInterrupt
}

// Reset the status register to its power-on state. All flags clear, mask
// zero; nothing but level zero interrupts the CPU until the OS raises the
// mask with LIMI.
func (sr *StatusRegister) Reset() {
	sr.Load(0)
}

func (sr *StatusRegister) String() string {
	s := ""
	flag := func(set bool, label string) {
		if set {
			s += label + " "
		}
	}
	flag(sr.LogicalGreater, "L>")
	flag(sr.ArithmeticGreater, "A>")
	flag(sr.Equal, "EQ")
	flag(sr.Carry, "C")
	flag(sr.Overflow, "OV")
	flag(sr.OddParity, "OP")
	flag(sr.ExtendedOp, "X")
	return fmt.Sprintf("%sIM=%d", s, sr.InterruptMask)
}

// setLAE sets the comparison flags from a word result, compared against zero.
// A result with the sign bit set is greater than zero on neither comparison.
func (sr *StatusRegister) setLAE(result uint16) {
	sr.Equal = result == 0
	sr.LogicalGreater = result != 0 && result&0x8000 == 0
	sr.ArithmeticGreater = result != 0 && result&0x8000 == 0
}

// setLAEByte sets the comparison flags from a byte result.
func (sr *StatusRegister) setLAEByte(result uint8) {
	sr.Equal = result == 0
	sr.LogicalGreater = result != 0 && result&0x80 == 0
	sr.ArithmeticGreater = result != 0 && result&0x80 == 0
}

// setCompare sets the comparison flags from two word values, source against
// destination.
func (sr *StatusRegister) setCompare(src uint16, dst uint16) {
	sr.Equal = src == dst
	sr.LogicalGreater = src > dst
	sr.ArithmeticGreater = int16(src) > int16(dst)
}

// setCompareByte sets the comparison flags from two byte values.
func (sr *StatusRegister) setCompareByte(src uint8, dst uint8) {
	sr.Equal = src == dst
	sr.LogicalGreater = src > dst
	sr.ArithmeticGreater = int8(src) > int8(dst)
}

// setParity sets the odd parity flag from a byte.
func (sr *StatusRegister) setParity(b uint8) {
	sr.OddParity = bits.OnesCount8(b)&1 == 1
}
