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

package grom_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/hardware/peripherals/grom"
	"github.com/jetsetilly/gopher99/test"
)

const (
	portRead         = uint16(0x9800)
	portReadAddress  = uint16(0x9802)
	portWriteAddress = uint16(0x9c02)
)

func word(b uint8) uint16 {
	return uint16(b) << 8
}

func TestStreamingRead(t *testing.T) {
	g := grom.NewGROM()
	g.Attach(0x6000, []byte{0x11, 0x22, 0x33})

	// address is written high byte first
	g.Write(portWriteAddress, word(0x60))
	g.Write(portWriteAddress, word(0x00))

	test.Equate(t, g.Read(portRead), word(0x11))
	test.Equate(t, g.Read(portRead), word(0x22))
	test.Equate(t, g.Read(portRead), word(0x33))
}

func TestAddressReadback(t *testing.T) {
	g := grom.NewGROM()
	g.Attach(0, make([]byte, 0x100))

	g.Write(portWriteAddress, word(0x12))
	g.Write(portWriteAddress, word(0x34))

	// readback is high byte then low byte. the counter has moved past the
	// prefetched byte
	test.Equate(t, g.Read(portReadAddress), word(0x12))
	test.Equate(t, g.Read(portReadAddress), word(0x35))
}

func TestCounterWrapsWithinSegment(t *testing.T) {
	g := grom.NewGROM()
	data := make([]byte, 0x2000)
	data[0x1fff] = 0xaa
	data[0x0000] = 0xbb
	g.Attach(0x2000, data[:0x2000])

	// attach places the segment at 0x2000-0x3fff. point at its last byte
	g.Write(portWriteAddress, word(0x3f))
	g.Write(portWriteAddress, word(0xff))

	test.Equate(t, g.Read(portRead), word(0xaa))

	// the counter wrapped to the start of the same segment, not to 0x4000
	test.Equate(t, g.Read(portRead), word(0xbb))
}
