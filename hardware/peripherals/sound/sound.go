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

// Package sound implements the programmable sound generator's command
// interface: three tone channels, one noise channel, four attenuators.
//
// The chip is write-only. A command byte with the top bit set latches a
// register and carries the low four bits of its value; a following data byte
// supplies the upper six bits of a tone period. No sample stream is
// generated; the register file exists so that programs poking the chip see
// consistent state and so that the debugger can display it.
package sound

import (
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gopher99/logger"
)

// register indices follow the command byte encoding: tone and volume pairs
// for the three tone channels, then noise control and noise volume.
const (
	Tone1 = iota
	Volume1
	Tone2
	Volume2
	Tone3
	Volume3
	Noise
	VolumeNoise
	NumRegisters
)

// Generator is the programmable sound generator.
type Generator struct {
	registers [NumRegisters]uint16

	// the register addressed by the most recent command byte
	latched uint8
}

// NewGenerator is the preferred method of initialisation for the Generator
// type.
func NewGenerator() *Generator {
	return &Generator{}
}

// Reset the generator. All attenuators to maximum attenuation, which is
// silence.
func (snd *Generator) Reset() {
	snd.registers = [NumRegisters]uint16{}
	snd.registers[Volume1] = 0xf
	snd.registers[Volume2] = 0xf
	snd.registers[Volume3] = 0xf
	snd.registers[VolumeNoise] = 0xf
	snd.latched = 0
}

// Read implements the bus Handler interface. The chip has no read side.
func (snd *Generator) Read(address uint16) uint16 {
	logger.Logf("sound", "read from write-only device (%#04x)", address)
	return 0
}

// Write implements the bus Handler interface.
func (snd *Generator) Write(address uint16, value uint16) {
	b := uint8(value >> 8)

	if b&0x80 != 0 {
		snd.latched = (b >> 4) & 0x7
		if snd.latched == Noise || snd.latched&1 == 1 {
			// noise control and attenuators fit in the command byte
			snd.registers[snd.latched] = uint16(b & 0xf)
		} else {
			snd.registers[snd.latched] = snd.registers[snd.latched]&0x3f0 | uint16(b&0xf)
		}
		return
	}

	// data byte: upper six bits of the latched tone period
	if snd.latched&1 == 0 && snd.latched != Noise {
		snd.registers[snd.latched] = uint16(b&0x3f)<<4 | snd.registers[snd.latched]&0xf
	} else {
		snd.registers[snd.latched] = uint16(b & 0xf)
	}
}

// SafeRead implements the bus SafeReader interface.
func (snd *Generator) SafeRead(address uint16) uint16 {
	return 0
}

// Register returns the value of a generator register. Debugging surface.
func (snd *Generator) Register(reg int) uint16 {
	return snd.registers[reg%NumRegisters]
}

// SaveState serialises the register file.
func (snd *Generator) SaveState(w io.Writer) error {
	for _, f := range []interface{}{snd.registers, snd.latched} {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadState restores a serialisation made with SaveState.
func (snd *Generator) LoadState(r io.Reader) error {
	for _, f := range []interface{}{&snd.registers, &snd.latched} {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}
