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

package memory

import (
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// BankSize is the number of bytes visible through the cartridge window.
const BankSize = 0x2000

// Cartridge is the banked ROM at the cartridge window. Writing anywhere in
// the window selects the bank given by the written address: the write to
// base+2n selects bank n. This is how the original cartridges with more than
// one bank of ROM worked - the data lines are ignored, the address lines are
// the bank number.
type Cartridge struct {
	banks [][]uint16
	bank  int

	// mask applied to the bank select address. always a power of two minus
	// one; a cartridge with a non-power-of-two number of banks clamps the
	// surplus indexes (with a warning) rather than failing
	mask int

	rec *rewind.Rewind
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. A cartridge with no attached data reads as zero.
func NewCartridge(rec *rewind.Rewind) *Cartridge {
	cart := &Cartridge{rec: rec}
	cart.Attach(nil)
	return cart
}

// Attach cartridge data, big-endian word order. The data is split into 8KB
// banks; a final partial bank is padded with zeros (with a warning).
func (c *Cartridge) Attach(data []byte) {
	if len(data)%BankSize != 0 {
		logger.Logf("cartridge", "data is %d bytes, padding to a whole bank", len(data))
	}

	numBanks := (len(data) + BankSize - 1) / BankSize
	if numBanks == 0 {
		numBanks = 1
	}

	c.banks = make([][]uint16, numBanks)
	for b := 0; b < numBanks; b++ {
		c.banks[b] = make([]uint16, BankSize/2)
		for i := range c.banks[b] {
			o := b*BankSize + i*2
			if o+1 < len(data) {
				c.banks[b][i] = uint16(data[o])<<8 | uint16(data[o+1])
			}
		}
	}

	c.mask = 1
	for c.mask < numBanks {
		c.mask <<= 1
	}
	c.mask--

	c.bank = 0
}

// NumBanks returns the number of banks in the attached cartridge.
func (c *Cartridge) NumBanks() int {
	return len(c.banks)
}

// GetBank returns the currently selected bank. Exposed so that external
// tooling (disassembler, debugger) can know which bank is mapped at the
// cartridge window.
func (c *Cartridge) GetBank() int {
	return c.bank
}

// SetBank selects a bank directly, outside of normal bus operation. No undo
// record is pushed. Out of range banks are clamped with a warning.
func (c *Cartridge) SetBank(bank int) {
	c.bank = c.clamp(bank)
}

func (c *Cartridge) clamp(bank int) int {
	bank &= c.mask
	if bank >= len(c.banks) {
		logger.Logf("cartridge", "bank %d beyond last bank, clamping", bank)
		bank = len(c.banks) - 1
	}
	return bank
}

// Read implements the Handler interface.
func (c *Cartridge) Read(address uint16) uint16 {
	return c.banks[c.bank][(address-addresses.OriginCart)>>1]
}

// Write implements the Handler interface. Writes to the cartridge window are
// bank selects, not stores.
func (c *Cartridge) Write(address uint16, value uint16) {
	c.rec.Push(rewind.Bank(c.bank))
	c.bank = c.clamp(int(address-addresses.OriginCart) >> 1)
}

// SafeRead implements the SafeReader interface.
func (c *Cartridge) SafeRead(address uint16) uint16 {
	return c.banks[c.bank][(address-addresses.OriginCart)>>1]
}

// Poke implements the Poker interface. The poke lands in the currently
// selected bank.
func (c *Cartridge) Poke(address uint16, value uint16) {
	c.banks[c.bank][(address-addresses.OriginCart)>>1] = value
}
