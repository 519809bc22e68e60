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

package debugger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/gopher99/hardware/memory"
)

// breakpoints is the store of fetch breakpoints and data watchpoints. It
// supplies the predicates the memory bus consults on shadowed pages.
type breakpoints struct {
	mem *memory.Bus

	fetch map[uint16]bool
	data  map[uint16]bool

	// when resuming from a stop at a fetch breakpoint the very next fetch of
	// that address has to fall through, or the resume would stop on the spot
	resumeAddress uint16
	resumeArmed   bool

	// most recent data watchpoint hit, for reporting
	lastData uint16
	dataHit  bool
}

func newBreakpoints(mem *memory.Bus) *breakpoints {
	bp := &breakpoints{
		mem:   mem,
		fetch: make(map[uint16]bool),
		data:  make(map[uint16]bool),
	}
	mem.AttachHooks(bp.onFetch, bp.onAccess)
	return bp
}

// onFetch is the bus's fetch predicate.
func (bp *breakpoints) onFetch(address uint16) bool {
	if bp.resumeArmed && address == bp.resumeAddress {
		bp.resumeArmed = false
		return false
	}
	return bp.fetch[address]
}

// onAccess is the bus's data access predicate.
func (bp *breakpoints) onAccess(address uint16) bool {
	if bp.data[address] {
		bp.lastData = address
		bp.dataHit = true
		return true
	}
	return false
}

// arm the one-shot pass-through for a resume from the address.
func (bp *breakpoints) arm(address uint16) {
	bp.resumeAddress = address
	bp.resumeArmed = true
}

// checkDataHit returns and clears the most recent watchpoint hit.
func (bp *breakpoints) checkDataHit() (uint16, bool) {
	address, hit := bp.lastData, bp.dataHit
	bp.dataHit = false
	return address, hit
}

// reinstall the page shadows to match the current breakpoint set.
func (bp *breakpoints) reinstall() {
	bp.mem.RemoveBreakpoints()
	for address := range bp.fetch {
		bp.mem.InstallBreakpoints(address, address)
	}
	for address := range bp.data {
		bp.mem.InstallBreakpoints(address, address)
	}
}

func (bp *breakpoints) addFetch(address uint16) {
	bp.fetch[address&0xfffe] = true
	bp.reinstall()
}

func (bp *breakpoints) addData(address uint16) {
	bp.data[address&0xfffe] = true
	bp.reinstall()
}

func (bp *breakpoints) clear() {
	bp.fetch = make(map[uint16]bool)
	bp.data = make(map[uint16]bool)
	bp.resumeArmed = false
	bp.dataHit = false
	bp.reinstall()
}

func (bp *breakpoints) String() string {
	if len(bp.fetch) == 0 && len(bp.data) == 0 {
		return "no breakpoints"
	}

	list := make([]string, 0, len(bp.fetch)+len(bp.data))
	for address := range bp.fetch {
		list = append(list, fmt.Sprintf("break %04x", address))
	}
	for address := range bp.data {
		list = append(list, fmt.Sprintf("watch %04x", address))
	}
	sort.Strings(list)

	return strings.Join(list, "\n")
}
