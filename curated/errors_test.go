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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher99/curated"
	"github.com/jetsetilly/gopher99/test"
)

const (
	outerPattern = "outer: %v"
	innerPattern = "inner: %v"
)

func TestIdentification(t *testing.T) {
	e := curated.Errorf(outerPattern, "fault")
	test.ExpectedSuccess(t, curated.IsAny(e))
	test.ExpectedSuccess(t, curated.Is(e, outerPattern))
	test.ExpectedFailure(t, curated.Is(e, innerPattern))

	// Is() sees only the outermost error, Has() walks the chain
	w := curated.Errorf(outerPattern, curated.Errorf(innerPattern, "fault"))
	test.ExpectedFailure(t, curated.Is(w, innerPattern))
	test.ExpectedSuccess(t, curated.Has(w, innerPattern))
	test.ExpectedSuccess(t, curated.Has(w, outerPattern))

	plain := errors.New("plain")
	test.ExpectedFailure(t, curated.IsAny(plain))
	test.ExpectedFailure(t, curated.Has(plain, outerPattern))
	test.ExpectedFailure(t, curated.Is(nil, outerPattern))
}

func TestMessageNormalisation(t *testing.T) {
	// wrapping an error in a pattern that repeats its head collapses the
	// duplicated part
	inner := curated.Errorf("debugger: %v", "not an address")
	outer := curated.Errorf("debugger: %v", inner)
	test.Equate(t, outer.Error(), "debugger: not an address")

	// distinct parts are left alone
	other := curated.Errorf("snapshot: %v", inner)
	test.Equate(t, other.Error(), "snapshot: debugger: not an address")
}
