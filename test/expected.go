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

package test

import "testing"

// outcome reduces a value to success or failure as appropriate for its type:
// a bool is its own outcome, an error succeeds when nil, a nil value counts
// as success. The second return value is false for any other type.
func outcome(v interface{}) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case error:
		return v == nil, true
	case nil:
		return true, true
	}
	return false, false
}

// ExpectedFailure tests argument v for a failure condition suitable for its
// type. Supported types are bool (expected false), error (expected non-nil)
// and nil (always a test failure).
func ExpectedFailure(t *testing.T, v interface{}) bool {
	t.Helper()

	ok, supported := outcome(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}

	if ok {
		t.Errorf("expected failure (%T)", v)
		return false
	}

	return true
}

// ExpectedSuccess tests argument v for a success condition suitable for its
// type. Supported types are bool (expected true), error (expected nil) and
// nil (always a test success).
func ExpectedSuccess(t *testing.T, v interface{}) bool {
	t.Helper()

	ok, supported := outcome(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}

	if !ok {
		if err, isErr := v.(error); isErr {
			t.Errorf("expected success (error: %v)", err)
			return false
		}
		t.Errorf("expected success (%T)", v)
		return false
	}

	return true
}
