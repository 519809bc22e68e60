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

package curated

import (
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface. The
// message is formatted once, at creation; the pattern is kept alongside it
// for identification with Is() and Has(), as is the list of curated errors
// that were wrapped during formatting.
type curated struct {
	pattern string
	message string
	wrapped []curated
}

// Errorf creates a new curated error.
//
// The first argument is named "pattern" rather than "format" because it does
// double duty: it formats the message, and it identifies the error to the
// Is() and Has() functions.
func Errorf(pattern string, values ...interface{}) error {
	er := curated{
		pattern: pattern,
		message: normalise(fmt.Sprintf(pattern, values...)),
	}

	// curated errors among the format values form the error chain walked by
	// Has()
	for _, v := range values {
		if e, ok := v.(curated); ok {
			er.wrapped = append(er.wrapped, e)
		}
	}

	return er
}

// normalise removes a duplicated leading part from an error message. The
// duplication arises when an error is wrapped in a pattern repeating the head
// of the wrapped message. Letter-case and white space are left alone.
func normalise(s string) string {
	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return s
}

// Error implements the go language error interface.
func (er curated) Error() string {
	return er.message
}

// IsAny checks if the error is a curated error.
func IsAny(err error) bool {
	_, ok := err.(curated)
	return ok
}

// Is checks if the error is a curated error with a specific pattern.
func Is(err error, pattern string) bool {
	er, ok := err.(curated)
	return ok && er.pattern == pattern
}

// Has checks if the error is a curated error with a specific pattern
// somewhere in the chain.
func Has(err error, pattern string) bool {
	er, ok := err.(curated)
	if !ok {
		return false
	}

	if er.pattern == pattern {
		return true
	}

	for _, w := range er.wrapped {
		if Has(w, pattern) {
			return true
		}
	}

	return false
}
