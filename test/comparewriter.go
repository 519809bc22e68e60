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

// Writer is an implementation of the io.Writer interface. It should be used
// to capture output during testing. Implements the Stringer interface for
// convenient comparison.
type Writer struct {
	buffer []byte
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (n int, err error) {
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

// Compare buffered output with the supplied string.
func (w *Writer) Compare(s string) bool {
	return s == string(w.buffer)
}

// Clear the buffer.
func (w *Writer) Clear() {
	w.buffer = w.buffer[:0]
}

func (w *Writer) String() string {
	return string(w.buffer)
}
