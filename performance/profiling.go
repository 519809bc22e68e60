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

// Package performance profiles the emulation core. The statsview package is
// the live alternative; this package writes pprof files for offline study.
package performance

import (
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/jetsetilly/gopher99/curated"
)

// sentinel errors raised by the performance package.
const (
	ProfilingError = "profiling: %v"
)

// Profile the supplied function. The mode string is a comma separated list
// of "cpu" and "mem". Profiles are written to <prefix>_cpu.profile and
// <prefix>_mem.profile.
func Profile(mode string, prefix string, run func() error) error {
	mode = strings.ToLower(mode)

	cpu := strings.Contains(mode, "cpu")
	mem := strings.Contains(mode, "mem")

	if cpu {
		f, err := os.Create(prefix + "_cpu.profile")
		if err != nil {
			return curated.Errorf(ProfilingError, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return curated.Errorf(ProfilingError, err)
		}
		defer pprof.StopCPUProfile()
	}

	err := run()
	if err != nil {
		return err
	}

	if mem {
		f, ferr := os.Create(prefix + "_mem.profile")
		if ferr != nil {
			return curated.Errorf(ProfilingError, ferr)
		}
		defer f.Close()
		runtime.GC()
		if ferr := pprof.WriteHeapProfile(f); ferr != nil {
			return curated.Errorf(ProfilingError, ferr)
		}
	}

	return nil
}
