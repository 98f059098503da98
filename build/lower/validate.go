// Copyright 2025 The kir Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lower

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kir-org/kir/build/faults"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// CheckValid confirms the internal consistency of the function
// descriptor: every argument is defined, outputs are contiguous in the
// tail of the argument list, NumOutputTensors matches the argument
// list, no name is declared twice across arguments, temp buffers and
// temp spaces, and every temp space indexes a valid argument position.
//
// All violations are collected; any violation means the function
// cannot be safely emitted.
func (f *LoweredFunc) CheckValid() error {
	var errs error
	seenOutput := false
	for i, arg := range f.Args {
		if !arg.Defined() {
			errs = multierr.Append(errs, faults.Errorf(faults.DescriptorMismatch,
				"argument %d of %s is undefined", i, f.Name))
			continue
		}
		if arg.IsOutput() {
			seenOutput = true
		} else if seenOutput {
			errs = multierr.Append(errs, faults.Errorf(faults.DescriptorMismatch,
				"%s argument %s of %s placed after an output argument", arg.IO(), arg.Name(), f.Name))
		}
	}
	if n := countOutputTensors(f.Args); n != f.NumOutputTensors {
		errs = multierr.Append(errs, faults.Errorf(faults.DescriptorMismatch,
			"%s declares %d output tensors but its argument list has %d", f.Name, f.NumOutputTensors, n))
	}
	errs = multierr.Append(errs, f.checkNames())
	numPositions := len(f.Args) + len(f.TempSpaces)
	for _, space := range f.TempSpaces {
		if space.ArgIdx() < 0 || space.ArgIdx() >= numPositions {
			errs = multierr.Append(errs, faults.Errorf(faults.IndexOutOfRange,
				"temp space of %s indexes argument %d but the signature has %d positions",
				f.Name, space.ArgIdx(), numPositions))
		}
	}
	return errs
}

func (f *LoweredFunc) checkNames() error {
	origins := make(map[string][]string)
	declare := func(name, origin string) {
		if name == "" {
			return
		}
		origins[name] = append(origins[name], origin)
	}
	for _, arg := range f.Args {
		declare(arg.Name(), "argument")
	}
	for _, buf := range f.TempBufs {
		declare(buf.Name, "temp buffer")
	}
	for _, space := range f.TempSpaces {
		declare(fmt.Sprintf("_temp_space_%d", space.ArgIdx()), "temp space")
	}
	var errs error
	names := maps.Keys(origins)
	slices.Sort(names)
	for _, name := range names {
		if len(origins[name]) < 2 {
			continue
		}
		errs = multierr.Append(errs, faults.Errorf(faults.DescriptorMismatch,
			"%s declares %s more than once (%s)", f.Name, name, strings.Join(origins[name], ", ")))
	}
	return errs
}
