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

	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
)

// IO is the direction of an argument.
type IO int

const (
	// Input argument.
	Input IO = iota
	// Output argument.
	Output
	// Unknown direction, to be classified by a later pass.
	Unknown
)

// String returns a string representation of the direction.
func (io IO) String() string {
	switch io {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "unknown"
}

// Argument of a lowered function: either a buffer or a scalar
// variable, tagged with an IO direction. The zero value is undefined.
//
// An argument does not own the buffer or variable it references: both
// point into the shared symbol space of the compilation unit.
type Argument struct {
	io     IO
	buffer *ir.Buffer
	scalar *ir.Var
}

// BufferArg returns a buffer argument.
func BufferArg(buffer *ir.Buffer, io IO) Argument {
	return Argument{io: io, buffer: buffer}
}

// ScalarArg returns a scalar variable argument.
func ScalarArg(scalar *ir.Var, io IO) Argument {
	return Argument{io: io, scalar: scalar}
}

// IO direction of the argument.
func (a Argument) IO() IO { return a.io }

// IsInput returns true for an input argument.
func (a Argument) IsInput() bool { return a.io == Input }

// IsOutput returns true for an output argument.
func (a Argument) IsOutput() bool { return a.io == Output }

// IsBuffer returns true if the argument is a buffer.
func (a Argument) IsBuffer() bool { return a.buffer.Defined() }

// IsVar returns true if the argument is a scalar variable.
func (a Argument) IsVar() bool { return a.scalar != nil && a.scalar.Name != "" }

// Defined returns true if exactly one of the buffer or the scalar is set.
func (a Argument) Defined() bool { return a.IsBuffer() != a.IsVar() }

// Buffer of the argument, or nil for a scalar argument.
func (a Argument) Buffer() *ir.Buffer { return a.buffer }

// Var of the argument, or nil for a buffer argument.
func (a Argument) Var() *ir.Var { return a.scalar }

// Type returns the element kind of the buffer or the kind of the
// scalar. Querying an undefined argument is an invalid state fault.
func (a Argument) Type() (ir.Kind, error) {
	switch {
	case a.IsBuffer():
		return a.buffer.DType, nil
	case a.IsVar():
		return a.scalar.Knd, nil
	}
	return ir.Invalid, faults.Errorf(faults.InvalidState, "type of an undefined argument")
}

// Name of the underlying buffer or scalar, or the empty string for an
// undefined argument.
func (a Argument) Name() string {
	switch {
	case a.IsBuffer():
		return a.buffer.Name
	case a.IsVar():
		return a.scalar.Name
	}
	return ""
}

// HumanReadable returns a debug string annotated with the direction
// and the buffer/scalar kind of the argument.
func (a Argument) HumanReadable() string {
	switch {
	case a.IsBuffer():
		return fmt.Sprintf("buffer(%s:%s, %s)", a.buffer.Name, a.buffer.DType, a.io)
	case a.IsVar():
		return fmt.Sprintf("var(%s:%s, %s)", a.scalar.Name, a.scalar.Knd, a.io)
	}
	return "undefined"
}

// String returns the human readable form.
func (a Argument) String() string {
	return a.HumanReadable()
}
