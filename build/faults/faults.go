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

// Package faults defines the errors raised by the lowering passes.
//
// All faults are compiler-internal: they signal an inconsistency in the
// IR handed to the lowering layer, not a user error. A fault aborts the
// lowering of one function; sibling functions are unaffected.
package faults

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a lowering fault.
type Kind int

const (
	// Unknown fault.
	Unknown Kind = iota
	// InvalidState signals an operation on an undefined value,
	// for example querying the type of an undefined argument.
	InvalidState
	// IndexOutOfRange signals a bad axis offset or argument index.
	IndexOutOfRange
	// DescriptorMismatch signals an inconsistency between a function
	// signature and its body caught by validation.
	DescriptorMismatch
	// UnresolvedSymbol signals a buffer or variable reference absent
	// from the symbol scope during collection.
	UnresolvedSymbol
)

// String returns a string representation of a fault kind.
func (k Kind) String() string {
	switch k {
	case InvalidState:
		return "invalid state"
	case IndexOutOfRange:
		return "index out of range"
	case DescriptorMismatch:
		return "descriptor mismatch"
	case UnresolvedSymbol:
		return "unresolved symbol"
	}
	return "unknown"
}

// Fault is an error tagged with the kind of inconsistency it reports.
type Fault struct {
	kind Kind
	err  error
}

var _ error = (*Fault)(nil)

// Errorf returns a new fault of the given kind.
func Errorf(kind Kind, format string, a ...any) error {
	return &Fault{kind: kind, err: errors.Errorf(format, a...)}
}

// Wrap tags an existing error with a fault kind.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{kind: kind, err: err}
}

// Kind of the fault.
func (f *Fault) Kind() Kind {
	return f.kind
}

// Error returns a string description of the fault.
func (f *Fault) Error() string {
	return f.kind.String() + ": " + f.err.Error()
}

// Unwrap the underlying error.
func (f *Fault) Unwrap() error {
	return f.err
}

// Format writes the fault into the state of the formatter.
func (f *Fault) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	fmt.Fprintf(s, "%s: ", f.kind)
	fmt.Fprintf(s, fmt.Sprintf("%%%s%s", flag, string(verb)), f.err)
}

// KindOf returns the kind of a fault, or Unknown if the error
// is not a fault or wraps none.
func KindOf(err error) Kind {
	var f *Fault
	if !errors.As(err, &f) {
		return Unknown
	}
	return f.kind
}

// Internal marks an error as internal, adding reporting information.
// A lowered function that faults cannot be safely emitted.
func Internal(err error) error {
	return fmt.Errorf("kir internal error. This is a bug in kir. Please report it. Error:\n%+v", err)
}
