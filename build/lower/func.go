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

// Package lower turns a scheduled computation body into a fully
// specified, emittable kernel function: resolved signature, buffer
// lifetimes, device launch geometry, and the bookkeeping expressions a
// backend needs to generate correct host and device entry points.
package lower

import (
	"fmt"
	"strings"

	kirfmt "github.com/kir-org/kir/base/fmt"
	"github.com/kir-org/kir/base/scope"
	"github.com/kir-org/kir/build/ir"
	"github.com/pkg/errors"
)

// Device is the target a lowered function runs on.
type Device int

const (
	// DeviceUnknown target.
	DeviceUnknown Device = iota
	// DeviceHost is the CPU.
	DeviceHost
	// DeviceCUDA is a CUDA GPU.
	DeviceCUDA
)

// String returns a string representation of the device.
func (d Device) String() string {
	switch d {
	case DeviceHost:
		return "host"
	case DeviceCUDA:
		return "cuda"
	}
	return "unknown"
}

// LoweredFunc is a function specified enough for a backend emitter to
// generate code from: a name, an ordered argument list (inputs first,
// outputs in the tail), the body, temporary buffers and spaces, launch
// geometry, and the four synthesized expression lists.
//
// A LoweredFunc is shared by pointer. It is mutated in place only by
// its preparation methods during compilation and is read-only once
// handed to the emitter. The expression nodes it references are shared
// with the body and are never deep-copied.
type LoweredFunc struct {
	// Name of the function, unique within the compilation unit.
	Name string

	// Args used in the body of the function.
	// All output arguments follow all input arguments.
	Args []Argument

	// TempBufs are buffers used in the body but absent from the
	// argument list. They are allocated and freed inside the body.
	TempBufs []*ir.Buffer

	// TempSpaces are scratch regions that appear in the argument list.
	TempSpaces []TempSpaceInfo

	// NumOutputTensors is the count of output buffer arguments.
	// It does not include temp spaces.
	NumOutputTensors int

	// Body of the function.
	Body ir.Expr

	// Device the function is lowered for.
	Device Device

	// CudaAxisInfo is the launch geometry when the function is a GPU
	// device entry point.
	CudaAxisInfo CudaAxisInfo

	// Expression lists synthesized by the preparation pipeline. The
	// emitter splices the first three at the head of the body and the
	// deallocations at every exit path.
	AllocOutputBufferExprs   []ir.Expr
	DeallocOutputBufferExprs []ir.Expr
	BufferDataCastExprs      []ir.Expr
	ArgumentPrepareExprs     []ir.Expr

	symbols scope.Scope[ir.Expr]
}

// New constructs a lowered function in full mode: the caller supplies
// complete buffer and IO metadata and the whole preparation pipeline
// runs before the function is returned.
func New(name string, args []Argument, body ir.Expr, tempBufs []*ir.Buffer) (*LoweredFunc, error) {
	f := NewSimplified(name, args, body)
	f.TempBufs = tempBufs
	f.NumOutputTensors = countOutputTensors(args)
	if err := f.CheckValid(); err != nil {
		return nil, errors.Wrapf(err, "cannot lower function %s", name)
	}
	for _, prepare := range []func() error{
		f.AllocTempBuffers,
		f.PrepareCudaAxisInfoFromBody,
		f.PrepareAllocOutputBufferExprs,
		f.PrepareDeallocOutputBufferExprs,
		func() error { return f.PrepareBufferCastExprs(true) },
		f.PrepareArgumentExprs,
	} {
		if err := prepare(); err != nil {
			return nil, errors.Wrapf(err, "cannot lower function %s", name)
		}
	}
	return f, nil
}

// NewSimplified constructs a lowered function from a minimal
// signature, regardless of the buffer and IO information of the
// arguments. Classification and the preparation pipeline are deferred
// to later passes: cast and argument-prepare generation require fully
// classified arguments and must not run before classification is done.
func NewSimplified(name string, args []Argument, body ir.Expr) *LoweredFunc {
	return &LoweredFunc{
		Name: name,
		Args: args,
		Body: body,
	}
}

func countOutputTensors(args []Argument) int {
	n := 0
	for _, arg := range args {
		if arg.IsBuffer() && arg.IsOutput() {
			n++
		}
	}
	return n
}

// BindScope attaches the symbol lookup context consulted during
// collection. The scope must be read-only while the function is being
// prepared. Without a scope, body references resolve to themselves.
func (f *LoweredFunc) BindScope(symbols scope.Scope[ir.Expr]) {
	f.symbols = symbols
}

// IsGPUHost returns true if the emitter must generate a device kernel
// entry together with a host-side launcher for this function.
func (f *LoweredFunc) IsGPUHost() bool {
	return f.CudaAxisInfo.Valid()
}

// ExprFields returns the body and every synthesized expression list,
// read-only, in the order the emitter splices them: argument
// preparation, output allocations, pointer casts, body, output
// deallocations.
func (f *LoweredFunc) ExprFields() []ir.Expr {
	var all []ir.Expr
	all = append(all, f.ArgumentPrepareExprs...)
	all = append(all, f.AllocOutputBufferExprs...)
	all = append(all, f.BufferDataCastExprs...)
	all = append(all, f.Body)
	all = append(all, f.DeallocOutputBufferExprs...)
	return all
}

// String returns a debug representation of the function.
func (f *LoweredFunc) String() string {
	var s strings.Builder
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.HumanReadable()
	}
	fmt.Fprintf(&s, "function %s(%s)", f.Name, strings.Join(args, ", "))
	if f.IsGPUHost() {
		fmt.Fprintf(&s, " <%s>", f.CudaAxisInfo.String())
	}
	s.WriteString(" {\n")
	for _, expr := range f.ArgumentPrepareExprs {
		s.WriteString(kirfmt.Indent(expr.String() + "\n"))
	}
	for _, expr := range f.AllocOutputBufferExprs {
		s.WriteString(kirfmt.Indent(expr.String() + "\n"))
	}
	for _, expr := range f.BufferDataCastExprs {
		s.WriteString(kirfmt.Indent(expr.String() + "\n"))
	}
	if f.Body != nil {
		s.WriteString(kirfmt.Indent(f.Body.String() + "\n"))
	}
	for _, expr := range f.DeallocOutputBufferExprs {
		s.WriteString(kirfmt.Indent(expr.String() + "\n"))
	}
	s.WriteString("}")
	return s.String()
}
