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

	"github.com/kir-org/kir/base/ordered"
	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
)

// argsVar is the type-erased incoming argument array of the runtime
// calling convention.
var argsVar = ir.NewVar("_args", ir.Handle)

// handleVar returns the local variable holding the handle of a named
// buffer or space.
func handleVar(name string) *ir.Var {
	return ir.NewVar("_"+name, ir.Handle)
}

// PrepareAllocOutputBufferExprs synthesizes one runtime resize/allocate
// call per output buffer argument. Exact output extents may only be
// known once shape inference has run on the body, so allocation is
// deferred to the runtime call. The emitter splices these before any
// body statement references the buffer's storage.
func (f *LoweredFunc) PrepareAllocOutputBufferExprs() error {
	f.AllocOutputBufferExprs = nil
	for i, arg := range f.Args {
		if !arg.IsOutput() {
			continue
		}
		if !arg.Defined() {
			return faults.Errorf(faults.InvalidState, "argument %d of %s is undefined", i, f.Name)
		}
		if !arg.IsBuffer() {
			continue
		}
		f.AllocOutputBufferExprs = append(f.AllocOutputBufferExprs,
			ir.CallIntrinsic(ir.BufferMalloc, ir.Void, arg.Buffer()))
	}
	return nil
}

// PrepareDeallocOutputBufferExprs synthesizes the release call matching
// each output allocation. The emitter appends these after the last
// reference, on every exit path.
func (f *LoweredFunc) PrepareDeallocOutputBufferExprs() error {
	f.DeallocOutputBufferExprs = nil
	for i, arg := range f.Args {
		if !arg.IsOutput() {
			continue
		}
		if !arg.Defined() {
			return faults.Errorf(faults.InvalidState, "argument %d of %s is undefined", i, f.Name)
		}
		if !arg.IsBuffer() {
			continue
		}
		f.DeallocOutputBufferExprs = append(f.DeallocOutputBufferExprs,
			ir.CallIntrinsic(ir.BufferFree, ir.Void, arg.Buffer()))
	}
	return nil
}

func (f *LoweredFunc) eachTempBuf(each func(*ir.Buffer) ir.Expr) ([]ir.Expr, error) {
	exprs := make([]ir.Expr, 0, len(f.TempBufs))
	for _, buf := range f.TempBufs {
		if !buf.Defined() {
			return nil, faults.Errorf(faults.InvalidState, "undefined temp buffer in function %s", f.Name)
		}
		exprs = append(exprs, each(buf))
	}
	return exprs, nil
}

// PrepareCreateTempBufferExprs synthesizes the handle creation of every
// temp buffer, scoped strictly to the body.
func (f *LoweredFunc) PrepareCreateTempBufferExprs() ([]ir.Expr, error) {
	return f.eachTempBuf(func(buf *ir.Buffer) ir.Expr {
		return &ir.Let{
			Var:   handleVar(buf.Name),
			Value: ir.CallIntrinsic(ir.BufferNew, ir.Handle, buf.SizeInBytes()),
		}
	})
}

// PrepareAllocTempBufferExprs synthesizes the heap allocation of every
// temp buffer.
func (f *LoweredFunc) PrepareAllocTempBufferExprs() ([]ir.Expr, error) {
	return f.eachTempBuf(func(buf *ir.Buffer) ir.Expr {
		return ir.CallIntrinsic(ir.BufferMalloc, ir.Void, buf)
	})
}

// PrepareDeallocTempBufferExprs synthesizes the release matching each
// temp buffer allocation.
func (f *LoweredFunc) PrepareDeallocTempBufferExprs() ([]ir.Expr, error) {
	return f.eachTempBuf(func(buf *ir.Buffer) ir.Expr {
		return ir.CallIntrinsic(ir.BufferFree, ir.Void, buf)
	})
}

// CudaPrepareAllocTempBufferExprs synthesizes the device-side
// allocation idiom of every temp buffer, valid inside a kernel.
func (f *LoweredFunc) CudaPrepareAllocTempBufferExprs() ([]ir.Expr, error) {
	return f.eachTempBuf(func(buf *ir.Buffer) ir.Expr {
		return &ir.Alloc{Buf: buf}
	})
}

type castTarget struct {
	buf      *ir.Buffer
	readOnly bool
}

// PrepareBufferCastExprs synthesizes, for every buffer argument and
// temp buffer, the binding of a strongly typed data pointer extracted
// from the buffer's opaque handle, so the body uses direct indexed
// access instead of the handle abstraction. Each buffer gets exactly
// one cast. Input-only buffers get the read-only extraction.
//
// withExprGenTensor controls whether buffers reached only through
// tensors synthesized for expression generation are included.
//
// Arguments must be fully classified before casts are generated.
func (f *LoweredFunc) PrepareBufferCastExprs(withExprGenTensor bool) error {
	targets := ordered.NewMap[string, castTarget]()
	for i, arg := range f.Args {
		if !arg.Defined() {
			return faults.Errorf(faults.InvalidState, "argument %d of %s is undefined", i, f.Name)
		}
		if !arg.IsBuffer() {
			continue
		}
		targets.Store(arg.Name(), castTarget{buf: arg.Buffer(), readOnly: arg.IsInput()})
	}
	for _, buf := range f.TempBufs {
		if !targets.Has(buf.Name) {
			targets.Store(buf.Name, castTarget{buf: buf})
		}
	}
	tensors, err := f.CollectAllTensorReferences(withExprGenTensor)
	if err != nil {
		return err
	}
	for _, tensor := range tensors {
		if !tensor.BufferDefined() {
			continue
		}
		if !targets.Has(tensor.Buf.Name) {
			targets.Store(tensor.Buf.Name, castTarget{buf: tensor.Buf})
		}
	}
	f.BufferDataCastExprs = nil
	for name, target := range targets.Iter() {
		intrinsic := ir.BufferGetDataHandle
		if target.readOnly {
			intrinsic = ir.BufferGetDataConstHandle
		}
		f.BufferDataCastExprs = append(f.BufferDataCastExprs, &ir.Let{
			Var: ir.NewVar(name+"_data", target.buf.DType),
			Value: &ir.Cast{
				Knd: target.buf.DType,
				X:   ir.CallIntrinsic(intrinsic, ir.Handle, target.buf),
			},
		})
	}
	return nil
}

// PrepareArgumentExprs synthesizes the extraction of each declared
// argument from the type-erased incoming argument array into a locally
// named, correctly typed value, in exactly the order of Args, followed
// by the temp spaces passed as trailing parameters.
//
// Arguments must be fully classified: an undefined argument or an
// argument of unknown direction is a descriptor mismatch fault.
func (f *LoweredFunc) PrepareArgumentExprs() error {
	f.ArgumentPrepareExprs = nil
	for i, arg := range f.Args {
		if !arg.Defined() {
			return faults.Errorf(faults.DescriptorMismatch,
				"argument %d of %s is undefined: classification has not run", i, f.Name)
		}
		if arg.IO() == Unknown {
			return faults.Errorf(faults.DescriptorMismatch,
				"argument %s of %s has unknown direction: classification has not run", arg.Name(), f.Name)
		}
		var bind *ir.Let
		if arg.IsBuffer() {
			bind = &ir.Let{
				Var:   handleVar(arg.Name()),
				Value: ir.CallIntrinsic(ir.PodValueToBuffer, ir.Handle, argsVar, ir.NewIntImm(int64(i))),
			}
		} else {
			kind := arg.Var().Knd
			if !kind.IsNumeric() {
				return faults.Errorf(faults.DescriptorMismatch,
					"scalar argument %s of %s has kind %s: not extractable", arg.Name(), f.Name, kind)
			}
			bind = &ir.Let{
				Var:   arg.Var(),
				Value: ir.CallIntrinsic(ir.PodValueTo(kind), kind, argsVar, ir.NewIntImm(int64(i))),
			}
		}
		f.ArgumentPrepareExprs = append(f.ArgumentPrepareExprs, bind)
	}
	for _, space := range f.TempSpaces {
		f.ArgumentPrepareExprs = append(f.ArgumentPrepareExprs, &ir.Let{
			Var:   handleVar(fmt.Sprintf("temp_space_%d", space.ArgIdx())),
			Value: ir.CallIntrinsic(ir.PodValueToBuffer, ir.Handle, argsVar, ir.NewIntImm(int64(space.ArgIdx()))),
		})
	}
	return nil
}

// PrepareCudaAxisInfoFromBody walks the body for loops bound to the
// canonical grid and block axes and records their extents. Validity
// turns true only if at least one binding is found, establishing that
// the function is a device entry point rather than a host launcher.
func (f *LoweredFunc) PrepareCudaAxisInfoFromBody() error {
	found := false
	var err error
	ir.Visit(f.Body, func(expr ir.Expr) bool {
		forT, ok := expr.(*ir.For)
		if !ok || forT.Bind == nil {
			return true
		}
		switch forT.Bind.Axis {
		case ir.GPUBlock:
			err = f.CudaAxisInfo.SetGridDim(forT.Bind.Dim, forT.Extent)
		case ir.GPUThread:
			err = f.CudaAxisInfo.SetBlockDim(forT.Bind.Dim, forT.Extent)
		}
		if err != nil {
			return false
		}
		found = true
		return true
	})
	if err != nil {
		return err
	}
	if found {
		f.CudaAxisInfo.SetValid(true)
		f.Device = DeviceCUDA
	} else if f.Device == DeviceUnknown {
		f.Device = DeviceHost
	}
	return nil
}
