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
	"slices"

	"github.com/kir-org/kir/base/ordered"
	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
)

// CollectAllTensorReferences returns the tensors the body references,
// merged by name to one reference each, in stable first-seen order.
// A buffer read and written at many points in the body appears once.
//
// withExprGenTensor controls whether tensors synthesized purely for
// expression generation are included.
//
// When a symbol scope is bound, every reference must resolve in it;
// a miss is an unresolved symbol fault.
func (f *LoweredFunc) CollectAllTensorReferences(withExprGenTensor bool) ([]*ir.Tensor, error) {
	seen := ordered.NewMap[string, *ir.Tensor]()
	var err error
	for tensor := range ir.Tensors(f.Body) {
		if !withExprGenTensor && tensor.ExprGen {
			continue
		}
		if seen.Has(tensor.Name) {
			continue
		}
		if f.symbols != nil {
			if _, ok := f.symbols.Find(tensor.Name); !ok {
				err = faults.Errorf(faults.UnresolvedSymbol,
					"function %s references tensor %s: not in scope", f.Name, tensor.Name)
				break
			}
		}
		seen.Store(tensor.Name, tensor)
	}
	if err != nil {
		return nil, err
	}
	return slices.Collect(seen.Values()), nil
}

// AllocTempBuffers classifies every buffer referenced by the body as a
// declared argument, a declared temp buffer, or newly discovered.
// Newly discovered buffers are folded into TempBufs.
func (f *LoweredFunc) AllocTempBuffers() error {
	declared := make(map[string]bool)
	for _, arg := range f.Args {
		if name := arg.Name(); name != "" {
			declared[name] = true
		}
	}
	for _, buf := range f.TempBufs {
		declared[buf.Name] = true
	}
	tensors, err := f.CollectAllTensorReferences(true)
	if err != nil {
		return err
	}
	for _, tensor := range tensors {
		if !tensor.BufferDefined() {
			continue
		}
		if declared[tensor.Buf.Name] {
			continue
		}
		declared[tensor.Buf.Name] = true
		f.TempBufs = append(f.TempBufs, tensor.Buf)
	}
	return nil
}
