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

package ir

// Visit traverses an expression and its children in preorder.
// The walk does not descend into a node when f returns false.
// Subtrees are read, never copied: the same shared node is visited
// once per occurrence.
func Visit(expr Expr, f func(Expr) bool) {
	if expr == nil {
		return
	}
	if !f(expr) {
		return
	}
	switch exprT := expr.(type) {
	case *Binary:
		Visit(exprT.X, f)
		Visit(exprT.Y, f)
	case *Load:
		Visit(exprT.Tensor, f)
		for _, index := range exprT.Indices {
			Visit(index, f)
		}
	case *Store:
		Visit(exprT.Tensor, f)
		Visit(exprT.Value, f)
		for _, index := range exprT.Indices {
			Visit(index, f)
		}
	case *Call:
		for _, arg := range exprT.Args {
			Visit(arg, f)
		}
	case *Cast:
		Visit(exprT.X, f)
	case *Let:
		Visit(exprT.Var, f)
		Visit(exprT.Value, f)
	case *Block:
		for _, stmt := range exprT.Stmts {
			Visit(stmt, f)
		}
	case *For:
		Visit(exprT.LoopVar, f)
		Visit(exprT.Min, f)
		Visit(exprT.Extent, f)
		Visit(exprT.Body, f)
	case *Alloc:
		Visit(exprT.Buf, f)
	case *Free:
		Visit(exprT.Buf, f)
	case *Tensor:
		if exprT.Buf != nil {
			Visit(exprT.Buf, f)
		}
		for _, extent := range exprT.Shape {
			Visit(extent, f)
		}
	case *Buffer:
		for _, extent := range exprT.Shape {
			Visit(extent, f)
		}
	}
}

// Tensors returns an iterator over all tensor references reachable
// from an expression, in preorder.
func Tensors(expr Expr) func(func(*Tensor) bool) {
	return func(yield func(*Tensor) bool) {
		stop := false
		Visit(expr, func(sub Expr) bool {
			if stop {
				return false
			}
			tensor, ok := sub.(*Tensor)
			if !ok {
				return true
			}
			if !yield(tensor) {
				stop = true
				return false
			}
			return true
		})
	}
}
