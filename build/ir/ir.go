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

// Package ir is the kir intermediate representation tree.
//
// The tree is the scheduled body of a computation handed to the
// lowering layer. Nodes are shared by pointer and immutable once
// published: a subtree may be referenced from the body and from
// several synthesized expression lists at the same time and is never
// deep-copied. Passes only append new nodes or read existing ones.
package ir

// ----------------------------------------------------------------------------
// Types of node in the tree.
type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is a node producing a value (possibly of kind Void).
	Expr interface {
		Node

		// Kind of the value produced by the expression.
		Kind() Kind

		// String representation of the expression.
		String() string
	}
)

// ----------------------------------------------------------------------------
// Scalar nodes.
type (
	// IntImm is an integer immediate.
	IntImm struct {
		Value int64
		Knd   Kind
	}

	// FloatImm is a floating point immediate.
	FloatImm struct {
		Value float64
		Knd   Kind
	}

	// Var is a named scalar variable.
	Var struct {
		Name string
		Knd  Kind
	}
)

// NewIntImm returns an integer immediate of the default integer kind.
func NewIntImm(value int64) *IntImm {
	return &IntImm{Value: value, Knd: DefaultInt}
}

// NewVar returns a named scalar variable.
func NewVar(name string, kind Kind) *Var {
	return &Var{Name: name, Knd: kind}
}

func (*IntImm) node() {}

// Kind of the immediate.
func (x *IntImm) Kind() Kind { return x.Knd }

func (*FloatImm) node() {}

// Kind of the immediate.
func (x *FloatImm) Kind() Kind { return x.Knd }

func (*Var) node() {}

// Kind of the variable.
func (x *Var) Kind() Kind { return x.Knd }

// ----------------------------------------------------------------------------
// Compound expressions.

// BinaryOp is the operator of a binary expression.
type BinaryOp int

// Binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// String returns the operator token.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	}
	return "?"
}

type (
	// Binary is a binary arithmetic expression.
	Binary struct {
		Op   BinaryOp
		X, Y Expr
	}

	// Load reads one element of a tensor.
	Load struct {
		Tensor  *Tensor
		Indices []Expr
	}

	// Store writes one element of a tensor.
	Store struct {
		Tensor  *Tensor
		Value   Expr
		Indices []Expr
	}

	// Call invokes a runtime intrinsic by name.
	Call struct {
		Name string
		Args []Expr
		Knd  Kind
	}

	// Cast reinterprets a value as another kind. Applied to a buffer
	// data handle, the result is a data pointer whose elements are of
	// the cast kind.
	Cast struct {
		Knd Kind
		X   Expr
	}

	// Let binds a variable to a value for the rest of the
	// enclosing block.
	Let struct {
		Var   *Var
		Value Expr
	}

	// Block is a sequence of statement expressions.
	Block struct {
		Stmts []Expr
	}

	// For is a loop over [Min, Min+Extent). A loop carrying a GPU
	// binding is not emitted as a loop: its iteration space is mapped
	// onto the bound launch axis.
	For struct {
		LoopVar *Var
		Min     Expr
		Extent  Expr
		Body    Expr
		Bind    *GPUBind
	}

	// Alloc allocates the storage of a buffer. Valid inside a device
	// kernel for device-local buffers.
	Alloc struct {
		Buf *Buffer
	}

	// Free releases the storage of a buffer.
	Free struct {
		Buf *Buffer
	}
)

var (
	_ Expr = (*IntImm)(nil)
	_ Expr = (*FloatImm)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Load)(nil)
	_ Expr = (*Store)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Cast)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*Block)(nil)
	_ Expr = (*For)(nil)
	_ Expr = (*Alloc)(nil)
	_ Expr = (*Free)(nil)
	_ Expr = (*Buffer)(nil)
	_ Expr = (*Tensor)(nil)
)

func (*Binary) node() {}

// Kind of the expression, taken from the left operand.
func (x *Binary) Kind() Kind { return x.X.Kind() }

func (*Load) node() {}

// Kind of the loaded element.
func (x *Load) Kind() Kind { return x.Tensor.DType }

func (*Store) node() {}

// Kind returns Void: a store produces no value.
func (x *Store) Kind() Kind { return Void }

func (*Call) node() {}

// Kind of the value returned by the intrinsic.
func (x *Call) Kind() Kind { return x.Knd }

func (*Cast) node() {}

// Kind the value is cast to.
func (x *Cast) Kind() Kind { return x.Knd }

func (*Let) node() {}

// Kind returns Void: a binding produces no value.
func (x *Let) Kind() Kind { return Void }

func (*Block) node() {}

// Kind returns Void.
func (x *Block) Kind() Kind { return Void }

func (*For) node() {}

// Kind returns Void.
func (x *For) Kind() Kind { return Void }

func (*Alloc) node() {}

// Kind returns Void.
func (x *Alloc) Kind() Kind { return Void }

func (*Free) node() {}

// Kind returns Void.
func (x *Free) Kind() Kind { return Void }

// ----------------------------------------------------------------------------
// GPU launch axis binding.

// GPUAxis distinguishes the two levels of the launch geometry.
type GPUAxis int

const (
	// GPUBlock binds a loop to a grid axis (one iteration per block).
	GPUBlock GPUAxis = iota
	// GPUThread binds a loop to a block axis (one iteration per thread).
	GPUThread
)

// GPUBind annotates a loop as parallel over a launch axis.
type GPUBind struct {
	Axis GPUAxis
	// Dim is the axis offset: 0 for x, 1 for y, 2 for z.
	Dim int
}

var axisNames = [3]string{"x", "y", "z"}

// String returns the canonical axis name, for example blockIdx.x.
func (b *GPUBind) String() string {
	name := "blockIdx"
	if b.Axis == GPUThread {
		name = "threadIdx"
	}
	dim := "?"
	if b.Dim >= 0 && b.Dim < len(axisNames) {
		dim = axisNames[b.Dim]
	}
	return name + "." + dim
}
