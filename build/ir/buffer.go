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

// MemoryClass locates the storage of a buffer.
type MemoryClass int

const (
	// MemoryHeap is host heap memory.
	MemoryHeap MemoryClass = iota
	// MemoryDeviceGlobal is device global memory.
	MemoryDeviceGlobal
	// MemoryDeviceLocal is device shared/local memory, allocatable
	// from inside a kernel.
	MemoryDeviceLocal
)

// String returns a string representation of the memory class.
func (m MemoryClass) String() string {
	switch m {
	case MemoryHeap:
		return "heap"
	case MemoryDeviceGlobal:
		return "device-global"
	case MemoryDeviceLocal:
		return "device-local"
	}
	return "unknown"
}

// Buffer is an opaque runtime-managed memory region referenced by
// name. A buffer is shared by pointer: the same buffer node may be
// referenced from the body, an allocation expression, and a cast
// expression at the same time.
//
// Used as an expression, a buffer evaluates to its runtime handle.
type Buffer struct {
	Name   string
	DType  Kind
	Shape  []Expr
	Memory MemoryClass
}

// NewBuffer returns a buffer on the host heap.
func NewBuffer(name string, dtype Kind, shape ...Expr) *Buffer {
	return &Buffer{Name: name, DType: dtype, Shape: shape}
}

func (*Buffer) node() {}

// Kind returns Handle: a buffer expression is its opaque handle.
func (b *Buffer) Kind() Kind { return Handle }

// Defined returns true if the buffer references an actual region.
func (b *Buffer) Defined() bool {
	return b != nil && b.Name != ""
}

// SizeInBytes returns the symbolic byte size of the buffer:
// the product of its shape by the element size.
func (b *Buffer) SizeInBytes() Expr {
	var size Expr = NewIntImm(int64(b.DType.Size()))
	for _, extent := range b.Shape {
		size = &Binary{Op: OpMul, X: size, Y: extent}
	}
	return size
}

// Tensor is a named view over a buffer. Several tensors may share one
// buffer; the lowering passes dedup on the buffer name.
type Tensor struct {
	Name  string
	DType Kind
	Shape []Expr
	Buf   *Buffer

	// ExprGen marks a tensor synthesized purely to drive expression
	// generation, with no storage of its own.
	ExprGen bool
}

// NewTensor returns a tensor bound to a buffer of the same name and shape.
func NewTensor(name string, dtype Kind, shape ...Expr) *Tensor {
	return &Tensor{
		Name:  name,
		DType: dtype,
		Shape: shape,
		Buf:   NewBuffer(name, dtype, shape...),
	}
}

func (*Tensor) node() {}

// Kind of the tensor elements.
func (t *Tensor) Kind() Kind { return t.DType }

// BufferDefined returns true if the tensor is bound to a defined buffer.
func (t *Tensor) BufferDefined() bool {
	return t.Buf.Defined()
}
