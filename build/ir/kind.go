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

import "github.com/gx-org/backend/dtype"

// Kind of the data held by a buffer element, scalar, or expression.
type Kind uint

// DefaultInt is the default kind for integer immediates and loop bounds.
const DefaultInt = Int64

// Kinds of data supported by kir.
const (
	Invalid = Kind(dtype.Invalid)

	Bool     = Kind(dtype.Bool)
	Int32    = Kind(dtype.Int32)
	Int64    = Kind(dtype.Int64)
	Uint32   = Kind(dtype.Uint32)
	Uint64   = Kind(dtype.Uint64)
	Bfloat16 = Kind(dtype.Bfloat16)
	Float32  = Kind(dtype.Float32)
	Float64  = Kind(dtype.Float64)

	// Handle is the kind of an opaque runtime pointer,
	// such as a buffer handle or the incoming argument array.
	Handle = Kind(iota + dtype.MaxDataType)
	// Void is the kind of expressions returning nothing.
	Void
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bfloat16:
		return "bfloat16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Handle:
		return "handle"
	case Void:
		return "void"
	}
	return "invalid"
}

// DType converts a kind into a backend data type.
func (k Kind) DType() dtype.DataType {
	if k >= Kind(dtype.MaxDataType) {
		return dtype.Invalid
	}
	return dtype.DataType(k)
}

// KindGeneric returns the kind of a value from its Go type.
// If the type is not supported, an invalid kind is returned.
func KindGeneric[T dtype.GoDataType]() Kind {
	return Kind(dtype.Generic[T]())
}

// Size returns the size of one element of the kind in bytes,
// or 0 if the kind has no data representation.
func (k Kind) Size() int {
	switch k {
	case Bool:
		return 1
	case Bfloat16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Handle:
		return 8
	}
	return 0
}

// IsNumeric returns true if the kind can be stored in a buffer.
func (k Kind) IsNumeric() bool {
	switch k {
	case Bool, Int32, Int64, Uint32, Uint64, Bfloat16, Float32, Float64:
		return true
	}
	return false
}
