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

import (
	"fmt"
	"strconv"
	"strings"

	kirfmt "github.com/kir-org/kir/base/fmt"
)

// String returns the immediate value.
func (x *IntImm) String() string {
	return strconv.FormatInt(x.Value, 10)
}

// String returns the immediate value.
func (x *FloatImm) String() string {
	return strconv.FormatFloat(x.Value, 'g', -1, 64)
}

// String returns the variable name.
func (x *Var) String() string {
	return x.Name
}

// String representation of the expression.
func (x *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", x.X, x.Op, x.Y)
}

func indexList(indices []Expr) string {
	ss := make([]string, len(indices))
	for i, index := range indices {
		ss[i] = index.String()
	}
	return strings.Join(ss, ", ")
}

// String representation of the load.
func (x *Load) String() string {
	return fmt.Sprintf("%s[%s]", x.Tensor.Name, indexList(x.Indices))
}

// String representation of the store.
func (x *Store) String() string {
	return fmt.Sprintf("%s[%s] = %s", x.Tensor.Name, indexList(x.Indices), x.Value)
}

// String representation of the call.
func (x *Call) String() string {
	return fmt.Sprintf("%s(%s)", x.Name, indexList(x.Args))
}

// String representation of the cast.
func (x *Cast) String() string {
	return fmt.Sprintf("%s(%s)", x.Knd, x.X)
}

// String representation of the binding.
func (x *Let) String() string {
	return fmt.Sprintf("let %s %s = %s", x.Var.Knd, x.Var.Name, x.Value)
}

// String representation of the block.
func (x *Block) String() string {
	var s strings.Builder
	s.WriteString("{\n")
	for _, stmt := range x.Stmts {
		s.WriteString(kirfmt.Indent(stmt.String() + "\n"))
	}
	s.WriteString("}")
	return s.String()
}

// String representation of the loop.
func (x *For) String() string {
	bind := ""
	if x.Bind != nil {
		bind = fmt.Sprintf(" bind(%s)", x.Bind)
	}
	return fmt.Sprintf("for (%s, %s, %s)%s %s", x.LoopVar, x.Min, x.Extent, bind, x.Body)
}

// String representation of the allocation.
func (x *Alloc) String() string {
	return fmt.Sprintf("alloc(%s, %s)", x.Buf.Name, x.Buf.SizeInBytes())
}

// String representation of the release.
func (x *Free) String() string {
	return fmt.Sprintf("free(%s)", x.Buf.Name)
}

// String returns the buffer name.
func (b *Buffer) String() string {
	return b.Name
}

// String returns the tensor name.
func (t *Tensor) String() string {
	return t.Name
}
