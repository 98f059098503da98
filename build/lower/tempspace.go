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

	"github.com/kir-org/kir/build/ir"
)

// TempSpaceInfo describes one scratch memory region that is part of
// the callable signature, unlike a temp buffer: the runtime allocates
// it and passes it in as a trailing argument.
type TempSpaceInfo struct {
	size         ir.Expr
	argIdx       int
	needZeroInit bool
}

// NewTempSpaceInfo returns the descriptor of a scratch region of a
// byte size, passed at a position of the argument list.
func NewTempSpaceInfo(size ir.Expr, argIdx int, needZeroInit bool) TempSpaceInfo {
	return TempSpaceInfo{size: size, argIdx: argIdx, needZeroInit: needZeroInit}
}

// Size of the space in bytes.
func (t TempSpaceInfo) Size() ir.Expr { return t.size }

// ArgIdx is the position of the space in the function's argument list.
func (t TempSpaceInfo) ArgIdx() int { return t.argIdx }

// NeedZeroInit returns true if the space must be zero-initialized.
func (t TempSpaceInfo) NeedZeroInit() bool { return t.needZeroInit }

// String representation of the descriptor.
func (t TempSpaceInfo) String() string {
	return fmt.Sprintf("temp_space(size=%s, arg=%d, zero_init=%t)", t.size, t.argIdx, t.needZeroInit)
}
