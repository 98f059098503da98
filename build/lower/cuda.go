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

	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
)

// CudaAxisInfo is the symbolic 3-D launch geometry of a GPU entry
// function. Dimensions may be expressions unknown until runtime. The
// zero value is an invalid (host) function with all six dimensions
// defaulting to the constant 1.
type CudaAxisInfo struct {
	gridDims  [3]ir.Expr
	blockDims [3]ir.Expr
	valid     bool
}

func checkOffset(offset int) error {
	if offset < 0 || offset > 2 {
		return faults.Errorf(faults.IndexOutOfRange, "axis offset %d not in [0, 2]", offset)
	}
	return nil
}

var one = ir.NewIntImm(1)

func dim(dims *[3]ir.Expr, offset int) (ir.Expr, error) {
	if err := checkOffset(offset); err != nil {
		return nil, err
	}
	if dims[offset] == nil {
		return one, nil
	}
	return dims[offset], nil
}

func setDim(dims *[3]ir.Expr, offset int, x ir.Expr) error {
	if err := checkOffset(offset); err != nil {
		return err
	}
	dims[offset] = x
	return nil
}

// SetGridDim sets a grid dimension to an expression.
func (info *CudaAxisInfo) SetGridDim(offset int, x ir.Expr) error {
	return setDim(&info.gridDims, offset, x)
}

// SetGridDimInt sets a grid dimension to a constant.
func (info *CudaAxisInfo) SetGridDimInt(offset int, x int64) error {
	return info.SetGridDim(offset, ir.NewIntImm(x))
}

// SetBlockDim sets a block dimension to an expression.
func (info *CudaAxisInfo) SetBlockDim(offset int, x ir.Expr) error {
	return setDim(&info.blockDims, offset, x)
}

// SetBlockDimInt sets a block dimension to a constant.
func (info *CudaAxisInfo) SetBlockDimInt(offset int, x int64) error {
	return info.SetBlockDim(offset, ir.NewIntImm(x))
}

// GridDim returns the grid dimension at an axis offset.
// An unset dimension is the constant 1.
func (info *CudaAxisInfo) GridDim(offset int) (ir.Expr, error) {
	return dim(&info.gridDims, offset)
}

// BlockDim returns the block dimension at an axis offset.
// An unset dimension is the constant 1.
func (info *CudaAxisInfo) BlockDim(offset int) (ir.Expr, error) {
	return dim(&info.blockDims, offset)
}

// SetValid marks whether the function is an actual GPU device entry
// point. A host-side wrapper stays invalid regardless of its
// dimensions.
func (info *CudaAxisInfo) SetValid(x bool) {
	info.valid = x
}

// Valid returns true for a GPU device entry point.
func (info *CudaAxisInfo) Valid() bool {
	return info.valid
}

func dimsString(dims *[3]ir.Expr) string {
	ss := [3]string{}
	for i := range dims {
		d, _ := dim(dims, i)
		ss[i] = d.String()
	}
	return fmt.Sprintf("(%s, %s, %s)", ss[0], ss[1], ss[2])
}

// String representation of the launch geometry.
func (info *CudaAxisInfo) String() string {
	return fmt.Sprintf("CudaAxisInfo: valid=%t grid%s block%s",
		info.valid, dimsString(&info.gridDims), dimsString(&info.blockDims))
}
