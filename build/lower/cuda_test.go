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

package lower_test

import (
	"testing"

	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
	"github.com/kir-org/kir/build/lower"
)

func TestCudaAxisInfoDefaults(t *testing.T) {
	var info lower.CudaAxisInfo
	if info.Valid() {
		t.Errorf("zero value reports valid")
	}
	for offset := range 3 {
		grid, err := info.GridDim(offset)
		if err != nil {
			t.Fatalf("GridDim(%d) returned %v", offset, err)
		}
		if grid.String() != "1" {
			t.Errorf("GridDim(%d) = %s but want the constant 1", offset, grid)
		}
		block, err := info.BlockDim(offset)
		if err != nil {
			t.Fatalf("BlockDim(%d) returned %v", offset, err)
		}
		if block.String() != "1" {
			t.Errorf("BlockDim(%d) = %s but want the constant 1", offset, block)
		}
	}
}

func TestCudaAxisInfoSet(t *testing.T) {
	var info lower.CudaAxisInfo
	n := ir.NewVar("n", ir.Int64)
	if err := info.SetGridDim(1, n); err != nil {
		t.Fatalf("SetGridDim returned %v", err)
	}
	if err := info.SetBlockDimInt(0, 256); err != nil {
		t.Fatalf("SetBlockDimInt returned %v", err)
	}
	grid, err := info.GridDim(1)
	if err != nil {
		t.Fatalf("GridDim returned %v", err)
	}
	if grid != n {
		t.Errorf("GridDim(1) = %s but want the shared expression n", grid)
	}
	block, err := info.BlockDim(0)
	if err != nil {
		t.Fatalf("BlockDim returned %v", err)
	}
	if block.String() != "256" {
		t.Errorf("BlockDim(0) = %s but want 256", block)
	}
}

func TestCudaAxisInfoOffsetFault(t *testing.T) {
	var info lower.CudaAxisInfo
	for _, offset := range []int{-1, 3, 7} {
		err := info.SetGridDimInt(offset, 1)
		if err == nil {
			t.Fatalf("SetGridDimInt(%d) did not fault", offset)
		}
		if kind := faults.KindOf(err); kind != faults.IndexOutOfRange {
			t.Errorf("SetGridDimInt(%d) fault kind = %v but want index out of range", offset, kind)
		}
		if _, err := info.BlockDim(offset); faults.KindOf(err) != faults.IndexOutOfRange {
			t.Errorf("BlockDim(%d) did not fault with index out of range", offset)
		}
	}
	for offset := range 3 {
		if err := info.SetGridDimInt(offset, 2); err != nil {
			t.Errorf("SetGridDimInt(%d) returned %v", offset, err)
		}
	}
}

func TestCudaAxisInfoValidToggle(t *testing.T) {
	var info lower.CudaAxisInfo
	info.SetValid(true)
	if !info.Valid() {
		t.Errorf("Valid() = false after SetValid(true)")
	}
	info.SetValid(false)
	if info.Valid() {
		t.Errorf("Valid() = true after SetValid(false)")
	}
}
