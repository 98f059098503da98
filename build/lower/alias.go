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

	"github.com/kir-org/kir/build/ir"
)

// liveInterval is the span of top-level body statements over which a
// temp buffer is referenced.
type liveInterval struct {
	buf   *ir.Buffer
	first int
	last  int
}

func (f *LoweredFunc) tempBufLiveIntervals() []*liveInterval {
	block, ok := f.Body.(*ir.Block)
	if !ok {
		return nil
	}
	temps := make(map[string]*liveInterval, len(f.TempBufs))
	for _, buf := range f.TempBufs {
		temps[buf.Name] = nil
	}
	intervals := make(map[string]*liveInterval)
	for si, stmt := range block.Stmts {
		for tensor := range ir.Tensors(stmt) {
			if !tensor.BufferDefined() {
				continue
			}
			name := tensor.Buf.Name
			if _, isTemp := temps[name]; !isTemp {
				continue
			}
			interval := intervals[name]
			if interval == nil {
				intervals[name] = &liveInterval{buf: tensor.Buf, first: si, last: si}
				continue
			}
			interval.last = si
		}
	}
	// Unreferenced temp buffers have no interval and take part in no
	// packing.
	all := make([]*liveInterval, 0, len(intervals))
	for _, buf := range f.TempBufs {
		if interval := intervals[buf.Name]; interval != nil {
			all = append(all, interval)
		}
	}
	slices.SortStableFunc(all, func(a, b *liveInterval) int {
		return a.first - b.first
	})
	return all
}

// CudaAliasVarExprs packs temp buffers whose live ranges do not
// overlap onto shared physical allocations and returns the
// pointer-aliasing declarations binding each packed buffer to the
// representative of its allocation. This is a simple
// non-overlapping-interval packing, not a register allocator.
func (f *LoweredFunc) CudaAliasVarExprs() ([]ir.Expr, error) {
	type pool struct {
		rep *ir.Buffer
		end int
	}
	var pools []*pool
	var exprs []ir.Expr
	for _, interval := range f.tempBufLiveIntervals() {
		packed := false
		for _, p := range pools {
			if p.end >= interval.first {
				continue
			}
			exprs = append(exprs, &ir.Let{
				Var:   handleVar(interval.buf.Name),
				Value: p.rep,
			})
			p.end = interval.last
			packed = true
			break
		}
		if !packed {
			pools = append(pools, &pool{rep: interval.buf, end: interval.last})
		}
	}
	return exprs, nil
}
