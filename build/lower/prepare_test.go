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

	"github.com/kir-org/kir/base/scope"
	"github.com/kir-org/kir/build/faults"
	"github.com/kir-org/kir/build/ir"
	"github.com/kir-org/kir/build/lower"
	"github.com/stretchr/testify/require"
)

func exprStrings(exprs []ir.Expr) []string {
	ss := make([]string, len(exprs))
	for i, expr := range exprs {
		ss[i] = expr.String()
	}
	return ss
}

// addStmt returns c[i] = a[i] + b[i].
func addStmt(a, b, c *ir.Tensor, i *ir.Var) ir.Expr {
	return &ir.Store{
		Tensor: c,
		Value: &ir.Binary{
			Op: ir.OpAdd,
			X:  &ir.Load{Tensor: a, Indices: []ir.Expr{i}},
			Y:  &ir.Load{Tensor: b, Indices: []ir.Expr{i}},
		},
		Indices: []ir.Expr{i},
	}
}

// newAddFunc lowers function add(Input a, Output b) with b = a + a
// element-wise over float32[8].
func newAddFunc(t *testing.T) *lower.LoweredFunc {
	t.Helper()
	a := ir.NewTensor("a", ir.Float32, ir.NewIntImm(8))
	b := ir.NewTensor("b", ir.Float32, ir.NewIntImm(8))
	i := ir.NewVar("i", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{
		&ir.For{
			LoopVar: i,
			Min:     ir.NewIntImm(0),
			Extent:  ir.NewIntImm(8),
			Body:    &ir.Block{Stmts: []ir.Expr{addStmt(a, a, b, i)}},
		},
	}}
	args := []lower.Argument{
		lower.BufferArg(a.Buf, lower.Input),
		lower.BufferArg(b.Buf, lower.Output),
	}
	f, err := lower.New("add", args, body, nil)
	require.NoError(t, err)
	return f
}

func TestLowerAdd(t *testing.T) {
	f := newAddFunc(t)

	require.Equal(t, 1, f.NumOutputTensors)
	require.Empty(t, f.TempBufs)
	require.Equal(t,
		[]string{"kir_buffer_malloc(b)"},
		exprStrings(f.AllocOutputBufferExprs))
	require.Equal(t,
		[]string{"kir_buffer_free(b)"},
		exprStrings(f.DeallocOutputBufferExprs))
	require.Equal(t, []string{
		"let float32 a_data = float32(kir_buffer_get_data_const_handle(a))",
		"let float32 b_data = float32(kir_buffer_get_data_handle(b))",
	}, exprStrings(f.BufferDataCastExprs))
	require.Equal(t, []string{
		"let handle _a = kir_pod_value_to_buffer_p(_args, 0)",
		"let handle _b = kir_pod_value_to_buffer_p(_args, 1)",
	}, exprStrings(f.ArgumentPrepareExprs))
	require.False(t, f.IsGPUHost())
	require.Equal(t, lower.DeviceHost, f.Device)
}

func TestAllocDeallocPairsMatch(t *testing.T) {
	f := newAddFunc(t)
	require.Len(t, f.DeallocOutputBufferExprs, len(f.AllocOutputBufferExprs))
	for i, alloc := range f.AllocOutputBufferExprs {
		allocCall := alloc.(*ir.Call)
		deallocCall := f.DeallocOutputBufferExprs[i].(*ir.Call)
		// Both calls reference the same shared buffer node.
		require.Same(t, allocCall.Args[0], deallocCall.Args[0])
	}
}

func TestLowerDiscoversTempBuffer(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32, ir.NewIntImm(8))
	b := ir.NewTensor("b", ir.Float32, ir.NewIntImm(8))
	tmp := ir.NewTensor("tmp", ir.Float32, ir.NewIntImm(8))
	i := ir.NewVar("i", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{
		addStmt(a, a, tmp, i),
		addStmt(tmp, a, b, i),
	}}
	args := []lower.Argument{
		lower.BufferArg(a.Buf, lower.Input),
		lower.BufferArg(b.Buf, lower.Output),
	}
	f, err := lower.New("add_staged", args, body, nil)
	require.NoError(t, err)

	require.Len(t, f.TempBufs, 1)
	require.Equal(t, "tmp", f.TempBufs[0].Name)

	allocs, err := f.PrepareAllocTempBufferExprs()
	require.NoError(t, err)
	require.Equal(t, []string{"kir_buffer_malloc(tmp)"}, exprStrings(allocs))
	deallocs, err := f.PrepareDeallocTempBufferExprs()
	require.NoError(t, err)
	require.Equal(t, []string{"kir_buffer_free(tmp)"}, exprStrings(deallocs))

	creates, err := f.PrepareCreateTempBufferExprs()
	require.NoError(t, err)
	require.Equal(t,
		[]string{"let handle _tmp = kir_buffer_new((4 * 8))"},
		exprStrings(creates))

	// tmp stays out of the signature: arguments are unchanged.
	require.Equal(t, []string{
		"let handle _a = kir_pod_value_to_buffer_p(_args, 0)",
		"let handle _b = kir_pod_value_to_buffer_p(_args, 1)",
	}, exprStrings(f.ArgumentPrepareExprs))
	// One cast per distinct buffer, temp included.
	require.Len(t, f.BufferDataCastExprs, 3)
}

func TestCollectIsIdempotent(t *testing.T) {
	f := newAddFunc(t)
	first, err := f.CollectAllTensorReferences(true)
	require.NoError(t, err)
	second, err := f.CollectAllTensorReferences(true)
	require.NoError(t, err)
	require.Equal(t, tensorNames(first), tensorNames(second))
	require.Equal(t, []string{"b", "a"}, tensorNames(first))
}

func tensorNames(tensors []*ir.Tensor) []string {
	names := make([]string, len(tensors))
	for i, tensor := range tensors {
		names[i] = tensor.Name
	}
	return names
}

func TestCollectSkipsExprGenTensors(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32, ir.NewIntImm(8))
	gen := ir.NewTensor("gen", ir.Float32, ir.NewIntImm(8))
	gen.ExprGen = true
	i := ir.NewVar("i", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{addStmt(a, gen, a, i)}}
	f := lower.NewSimplified("gen_fn", nil, body)

	withGen, err := f.CollectAllTensorReferences(true)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "gen"}, tensorNames(withGen))

	withoutGen, err := f.CollectAllTensorReferences(false)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, tensorNames(withoutGen))
}

func TestCollectUnresolvedSymbol(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32, ir.NewIntImm(8))
	b := ir.NewTensor("b", ir.Float32, ir.NewIntImm(8))
	i := ir.NewVar("i", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{addStmt(a, a, b, i)}}
	f := lower.NewSimplified("add", nil, body)

	symbols := scope.NewScope[ir.Expr](nil)
	symbols.Define("a", a)
	f.BindScope(symbols.ReadOnly())

	_, err := f.CollectAllTensorReferences(true)
	require.Error(t, err)
	require.Equal(t, faults.UnresolvedSymbol, faults.KindOf(err))
	require.Contains(t, err.Error(), "b")

	symbols.Define("b", b)
	tensors, err := f.CollectAllTensorReferences(true)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, tensorNames(tensors))
}

func TestPrepareCudaAxisInfoFromBody(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32)
	n := ir.NewVar("n", ir.Int64)
	bx := ir.NewVar("bx", ir.Int64)
	tx := ir.NewVar("tx", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{
		&ir.For{
			LoopVar: bx,
			Min:     ir.NewIntImm(0),
			Extent:  ir.NewIntImm(32),
			Bind:    &ir.GPUBind{Axis: ir.GPUBlock, Dim: 0},
			Body: &ir.For{
				LoopVar: tx,
				Min:     ir.NewIntImm(0),
				Extent:  n,
				Bind:    &ir.GPUBind{Axis: ir.GPUThread, Dim: 0},
				Body:    &ir.Store{Tensor: a, Value: ir.NewIntImm(0), Indices: []ir.Expr{tx}},
			},
		},
	}}
	args := []lower.Argument{lower.BufferArg(a.Buf, lower.Output)}
	f, err := lower.New("gpu_fill", args, body, nil)
	require.NoError(t, err)

	require.True(t, f.CudaAxisInfo.Valid())
	require.True(t, f.IsGPUHost())
	require.Equal(t, lower.DeviceCUDA, f.Device)

	grid, err := f.CudaAxisInfo.GridDim(0)
	require.NoError(t, err)
	require.Equal(t, "32", grid.String())
	block, err := f.CudaAxisInfo.BlockDim(0)
	require.NoError(t, err)
	// The extent is the shared symbolic expression, not a copy.
	require.Same(t, ir.Expr(n), block)

	// Unbound axes keep the default constant 1.
	for offset := 1; offset < 3; offset++ {
		d, err := f.CudaAxisInfo.GridDim(offset)
		require.NoError(t, err)
		require.Equal(t, "1", d.String())
	}
}

func TestPrepareArgumentExprsWithScalarAndTempSpace(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32, ir.NewIntImm(8))
	alpha := ir.NewVar("alpha", ir.Float32)
	i := ir.NewVar("i", ir.Int64)
	body := &ir.Block{Stmts: []ir.Expr{
		&ir.Store{Tensor: a, Value: alpha, Indices: []ir.Expr{i}},
	}}
	f := lower.NewSimplified("scale", []lower.Argument{
		lower.ScalarArg(alpha, lower.Input),
		lower.BufferArg(a.Buf, lower.Output),
	}, body)
	f.TempSpaces = []lower.TempSpaceInfo{
		lower.NewTempSpaceInfo(ir.NewIntImm(1024), 2, true),
	}
	require.NoError(t, f.PrepareArgumentExprs())
	require.Equal(t, []string{
		"let float32 alpha = kir_pod_value_to_float32(_args, 0)",
		"let handle _a = kir_pod_value_to_buffer_p(_args, 1)",
		"let handle _temp_space_2 = kir_pod_value_to_buffer_p(_args, 2)",
	}, exprStrings(f.ArgumentPrepareExprs))
}

func TestPrepareArgumentExprsRequiresClassification(t *testing.T) {
	a := ir.NewTensor("a", ir.Float32)
	f := lower.NewSimplified("fn", []lower.Argument{
		lower.BufferArg(a.Buf, lower.Unknown),
	}, &ir.Block{})
	err := f.PrepareArgumentExprs()
	require.Error(t, err)
	require.Equal(t, faults.DescriptorMismatch, faults.KindOf(err))

	f = lower.NewSimplified("fn", []lower.Argument{{}}, &ir.Block{})
	err = f.PrepareArgumentExprs()
	require.Error(t, err)
	require.Equal(t, faults.DescriptorMismatch, faults.KindOf(err))
}

func TestPrepareBufferCastExprsNoDuplicates(t *testing.T) {
	f := newAddFunc(t)
	// Preparing twice must not duplicate casts.
	require.NoError(t, f.PrepareBufferCastExprs(true))
	require.NoError(t, f.PrepareBufferCastExprs(true))
	seen := make(map[string]int)
	for _, expr := range f.BufferDataCastExprs {
		seen[expr.(*ir.Let).Var.Name]++
	}
	for name, n := range seen {
		require.Equal(t, 1, n, "cast for %s generated %d times", name, n)
	}
	require.Len(t, f.BufferDataCastExprs, 2)
}

func TestCudaPrepareAllocTempBufferExprs(t *testing.T) {
	tmp := ir.NewBuffer("tmp", ir.Float32, ir.NewIntImm(64))
	tmp.Memory = ir.MemoryDeviceLocal
	f := lower.NewSimplified("kernel", nil, &ir.Block{})
	f.TempBufs = []*ir.Buffer{tmp}
	allocs, err := f.CudaPrepareAllocTempBufferExprs()
	require.NoError(t, err)
	require.Equal(t, []string{"alloc(tmp, (4 * 64))"}, exprStrings(allocs))
}
