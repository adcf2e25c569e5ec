/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssaphi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var i32 = Shape{Components: 1, BitSize: 32}

type testFunc []BlockView

func (self testFunc) NumBlocks() int        { return len(self) }
func (self testFunc) Block(i int) BlockView { return self[i] }

type testPhi struct {
	block    int
	shape    Shape
	src      []Source
	inserted int
}

type testUndef struct {
	shape Shape
}

type testHost struct {
	phis   []*testPhi
	undefs []*testUndef
	order  []int
}

func (self *testHost) NewPhi(block int, shape Shape) Def {
	p := &testPhi{block: block, shape: shape}
	self.phis = append(self.phis, p)
	return p
}

func (self *testHost) NewUndef(shape Shape) Def {
	u := &testUndef{shape: shape}
	self.undefs = append(self.undefs, u)
	return u
}

func (self *testHost) SetPhiSources(phi Def, src []Source) {
	phi.(*testPhi).src = src
}

func (self *testHost) InsertPhi(block int, phi Def) {
	p := phi.(*testPhi)
	p.inserted++
	self.order = append(self.order, block)
}

/* entry(0) -> {left(1), right(2)} -> merge(3) -> end(4) */
func diamond() testFunc {
	return testFunc{
		{Index: 0, Idom: NoBlock},
		{Index: 1, Idom: 0, Preds: []int{0}, Frontier: []int{3}},
		{Index: 2, Idom: 0, Preds: []int{0}, Frontier: []int{3}},
		{Index: 3, Idom: 0, Preds: []int{2, 1}},
		{Index: 4, Idom: 3, Preds: []int{3}, Synthetic: true},
	}
}

/* pre(0) -> loop(1) -> {loop(1), exit(2)} -> end(3) */
func selfLoop() testFunc {
	return testFunc{
		{Index: 0, Idom: NoBlock},
		{Index: 1, Idom: 0, Preds: []int{0, 1}, Frontier: []int{1}},
		{Index: 2, Idom: 1, Preds: []int{1}},
		{Index: 3, Idom: 2, Preds: []int{2}, Synthetic: true},
	}
}

/* entry(0) -> outer(1) -> inner(2) -> {inner(2), latch(3)}, latch(3) -> {outer(1), exit(4)} -> end(5) */
func loopNest() testFunc {
	return testFunc{
		{Index: 0, Idom: NoBlock},
		{Index: 1, Idom: 0, Preds: []int{0, 3}, Frontier: []int{1}},
		{Index: 2, Idom: 1, Preds: []int{1, 2}, Frontier: []int{1, 2}},
		{Index: 3, Idom: 2, Preds: []int{2}, Frontier: []int{1}},
		{Index: 4, Idom: 3, Preds: []int{3}},
		{Index: 5, Idom: 4, Preds: []int{4}, Synthetic: true},
	}
}

func TestBuilder_Diamond(t *testing.T) {
	h := new(testHost)
	b := New(diamond(), h, WithVerify(true))
	x := b.AddValue(i32, BlockSetOf(1, 2))
	b.SetBlockDef(x, 1, "one")
	b.SetBlockDef(x, 2, "two")
	phi := b.GetBlockDef(x, 3)
	require.IsType(t, (*testPhi)(nil), phi)
	require.Equal(t, 1, x.Pending())
	b.Finish()
	p := phi.(*testPhi)
	require.Equal(t, []Source{{Pred: 1, Def: "one"}, {Pred: 2, Def: "two"}}, p.src)
	require.Equal(t, 3, p.block)
	require.Equal(t, i32, p.shape)
	require.Equal(t, 1, p.inserted)
	require.Equal(t, 0, x.Pending())
	require.Empty(t, h.undefs)
}

func TestBuilder_SelfLoop(t *testing.T) {
	h := new(testHost)
	b := New(selfLoop(), h, WithVerify(true))
	x := b.AddValue(i32, BlockSetOf(0, 1))
	b.SetBlockDef(x, 0, "pre")
	phi := b.GetBlockDef(x, 1)
	b.SetBlockDef(x, 1, "body")
	require.Equal(t, "body", b.GetBlockDef(x, 2))
	b.Finish()
	require.Len(t, h.phis, 1)
	require.Same(t, h.phis[0], phi)
	require.Equal(t, []Source{{Pred: 0, Def: "pre"}, {Pred: 1, Def: "body"}}, h.phis[0].src)
}

func TestBuilder_SelfLoopWithoutRedefinition(t *testing.T) {
	h := new(testHost)
	b := New(selfLoop(), h)
	x := b.AddValue(i32, BlockSetOf(0))
	b.SetBlockDef(x, 0, "pre")
	require.Equal(t, "pre", b.GetBlockDef(x, 1))
	require.Equal(t, "pre", b.GetBlockDef(x, 2))
	b.Finish()
	require.Empty(t, h.phis)
}

func TestBuilder_EmptyDefinedSet(t *testing.T) {
	h := new(testHost)
	b := New(diamond(), h)
	x := b.AddValue(i32, BlockSet{})
	for _, s := range x.defs {
		require.Equal(t, _S_absent, s.state)
	}
	u := b.GetBlockDef(x, 3)
	for i := 0; i < b.NumBlocks(); i++ {
		require.Same(t, u, b.GetBlockDef(x, i))
	}
	b.Finish()
	require.Empty(t, h.phis)
	require.Len(t, h.undefs, 1)
	require.Equal(t, i32, h.undefs[0].shape)
}

func TestBuilder_IdempotentResolution(t *testing.T) {
	b := New(loopNest(), new(testHost))
	x := b.AddValue(i32, BlockSetOf(0, 3))
	b.SetBlockDef(x, 0, "init")
	b.SetBlockDef(x, 3, "next")
	for i := 0; i < b.NumBlocks(); i++ {
		d := b.GetBlockDef(x, i)
		assert.Equal(t, d, b.GetBlockDef(x, i), "block %d", i)
	}
	b.Finish()
}

func TestBuilder_DominanceSoundness(t *testing.T) {
	fn := loopNest()
	b := New(fn, new(testHost))
	x := b.AddValue(i32, BlockSetOf(0))
	b.SetBlockDef(x, 0, "init")
	for i := 1; i < len(fn); i++ {
		require.Equal(t, _S_absent, x.defs[i].state, "block %d", i)
		require.Equal(t, b.GetBlockDef(x, fn[i].Idom), b.GetBlockDef(x, i), "block %d", i)
	}
	b.Finish()
}

func TestBuilder_PlacementCompleteness(t *testing.T) {
	fn := loopNest()
	b := New(fn, new(testHost))
	x := b.AddValue(i32, BlockSetOf(3))

	/* DF(3) = {1}, DF(1) = {1} */
	require.Equal(t, _S_absent, x.defs[0].state)
	require.Equal(t, _S_needsPhi, x.defs[1].state)
	require.Equal(t, _S_absent, x.defs[2].state)
	require.Equal(t, _S_absent, x.defs[3].state)
	require.Equal(t, _S_absent, x.defs[4].state)

	/* a read in a block dominated by the phi block materializes the phi */
	b.SetBlockDef(x, 3, "latch")
	phi := b.GetBlockDef(x, 2)
	require.IsType(t, (*testPhi)(nil), phi)
	require.Equal(t, 1, phi.(*testPhi).block)
	require.Same(t, phi, b.GetBlockDef(x, 1))
	b.Finish()
}

func TestBuilder_OverrideSuppressesPhi(t *testing.T) {
	h := new(testHost)
	b := New(diamond(), h)
	x := b.AddValue(i32, BlockSetOf(1, 2))
	require.Equal(t, _S_needsPhi, x.defs[3].state)
	b.SetBlockDef(x, 3, "merged")
	require.Equal(t, "merged", b.GetBlockDef(x, 3))
	require.Equal(t, "merged", b.GetBlockDef(x, 4))
	b.Finish()
	require.Empty(t, h.phis)
}

func TestBuilder_SyntheticBlockNeverHostsPhi(t *testing.T) {
	/* entry(0) -> {a(1), b(2)}, both return into end(3) */
	fn := testFunc{
		{Index: 0, Idom: NoBlock},
		{Index: 1, Idom: 0, Preds: []int{0}, Frontier: []int{3}},
		{Index: 2, Idom: 0, Preds: []int{0}, Frontier: []int{3}},
		{Index: 3, Idom: 0, Preds: []int{1, 2}, Synthetic: true},
	}
	h := new(testHost)
	b := New(fn, h)
	x := b.AddValue(i32, BlockSetOf(1, 2))
	require.Equal(t, _S_absent, x.defs[3].state)
	b.SetBlockDef(x, 0, "entry")
	require.Equal(t, "entry", b.GetBlockDef(x, 3))
	b.Finish()
	require.Empty(t, h.phis)
}

func TestBuilder_FinishCreatesPhisWhileDraining(t *testing.T) {
	h := new(testHost)
	b := New(loopNest(), h, WithVerify(true))
	x := b.AddValue(i32, BlockSetOf(0, 2))
	b.SetBlockDef(x, 0, "init")

	/* only the inner header is asked for, the outer header phi is found while wiring */
	inner := b.GetBlockDef(x, 2)
	b.SetBlockDef(x, 2, "step")
	require.Len(t, h.phis, 1)
	b.Finish()

	require.Len(t, h.phis, 2)
	require.Equal(t, 0, x.Pending())
	outer := h.phis[1]
	require.Equal(t, 1, outer.block)
	require.Equal(t, []Source{{Pred: 1, Def: outer}, {Pred: 2, Def: "step"}}, inner.(*testPhi).src)
	require.Equal(t, []Source{{Pred: 0, Def: "init"}, {Pred: 3, Def: "step"}}, outer.src)
	for _, p := range h.phis {
		require.Equal(t, 1, p.inserted)
	}
}

func TestBuilder_DeterministicSourceOrder(t *testing.T) {
	run := func() []int {
		h := new(testHost)
		b := New(diamond(), h)
		x := b.AddValue(i32, BlockSetOf(1, 2))
		b.SetBlockDef(x, 2, "two")
		b.SetBlockDef(x, 1, "one")
		b.GetBlockDef(x, 4)
		b.Finish()
		var ret []int
		for _, s := range h.phis[0].src {
			ret = append(ret, s.Pred)
		}
		return ret
	}
	require.Equal(t, []int{1, 2}, run())
	require.Equal(t, run(), run())
}

func TestBuilder_MultipleValues(t *testing.T) {
	h := new(testHost)
	b := New(diamond(), h, WithVerify(true))
	x := b.AddValue(i32, BlockSetOf(1))
	y := b.AddValue(Shape{Components: 4, BitSize: 16}, BlockSetOf(1, 2))
	b.SetBlockDef(x, 0, "x0")
	b.SetBlockDef(x, 1, "x1")
	b.SetBlockDef(y, 1, "y1")
	b.SetBlockDef(y, 2, "y2")
	px := b.GetBlockDef(x, 3).(*testPhi)
	py := b.GetBlockDef(y, 3).(*testPhi)
	b.Finish()
	require.Equal(t, []Source{{Pred: 1, Def: "x1"}, {Pred: 2, Def: "x0"}}, px.src)
	require.Equal(t, []Source{{Pred: 1, Def: "y1"}, {Pred: 2, Def: "y2"}}, py.src)
	require.Equal(t, Shape{Components: 4, BitSize: 16}, py.shape)
	require.Equal(t, 0, x.Id())
	require.Equal(t, 1, y.Id())
}

func TestBuilder_UnreachableBlock(t *testing.T) {
	fn := append(diamond(), BlockView{Index: 5, Idom: NoBlock, Preds: nil})
	h := new(testHost)
	b := New(fn, h)
	x := b.AddValue(i32, BlockSetOf(1, 2))
	b.SetBlockDef(x, 0, "entry")
	u := b.GetBlockDef(x, 5)
	require.IsType(t, (*testUndef)(nil), u)
	require.Same(t, u, b.GetBlockDef(x, 5))
	b.Finish()
}

func TestBuilder_ContractViolations(t *testing.T) {
	assertContract := func(op string, fn func()) {
		defer func() {
			v := recover()
			require.IsType(t, (*ContractError)(nil), v)
			require.Equal(t, op, v.(*ContractError).Op)
		}()
		fn()
	}

	b := New(diamond(), new(testHost))
	x := b.AddValue(i32, BlockSetOf(1))
	assertContract("GetBlockDef", func() { b.GetBlockDef(x, 5) })
	assertContract("GetBlockDef", func() { b.GetBlockDef(x, -1) })
	assertContract("SetBlockDef", func() { b.SetBlockDef(x, 7, "x") })
	assertContract("AddValue", func() { b.AddValue(i32, BlockSetOf(9)) })

	/* values of another builder */
	o := New(diamond(), new(testHost))
	y := o.AddValue(i32, BlockSet{})
	assertContract("GetBlockDef", func() { b.GetBlockDef(y, 0) })

	/* use after finish */
	b.Finish()
	assertContract("GetBlockDef", func() { b.GetBlockDef(x, 0) })
	assertContract("SetBlockDef", func() { b.SetBlockDef(x, 0, "x") })
	assertContract("AddValue", func() { b.AddValue(i32, BlockSet{}) })
	assertContract("Finish", func() { b.Finish() })

	/* broken views */
	assertContract("New", func() { New(testFunc{{Index: 1, Idom: NoBlock}}, new(testHost)) })
	assertContract("New", func() { New(testFunc{{Index: 0, Idom: 3}}, new(testHost)) })
	assertContract("New", func() { New(testFunc{{Index: 0, Idom: NoBlock, Frontier: []int{2}}}, new(testHost)) })
	assertContract("New", func() { New(testFunc{{Index: 0, Idom: NoBlock, Preds: []int{4}}}, new(testHost)) })
	assertContract("GetBlockDef", func() {
		c := New(testFunc{{Index: 0, Idom: 1}, {Index: 1, Idom: 0}}, new(testHost))
		c.GetBlockDef(c.AddValue(i32, BlockSet{}), 0)
	})
}

func TestBuilder_GenerationWrapAround(t *testing.T) {
	b := New(diamond(), new(testHost))
	b.gen = ^uint32(0)
	b.mark[3] = 1
	x := b.AddValue(i32, BlockSetOf(1, 2))
	require.Equal(t, uint32(1), b.gen)
	require.Equal(t, _S_needsPhi, x.defs[3].state)
	b.Finish()
}

func TestBuilder_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(diamond(), new(testHost), WithLogger(zap.New(core)), WithTrace(true))
	x := b.AddValue(i32, BlockSetOf(1, 2))
	b.GetBlockDef(x, 3)
	b.Finish()
	require.Equal(t, 1, logs.FilterMessage("ssaphi: place phi").Len())
	require.Equal(t, 1, logs.FilterMessage("ssaphi: wire phi").Len())
	require.Equal(t, 1, logs.FilterMessage("ssaphi: synthesize undef").Len())
	require.Equal(t, 1, logs.FilterMessage("ssaphi: finish").Len())
	entry := logs.FilterMessage("ssaphi: place phi").All()[0]
	require.Equal(t, int64(3), entry.ContextMap()["block"])
}

func TestBuilder_NoTraceByDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	old := SetTrace(false)
	defer SetTrace(old)
	b := New(diamond(), new(testHost), WithLogger(zap.New(core)))
	b.GetBlockDef(b.AddValue(i32, BlockSetOf(1)), 3)
	b.Finish()
	require.Equal(t, 0, logs.Len())
}

func TestSetVerify(t *testing.T) {
	old := SetVerify(true)
	defer SetVerify(old)
	b := New(diamond(), new(testHost))
	require.True(t, b.opts.Verify)
	require.True(t, SetVerify(old))
}

func BenchmarkBuilder_Diamond(b *testing.B) {
	fn := diamond()
	for i := 0; i < b.N; i++ {
		pb := New(fn, new(testHost))
		x := pb.AddValue(i32, BlockSetOf(1, 2))
		pb.SetBlockDef(x, 1, 1)
		pb.SetBlockDef(x, 2, 2)
		pb.GetBlockDef(x, 4)
		pb.Finish()
	}
}
