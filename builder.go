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
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cloudwego/ssaphi/internal/opts"
)

type _Phi struct {
	block int
	value int
	def   Def
	src   []Source
	done  bool
}

// Builder places phi nodes for a set of values over a single function.
//
// A Builder is created per function and must not be used after Finish. It is
// not safe for concurrent use.
type Builder struct {
	host   Host
	opts   opts.Options
	log    *zap.Logger
	blocks []BlockView
	values []*Value
	phis   []_Phi
	work   []int
	mark   []uint32
	chain  []int
	gen    uint32
	done   bool
}

// New creates a builder over the blocks of fn. Block views are read once and
// cached, so dominance information must be final at this point.
func New(fn Function, host Host, options ...Option) *Builder {
	nb := fn.NumBlocks()
	ret := &Builder{
		host:   host,
		opts:   opts.GetDefaultOptions(),
		blocks: make([]BlockView, nb),
		mark:   make([]uint32, nb),
	}

	/* apply all the options */
	for _, o := range options {
		o(&ret.opts)
	}

	/* use a no-op logger by default */
	if ret.log = ret.opts.Logger; ret.log == nil {
		ret.log = zap.NewNop()
		ret.opts.Logger = ret.log
	}

	/* cache the block views, with predecessors sorted by index */
	for i := range ret.blocks {
		bv := fn.Block(i)
		pred := make([]int, len(bv.Preds))

		/* block views must be indexed densely */
		if bv.Index != i {
			contractf("New", "block %d reports index %d", i, bv.Index)
		}

		/* sort the predecessors by block index */
		copy(pred, bv.Preds)
		sort.Ints(pred)

		/* add to block cache */
		bv.Preds = pred
		ret.blocks[i] = bv
	}

	/* check for immediate dominators and frontiers */
	for _, bv := range ret.blocks {
		if bv.Idom != NoBlock && (bv.Idom < 0 || bv.Idom >= nb) {
			contractf("New", "block %d has an invalid immediate dominator %d", bv.Index, bv.Idom)
		}
		for _, f := range bv.Frontier {
			if f < 0 || f >= nb {
				contractf("New", "block %d has an invalid frontier block %d", bv.Index, f)
			}
		}
	}

	/* sanity check for predecessors */
	for _, bv := range ret.blocks {
		for _, p := range bv.Preds {
			if p < 0 || p >= nb {
				contractf("New", "block %d has an invalid predecessor %d", bv.Index, p)
			}
		}
	}

	return ret
}

// NumBlocks returns the number of blocks the builder was created over.
func (self *Builder) NumBlocks() int {
	return len(self.blocks)
}

// AddValue registers a new value whose definitions live in the blocks of
// defined, and marks every block in the iterated dominance frontier of that
// set as needing a phi. Synthetic blocks are never marked.
func (self *Builder) AddValue(shape Shape, defined BlockSet) *Value {
	self.checkLive("AddValue")
	nb := len(self.blocks)
	val := newValue(self, len(self.values), shape, nb)

	/* start a new generation, stamps are only cleared on wrap-around */
	if self.gen++; self.gen == 0 {
		for i := range self.mark {
			self.mark[i] = 0
		}
		self.gen = 1
	}

	/* seed the worklist with the defining blocks */
	self.work = self.work[:0]
	defined.ForEach(func(i int) {
		self.checkBlock("AddValue", i)
		self.mark[i] = self.gen
		self.work = append(self.work, i)
	})

	/* walk the iterated dominance frontier */
	for len(self.work) != 0 {
		n := len(self.work) - 1
		p := self.work[n]
		self.work = self.work[:n]

		/* mark every frontier block that may host a phi */
		for _, f := range self.blocks[p].Frontier {
			if self.blocks[f].Synthetic || val.defs[f].state != _S_absent {
				continue
			}

			/* needs a phi, visit its frontier as well */
			val.defs[f].state = _S_needsPhi
			if self.mark[f] != self.gen {
				self.mark[f] = self.gen
				self.work = append(self.work, f)
			}
		}
	}

	/* add to value list */
	self.values = append(self.values, val)
	atomic.AddUint64(&ValueCount, 1)
	return val
}

// SetBlockDef records def as the definition of val in block. It overrides
// whatever the slot held before, including a pending need for a phi.
func (self *Builder) SetBlockDef(val *Value, block int, def Def) {
	self.checkValue("SetBlockDef", val)
	self.checkBlock("SetBlockDef", block)
	val.defs[block].resolve(def)
}

func (self *Builder) checkLive(op string) {
	if self.done {
		contractf(op, "builder has already been finished")
	}
}

func (self *Builder) checkBlock(op string, block int) {
	if block < 0 || block >= len(self.blocks) {
		contractf(op, "block index %d out of range [0, %d)", block, len(self.blocks))
	}
}

func (self *Builder) checkValue(op string, val *Value) {
	self.checkLive(op)
	if val == nil || val.owner != self {
		contractf(op, "value does not belong to this builder")
	}
}
