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
	"sync/atomic"

	"go.uber.org/zap"
)

// GetBlockDef returns the definition of val live at the entry of block.
//
// Blocks without a known definition inherit the one of their immediate
// dominator. A block marked as needing a phi gets a fresh phi whose sources
// are wired later by Finish. A block with no immediate dominator gets an
// undefined value of the value's shape. Every block visited on the way is
// memoized, so asking again returns the same definition.
func (self *Builder) GetBlockDef(val *Value, block int) Def {
	var def Def
	self.checkValue("GetBlockDef", val)
	self.checkBlock("GetBlockDef", block)

	/* climb the dominator tree until a block resolves */
	p := block
	chain := self.chain[:0]

	/* the dominator tree is acyclic, so a chain longer than the block count means a broken view */
	for {
		if len(chain) > len(self.blocks) {
			contractf("GetBlockDef", "immediate dominators of block %d form a cycle", block)
		}

		/* check the slot of this block */
		slot := &val.defs[p]
		if slot.state == _S_resolved {
			def = slot.def
			break
		}

		/* materialize a phi, the sources are left for Finish */
		if slot.state == _S_needsPhi {
			def = self.placePhi(val, p)
			slot.resolve(def)
			break
		}

		/* inherit from the immediate dominator */
		chain = append(chain, p)
		if p = self.blocks[p].Idom; p == NoBlock {
			def = self.undef(val, chain[len(chain)-1])
			break
		}
	}

	/* memoize the result for every block on the way */
	for _, i := range chain {
		val.defs[i].resolve(def)
	}

	/* keep the buffer for later use */
	self.chain = chain[:0]
	return def
}

func (self *Builder) placePhi(val *Value, block int) Def {
	id := len(self.phis)
	def := self.host.NewPhi(block, val.shape)

	/* add to phi arena and the pending list of the value */
	val.pending.Enqueue(id)
	self.phis = append(self.phis, _Phi{
		block: block,
		value: val.id,
		def:   def,
	})

	/* trace the placement if needed */
	if atomic.AddUint64(&PhiCount, 1); self.opts.Tracing() {
		self.log.Debug("ssaphi: place phi",
			zap.Int("value", val.id),
			zap.Int("block", block),
			zap.Int("phi", id),
		)
	}
	return def
}

func (self *Builder) undef(val *Value, block int) Def {
	def := self.host.NewUndef(val.shape)
	atomic.AddUint64(&UndefCount, 1)

	/* the entry block is expected to hit this, anything else is unreachable */
	if self.opts.Tracing() {
		self.log.Debug("ssaphi: synthesize undef",
			zap.Int("value", val.id),
			zap.Int("block", block),
		)
	}
	return def
}
