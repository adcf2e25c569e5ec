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

// Finish wires the sources of every phi created by GetBlockDef and hands the
// phis to the host for insertion. Wiring a phi may create more phis in the
// predecessors, those are drained in the same pass.
//
// The builder is consumed, any further call panics.
func (self *Builder) Finish() {
	self.checkLive("Finish")

	/* drain the pending phis of each value */
	for _, val := range self.values {
		for !val.pending.Empty() {
			self.wirePhi(val, val.pending.Dequeue().(int))
		}
	}

	/* check the result if requested */
	if self.opts.Verify {
		self.verify()
	}

	/* trace the summary */
	if self.opts.Tracing() {
		self.log.Debug("ssaphi: finish",
			zap.Int("values", len(self.values)),
			zap.Int("phis", len(self.phis)),
		)
	}

	/* the builder is consumed */
	self.done = true
	self.work = nil
	self.mark = nil
	self.chain = nil
	atomic.AddUint64(&FinishCount, 1)
}

func (self *Builder) wirePhi(val *Value, id int) {
	bb := self.phis[id].block
	pred := self.blocks[bb].Preds
	src := make([]Source, 0, len(pred))

	/* resolve the definition at the end of every predecessor, this may grow the phi arena */
	for _, p := range pred {
		src = append(src, Source{
			Pred: p,
			Def:  self.GetBlockDef(val, p),
		})
	}

	/* arena might be reallocated, reload the phi */
	phi := &self.phis[id]
	phi.src = src
	phi.done = true

	/* insert at the top of the block */
	self.host.SetPhiSources(phi.def, src)
	self.host.InsertPhi(bb, phi.def)

	/* trace the wiring if needed */
	if self.opts.Tracing() {
		self.log.Debug("ssaphi: wire phi",
			zap.Int("value", val.id),
			zap.Int("block", bb),
			zap.Int("phi", id),
			zap.Ints("preds", pred),
		)
	}
}

func (self *Builder) verify() {
	for _, val := range self.values {
		if n := val.pending.Size(); n != 0 {
			contractf("Finish", "value %d still has %d pending phis", val.id, n)
		}
	}

	/* every phi has one source per predecessor, in index order */
	for i, phi := range self.phis {
		pred := self.blocks[phi.block].Preds
		if !phi.done {
			contractf("Finish", "phi %d in block %d is not wired", i, phi.block)
		}
		if len(phi.src) != len(pred) {
			contractf("Finish", "phi %d in block %d has %d sources for %d predecessors", i, phi.block, len(phi.src), len(pred))
		}
		for j, s := range phi.src {
			if s.Pred != pred[j] {
				contractf("Finish", "phi %d in block %d has source #%d from block %d, expected %d", i, phi.block, j, s.Pred, pred[j])
			}
		}
	}
}
