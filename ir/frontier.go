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

package ir

import (
	"sort"
)

// buildDominanceFrontier computes the dominance frontier of every reachable
// block, using the algorithm found in "A Simple, Fast Dominance Algorithm",
// Figure 5.
func (self *Func) buildDominanceFrontier() {
	mark := make([]int, len(self.Blocks))
	for _, bb := range self.Blocks {
		bb.df = nil
	}

	/* only join points can be in a frontier */
	for _, bb := range self.Blocks {
		if !bb.reach || len(bb.Preds) < 2 {
			continue
		}

		/* walk up from every reachable predecessor to the immediate dominator */
		for _, p := range bb.Preds {
			for r := p; r != nil && r.reach && r != bb.idom; r = r.idom {
				if mark[r.Id] != bb.Id+1 {
					mark[r.Id] = bb.Id + 1
					r.df = append(r.df, bb)
				}
			}
		}
	}

	/* sort by block ID */
	for _, bb := range self.Blocks {
		sort.Slice(bb.df, func(i int, j int) bool {
			return bb.df[i].Id < bb.df[j].Id
		})
	}
}

// Analyze computes the dominator tree and the dominance frontiers. It is
// called automatically whenever dominance information is requested on a
// function whose control flow changed.
func (self *Func) Analyze() {
	self.buildDominatorTree()
	self.buildDominanceFrontier()
	self.analyzed = true
}

func (self *Func) ensureAnalyzed() {
	if !self.analyzed {
		self.Analyze()
	}
}

// Dominates reports whether a dominates b. Every block dominates itself,
// unreachable blocks are dominated by nothing but themselves.
func (self *Func) Dominates(a *Block, b *Block) bool {
	self.ensureAnalyzed()
	for p := b; p != nil; p = p.idom {
		if p == a {
			return true
		}
	}
	return false
}
