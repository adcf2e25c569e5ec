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
	"github.com/oleiade/lane"
)

// DomPreorder calls action for every reachable block in dominator tree
// pre-order, so a block is always visited after its dominators. Unreachable
// blocks follow in block ID order.
func (self *Func) DomPreorder(action func(bb *Block)) {
	self.ensureAnalyzed()
	st := lane.NewStack()

	/* walk the dominator tree */
	for st.Push(self.Entry); !st.Empty(); {
		p := st.Pop().(*Block)
		action(p)

		/* push the children in reverse, so the smallest ID is visited first */
		for i := len(p.kids) - 1; i >= 0; i-- {
			st.Push(p.kids[i])
		}
	}

	/* blocks that are not in the tree */
	for _, bb := range self.Blocks {
		if !bb.reach {
			action(bb)
		}
	}
}

// ForEachBlock calls action for every block in block ID order.
func (self *Func) ForEachBlock(action func(bb *Block)) {
	for _, bb := range self.Blocks {
		action(bb)
	}
}
