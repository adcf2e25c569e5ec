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

/** This is an implementation of the Lengauer-Tarjan algorithm described in
 *  https://doi.org/10.1145%2F357062.357071
 */

package ir

import (
	"sort"

	"github.com/oleiade/lane"
)

type _LtNode struct {
	semi     int
	node     *Block
	dom      *_LtNode
	label    *_LtNode
	parent   *_LtNode
	ancestor *_LtNode
	pred     []*_LtNode
	bucket   []*_LtNode
}

type _LengauerTarjan struct {
	nodes  []*_LtNode
	vertex []*_LtNode
}

type _DfsFrame struct {
	bb     *Block
	parent *_LtNode
}

func newLengauerTarjan(nb int) *_LengauerTarjan {
	return &_LengauerTarjan{
		vertex: make([]*_LtNode, nb),
	}
}

func (self *_LengauerTarjan) dfs(root *Block) {
	st := lane.NewStack()
	st.Push(_DfsFrame{bb: root})

	/* number the blocks in depth-first pre-order */
	for !st.Empty() {
		fp := st.Pop().(_DfsFrame)
		bb := fp.bb

		/* already visited through another path */
		if self.vertex[bb.Id] != nil {
			continue
		}

		/* create a new node */
		p := &_LtNode{
			semi:   len(self.nodes),
			node:   bb,
			parent: fp.parent,
		}

		/* add to node list */
		p.label = p
		self.vertex[bb.Id] = p
		self.nodes = append(self.nodes, p)

		/* push the successors in reverse, so the first successor is visited first */
		for i := len(bb.Succs) - 1; i >= 0; i-- {
			if w := bb.Succs[i]; self.vertex[w.Id] == nil {
				st.Push(_DfsFrame{bb: w, parent: p})
			}
		}
	}

	/* add predecessors, only reachable ones count */
	for _, p := range self.nodes {
		for _, q := range p.node.Preds {
			if v := self.vertex[q.Id]; v != nil {
				p.pred = append(p.pred, v)
			}
		}
	}
}

func (self *_LengauerTarjan) eval(p *_LtNode) *_LtNode {
	if p.ancestor == nil {
		return p
	} else {
		self.compress(p)
		return p.label
	}
}

func (self *_LengauerTarjan) link(p *_LtNode, q *_LtNode) {
	q.ancestor = p
}

func (self *_LengauerTarjan) compress(p *_LtNode) {
	if p.ancestor.ancestor != nil {
		self.compress(p.ancestor)
		if p.label.semi > p.ancestor.label.semi {
			p.label = p.ancestor.label
		}
		p.ancestor = p.ancestor.ancestor
	}
}

// buildDominatorTree computes the immediate dominator of every block
// reachable from the entry block and links the dominator tree.
func (self *Func) buildDominatorTree() {
	for _, bb := range self.Blocks {
		bb.idom = nil
		bb.kids = nil
		bb.reach = false
	}

	/* Step 1: Carry out a depth-first search of the problem graph. Number the vertices
	 * from 1 to n as they are reached during the search. Initialize the variables used
	 * in succeeding steps. */
	lt := newLengauerTarjan(len(self.Blocks))
	lt.dfs(self.Entry)

	/* perform Step 2 and Step 3 simultaneously */
	for i := len(lt.nodes) - 1; i > 0; i-- {
		p := lt.nodes[i]
		q := (*_LtNode)(nil)

		/* Step 2: Compute the semidominators of all vertices by applying Theorem 4.
		 * Carry out the computation vertex by vertex in decreasing order by number. */
		for _, v := range p.pred {
			q = lt.eval(v)
			p.semi = minint(p.semi, q.semi)
		}

		/* link the ancestor */
		lt.link(p.parent, p)
		lt.nodes[p.semi].bucket = append(lt.nodes[p.semi].bucket, p)

		/* Step 3: Implicitly define the immediate dominator of each vertex by applying Corollary 1 */
		for _, v := range p.parent.bucket {
			if q = lt.eval(v); q.semi < v.semi {
				v.dom = q
			} else {
				v.dom = p.parent
			}
		}

		/* clear the bucket */
		p.parent.bucket = p.parent.bucket[:0]
	}

	/* Step 4: Explicitly define the immediate dominator of each vertex, carrying out the
	 * computation vertex by vertex in increasing order by number. */
	for _, p := range lt.nodes[1:] {
		if p.dom != lt.nodes[p.semi] {
			p.dom = p.dom.dom
		}
	}

	/* map the dominator relations */
	for _, p := range lt.nodes {
		p.node.reach = true
		if p.dom != nil {
			p.node.idom = p.dom.node
			p.dom.node.kids = append(p.dom.node.kids, p.node)
		}
	}

	/* sort the dominator tree children by block ID */
	for _, p := range lt.nodes {
		sort.Slice(p.node.kids, func(i int, j int) bool {
			return p.node.kids[i].Id < p.node.kids[j].Id
		})
	}
}

func minint(a int, b int) int {
	if a < b {
		return a
	} else {
		return b
	}
}
