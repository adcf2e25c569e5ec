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
	"fmt"
	"strings"

	"github.com/cloudwego/ssaphi"
)

// Func is a function made of basic blocks. Blocks[0] is the entry block and
// Blocks[1] is the synthetic end block every return edges into; the end block
// never holds instructions.
type Func struct {
	Name     string
	Vars     []*Var
	Entry    *Block
	End      *Block
	Blocks   []*Block
	nextId   int
	analyzed bool
}

func NewFunc(name string) *Func {
	fn := &Func{Name: name}
	fn.Entry = fn.NewBlock()
	fn.End = fn.NewBlock()
	return fn
}

func (self *Func) newId() (id int) {
	id = self.nextId
	self.nextId++
	return
}

func (self *Func) invalidate() {
	self.analyzed = false
}

func (self *Func) NewBlock() *Block {
	bb := &Block{Id: len(self.Blocks), Func: self}
	self.Blocks = append(self.Blocks, bb)
	self.invalidate()
	return bb
}

func (self *Func) NewVar(name string, shape ssaphi.Shape) *Var {
	v := &Var{Id: len(self.Vars), Name: name, Shape: shape}
	self.Vars = append(self.Vars, v)
	return v
}

// NumBlocks implements ssaphi.Function.
func (self *Func) NumBlocks() int {
	return len(self.Blocks)
}

// Block implements ssaphi.Function.
func (self *Func) Block(i int) ssaphi.BlockView {
	bb := self.Blocks[i]
	self.ensureAnalyzed()

	/* basic block view */
	ret := ssaphi.BlockView{
		Index:     bb.Id,
		Idom:      ssaphi.NoBlock,
		Preds:     make([]int, 0, len(bb.Preds)),
		Frontier:  make([]int, 0, len(bb.df)),
		Synthetic: bb == self.End,
	}

	/* immediate dominator */
	if bb.idom != nil {
		ret.Idom = bb.idom.Id
	}

	/* predecessors and dominance frontier */
	for _, p := range bb.Preds {
		ret.Preds = append(ret.Preds, p.Id)
	}
	for _, p := range bb.df {
		ret.Frontier = append(ret.Frontier, p.Id)
	}
	return ret
}

func (self *Func) String() string {
	buf := make([]string, 0, len(self.Blocks)+2)
	buf = append(buf, fmt.Sprintf("func %s {", self.Name))

	/* dump every block except the end block */
	for _, bb := range self.Blocks {
		if bb != self.End {
			buf = append(buf, bb.String())
		}
	}

	/* join them together */
	buf = append(buf, "}")
	return strings.Join(buf, "\n")
}
