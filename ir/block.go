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

type Block struct {
	Id    int
	Func  *Func
	Phis  []*Instr
	Ins   []*Instr
	Term  *Term
	Preds []*Block
	Succs []*Block
	idom  *Block
	kids  []*Block
	df    []*Block
	reach bool
}

// Idom returns the immediate dominator, or nil for the entry block and for
// unreachable blocks.
func (self *Block) Idom() *Block {
	self.Func.ensureAnalyzed()
	return self.idom
}

// Dominees returns the blocks immediately dominated by this block, ordered
// by block id.
func (self *Block) Dominees() []*Block {
	self.Func.ensureAnalyzed()
	return self.kids
}

// Frontier returns the dominance frontier of this block, ordered by block id.
func (self *Block) Frontier() []*Block {
	self.Func.ensureAnalyzed()
	return self.df
}

// Reachable reports whether the block is reachable from the entry block.
func (self *Block) Reachable() bool {
	self.Func.ensureAnalyzed()
	return self.reach
}

func (self *Block) append(ins *Instr) *Instr {
	if self.Term != nil {
		panic(fmt.Sprintf("ir: append to terminated block bb_%d", self.Id))
	}
	ins.Block = self
	ins.Id = self.Func.newId()
	self.Ins = append(self.Ins, ins)
	return ins
}

func (self *Block) Const(shape ssaphi.Shape, v int64) *Instr {
	return self.append(&Instr{Op: OpConst, Shape: shape, Imm: v})
}

func (self *Block) Add(x *Instr, y *Instr) *Instr {
	return self.append(&Instr{Op: OpAdd, Shape: x.Shape, Args: []*Instr{x, y}})
}

func (self *Block) Copy(x *Instr) *Instr {
	return self.append(&Instr{Op: OpCopy, Shape: x.Shape, Args: []*Instr{x}})
}

func (self *Block) Load(v *Var) *Instr {
	return self.append(&Instr{Op: OpLoad, Shape: v.Shape, Var: v})
}

func (self *Block) Store(v *Var, x *Instr) {
	self.append(&Instr{Op: OpStore, Shape: v.Shape, Var: v, Args: []*Instr{x}})
}

func (self *Block) link(to *Block) {
	self.Succs = append(self.Succs, to)
	to.Preds = append(to.Preds, self)
	self.Func.invalidate()
}

func (self *Block) terminate(term *Term) {
	if self.Term != nil {
		panic(fmt.Sprintf("ir: bb_%d is already terminated", self.Id))
	}
	self.Term = term
}

func (self *Block) Jump(to *Block) {
	self.terminate(&Term{Kind: TermJump})
	self.link(to)
}

func (self *Block) Branch(cond *Instr, t *Block, f *Block) {
	self.terminate(&Term{Kind: TermBranch, Cond: cond})
	self.link(t)
	self.link(f)
}

// Return terminates the block with an edge into the synthetic end block. v
// may be nil.
func (self *Block) Return(v *Instr) {
	self.terminate(&Term{Kind: TermReturn, Value: v})
	self.link(self.Func.End)
}

func (self *Block) String() string {
	buf := []string{fmt.Sprintf("bb_%d:", self.Id)}

	/* predecessors */
	if len(self.Preds) != 0 {
		buf[0] += fmt.Sprintf(" ; pred = {%s}", blocknames(self.Preds))
	}

	/* phi nodes and instructions */
	for _, v := range self.Phis {
		buf = append(buf, "    "+v.String())
	}
	for _, v := range self.Ins {
		buf = append(buf, "    "+v.String())
	}

	/* terminator */
	if self.Term != nil {
		buf = append(buf, "    "+self.termString())
	}
	return strings.Join(buf, "\n")
}

func (self *Block) termString() string {
	switch self.Term.Kind {
	case TermJump:
		return fmt.Sprintf("jmp bb_%d", self.Succs[0].Id)
	case TermBranch:
		return fmt.Sprintf("br %s, bb_%d, bb_%d", self.Term.Cond.Name(), self.Succs[0].Id, self.Succs[1].Id)
	default:
		if self.Term.Value == nil {
			return "ret"
		} else {
			return "ret " + self.Term.Value.Name()
		}
	}
}

func blocknames(bbs []*Block) string {
	ret := make([]string, len(bbs))
	for i, bb := range bbs {
		ret[i] = fmt.Sprintf("bb_%d", bb.Id)
	}
	return strings.Join(ret, ", ")
}
