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
	"github.com/cloudwego/ssaphi"
)

// VarLowering promotes every variable into SSA values. Loads become copies of
// the reaching definition, stores are removed.
type VarLowering struct {
	Options []ssaphi.Option
}

func (self VarLowering) Apply(fn *Func) {
	lowerVars(fn, self.Options)
}

// LowerVars is a shorthand for VarLowering{}.Apply, it reports whether any
// variable was lowered.
func LowerVars(fn *Func, options ...ssaphi.Option) bool {
	return lowerVars(fn, options)
}

func lowerVars(fn *Func, options []ssaphi.Option) bool {
	if len(fn.Vars) == 0 {
		return false
	}

	/* find the defining blocks of every variable */
	nb := len(fn.Blocks)
	defs := make([]ssaphi.BlockSet, len(fn.Vars))
	for i := range defs {
		defs[i] = ssaphi.NewBlockSet(nb)
	}

	/* mark all the store sites */
	fn.ForEachBlock(func(bb *Block) {
		for _, v := range bb.Ins {
			if v.Op == OpStore {
				defs[v.Var.Id].Add(bb.Id)
			}
		}
	})

	/* register the variables in declaration order */
	pb := fn.NewBuilder(options...)
	vals := make([]*ssaphi.Value, len(fn.Vars))
	for i, v := range fn.Vars {
		vals[i] = pb.AddValue(v.Shape, defs[i])
	}

	/* rewrite in dominator order, so the dominators are complete when a block is visited */
	fn.DomPreorder(func(bb *Block) {
		for _, v := range bb.Ins {
			switch v.Op {
			case OpStore:
				pb.SetBlockDef(vals[v.Var.Id], bb.Id, v.Args[0])
			case OpLoad:
				def := pb.GetBlockDef(vals[v.Var.Id], bb.Id)
				v.Op, v.Var, v.Args = OpCopy, nil, []*Instr{def.(*Instr)}
			}
		}
	})

	/* wire all the phis */
	pb.Finish()

	/* remove the stores */
	fn.ForEachBlock(func(bb *Block) {
		ins := bb.Ins[:0]
		for _, v := range bb.Ins {
			if v.Op != OpStore {
				ins = append(ins, v)
			}
		}
		bb.Ins = ins
	})

	/* all variables are gone */
	fn.Vars = nil
	return true
}
