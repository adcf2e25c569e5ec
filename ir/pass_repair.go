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

type _Use struct {
	bb  *Block
	ref **Instr
}

// SSARepair fixes up definitions that are used in blocks they do not
// dominate, typically after a transformation that changed the control flow,
// by routing them through phis.
type SSARepair struct {
	Options []ssaphi.Option
}

func (self SSARepair) Apply(fn *Func) {
	repairSSA(fn, self.Options)
}

// RepairSSA is a shorthand for SSARepair{}.Apply, it reports whether any use
// was rewritten.
func RepairSSA(fn *Func, options ...ssaphi.Option) bool {
	return repairSSA(fn, options)
}

func collectUses(fn *Func) map[*Instr][]_Use {
	ret := make(map[*Instr][]_Use)
	fn.ForEachBlock(func(bb *Block) {
		if !bb.reach {
			return
		}

		/* a phi uses its source at the end of the corresponding predecessor */
		for _, v := range bb.Phis {
			for i := range v.Sources {
				s := &v.Sources[i]
				ret[s.Value] = append(ret[s.Value], _Use{bb: s.Pred, ref: &s.Value})
			}
		}

		/* instruction operands */
		for _, v := range bb.Ins {
			for _, r := range v.Usages() {
				ret[*r] = append(ret[*r], _Use{bb: bb, ref: r})
			}
		}

		/* terminator operands */
		if bb.Term != nil {
			for _, r := range bb.Term.Usages() {
				ret[*r] = append(ret[*r], _Use{bb: bb, ref: r})
			}
		}
	})
	return ret
}

func repairSSA(fn *Func, options []ssaphi.Option) bool {
	var pb *ssaphi.Builder
	fn.ensureAnalyzed()

	/* snapshot the definitions first, the builder adds phis and undefs while repairing */
	var defs []*Instr
	fn.ForEachBlock(func(bb *Block) {
		defs = append(defs, bb.Phis...)
		for _, v := range bb.Ins {
			if v.Defines() {
				defs = append(defs, v)
			}
		}
	})

	/* check every use against its definition */
	uses := collectUses(fn)
	for _, d := range defs {
		var bad []_Use
		for _, u := range uses[d] {
			if !fn.Dominates(d.Block, u.bb) {
				bad = append(bad, u)
			}
		}

		/* all uses are dominated */
		if len(bad) == 0 {
			continue
		}

		/* create the builder lazily */
		if pb == nil {
			pb = fn.NewBuilder(options...)
		}

		/* route the offending uses through phis */
		val := pb.AddValue(d.Shape, ssaphi.BlockSetOf(d.Block.Id))
		pb.SetBlockDef(val, d.Block.Id, d)

		/* rewrite every bad use */
		for _, u := range bad {
			*u.ref = pb.GetBlockDef(val, u.bb.Id).(*Instr)
		}
	}

	/* nothing to repair */
	if pb == nil {
		return false
	}

	/* wire all the phis */
	pb.Finish()
	return true
}
