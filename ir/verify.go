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
	"sort"
)

// VerifyError occures when a function is not in valid SSA form.
type VerifyError struct {
	Block  int
	Instr  string
	Reason string
}

func (self VerifyError) Error() string {
	if self.Instr == "" {
		return fmt.Sprintf("bb_%d: %s", self.Block, self.Reason)
	} else {
		return fmt.Sprintf("bb_%d: %s: %s", self.Block, self.Instr, self.Reason)
	}
}

type _Verifier struct {
	fn  *Func
	pos map[*Instr]int
}

// Verify checks that fn is in SSA form: phis come first in their block and
// have one source per predecessor in predecessor ID order, and every use of
// a value in a reachable block is dominated by its definition.
func Verify(fn *Func) error {
	vf := _Verifier{fn: fn, pos: make(map[*Instr]int)}
	fn.ensureAnalyzed()

	/* number the instructions within their blocks, phis share position 0 */
	for _, bb := range fn.Blocks {
		for _, v := range bb.Phis {
			vf.pos[v] = 0
		}
		for i, v := range bb.Ins {
			vf.pos[v] = i + 1
		}
	}

	/* check every reachable block */
	for _, bb := range fn.Blocks {
		if bb.reach {
			if err := vf.block(bb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (self _Verifier) block(bb *Block) error {
	if bb == self.fn.End && (len(bb.Phis) != 0 || len(bb.Ins) != 0) {
		return VerifyError{Block: bb.Id, Reason: "end block holds instructions"}
	}

	/* sorted predecessor IDs */
	pred := make([]int, len(bb.Preds))
	for i, p := range bb.Preds {
		pred[i] = p.Id
	}

	/* sort by block ID */
	sort.Ints(pred)

	/* check the phi nodes */
	for _, v := range bb.Phis {
		if v.Op != OpPhi {
			return VerifyError{Block: bb.Id, Instr: v.String(), Reason: "non-phi instruction in the phi list"}
		}
		if v.Block != bb {
			return VerifyError{Block: bb.Id, Instr: v.String(), Reason: "phi belongs to another block"}
		}
		if len(v.Sources) != len(pred) {
			return VerifyError{Block: bb.Id, Instr: v.String(), Reason: fmt.Sprintf("%d sources for %d predecessors", len(v.Sources), len(pred))}
		}
		for i, s := range v.Sources {
			if s.Pred.Id != pred[i] {
				return VerifyError{Block: bb.Id, Instr: v.String(), Reason: fmt.Sprintf("source #%d from bb_%d, expected bb_%d", i, s.Pred.Id, pred[i])}
			}
			if !s.Pred.reach {
				continue
			}
			if err := self.use(s.Pred, -1, s.Value, v); err != nil {
				return err
			}
		}
	}

	/* check the instructions */
	for i, v := range bb.Ins {
		if v.Op == OpPhi {
			return VerifyError{Block: bb.Id, Instr: v.String(), Reason: "phi after non-phi instructions"}
		}
		for _, r := range v.Usages() {
			if err := self.use(bb, i+1, *r, v); err != nil {
				return err
			}
		}
	}

	/* check the terminator */
	if bb.Term != nil {
		for _, r := range bb.Term.Usages() {
			if err := self.use(bb, len(bb.Ins)+1, *r, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (self _Verifier) use(bb *Block, at int, def *Instr, user *Instr) error {
	name := bb.termString
	if user != nil {
		name = user.String
	}

	/* the definition must exist in this function */
	if def == nil {
		return VerifyError{Block: bb.Id, Instr: name(), Reason: "nil operand"}
	}
	if _, ok := self.pos[def]; !ok {
		return VerifyError{Block: bb.Id, Instr: name(), Reason: fmt.Sprintf("%s is not defined in any block", def.Name())}
	}

	/* must be dominated by the definition */
	if !self.fn.Dominates(def.Block, bb) {
		return VerifyError{Block: bb.Id, Instr: name(), Reason: fmt.Sprintf("%s does not dominate this use", def.Name())}
	}

	/* within the same block, the definition must come first */
	if at >= 0 && def.Block == bb && self.pos[def] >= at {
		return VerifyError{Block: bb.Id, Instr: name(), Reason: fmt.Sprintf("%s is used before its definition", def.Name())}
	}
	return nil
}
