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

// CopyElim removes copies, every use of a copy is replaced with the copied
// value.
type CopyElim struct{}

func (self CopyElim) Apply(fn *Func) {
	replace := func(r **Instr) {
		for (*r).Op == OpCopy {
			*r = (*r).Args[0]
		}
	}

	/* Phase 1: Replace all the references */
	fn.ForEachBlock(func(bb *Block) {
		for _, v := range bb.Phis {
			for _, r := range v.Usages() {
				replace(r)
			}
		}
		for _, v := range bb.Ins {
			for _, r := range v.Usages() {
				replace(r)
			}
		}
		if bb.Term != nil {
			for _, r := range bb.Term.Usages() {
				replace(r)
			}
		}
	})

	/* Phase 2: Remove the copies */
	fn.ForEachBlock(func(bb *Block) {
		ins := bb.Ins[:0]
		for _, v := range bb.Ins {
			if v.Op != OpCopy {
				ins = append(ins, v)
			}
		}
		bb.Ins = ins
	})
}
