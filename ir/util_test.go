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

	"github.com/brianvoe/gofakeit/v6"
)

/* randomFunc builds a random function, the same seed always builds the same function */
func randomFunc(seed int64, nb int, nv int) *Func {
	f := gofakeit.New(seed)
	fn := NewFunc(fmt.Sprintf("random_%d", seed))
	vars := make([]*Var, nv)
	blocks := []*Block{fn.Entry}

	/* declare all the variables */
	for i := range vars {
		vars[i] = fn.NewVar(fmt.Sprintf("v%d", i), I64)
	}

	/* create all the blocks */
	for i := 1; i < nb; i++ {
		blocks = append(blocks, fn.NewBlock())
	}

	/* never branch back into the entry block */
	pickVar := func() *Var { return vars[f.Number(0, nv-1)] }
	pickBlock := func() *Block { return blocks[f.Number(1, nb-1)] }

	/* fill every block */
	for _, bb := range blocks {
		for n := f.Number(0, 3); n > 0; n-- {
			switch v := pickVar(); f.Number(0, 2) {
			case 0:
				bb.Store(v, bb.Const(I64, int64(f.Number(-3, 3))))
			case 1:
				bb.Store(v, bb.Add(bb.Load(v), bb.Const(I64, 1)))
			default:
				bb.Load(v)
			}
		}

		/* add the terminator */
		switch k := f.Number(0, 4); {
		case nb == 1 || k == 0:
			bb.Return(bb.Load(pickVar()))
		case k <= 2:
			bb.Jump(pickBlock())
		default:
			bb.Branch(bb.Load(pickVar()), pickBlock(), pickBlock())
		}
	}
	return fn
}

type execResult struct {
	Path []int
	Ret  int64
	Done bool
}

/* execute runs fn for at most limit blocks, undefined values read as zero */
func execute(fn *Func, limit int) (r execResult) {
	var prev *Block
	bb := fn.Entry
	vals := make(map[*Instr]int64)
	vars := make(map[*Var]int64)

	/* run until the block limit */
	for ; limit > 0; limit-- {
		r.Path = append(r.Path, bb.Id)
		phis := make([]int64, len(bb.Phis))

		/* all phis read their sources at the same time */
		for i, p := range bb.Phis {
			for _, s := range p.Sources {
				if s.Pred == prev {
					phis[i] = vals[s.Value]
				}
			}
		}
		for i, p := range bb.Phis {
			vals[p] = phis[i]
		}

		/* execute the body */
		for _, v := range bb.Ins {
			switch v.Op {
			case OpConst:
				vals[v] = v.Imm
			case OpUndef:
				vals[v] = 0
			case OpAdd:
				vals[v] = vals[v.Args[0]] + vals[v.Args[1]]
			case OpCopy:
				vals[v] = vals[v.Args[0]]
			case OpLoad:
				vals[v] = vars[v.Var]
			case OpStore:
				vars[v.Var] = vals[v.Args[0]]
			}
		}

		/* follow the terminator */
		switch prev = bb; bb.Term.Kind {
		case TermJump:
			bb = bb.Succs[0]
		case TermBranch:
			if vals[bb.Term.Cond] != 0 {
				bb = bb.Succs[0]
			} else {
				bb = bb.Succs[1]
			}
		default:
			if bb.Term.Value != nil {
				r.Ret = vals[bb.Term.Value]
			}
			r.Done = true
			return
		}
	}
	return
}

func countOps(fn *Func, ops ...Op) (n int) {
	for _, bb := range fn.Blocks {
		for _, v := range append(bb.Phis[:len(bb.Phis):len(bb.Phis)], bb.Ins...) {
			for _, op := range ops {
				if v.Op == op {
					n++
				}
			}
		}
	}
	return
}
