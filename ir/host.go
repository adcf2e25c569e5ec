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

type _Host struct {
	fn *Func
}

// Host returns the ssaphi.Host creating phis and undefs in this function.
// Undefs are placed at the top of the entry block so they dominate every
// reachable block.
func (self *Func) Host() ssaphi.Host {
	return _Host{fn: self}
}

// NewBuilder creates a phi builder over this function.
func (self *Func) NewBuilder(options ...ssaphi.Option) *ssaphi.Builder {
	self.ensureAnalyzed()
	return ssaphi.New(self, self.Host(), options...)
}

func (self _Host) NewPhi(block int, shape ssaphi.Shape) ssaphi.Def {
	return &Instr{
		Id:    self.fn.newId(),
		Op:    OpPhi,
		Shape: shape,
		Block: self.fn.Blocks[block],
	}
}

func (self _Host) NewUndef(shape ssaphi.Shape) ssaphi.Def {
	bb := self.fn.Entry
	ins := &Instr{
		Id:    self.fn.newId(),
		Op:    OpUndef,
		Shape: shape,
		Block: bb,
	}

	/* prepend to the entry block, into a new slice since passes may be ranging over the old one */
	bb.Ins = append([]*Instr{ins}, bb.Ins...)
	return ins
}

func (self _Host) SetPhiSources(phi ssaphi.Def, src []ssaphi.Source) {
	p := phi.(*Instr)
	p.Sources = make([]PhiSource, len(src))

	/* convert every source */
	for i, s := range src {
		p.Sources[i] = PhiSource{
			Pred:  self.fn.Blocks[s.Pred],
			Value: s.Def.(*Instr),
		}
	}
}

func (self _Host) InsertPhi(block int, phi ssaphi.Def) {
	bb := self.fn.Blocks[block]
	bb.Phis = append(bb.Phis, phi.(*Instr))
}
