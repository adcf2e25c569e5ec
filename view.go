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

package ssaphi

import (
	"fmt"
)

// NoBlock is the immediate dominator of the entry block and of every block
// that is unreachable from it.
const NoBlock = -1

// Shape describes the width of a value. It is opaque to the builder and is
// only handed back to the Host when synthesizing phis and undefs.
type Shape struct {
	Components uint8
	BitSize    uint8
}

func (self Shape) String() string {
	if self.Components <= 1 {
		return fmt.Sprintf("i%d", self.BitSize)
	} else {
		return fmt.Sprintf("%dxi%d", self.Components, self.BitSize)
	}
}

// Def is an SSA definition owned by the host IR.
type Def interface{}

// Source is one incoming edge of a phi.
type Source struct {
	Pred int
	Def  Def
}

// BlockView is the dominance information of a single basic block.
type BlockView struct {
	Index     int
	Idom      int
	Preds     []int
	Frontier  []int
	Synthetic bool // holds no instructions, can never host a phi
}

// Function exposes the blocks of a function with dominance already computed.
// Block indices are dense in [0, NumBlocks()).
type Function interface {
	NumBlocks() int
	Block(i int) BlockView
}

// Host creates and places the instructions the builder needs.
type Host interface {
	NewPhi(block int, shape Shape) Def
	NewUndef(shape Shape) Def
	SetPhiSources(phi Def, src []Source)
	InsertPhi(block int, phi Def)
}
