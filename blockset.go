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
	"math/bits"
	"strings"
)

// BlockSet is a set of block indices.
type BlockSet struct {
	data []uint64
}

// NewBlockSet creates an empty set sized for n blocks. The set grows on
// demand, n is only a hint.
func NewBlockSet(n int) BlockSet {
	return BlockSet{data: make([]uint64, (n+63)>>6)}
}

// BlockSetOf creates a set containing the given block indices.
func BlockSetOf(blocks ...int) (s BlockSet) {
	for _, i := range blocks {
		s.Add(i)
	}
	return
}

func (self *BlockSet) Add(i int) {
	x, y := i>>6, uint(i&63) // i/64, i%64
	if i < 0 {
		panic(fmt.Sprintf("ssaphi: negative block index %d", i))
	}
	for x >= len(self.data) {
		self.data = append(self.data, 0)
	}
	self.data[x] |= 1 << y
}

func (self *BlockSet) Remove(i int) {
	if x, y := i>>6, uint(i&63); i >= 0 && x < len(self.data) {
		self.data[x] &^= 1 << y
	}
}

func (self BlockSet) Has(i int) bool {
	x, y := i>>6, uint(i&63)
	return i >= 0 && x < len(self.data) && self.data[x]&(1<<y) != 0
}

// Len returns the number of blocks in the set.
func (self BlockSet) Len() (n int) {
	for _, w := range self.data {
		n += bits.OnesCount64(w)
	}
	return
}

// ForEach calls fn for every block in ascending index order.
func (self BlockSet) ForEach(fn func(i int)) {
	for x, w := range self.data {
		for w != 0 {
			y := bits.TrailingZeros64(w)
			w &= w - 1
			fn(x<<6 | y)
		}
	}
}

func (self BlockSet) String() string {
	var buf []string
	self.ForEach(func(i int) { buf = append(buf, fmt.Sprintf("bb_%d", i)) })
	return fmt.Sprintf("{%s}", strings.Join(buf, ", "))
}
