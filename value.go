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

	"github.com/oleiade/lane"
)

type _SlotState uint8

const (
	_S_absent _SlotState = iota
	_S_needsPhi
	_S_resolved
)

func (self _SlotState) String() string {
	switch self {
	case _S_absent:
		return "absent"
	case _S_needsPhi:
		return "needs-phi"
	case _S_resolved:
		return "resolved"
	default:
		return fmt.Sprintf("_SlotState(%d)", uint8(self))
	}
}

/* a slot only moves forward: absent -> needs-phi -> resolved, or absent -> resolved */
type _Slot struct {
	state _SlotState
	def   Def
}

func (self *_Slot) resolve(def Def) {
	self.def = def
	self.state = _S_resolved
}

// Value is a single program variable undergoing SSA construction.
type Value struct {
	id      int
	shape   Shape
	owner   *Builder
	defs    []_Slot
	pending *lane.Queue // indices into Builder.phis
}

func newValue(b *Builder, id int, shape Shape, nb int) *Value {
	return &Value{
		id:      id,
		shape:   shape,
		owner:   b,
		defs:    make([]_Slot, nb),
		pending: lane.NewQueue(),
	}
}

func (self *Value) Id() int {
	return self.id
}

func (self *Value) Shape() Shape {
	return self.shape
}

// Pending returns the number of phis created for this value that have not
// been wired by Finish yet.
func (self *Value) Pending() int {
	return self.pending.Size()
}

func (self *Value) String() string {
	return fmt.Sprintf("v%d<%s>", self.id, self.shape)
}
