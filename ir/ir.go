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

var (
	I1  = ssaphi.Shape{Components: 1, BitSize: 1}
	I32 = ssaphi.Shape{Components: 1, BitSize: 32}
	I64 = ssaphi.Shape{Components: 1, BitSize: 64}
)

type Op uint8

const (
	OpConst Op = iota
	OpUndef
	OpPhi
	OpAdd
	OpCopy
	OpLoad
	OpStore
)

var _OpNames = [...]string{
	OpConst: "const",
	OpUndef: "undef",
	OpPhi:   "φ",
	OpAdd:   "add",
	OpCopy:  "copy",
	OpLoad:  "load",
	OpStore: "store",
}

func (self Op) String() string {
	if int(self) < len(_OpNames) {
		return _OpNames[self]
	} else {
		return fmt.Sprintf("Op(%d)", uint8(self))
	}
}

// Var is a mutable variable accessed with OpLoad and OpStore, the input of
// LowerVars.
type Var struct {
	Id    int
	Name  string
	Shape ssaphi.Shape
}

func (self *Var) String() string {
	return "$" + self.Name
}

type PhiSource struct {
	Pred  *Block
	Value *Instr
}

type Instr struct {
	Id      int
	Op      Op
	Imm     int64
	Var     *Var
	Args    []*Instr
	Block   *Block
	Shape   ssaphi.Shape
	Sources []PhiSource
}

// Defines reports whether the instruction produces a value.
func (self *Instr) Defines() bool {
	return self.Op != OpStore
}

// Usages returns references to every operand of the instruction, phi sources
// included.
func (self *Instr) Usages() (r []**Instr) {
	if self.Op == OpPhi {
		r = make([]**Instr, 0, len(self.Sources))
		for i := range self.Sources {
			r = append(r, &self.Sources[i].Value)
		}
	} else {
		r = make([]**Instr, 0, len(self.Args))
		for i := range self.Args {
			r = append(r, &self.Args[i])
		}
	}
	return
}

func (self *Instr) Name() string {
	return fmt.Sprintf("%%%d", self.Id)
}

func (self *Instr) String() string {
	switch self.Op {
	case OpConst:
		return fmt.Sprintf("%s = const.%s %d", self.Name(), self.Shape, self.Imm)
	case OpUndef:
		return fmt.Sprintf("%s = undef.%s", self.Name(), self.Shape)
	case OpLoad:
		return fmt.Sprintf("%s = load.%s %s", self.Name(), self.Shape, self.Var)
	case OpStore:
		return fmt.Sprintf("store %s, %s", self.Var, self.Args[0].Name())
	case OpPhi:
		return self.phiString()
	default:
		return fmt.Sprintf("%s = %s.%s %s", self.Name(), self.Op, self.Shape, argnames(self.Args))
	}
}

func (self *Instr) phiString() string {
	ret := make([]string, 0, len(self.Sources))
	for _, s := range self.Sources {
		ret = append(ret, fmt.Sprintf("bb_%d: %s", s.Pred.Id, s.Value.Name()))
	}
	return fmt.Sprintf(
		"%s = φ.%s(%s)",
		self.Name(),
		self.Shape,
		strings.Join(ret, ", "),
	)
}

func argnames(args []*Instr) string {
	ret := make([]string, len(args))
	for i, v := range args {
		ret[i] = v.Name()
	}
	return strings.Join(ret, ", ")
}

type TermKind uint8

const (
	TermJump TermKind = iota
	TermBranch
	TermReturn
)

// Term ends a basic block. Branch takes Succs[0] when Cond is non-zero and
// Succs[1] otherwise.
type Term struct {
	Kind  TermKind
	Cond  *Instr
	Value *Instr
}

// Usages returns references to the operands of the terminator.
func (self *Term) Usages() (r []**Instr) {
	if self.Cond != nil {
		r = append(r, &self.Cond)
	}
	if self.Value != nil {
		r = append(r, &self.Value)
	}
	return
}
