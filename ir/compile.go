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

type Pass interface {
	Apply(*Func)
}

type PassDescriptor struct {
	Pass Pass
	Name string
}

var Passes = [...]PassDescriptor{
	{Name: "Variable Lowering", Pass: new(VarLowering)},
	{Name: "SSA Repair", Pass: new(SSARepair)},
	{Name: "Copy Elimination", Pass: new(CopyElim)},
}

// Compile brings fn into SSA form and verifies the result.
func Compile(fn *Func) error {
	fn.Analyze()
	for _, p := range Passes {
		p.Pass.Apply(fn)
	}
	return Verify(fn)
}
