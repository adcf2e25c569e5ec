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

// ContractError is the panic value raised when the caller violates the
// builder's contract, e.g. passing an out-of-range block or calling into a
// builder after Finish.
type ContractError struct {
	Op     string
	Reason string
}

func (self *ContractError) Error() string {
	return fmt.Sprintf("ssaphi: %s: %s", self.Op, self.Reason)
}

func contractf(op string, format string, args ...interface{}) {
	panic(&ContractError{
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
	})
}
