/*
 * Copyright 2022 CloudWeGo Authors
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

package opts

import (
	"go.uber.org/zap"
)

type Options struct {
	Trace  bool
	Verify bool
	Logger *zap.Logger
}

// Tracing reports whether trace events should be emitted.
func (self *Options) Tracing() bool {
	return self.Trace && self.Logger != nil
}

func GetDefaultOptions() Options {
	return Options{
		Trace:  Trace,
		Verify: Verify,
		Logger: nil,
	}
}
