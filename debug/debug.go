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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/ssaphi"
)

// A Stats records statistics about the phi builders of this process.
type Stats struct {
	Builder BuilderStats
}

// A BuilderStats records how much work the phi builders have done.
type BuilderStats struct {
	Values   int
	Phis     int
	Undefs   int
	Finished int
}

// GetStats returns statistics of the phi builders.
func GetStats() Stats {
	return Stats{
		Builder: BuilderStats{
			Values:   int(atomic.LoadUint64(&ssaphi.ValueCount)),
			Phis:     int(atomic.LoadUint64(&ssaphi.PhiCount)),
			Undefs:   int(atomic.LoadUint64(&ssaphi.UndefCount)),
			Finished: int(atomic.LoadUint64(&ssaphi.FinishCount)),
		},
	}
}
