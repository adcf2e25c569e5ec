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
	"go.uber.org/zap"

	"github.com/cloudwego/ssaphi/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithLogger sets the logger used for trace events.
//
// Nothing is logged unless tracing is enabled, either with WithTrace or with
// the `SSAPHI_TRACE` environment variable.
func WithLogger(logger *zap.Logger) Option {
	return func(o *opts.Options) { o.Logger = logger }
}

// WithTrace enables or disables debug-level trace events for phi placement,
// undef synthesis and phi finalization.
func WithTrace(v bool) Option {
	return func(o *opts.Options) { o.Trace = v }
}

// WithVerify makes Finish check that every phi it placed has exactly one
// source per predecessor, in predecessor index order, and panic otherwise.
//
// The default value of this option is "false".
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// SetVerify sets the default verification mode for all builders created from
// now on.
//
// This value can also be configured with the `SSAPHI_VERIFY` environment
// variable.
//
// Returns the old opts.Verify value.
func SetVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}

// SetTrace sets the default tracing mode for all builders created from now
// on.
//
// This value can also be configured with the `SSAPHI_TRACE` environment
// variable.
//
// Returns the old opts.Trace value.
func SetTrace(v bool) bool {
	v, opts.Trace = opts.Trace, v
	return v
}
