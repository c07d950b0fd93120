/*
 * Copyright 2026 The fence-it Authors
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

package fenceit

import (
	"fmt"

	"github.com/arg3t/fence-it/internal/opts"
	"github.com/arg3t/fence-it/mem"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithModel selects the target memory model, mem.TSO by default.
func WithModel(m mem.Model) Option {
	if m != mem.TSO && m != mem.PSO {
		panic(fmt.Sprintf("fenceit: invalid memory model: %d", m))
	}
	return func(o *opts.Options) { o.Model = m }
}

// WithDebug enables pass tracing to stderr.
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}
