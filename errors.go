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
	"github.com/arg3t/fence-it/ir"
	"github.com/arg3t/fence-it/mem"
)

// The error types surfaced by the passes. Every error is fatal to the
// invocation that produced it: a transformation that errored must be
// considered unsound and its output discarded.
type (
	MalformedCFGError        = ir.MalformedCFGError
	InternalError            = ir.InternalError
	UnsupportedOrderingError = mem.UnsupportedOrderingError
)
