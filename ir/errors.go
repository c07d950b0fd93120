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

package ir

import (
    `fmt`
)

// MalformedCFGError occures when the input CFG violates the structural
// preconditions of a pass: missing entry, unterminated or unreachable
// blocks, dangling edges, or an obligation referencing a removed
// instruction. The graph is never repaired silently, since a repair could
// change the semantics of the program being transformed.
type MalformedCFGError struct {
    Block  int
    Reason string
}

func (self MalformedCFGError) Error() string {
    if self.Block < 0 {
        return fmt.Sprintf("MalformedCFG: %s", self.Reason)
    } else {
        return fmt.Sprintf("MalformedCFG(bb_%d): %s", self.Block, self.Reason)
    }
}

func malformed(block int, format string, args ...interface{}) MalformedCFGError {
    return MalformedCFGError {
        Block  : block,
        Reason : fmt.Sprintf(format, args...),
    }
}

// InternalError occures when a pass violates one of its own invariants,
// e.g. the max-flow computation leaving an obligation both unsaturated and
// uncut. It is fatal to the invocation: the pass commits no mutation when
// it is raised.
type InternalError struct {
    Reason string
}

func (self InternalError) Error() string {
    return fmt.Sprintf("InternalError: %s", self.Reason)
}

func internal(format string, args ...interface{}) InternalError {
    return InternalError {
        Reason: fmt.Sprintf(format, args...),
    }
}
