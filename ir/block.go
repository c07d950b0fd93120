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
    `strings`
)

// BasicBlock is an ordered instruction sequence with a single terminator.
// The predecessor list and the terminator successors together form the CFG.
type BasicBlock struct {
    Id   int
    Ins  []IrNode
    Pred []*BasicBlock
    Term IrTerminator
}

func (self *BasicBlock) String() string {
    nb := len(self.Ins)
    buf := make([]string, 0, nb + 2)

    /* dump every instruction */
    buf = append(buf, fmt.Sprintf("bb_%d:", self.Id))
    for _, v := range self.Ins {
        buf = append(buf, "    " + v.String())
    }

    /* dump the terminator if any */
    if self.Term != nil {
        buf = append(buf, "    " + self.Term.String())
    }

    /* join them together */
    return strings.Join(buf, "\n")
}

func (self *BasicBlock) insertAt(i int, v IrNode) {
    self.Ins = append(self.Ins, nil)
    copy(self.Ins[i + 1:], self.Ins[i:])
    self.Ins[i] = v
}

func (self *BasicBlock) removeAt(i int) {
    self.Ins = append(self.Ins[:i], self.Ins[i + 1:]...)
}
