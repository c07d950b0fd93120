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

    `github.com/arg3t/fence-it/mem`
)

// InsId is a stable instruction identity. It is unique within one CFG,
// usable as a map or set key, and valid for the duration of a single pass
// invocation.
type InsId uint64

const (
    InsNone InsId = 0
)

type IrNode interface {
    fmt.Stringer
    ID() InsId
    irnode()
}

func (*IrOpaque)      irnode() {}
func (*IrFence)       irnode() {}
func (*IrAtomicLoad)  irnode() {}
func (*IrAtomicStore) irnode() {}

// IrAtomic is implemented by every node that performs an atomic memory
// access.
type IrAtomic interface {
    IrNode
    MemOp() mem.Op
}

// IrAtomicLoad is an atomic read with an explicit memory ordering.
type IrAtomicLoad struct {
    Id    InsId
    Order mem.Ordering
}

func (self *IrAtomicLoad) ID() InsId {
    return self.Id
}

func (self *IrAtomicLoad) MemOp() mem.Op {
    return mem.Op { Kind: mem.Load, Order: self.Order }
}

func (self *IrAtomicLoad) String() string {
    return fmt.Sprintf("#%d: atomic.load.%s", self.Id, self.Order)
}

// IrAtomicStore is an atomic write with an explicit memory ordering.
type IrAtomicStore struct {
    Id    InsId
    Order mem.Ordering
}

func (self *IrAtomicStore) ID() InsId {
    return self.Id
}

func (self *IrAtomicStore) MemOp() mem.Op {
    return mem.Op { Kind: mem.Store, Order: self.Order }
}

func (self *IrAtomicStore) String() string {
    return fmt.Sprintf("#%d: atomic.store.%s", self.Id, self.Order)
}

// IrFence is a full memory fence: no atomic operation before it may be
// reordered with one after it.
type IrFence struct {
    Id InsId
}

func (self *IrFence) ID() InsId {
    return self.Id
}

func (self *IrFence) String() string {
    return fmt.Sprintf("#%d: fence", self.Id)
}

// IrOpaque is a host instruction with no atomic memory semantics. The
// passes forward it untouched.
type IrOpaque struct {
    Id   InsId
    Repr string
}

func (self *IrOpaque) ID() InsId {
    return self.Id
}

func (self *IrOpaque) String() string {
    return fmt.Sprintf("#%d: %s", self.Id, self.Repr)
}

type IrSuccessors interface {
    Next() bool
    Block() *BasicBlock
}

type IrTerminator interface {
    fmt.Stringer
    Successors() IrSuccessors
    irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

type _SwitchSuccessors struct {
    i  int
    bb []*BasicBlock
}

func (self *_SwitchSuccessors) Next() bool {
    self.i++
    return self.i < len(self.bb)
}

func (self *_SwitchSuccessors) Block() *BasicBlock {
    return self.bb[self.i]
}

// IrSwitch transfers control to Br when the (opaque) branch condition
// holds, otherwise to Ln. A nil Br is an unconditional jump.
type IrSwitch struct {
    Ln *BasicBlock
    Br *BasicBlock
}

func (self *IrSwitch) String() string {
    if self.Br == nil {
        return fmt.Sprintf("goto bb_%d", self.Ln.Id)
    } else {
        return fmt.Sprintf("switch { bb_%d, bb_%d }", self.Br.Id, self.Ln.Id)
    }
}

func (self *IrSwitch) Successors() IrSuccessors {
    if self.Br == nil {
        return &_SwitchSuccessors { i: -1, bb: []*BasicBlock { self.Ln } }
    } else {
        return &_SwitchSuccessors { i: -1, bb: []*BasicBlock { self.Ln, self.Br } }
    }
}

type _EmptySuccessor struct{}
func (_EmptySuccessor) Next()  bool        { return false }
func (_EmptySuccessor) Block() *BasicBlock { return nil }

// IrReturn leaves the function.
type IrReturn struct{}

func (self *IrReturn) String() string {
    return "ret"
}

func (self *IrReturn) Successors() IrSuccessors {
    return _EmptySuccessor{}
}
