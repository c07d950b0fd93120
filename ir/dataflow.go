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
    `github.com/arg3t/fence-it/mem`
    `github.com/oleiade/lane`
)

type _OpSet map[InsId]struct{}

func (self _OpSet) clone() (r _OpSet) {
    r = make(_OpSet, len(self))
    for id := range self { r[id] = struct{}{} }
    return
}

func (self _OpSet) union(other _OpSet) (r bool) {
    for id := range other {
        if _, ok := self[id]; !ok {
            self[id] = struct{}{}
            r = true
        }
    }
    return
}

// _LastOps is the forward may-analysis behind fence insertion: for every
// block it computes the set of atomic operations that can be the most
// recent one on some path reaching the block entry. Joins are set unions,
// the lattice of instruction-id sets is finite, so the worklist iteration
// below always reaches a fixpoint.
type _LastOps struct {
    cfg *CFG
    ops map[InsId]mem.Op
    in  map[int]_OpSet
}

func newLastOps(cfg *CFG) (*_LastOps, error) {
    var err error
    ret := &_LastOps {
        cfg : cfg,
        ops : make(map[InsId]mem.Op),
        in  : make(map[int]_OpSet, cfg.MaxBlock()),
    }

    /* classify every atomic operation up front */
    cfg.PostOrder().ForEach(func(bb *BasicBlock) {
        for _, v := range bb.Ins {
            if p, ok := v.(IrAtomic); ok {
                op := p.MemOp()
                if e := op.Check(); e != nil && err == nil {
                    err = e
                }
                ret.ops[p.ID()] = op
            }
        }
    })

    /* refuse combinations outside of the rule table */
    if err != nil {
        return nil, err
    } else {
        return ret, nil
    }
}

// transfer folds one block over an entry state: an atomic operation
// replaces the state with itself, a fence clears it, everything else
// forwards it untouched.
func (self *_LastOps) transfer(bb *BasicBlock, in _OpSet) _OpSet {
    cur := in.clone()
    for _, v := range bb.Ins {
        switch p := v.(type) {
            case *IrFence       : cur = make(_OpSet)
            case *IrAtomicLoad  : cur = _OpSet { p.Id: {} }
            case *IrAtomicStore : cur = _OpSet { p.Id: {} }
        }
    }
    return cur
}

func (self *_LastOps) solve() {
    q := lane.NewQueue()
    inq := map[int]bool { self.cfg.Root.Id: true }

    /* the entry starts with nothing pending */
    self.in[self.cfg.Root.Id] = make(_OpSet)
    q.Enqueue(self.cfg.Root)

    /* standard forward worklist iteration */
    for !q.Empty() {
        bb := q.Dequeue().(*BasicBlock)
        out := self.transfer(bb, self.in[bb.Id])
        inq[bb.Id] = false

        /* propagate along every successor edge */
        for it := bb.Term.Successors(); it.Next(); {
            p := it.Block()
            s, ok := self.in[p.Id]

            /* first touch seeds the entry state */
            if !ok {
                s = make(_OpSet)
                self.in[p.Id] = s
            }

            /* requeue the successor whenever its state grew */
            if s.union(out) || !ok {
                if !inq[p.Id] {
                    inq[p.Id] = true
                    q.Enqueue(p)
                }
            }
        }
    }
}
