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
    `sort`

    `github.com/arg3t/fence-it/mem`
)

// FenceSite records a candidate fence together with one ordering
// obligation it satisfies: Before must stay ordered before After on every
// path between them. A fence that protects several pairs produces one
// record per pair, all sharing the fence identity.
type FenceSite struct {
    Fence  InsId
    Before InsId
    After  InsId
}

type _InsertPoint struct {
    bb    *BasicBlock
    i     int
    op    InsId
    prior []InsId
}

func (self _InsertPoint) isPriorTo(other _InsertPoint) bool {
    return pos(self.bb, self.i).isPriorTo(pos(other.bb, other.i))
}

// FenceInsert inserts fences between pairs of atomic operations the target
// memory model is allowed to reorder. TSO and PSO share the same traversal
// and differ only in the rule table row selected by Model. A single fence
// immediately before an operation covers every incoming path, since it
// dominates the operation on all of them.
type FenceInsert struct {
    Model mem.Model
    Sites []FenceSite
}

func (self *FenceInsert) Apply(cfg *CFG) error {
    if err := cfg.Verify(); err != nil {
        return err
    }

    /* solve the last-op dataflow over the unmodified graph */
    lastops, err := newLastOps(cfg)
    if err != nil {
        return err
    } else {
        lastops.solve()
    }

    /* Phase 1: replay every block over the solved states and collect the
     * insertion points, the graph is not touched yet */
    pts := []_InsertPoint(nil)
    cfg.PostOrder().ForEach(func(bb *BasicBlock) {
        cur := lastops.in[bb.Id].clone()
        for i, v := range bb.Ins {
            if _, ok := v.(*IrFence); ok {
                cur = make(_OpSet)
                continue
            }

            /* only atomic operations matter here */
            p, ok := v.(IrAtomic)
            if !ok {
                continue
            }

            /* evaluate every (prior, current) combination */
            op := lastops.ops[p.ID()]
            prior := []InsId(nil)
            for _, q := range inssorted(cur) {
                if self.Model.Requires(lastops.ops[q], op) == mem.FenceRequired {
                    prior = append(prior, q)
                }
            }

            /* one fence suffices for all the obligated priors */
            if len(prior) != 0 {
                pts = append(pts, _InsertPoint { bb: bb, i: i, op: p.ID(), prior: prior })
            }
            cur = _OpSet { p.ID(): {} }
        }
    })

    /* keep the sites in program order */
    sort.Slice(pts, func(i int, j int) bool {
        return pts[i].isPriorTo(pts[j])
    })

    /* Phase 2: mutate the graph, tracking the index shift per block */
    ofs := make(map[int]int)
    sites := []FenceSite(nil)
    for _, pt := range pts {
        fc := cfg.InsertFenceBefore(pos(pt.bb, pt.i + ofs[pt.bb.Id]))
        ofs[pt.bb.Id]++
        for _, q := range pt.prior {
            sites = append(sites, FenceSite { Fence: fc.Id, Before: q, After: pt.op })
        }
    }

    self.Sites = sites
    return nil
}
