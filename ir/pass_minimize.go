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

    `github.com/arg3t/fence-it/internal/flow`
)

const (
    _N_source int64 = 0
    _N_sink   int64 = 1
)

type _Point struct {
    b int
    i int
}

type _SiteEdge struct {
    pre  int64
    post int64
}

// FenceMinimize removes every candidate fence that is not part of a
// minimum cut between the obligated operation pairs. The fences left in
// place still intersect every path of every obligation, and no smaller
// set of the candidates does: minimality is bought per fence count,
// soundness is a hard constraint.
//
// The reduction: every program point becomes a flow node; the edge across
// a candidate fence carries unit capacity, every other control edge is
// unbounded; a virtual source feeds the point just after each obligated
// Before, a virtual sink drains the point just before each After. A
// pre-existing fence contributes no edge at all, nothing may be reordered
// across it. Max-flow then equals the minimum number of fences that must
// stay, and the saturated unit edges leaving the residual source side are
// exactly those fences.
type FenceMinimize struct {
    Sites    []FenceSite
    Retained []FenceSite
}

func (self *FenceMinimize) Apply(cfg *CFG) error {
    self.Retained = nil

    /* no candidates, nothing to minimize */
    if len(self.Sites) == 0 {
        return nil
    }

    /* the graph must be well-formed before it is modeled */
    if err := cfg.Verify(); err != nil {
        return err
    }

    /* candidate fence lookup */
    cand := make(map[InsId]bool, len(self.Sites))
    for _, s := range self.Sites {
        cand[s.Fence] = true
    }

    /* program point numbering, the virtual nodes take 0 and 1 */
    nid := _N_sink + 1
    pid := make(map[_Point]int64)
    net := flow.CreateNetwork()

    /* point i sits immediately before bb.Ins[i] */
    point := func(bb *BasicBlock, i int) int64 {
        k := _Point { b: bb.Id, i: i }
        if v, ok := pid[k]; ok {
            return v
        }
        pid[k] = nid
        nid++
        return pid[k]
    }

    /* Phase 1: model the control flow */
    sites := make(map[InsId]_SiteEdge, len(cand))
    cfg.PostOrder().ForEach(func(bb *BasicBlock) {
        for i, v := range bb.Ins {
            u, w := point(bb, i), point(bb, i + 1)
            if f, ok := v.(*IrFence); !ok {
                net.AddEdge(u, w, flow.Unbounded)
            } else if cand[f.Id] {
                net.AddEdge(u, w, 1)
                sites[f.Id] = _SiteEdge { pre: u, post: w }
            }
        }

        /* block boundaries carry no fences */
        for it := bb.Term.Successors(); it.Next(); {
            net.AddEdge(point(bb, len(bb.Ins)), point(it.Block(), 0), flow.Unbounded)
        }
    })

    /* Phase 2: wire the obligations to the virtual terminals */
    for _, s := range self.Sites {
        if _, ok := sites[s.Fence]; !ok {
            return malformed(-1, "fence site references a missing fence: #%d", s.Fence)
        }

        /* a candidate without an obligation has nothing to protect */
        if s.Before == InsNone && s.After == InsNone {
            continue
        }

        /* the pair must still exist in the graph */
        p1, ok := cfg.FindIns(s.Before)
        if !ok {
            return malformed(-1, "obligation references a missing instruction: #%d", s.Before)
        }
        p2, ok := cfg.FindIns(s.After)
        if !ok {
            return malformed(-1, "obligation references a missing instruction: #%d", s.After)
        }

        /* source feeds the point after op1, sink drains the point
         * before op2 */
        net.AddEdge(_N_source, point(p1.B, p1.I + 1), flow.Unbounded)
        net.AddEdge(point(p2.B, p2.I), _N_sink, flow.Unbounded)
    }

    /* Phase 3: max-flow, then read the cut off the residual graph */
    mf := net.MaxFlow(_N_source, _N_sink)
    if mf >= flow.Unbounded {
        return internal("uncuttable obligation path, flow value %d", mf)
    }

    /* the cut is the saturated unit edges leaving the source side */
    keep := make(map[InsId]bool, len(sites))
    side := net.SourceSide(_N_source)
    for id, e := range sites {
        if side[e.pre] && !side[e.post] {
            keep[id] = true
        }
    }

    /* every cut edge is a unit fence edge, so the counts must agree */
    if int64(len(keep)) != mf {
        return internal("min-cut of %d fences does not match a flow of %d", len(keep), mf)
    }

    /* Phase 4: the full removal set is known, mutate the graph */
    for _, id := range self.removalOrder(sites, keep) {
        if err := cfg.RemoveFence(id); err != nil {
            return err
        }
    }

    /* report the surviving sites in their original order */
    for _, s := range self.Sites {
        if keep[s.Fence] {
            self.Retained = append(self.Retained, s)
        }
    }
    return nil
}

func (self *FenceMinimize) removalOrder(sites map[InsId]_SiteEdge, keep map[InsId]bool) (r []InsId) {
    for id := range sites {
        if !keep[id] {
            r = append(r, id)
        }
    }
    sort.Slice(r, func(i int, j int) bool { return r[i] < r[j] })
    return
}
