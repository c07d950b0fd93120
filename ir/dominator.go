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

/** Iterative dominator tree construction as described by Cooper, Harvey
 *  and Kennedy in "A Simple, Fast Dominance Algorithm".
 */

package ir

import (
    `sort`
)

type _DomBuilder struct {
    rpo  []*BasicBlock
    num  map[int]int
    idom map[int]*BasicBlock
}

func (self *_DomBuilder) intersect(p *BasicBlock, q *BasicBlock) *BasicBlock {
    for p != q {
        for self.num[p.Id] > self.num[q.Id] { p = self.idom[p.Id] }
        for self.num[q.Id] > self.num[p.Id] { q = self.idom[q.Id] }
    }
    return p
}

func (self *_DomBuilder) postorder(bb *BasicBlock, vis map[int]bool) {
    vis[bb.Id] = true

    /* visit the successors first */
    if bb.Term != nil {
        for it := bb.Term.Successors(); it.Next(); {
            if p := it.Block(); !vis[p.Id] {
                self.postorder(p, vis)
            }
        }
    }

    /* then the block itself, reversed later */
    self.rpo = append(self.rpo, bb)
}

func (self *_DomBuilder) solve(root *BasicBlock) {
    self.postorder(root, make(map[int]bool))
    blockreverse(self.rpo)

    /* number the blocks in reverse post-order */
    for i, bb := range self.rpo {
        self.num[bb.Id] = i
    }

    /* the entry dominates itself, everything else starts unknown */
    self.idom[root.Id] = root

    /* iterate until the tree settles, processing in reverse post-order
     * guarantees quick convergence */
    for changed := true; changed; {
        changed = false
        for _, bb := range self.rpo[1:] {
            var dom *BasicBlock

            /* fold over the processed predecessors */
            for _, p := range bb.Pred {
                if _, ok := self.idom[p.Id]; ok {
                    if _, ok = self.num[p.Id]; ok {
                        if dom == nil {
                            dom = p
                        } else {
                            dom = self.intersect(dom, p)
                        }
                    }
                }
            }

            /* update the immediate dominator if it moved */
            if dom != nil && self.idom[bb.Id] != dom {
                self.idom[bb.Id] = dom
                changed = true
            }
        }
    }
}

func buildDominatorTree(cfg *CFG) {
    dt := &_DomBuilder {
        num  : make(map[int]int),
        idom : make(map[int]*BasicBlock),
    }

    /* compute the immediate dominators */
    dt.solve(cfg.Root)
    cfg.Depth = make(map[int]int, len(dt.rpo))
    cfg.DominatedBy = make(map[int]*BasicBlock, len(dt.rpo))
    cfg.DominatorOf = make(map[int][]*BasicBlock, len(dt.rpo))

    /* map the dominator relations */
    for _, bb := range dt.rpo[1:] {
        p := dt.idom[bb.Id]
        cfg.DominatedBy[bb.Id] = p
        cfg.DominatorOf[p.Id] = append(cfg.DominatorOf[p.Id], bb)
    }

    /* keep the children ordered for deterministic traversals */
    for _, v := range cfg.DominatorOf {
        sort.Slice(v, func(i int, j int) bool {
            return v[i].Id < v[j].Id
        })
    }

    /* tree depth of every block, the RPO visits parents first */
    for _, bb := range dt.rpo {
        if p, ok := cfg.DominatedBy[bb.Id]; ok {
            cfg.Depth[bb.Id] = cfg.Depth[p.Id] + 1
        } else {
            cfg.Depth[bb.Id] = 0
        }
    }
}
