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
    `strings`

    `github.com/arg3t/fence-it/mem`
    `github.com/oleiade/lane`
)

// CFG is a function's control-flow graph of basic blocks. The graph owns
// block and instruction identities; the passes mutate it in place and must
// hold exclusive access for the duration of one invocation.
type CFG struct {
    Root        *BasicBlock
    Depth       map[int]int
    DominatedBy map[int]*BasicBlock
    DominatorOf map[int][]*BasicBlock
    blocks      []*BasicBlock
    maxins      InsId
}

func CreateCFG() (r *CFG) {
    r = new(CFG)
    r.Root = r.CreateBlock()
    return
}

func (self *CFG) CreateBlock() (r *BasicBlock) {
    r = new(BasicBlock)
    r.Id = len(self.blocks)
    self.blocks = append(self.blocks, r)
    return
}

func (self *CFG) MaxBlock() int {
    return len(self.blocks)
}

func (self *CFG) nextins() InsId {
    self.maxins++
    return self.maxins
}

/* instruction constructors, every one appends at the end of the block */

func (self *CFG) AddLoad(bb *BasicBlock, order mem.Ordering) (r *IrAtomicLoad) {
    r = &IrAtomicLoad { Id: self.nextins(), Order: order }
    bb.Ins = append(bb.Ins, r)
    return
}

func (self *CFG) AddStore(bb *BasicBlock, order mem.Ordering) (r *IrAtomicStore) {
    r = &IrAtomicStore { Id: self.nextins(), Order: order }
    bb.Ins = append(bb.Ins, r)
    return
}

func (self *CFG) AddFence(bb *BasicBlock) (r *IrFence) {
    r = &IrFence { Id: self.nextins() }
    bb.Ins = append(bb.Ins, r)
    return
}

func (self *CFG) AddOpaque(bb *BasicBlock, repr string) (r *IrOpaque) {
    r = &IrOpaque { Id: self.nextins(), Repr: repr }
    bb.Ins = append(bb.Ins, r)
    return
}

/* terminator constructors, also maintain the predecessor lists */

func (self *CFG) Jump(bb *BasicBlock, to *BasicBlock) {
    to.Pred = append(to.Pred, bb)
    bb.Term = &IrSwitch { Ln: to }
    self.DominatorOf = nil
}

func (self *CFG) Branch(bb *BasicBlock, taken *BasicBlock, next *BasicBlock) {
    next.Pred = append(next.Pred, bb)
    taken.Pred = append(taken.Pred, bb)
    bb.Term = &IrSwitch { Ln: next, Br: taken }
    self.DominatorOf = nil
}

func (self *CFG) Return(bb *BasicBlock) {
    bb.Term = new(IrReturn)
    self.DominatorOf = nil
}

// InsertFenceBefore inserts a new fence immediately before the instruction
// at p, and returns the new instruction.
func (self *CFG) InsertFenceBefore(p Pos) (r *IrFence) {
    r = &IrFence { Id: self.nextins() }
    p.B.insertAt(p.I, r)
    return
}

// InsertFenceAfter inserts a new fence immediately after the instruction
// at p, and returns the new instruction.
func (self *CFG) InsertFenceAfter(p Pos) (r *IrFence) {
    r = &IrFence { Id: self.nextins() }
    p.B.insertAt(p.I + 1, r)
    return
}

// RemoveFence deletes the fence with the given identity from the graph.
// Deleting anything that is not a fence is refused: the passes never drop
// or reorder host instructions.
func (self *CFG) RemoveFence(id InsId) error {
    if p, ok := self.FindIns(id); !ok {
        return malformed(-1, "no such instruction: #%d", id)
    } else if _, ok = p.B.Ins[p.I].(*IrFence); !ok {
        return malformed(p.B.Id, "instruction #%d is not a fence", id)
    } else {
        p.B.removeAt(p.I)
        return nil
    }
}

// FindIns locates an instruction by identity within the reachable blocks.
func (self *CFG) FindIns(id InsId) (Pos, bool) {
    for _, bb := range self.reachable() {
        for i, v := range bb.Ins {
            if v.ID() == id {
                return pos(bb, i), true
            }
        }
    }
    return Pos{}, false
}

// PostOrder iterates the blocks of the dominator tree in post-order, the
// root block coming last. The tree is rebuilt lazily after the block
// structure changed.
func (self *CFG) PostOrder() *BasicBlockIter {
    if self.DominatorOf == nil {
        self.Rebuild()
    }
    return newBasicBlockIter(self)
}

// Rebuild recomputes the predecessor lists and the dominator tree from the
// terminators. Inserting or removing instructions does not require a
// rebuild, changing terminators does.
func (self *CFG) Rebuild() {
    rb := self.reachable()

    /* Phase 1: clear the stale predecessor lists */
    for _, bb := range rb {
        bb.Pred = bb.Pred[:0]
    }

    /* Phase 2: rebuild them from the terminators */
    for _, bb := range rb {
        for it := bb.Term.Successors(); it.Next(); {
            p := it.Block()
            p.Pred = append(p.Pred, bb)
        }
    }

    /* Phase 3: rebuild the dominator tree */
    buildDominatorTree(self)
}

// reachable returns every block reachable from the root, in DFS order.
// Blocks without a terminator contribute no successors; Verify reports
// them.
func (self *CFG) reachable() (r []*BasicBlock) {
    vis := map[int]bool { self.Root.Id: true }
    stk := stacknew(self.Root)

    /* standard DFS over the successor edges */
    for !stk.Empty() {
        bb := stk.Pop().(*BasicBlock)
        r = append(r, bb)

        /* no terminator yet */
        if bb.Term == nil {
            continue
        }

        /* add all the unvisited successors */
        for it := bb.Term.Successors(); it.Next(); {
            if p := it.Block(); !vis[p.Id] {
                vis[p.Id] = true
                stk.Push(p)
            }
        }
    }
    return
}

// Verify checks the structural preconditions every pass relies on: a
// terminated, entry-reachable graph with symmetric edges and unique
// identities. Violations are reported as MalformedCFGError, never repaired
// in place.
func (self *CFG) Verify() error {
    if self.Root == nil {
        return malformed(-1, "missing entry block")
    }

    /* the entry must not be a branch target */
    if len(self.Root.Pred) != 0 {
        return malformed(self.Root.Id, "entry block has predecessors")
    }

    /* collect the reachable set */
    rb := self.reachable()
    vis := make(map[int]bool, len(rb))
    ids := make(map[InsId]int, len(rb))

    /* block-local checks */
    for _, bb := range rb {
        if vis[bb.Id] {
            return malformed(bb.Id, "duplicate block id")
        }
        vis[bb.Id] = true

        /* every reachable block must be terminated */
        if bb.Term == nil {
            return malformed(bb.Id, "block has no terminator")
        }

        /* instruction identities must be unique and non-zero */
        for _, v := range bb.Ins {
            if v.ID() == InsNone {
                return malformed(bb.Id, "instruction without identity")
            }
            if prev, ok := ids[v.ID()]; ok {
                return malformed(bb.Id, "instruction #%d duplicated from bb_%d", v.ID(), prev)
            }
            ids[v.ID()] = bb.Id
        }
    }

    /* every created block must be reachable from the entry */
    for _, bb := range self.blocks {
        if !vis[bb.Id] {
            return malformed(bb.Id, "block is not reachable from the entry")
        }
    }

    /* edge symmetry: successor edges and predecessor lists must agree */
    for _, bb := range rb {
        succ := make(map[int]int)
        pred := make(map[int]int)

        /* count the edges in both directions */
        for it := bb.Term.Successors(); it.Next(); {
            p := it.Block()
            nb := 0

            /* count the back-references */
            for _, q := range p.Pred {
                if q == bb {
                    nb++
                }
            }

            /* dangling forward edge */
            if succ[p.Id]++; succ[p.Id] > nb {
                return malformed(bb.Id, "dangling edge to bb_%d", p.Id)
            }
        }

        /* every predecessor must own a matching edge */
        for _, p := range bb.Pred {
            nb := 0
            if pred[p.Id]++; !vis[p.Id] {
                return malformed(bb.Id, "predecessor bb_%d is not reachable", p.Id)
            }
            if p.Term != nil {
                for it := p.Term.Successors(); it.Next(); {
                    if it.Block() == bb {
                        nb++
                    }
                }
            }
            if pred[p.Id] > nb {
                return malformed(bb.Id, "stale predecessor bb_%d", p.Id)
            }
        }
    }
    return nil
}

func (self *CFG) String() string {
    buf := make([]string, 0, len(self.blocks))
    for _, bb := range self.PostOrder().Reversed() {
        buf = append(buf, bb.String())
    }
    return strings.Join(buf, "\n")
}

func stacknew(v interface{}) (r *lane.Stack) {
    r = lane.NewStack()
    r.Push(v)
    return
}
