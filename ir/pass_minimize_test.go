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
	"testing"

	"github.com/arg3t/fence-it/mem"
	"github.com/stretchr/testify/require"
)

/* unfencedPath reports whether some control-flow path runs from just after
 * the instruction `from` to just before the instruction `to` without
 * crossing a fence; fences listed in `removed` count as absent */
func unfencedPath(t *testing.T, cfg *CFG, from InsId, to InsId, removed map[InsId]bool) bool {
	p1, ok := cfg.FindIns(from)
	require.True(t, ok)
	p2, ok := cfg.FindIns(to)
	require.True(t, ok)

	type _Pt struct {
		b int
		i int
	}
	start := _Pt{p1.B.Id, p1.I + 1}
	goal := _Pt{p2.B.Id, p2.I}

	blocks := make(map[int]*BasicBlock)
	cfg.PostOrder().ForEach(func(bb *BasicBlock) { blocks[bb.Id] = bb })

	q := []_Pt{start}
	seen := map[_Pt]bool{start: true}
	for len(q) != 0 {
		u := q[0]
		q = q[1:]
		if u == goal {
			return true
		}
		bb := blocks[u.b]
		if u.i < len(bb.Ins) {
			if _, fence := bb.Ins[u.i].(*IrFence); fence && !removed[bb.Ins[u.i].ID()] {
				continue
			}
			if v := (_Pt{u.b, u.i + 1}); !seen[v] {
				seen[v] = true
				q = append(q, v)
			}
		} else {
			for it := bb.Term.Successors(); it.Next(); {
				if v := (_Pt{it.Block().Id, 0}); !seen[v] {
					seen[v] = true
					q = append(q, v)
				}
			}
		}
	}
	return false
}

func applyMinimize(t *testing.T, cfg *CFG, sites []FenceSite) *FenceMinimize {
	p := &FenceMinimize{Sites: sites}
	require.NoError(t, p.Apply(cfg))
	require.NoError(t, cfg.Verify())
	return p
}

func TestFenceMinimize_SharedPair(t *testing.T) {
	cfg := CreateCFG()
	a := cfg.AddLoad(cfg.Root, mem.Relaxed)
	f1 := cfg.AddFence(cfg.Root)
	cfg.AddOpaque(cfg.Root, "spin()")
	f2 := cfg.AddFence(cfg.Root)
	b := cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	/* both fences protect the same pair, one of them is enough */
	p := applyMinimize(t, cfg, []FenceSite{
		{Fence: f1.Id, Before: a.Id, After: b.Id},
		{Fence: f2.Id, Before: a.Id, After: b.Id},
	})
	require.Len(t, p.Retained, 1)
	require.Equal(t, 1, countFences(cfg))
	require.False(t, unfencedPath(t, cfg, a.Id, b.Id, nil))
}

func TestFenceMinimize_SeparatePairs(t *testing.T) {
	cfg := CreateCFG()
	a := cfg.AddLoad(cfg.Root, mem.Relaxed)
	f1 := cfg.AddFence(cfg.Root)
	b := cfg.AddLoad(cfg.Root, mem.Relaxed)
	f2 := cfg.AddFence(cfg.Root)
	c := cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	/* distinct pairs on both sides of b, neither fence can go */
	sites := []FenceSite{
		{Fence: f1.Id, Before: a.Id, After: b.Id},
		{Fence: f2.Id, Before: b.Id, After: c.Id},
	}
	p := applyMinimize(t, cfg, sites)
	require.Equal(t, sites, p.Retained)
	require.Equal(t, 2, countFences(cfg))
}

func TestFenceMinimize_DisjointBranches(t *testing.T) {
	cfg := CreateCFG()
	b0 := cfg.Root
	b1 := cfg.CreateBlock()
	b2 := cfg.CreateBlock()
	b3 := cfg.CreateBlock()
	cfg.Branch(b0, b1, b2)
	a1 := cfg.AddLoad(b1, mem.Relaxed)
	f1 := cfg.AddFence(b1)
	s1 := cfg.AddStore(b1, mem.Relaxed)
	cfg.Jump(b1, b3)
	a2 := cfg.AddLoad(b2, mem.Relaxed)
	f2 := cfg.AddFence(b2)
	s2 := cfg.AddStore(b2, mem.Relaxed)
	cfg.Jump(b2, b3)
	cfg.Return(b3)

	/* the obligations live on disjoint paths, no sharing is possible */
	p := applyMinimize(t, cfg, []FenceSite{
		{Fence: f1.Id, Before: a1.Id, After: s1.Id},
		{Fence: f2.Id, Before: a2.Id, After: s2.Id},
	})
	require.Len(t, p.Retained, 2)
	require.Equal(t, 2, countFences(cfg))
}

func TestFenceMinimize_NoObligation(t *testing.T) {
	cfg := CreateCFG()
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	fc := cfg.AddFence(cfg.Root)
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	/* a candidate that protects nothing is always removed */
	p := applyMinimize(t, cfg, []FenceSite{
		{Fence: fc.Id, Before: InsNone, After: InsNone},
	})
	require.Empty(t, p.Retained)
	require.Equal(t, 0, countFences(cfg))
}

func TestFenceMinimize_EmptySites(t *testing.T) {
	cfg := CreateCFG()
	cfg.AddFence(cfg.Root)
	cfg.Return(cfg.Root)

	/* non-candidate fences are never touched */
	p := applyMinimize(t, cfg, nil)
	require.Empty(t, p.Retained)
	require.Equal(t, 1, countFences(cfg))
}

func TestFenceMinimize_Idempotent(t *testing.T) {
	cfg := CreateCFG()
	a := cfg.AddLoad(cfg.Root, mem.Relaxed)
	f1 := cfg.AddFence(cfg.Root)
	f2 := cfg.AddFence(cfg.Root)
	b := cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	p1 := applyMinimize(t, cfg, []FenceSite{
		{Fence: f1.Id, Before: a.Id, After: b.Id},
		{Fence: f2.Id, Before: a.Id, After: b.Id},
	})
	require.Len(t, p1.Retained, 1)

	/* rerunning over an already minimal placement changes nothing */
	p2 := applyMinimize(t, cfg, p1.Retained)
	require.Equal(t, p1.Retained, p2.Retained)
	require.Equal(t, 1, countFences(cfg))
}

func TestFenceMinimize_MissingFence(t *testing.T) {
	cfg := CreateCFG()
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	p := &FenceMinimize{Sites: []FenceSite{{Fence: InsId(9999)}}}
	err := p.Apply(cfg)
	require.Error(t, err)
	require.IsType(t, MalformedCFGError{}, err)
	require.Contains(t, err.Error(), "missing fence")
}

func TestFenceMinimize_MissingObligation(t *testing.T) {
	cfg := CreateCFG()
	fc := cfg.AddFence(cfg.Root)
	cfg.Return(cfg.Root)

	p := &FenceMinimize{Sites: []FenceSite{
		{Fence: fc.Id, Before: InsId(9999), After: fc.Id},
	}}
	err := p.Apply(cfg)
	require.Error(t, err)
	require.IsType(t, MalformedCFGError{}, err)
	require.Contains(t, err.Error(), "missing instruction")
}

func TestFenceMinimize_AfterInsert(t *testing.T) {
	builds := []func() *CFG{
		func() *CFG {
			cfg := CreateCFG()
			cfg.AddLoad(cfg.Root, mem.Relaxed)
			cfg.AddLoad(cfg.Root, mem.Relaxed)
			cfg.AddStore(cfg.Root, mem.Relaxed)
			cfg.AddStore(cfg.Root, mem.Relaxed)
			cfg.Return(cfg.Root)
			return cfg
		},
		func() *CFG {
			cfg := CreateCFG()
			b0 := cfg.Root
			b1 := cfg.CreateBlock()
			b2 := cfg.CreateBlock()
			b3 := cfg.CreateBlock()
			cfg.Branch(b0, b1, b2)
			cfg.AddLoad(b1, mem.Relaxed)
			cfg.Jump(b1, b3)
			cfg.AddLoad(b2, mem.Relaxed)
			cfg.Jump(b2, b3)
			cfg.AddStore(b3, mem.Relaxed)
			cfg.Return(b3)
			return cfg
		},
		func() *CFG {
			cfg := CreateCFG()
			b0 := cfg.Root
			b1 := cfg.CreateBlock()
			b2 := cfg.CreateBlock()
			cfg.AddLoad(b0, mem.Relaxed)
			cfg.Jump(b0, b1)
			cfg.AddLoad(b1, mem.Relaxed)
			cfg.Branch(b1, b1, b2)
			cfg.Return(b2)
			return cfg
		},
	}

	/* every obligation the insertion discovered must still be covered
	 * after minimization, and nothing but the retained fences survives */
	for i, build := range builds {
		cfg := build()
		ins := applyInsert(t, cfg, mem.TSO)
		best := bruteMinimum(t, cfg, ins.Sites)
		min := applyMinimize(t, cfg, ins.Sites)
		require.Equal(t, countFences(cfg), distinctFences(min.Retained), "cfg %d", i)
		require.Equal(t, best, countFences(cfg), "cfg %d", i)
		for _, s := range ins.Sites {
			require.False(t, unfencedPath(t, cfg, s.Before, s.After, nil), "cfg %d pair #%d -> #%d", i, s.Before, s.After)
		}
	}
}

/* bruteMinimum enumerates every subset of the candidate fences and returns
 * the size of the smallest one that still covers all the obligations; the
 * graph itself is not mutated, dropped fences are simulated */
func bruteMinimum(t *testing.T, cfg *CFG, sites []FenceSite) int {
	fences := []InsId(nil)
	for _, s := range sites {
		if !contains(fences, s.Fence) {
			fences = append(fences, s.Fence)
		}
	}
	require.LessOrEqual(t, len(fences), 8)

	best := len(fences)
	for mask := 0; mask < 1<<len(fences); mask++ {
		nb := 0
		removed := make(map[InsId]bool, len(fences))
		for i, id := range fences {
			if mask&(1<<i) == 0 {
				removed[id] = true
			} else {
				nb++
			}
		}
		if nb >= best {
			continue
		}
		sound := true
		for _, s := range sites {
			if s.Before != InsNone && unfencedPath(t, cfg, s.Before, s.After, removed) {
				sound = false
				break
			}
		}
		if sound {
			best = nb
		}
	}
	return best
}

func contains(s []InsId, id InsId) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func distinctFences(sites []FenceSite) int {
	m := make(map[InsId]struct{}, len(sites))
	for _, s := range sites {
		m[s.Fence] = struct{}{}
	}
	return len(m)
}
