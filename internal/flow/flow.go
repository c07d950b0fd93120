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

package flow

import (
    `math`

    `github.com/oleiade/lane`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

const (
    // Unbounded is the capacity of edges that must never enter a cut. It
    // leaves enough headroom that summing a handful of unbounded paths
    // cannot overflow.
    Unbounded int64 = math.MaxInt64 / 4
)

type _Edge struct {
    u int64
    v int64
}

// Network is a flow network over a directed graph with integer edge
// capacities. The graph structure lives in a gonum directed graph, the
// capacities and the running flow in edge-keyed maps, which doubles as the
// residual bookkeeping.
type Network struct {
    g   *simple.DirectedGraph
    cap map[_Edge]int64
    cur map[_Edge]int64
}

func CreateNetwork() *Network {
    return &Network {
        g   : simple.NewDirectedGraph(),
        cap : make(map[_Edge]int64),
        cur : make(map[_Edge]int64),
    }
}

func (self *Network) node(id int64) graph.Node {
    if p := self.g.Node(id); p != nil {
        return p
    } else {
        q := simple.Node(id)
        self.g.AddNode(q)
        return q
    }
}

// AddEdge adds a directed edge with the given capacity; re-adding an edge
// keeps the larger capacity. The reverse edge needed for residual
// traversal is added implicitly with capacity zero.
func (self *Network) AddEdge(u int64, v int64, c int64) {
    p := self.node(u)
    q := self.node(v)

    /* keep the larger capacity */
    if c > self.cap[_Edge { u, v }] {
        self.cap[_Edge { u, v }] = c
    }

    /* both directions must be traversable */
    self.g.SetEdge(self.g.NewEdge(p, q))
    self.g.SetEdge(self.g.NewEdge(q, p))
}

// Residual is the remaining capacity of an edge given the current flow.
func (self *Network) Residual(u int64, v int64) int64 {
    return self.cap[_Edge { u, v }] - self.cur[_Edge { u, v }]
}

// MaxFlow computes the maximum src-to-dst flow with the Edmonds-Karp
// algorithm: saturate breadth-first augmenting paths over the residual
// graph until none remains. The flow value equals the capacity of a
// minimum cut.
func (self *Network) MaxFlow(src int64, dst int64) (r int64) {
    for {
        prev := self.augment(src, dst)

        /* no more augmenting paths */
        if _, ok := prev[dst]; !ok {
            return
        }

        /* find the bottleneck along the path */
        b := Unbounded
        for v := dst; v != src; v = prev[v] {
            if w := self.Residual(prev[v], v); w < b {
                b = w
            }
        }

        /* push the flow, the reverse entries go negative */
        for v := dst; v != src; v = prev[v] {
            self.cur[_Edge { prev[v], v }] += b
            self.cur[_Edge { v, prev[v] }] -= b
        }

        /* an unbounded path means the network cannot be cut at all,
         * report it instead of spinning */
        if r += b; r >= Unbounded {
            return
        }
    }
}

// augment finds one shortest residual path and returns the predecessor
// links; dst is absent from the result when no path exists.
func (self *Network) augment(src int64, dst int64) map[int64]int64 {
    q := lane.NewQueue()
    prev := map[int64]int64 { src: src }

    /* nothing to do on an empty network */
    if self.g.Node(src) == nil {
        return prev
    }

    /* plain BFS over the residual edges */
    q.Enqueue(src)
    for !q.Empty() {
        u := q.Dequeue().(int64)

        /* the first path reaching dst is a shortest one */
        if u == dst {
            break
        }

        /* expand along positive residuals only */
        for it := self.g.From(u); it.Next(); {
            v := it.Node().ID()
            if _, ok := prev[v]; !ok && self.Residual(u, v) > 0 {
                prev[v] = u
                q.Enqueue(v)
            }
        }
    }
    return prev
}

// SourceSide returns every node reachable from src in the residual graph.
// After MaxFlow has run this is the source side of a minimum cut: the cut
// consists exactly of the saturated edges leaving the set.
func (self *Network) SourceSide(src int64) map[int64]bool {
    ret := map[int64]bool { src: true }
    bfs := traverse.BreadthFirst {
        Visit    : func(n graph.Node) { ret[n.ID()] = true },
        Traverse : func(e graph.Edge) bool { return self.Residual(e.From().ID(), e.To().ID()) > 0 },
    }

    /* walk the whole residual component */
    if p := self.g.Node(src); p != nil {
        bfs.Walk(self.g, p, nil)
    }
    return ret
}
