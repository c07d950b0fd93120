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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetwork_SeriesBottleneck(t *testing.T) {
	net := CreateNetwork()
	net.AddEdge(0, 2, Unbounded)
	net.AddEdge(2, 3, 1)
	net.AddEdge(3, 4, Unbounded)
	net.AddEdge(4, 5, 1)
	net.AddEdge(5, 1, Unbounded)

	/* two unit edges in series still only pass one unit */
	require.Equal(t, int64(1), net.MaxFlow(0, 1))

	/* the cut sits at the first saturated unit edge */
	side := net.SourceSide(0)
	require.True(t, side[0])
	require.True(t, side[2])
	require.False(t, side[3])
	require.False(t, side[1])
}

func TestNetwork_ParallelPaths(t *testing.T) {
	net := CreateNetwork()
	net.AddEdge(0, 2, Unbounded)
	net.AddEdge(2, 3, 1)
	net.AddEdge(3, 1, Unbounded)
	net.AddEdge(0, 4, Unbounded)
	net.AddEdge(4, 5, 1)
	net.AddEdge(5, 1, Unbounded)

	require.Equal(t, int64(2), net.MaxFlow(0, 1))
	side := net.SourceSide(0)
	require.True(t, side[2] && side[4])
	require.False(t, side[3] || side[5])
}

func TestNetwork_CrossEdge(t *testing.T) {
	/* the cross edge between the two paths must not change the optimum */
	net := CreateNetwork()
	net.AddEdge(0, 2, 1)
	net.AddEdge(0, 3, 1)
	net.AddEdge(2, 3, 1)
	net.AddEdge(2, 1, 1)
	net.AddEdge(3, 1, 1)
	require.Equal(t, int64(2), net.MaxFlow(0, 1))
}

func TestNetwork_Uncuttable(t *testing.T) {
	net := CreateNetwork()
	net.AddEdge(0, 2, Unbounded)
	net.AddEdge(2, 1, Unbounded)

	/* a fully unbounded path reports at least Unbounded instead of
	 * augmenting forever */
	require.GreaterOrEqual(t, net.MaxFlow(0, 1), Unbounded)
}

func TestNetwork_Disconnected(t *testing.T) {
	net := CreateNetwork()
	net.AddEdge(0, 2, 1)
	net.AddEdge(3, 1, 1)
	require.Equal(t, int64(0), net.MaxFlow(0, 1))

	/* the source side is everything residual-reachable */
	side := net.SourceSide(0)
	require.True(t, side[0] && side[2])
	require.False(t, side[3] || side[1])
}

func TestNetwork_EmptyNetwork(t *testing.T) {
	net := CreateNetwork()
	require.Equal(t, int64(0), net.MaxFlow(0, 1))
	require.Equal(t, map[int64]bool{0: true}, net.SourceSide(0))
}

func TestNetwork_DuplicateEdge(t *testing.T) {
	net := CreateNetwork()
	net.AddEdge(0, 1, 1)
	net.AddEdge(0, 1, 3)
	net.AddEdge(0, 1, 2)

	/* re-adding keeps the largest capacity seen */
	require.Equal(t, int64(3), net.Residual(0, 1))
	require.Equal(t, int64(3), net.MaxFlow(0, 1))
}
