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

package fenceit

import (
	"testing"

	"github.com/arg3t/fence-it/ir"
	"github.com/arg3t/fence-it/mem"
	"github.com/stretchr/testify/require"
)

func buildMessagePassing() *ir.CFG {
	/* producer side of a message-passing idiom, everything relaxed:
	 *   data.store(v, relaxed)
	 *   flag.store(1, relaxed)
	 * the data store must not sink below the flag store */
	cfg := ir.CreateCFG()
	cfg.AddOpaque(cfg.Root, "v = compute()")
	cfg.AddStore(cfg.Root, mem.Relaxed)
	cfg.AddStore(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)
	return cfg
}

func fencecount(cfg *ir.CFG) (n int) {
	cfg.PostOrder().ForEach(func(bb *ir.BasicBlock) {
		for _, v := range bb.Ins {
			if _, ok := v.(*ir.IrFence); ok {
				n++
			}
		}
	})
	return
}

func TestOptimize_TSO(t *testing.T) {
	cfg := buildMessagePassing()
	rp, err := Optimize(cfg)
	require.NoError(t, err)
	require.Equal(t, mem.TSO, rp.Model)
	require.Equal(t, 1, rp.Candidates)
	require.Equal(t, 1, rp.Retained)
	require.Equal(t, 1, fencecount(cfg))
	require.Contains(t, rp.String(), "model      = TSO")
}

func TestOptimize_PSO(t *testing.T) {
	cfg := buildMessagePassing()
	rp, err := Optimize(cfg, WithModel(mem.PSO))
	require.NoError(t, err)
	require.Equal(t, mem.PSO, rp.Model)
	require.Equal(t, 0, rp.Candidates)
	require.Equal(t, 0, rp.Retained)
	require.Equal(t, 0, fencecount(cfg))
}

func TestInsertThenMinimize(t *testing.T) {
	cfg := ir.CreateCFG()
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.AddLoad(cfg.Root, mem.Relaxed)
	cfg.Return(cfg.Root)

	sites, err := Insert(cfg)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	require.Equal(t, 2, fencecount(cfg))

	/* adjacent pairs cannot share, both fences stay */
	rp, err := Minimize(cfg, sites)
	require.NoError(t, err)
	require.Equal(t, 2, rp.Retained)
	require.Equal(t, 2, fencecount(cfg))
	require.Len(t, rp.Sites, 2)
}

func TestOptimize_MalformedCFG(t *testing.T) {
	cfg := ir.CreateCFG()
	cfg.AddStore(cfg.Root, mem.Relaxed)

	/* unterminated entry block */
	_, err := Optimize(cfg)
	require.Error(t, err)
	require.IsType(t, MalformedCFGError{}, err)
}

func TestOptimize_UnsupportedOrdering(t *testing.T) {
	cfg := ir.CreateCFG()
	cfg.AddStore(cfg.Root, mem.Ordering(42))
	cfg.Return(cfg.Root)

	_, err := Optimize(cfg)
	require.Error(t, err)
	require.IsType(t, UnsupportedOrderingError{}, err)
}

func TestWithModel_Invalid(t *testing.T) {
	require.Panics(t, func() { WithModel(mem.Model(42)) })
}
