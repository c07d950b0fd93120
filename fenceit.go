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

// Package fenceit makes programs written against sequential consistency
// safe to run under a weaker hardware memory model, with as few fences as
// possible. Insertion places a fence between every pair of consecutive
// atomic operations the target model may reorder; minimization then models
// fence placement as a minimum cut and removes every fence outside of it.
package fenceit

import (
	"github.com/arg3t/fence-it/internal/opts"
	"github.com/arg3t/fence-it/ir"
)

// Insert runs fence insertion over the CFG and returns the candidate fence
// sites, one record per obligated operation pair. The CFG is mutated in
// place; the caller must hold exclusive access for the duration of the
// call.
func Insert(cfg *ir.CFG, options ...Option) ([]ir.FenceSite, error) {
	o := applyOptions(options)
	p := &ir.FenceInsert{Model: o.Model}
	if err := p.Apply(cfg); err != nil {
		return nil, err
	}
	debugDump(&o, "fence insertion", cfg, p.Sites)
	return p.Sites, nil
}

// Minimize removes every candidate fence in sites that is not needed to
// keep the recorded obligations ordered, and reports what was kept.
func Minimize(cfg *ir.CFG, sites []ir.FenceSite, options ...Option) (*ir.Report, error) {
	o := applyOptions(options)
	p := &ir.FenceMinimize{Sites: sites}
	if err := p.Apply(cfg); err != nil {
		return nil, err
	}
	debugDump(&o, "fence minimization", cfg, p.Retained)
	return ir.MakeReport(o.Model, sites, p.Retained), nil
}

// Optimize is Insert followed by Minimize: the CFG ends up minimally
// fenced for the selected memory model.
func Optimize(cfg *ir.CFG, options ...Option) (*ir.Report, error) {
	o := applyOptions(options)

	/* insertion produces the candidates and their obligations */
	ins := &ir.FenceInsert{Model: o.Model}
	if err := ins.Apply(cfg); err != nil {
		return nil, err
	}
	debugDump(&o, "fence insertion", cfg, ins.Sites)

	/* minimization prunes everything the min-cut does not need */
	min := &ir.FenceMinimize{Sites: ins.Sites}
	if err := min.Apply(cfg); err != nil {
		return nil, err
	}
	debugDump(&o, "fence minimization", cfg, min.Retained)
	return ir.MakeReport(o.Model, ins.Sites, min.Retained), nil
}

func applyOptions(options []Option) opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return o
}
