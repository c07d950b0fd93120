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
	"fmt"
	"os"

	"github.com/arg3t/fence-it/internal/opts"
	"github.com/arg3t/fence-it/ir"
	"github.com/davecgh/go-spew/spew"
)

func debugDump(o *opts.Options, name string, cfg *ir.CFG, sites []ir.FenceSite) {
	if o.Debug {
		fmt.Fprintf(os.Stderr, "=== %s (%s) ===\n%s\n", name, o.Model, cfg)
		spew.Fdump(os.Stderr, sites)
	}
}
