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
    `fmt`
    `strings`

    `github.com/arg3t/fence-it/mem`
)

// Obligation is a pair of atomic operations whose program order must be
// preserved by at least one fence on every path between them.
type Obligation struct {
    Before InsId
    After  InsId
}

// SiteReport describes one retained fence and the obligations it protects.
type SiteReport struct {
    Fence InsId
    Pairs []Obligation
}

// Report summarizes one optimization run over a single CFG: how many
// candidate fences insertion produced, how many minimization kept, and
// what each survivor protects.
type Report struct {
    Model      mem.Model
    Candidates int
    Retained   int
    Sites      []SiteReport
}

// MakeReport assembles a report from the raw site lists of the two passes.
func MakeReport(model mem.Model, candidates []FenceSite, retained []FenceSite) (r *Report) {
    seen := make(map[InsId]bool, len(candidates))
    group := make(map[InsId]int, len(retained))

    /* count the distinct candidate fences */
    r = &Report { Model: model }
    for _, s := range candidates {
        if !seen[s.Fence] {
            seen[s.Fence] = true
            r.Candidates++
        }
    }

    /* group the retained sites by fence, keeping the original order */
    for _, s := range retained {
        if i, ok := group[s.Fence]; ok {
            r.Sites[i].Pairs = append(r.Sites[i].Pairs, Obligation { Before: s.Before, After: s.After })
        } else {
            group[s.Fence] = len(r.Sites)
            r.Sites = append(r.Sites, SiteReport {
                Fence : s.Fence,
                Pairs : []Obligation {{ Before: s.Before, After: s.After }},
            })
        }
    }

    /* one entry per fence */
    r.Retained = len(r.Sites)
    return
}

func (self *Report) String() string {
    nb := len(self.Sites)
    buf := make([]string, 0, nb + 3)

    /* header lines */
    buf = append(buf, fmt.Sprintf("  model      = %s", self.Model))
    buf = append(buf, fmt.Sprintf("  candidates = %d", self.Candidates))
    buf = append(buf, fmt.Sprintf("  retained   = %d", self.Retained))

    /* one line per retained fence */
    for _, s := range self.Sites {
        pairs := make([]string, 0, len(s.Pairs))
        for _, p := range s.Pairs {
            pairs = append(pairs, fmt.Sprintf("(#%d, #%d)", p.Before, p.After))
        }
        buf = append(buf, fmt.Sprintf("  #%-3d protects %s", s.Fence, strings.Join(pairs, ", ")))
    }

    /* join them together */
    return fmt.Sprintf(
        "FenceReport {\n%s\n}",
        strings.Join(buf, "\n"),
    )
}
