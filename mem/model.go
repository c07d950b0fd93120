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

package mem

import (
    `fmt`
)

// Kind is the access kind of an atomic memory operation.
type Kind uint8

const (
    Load Kind = iota
    Store
)

func (self Kind) String() string {
    switch self {
        case Load  : return "load"
        case Store : return "store"
        default    : return fmt.Sprintf("kind(%d)", uint8(self))
    }
}

// Ordering is a C11-style atomic memory ordering.
type Ordering uint8

const (
    Relaxed Ordering = iota
    Acquire
    Release
    AcqRel
    SeqCst
)

func (self Ordering) String() string {
    switch self {
        case Relaxed : return "relaxed"
        case Acquire : return "acquire"
        case Release : return "release"
        case AcqRel  : return "acq_rel"
        case SeqCst  : return "seq_cst"
        default      : return fmt.Sprintf("ordering(%d)", uint8(self))
    }
}

// Op describes an atomic memory operation by access kind and ordering.
type Op struct {
    Kind  Kind
    Order Ordering
}

func (self Op) String() string {
    return fmt.Sprintf("%s.%s", self.Kind, self.Order)
}

// Check validates that the operation falls within the rule table domain.
func (self Op) Check() error {
    if self.Kind > Store || self.Order > SeqCst {
        return UnsupportedOrderingError { Op: self }
    } else {
        return nil
    }
}

// Action is the verdict of the rule table for a pair of operations.
type Action uint8

const (
    NoFence Action = iota
    FenceRequired
)

func (self Action) String() string {
    switch self {
        case NoFence       : return "no fence"
        case FenceRequired : return "fence"
        default            : return fmt.Sprintf("action(%d)", uint8(self))
    }
}

// Model selects the target hardware memory model.
type Model uint8

const (
    TSO Model = iota
    PSO
)

func (self Model) String() string {
    switch self {
        case TSO : return "TSO"
        case PSO : return "PSO"
        default  : return fmt.Sprintf("model(%d)", uint8(self))
    }
}

type _Rule struct {
    tso Action
    pso Action
}

/* Pair rule table, keyed on the (op1, op2) pair rather than on ordering
 * strength. Pairs without a row need no fence: at least one side then
 * carries an acquire, release, acq_rel or seq_cst ordering, which already
 * serializes the pair on its own. The models differ only in the relaxed
 * store-store row: TSO keeps stores in order by fencing them, PSO does not. */
var _Rules = map[[2]Op]_Rule {
    { { Kind: Load , Order: Relaxed }, { Kind: Load , Order: Relaxed } }: { tso: FenceRequired, pso: FenceRequired },
    { { Kind: Load , Order: Relaxed }, { Kind: Store, Order: Relaxed } }: { tso: FenceRequired, pso: FenceRequired },
    { { Kind: Store, Order: Relaxed }, { Kind: Load , Order: Relaxed } }: { tso: NoFence      , pso: NoFence       },
    { { Kind: Store, Order: Relaxed }, { Kind: Store, Order: Relaxed } }: { tso: FenceRequired, pso: NoFence       },
}

// Requires reports whether the model may reorder two directly sequenced
// atomic operations, in which case a fence is required between them.
func (self Model) Requires(op1 Op, op2 Op) Action {
    if r, ok := _Rules[[2]Op { op1, op2 }]; !ok {
        return NoFence
    } else if self == PSO {
        return r.pso
    } else {
        return r.tso
    }
}
