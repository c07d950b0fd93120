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

// UnsupportedOrderingError occures when an atomic operation carries a kind
// or ordering combination outside of the rule table domain. It indicates a
// table completeness bug or a broken classifier, so it is surfaced to the
// caller instead of being defaulted to "no fence".
type UnsupportedOrderingError struct {
    Op Op
}

func (self UnsupportedOrderingError) Error() string {
    return fmt.Sprintf("UnsupportedOrdering(%d.%d): not covered by the memory model rule table", uint8(self.Op.Kind), uint8(self.Op.Order))
}
