// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package call

import (
	"sort"

	"github.com/grailbio/hapcall/interval"
	"github.com/grailbio/hapcall/variant"
)

// Assemble flattens reconciled region results into the final call set:
// duplicates from region overlaps are dropped, each identity is emitted
// once (the earliest region's copy wins), calls outside the target
// intervals are discarded, and the survivors are sorted by chromosome rank
// and then key order.  Results must be in region order.
func Assemble(results []*RegionResult, targets *interval.Set) []*variant.Variant {
	type chromKey struct {
		chrom string
		key   variant.Key
	}
	seen := make(map[chromKey]bool)
	var out []*variant.Variant
	for _, res := range results {
		for k, v := range res.Variants {
			if v.Duplicate {
				continue
			}
			ck := chromKey{chrom: v.Chrom, key: k}
			if seen[ck] {
				continue
			}
			seen[ck] = true
			// Steps reach up to two strides upstream of the region, so a
			// call can land just outside the requested targets.
			if !targets.Contains(v.Chrom, v.Pos) {
				continue
			}
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := targets.ChromRank(out[i].Chrom), targets.ChromRank(out[j].Chrom)
		if ri != rj {
			return ri < rj
		}
		return out[i].Key().Less(out[j].Key())
	})
	return out
}
