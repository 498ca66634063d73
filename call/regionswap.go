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
	"github.com/grailbio/base/log"
)

// ReconcilePair aligns cur's haplotype labeling and phasing with prev,
// the most recent successfully aggregated region on the same chromosome.
// Both regions called the shared overlap zone independently, so identities
// present in both are the evidence:
//
// First the whole-region swap decision.  Over shared het/het identities,
// agreement in haplotype assignment votes for keeping cur's labeling and
// disagreement votes against; if the disagreements win, every genotype in
// cur is reversed.  Ties keep cur as-is.
//
// Then per shared identity, cur's copy is marked duplicate so the overlap
// zone emits one call.  When a shared pair is het on both sides with the
// same allele order after the swap, the regions are provably on the same
// phase: cur inherits prev's phase set wholesale, which chains phase sets
// across any run of overlapping regions.  Hom/hom and mixed-zygosity pairs
// dedup without linking phase, since they carry no haplotype evidence.
func ReconcilePair(prev, cur *RegionResult) (swapped bool) {
	if prev == nil || prev.Region.Chrom != cur.Region.Chrom {
		return false
	}
	same, opposite := 0, 0
	for k, pv := range prev.Variants {
		cv, ok := cur.Variants[k]
		if !ok || !pv.Het() || !cv.Het() {
			continue
		}
		if pv.Hap == cv.Hap {
			same++
		} else {
			opposite++
		}
	}
	if opposite > same {
		swapped = true
		for _, v := range cur.Variants {
			v.Genotype = v.Genotype.Reversed()
			if v.Het() {
				v.Hap = 1 - v.Hap
			}
		}
		log.Debug.Printf("region %d: reversed haplotype labeling (%d opposite vs %d same)",
			cur.Region.Index, opposite, same)
	}
	inherit := false
	for k, pv := range prev.Variants {
		cv, ok := cur.Variants[k]
		if !ok {
			continue
		}
		cv.Duplicate = true
		if pv.Het() && cv.Het() && pv.Genotype == cv.Genotype {
			inherit = true
		}
	}
	if inherit {
		cur.PhaseSet = prev.PhaseSet
		for _, v := range cur.Variants {
			v.PhaseSet = cur.PhaseSet
		}
	}
	return swapped
}
