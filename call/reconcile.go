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
	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hapcall/window"
)

// overlapWeight sums, over the candidates, the number of occurrences their
// identities already have in bucket.  Occurrence counting (rather than mere
// key presence) lets repeatedly-confirmed calls dominate the swap decision.
func overlapWeight(cands []*variant.Variant, bucket variant.Bucket) int {
	n := 0
	for _, v := range cands {
		n += bucket.Occurrences(v.Key())
	}
	return n
}

// MergeStep folds one step's candidate buckets into the region's running
// per-haplotype maps.  Inference labels its two outputs hap0/hap1
// arbitrarily per step, so the fold first decides whether the step's
// labeling is reversed relative to the accumulated state: it compares the
// occurrence-weighted overlap of (A,hap0)+(B,hap1) against (A,hap1)+(B,hap0)
// and swaps the buckets when the opposite pairing wins.  A tie (including
// the first step, where both weights are zero) keeps the incoming labeling.
//
// After the decision every candidate is stamped with its haplotype and step
// index and appended to its bucket; existing identities accumulate repeat
// occurrences, they are never replaced.  Returns whether the step was
// swapped.
func MergeStep(hap0, hap1 variant.Bucket, bucketA, bucketB []*variant.Variant, step window.Step) (swapped bool) {
	same := overlapWeight(bucketA, hap0) + overlapWeight(bucketB, hap1)
	opposite := overlapWeight(bucketA, hap1) + overlapWeight(bucketB, hap0)
	if opposite > same {
		bucketA, bucketB = bucketB, bucketA
		swapped = true
	}
	for _, v := range bucketA {
		v.Hap = 0
		v.Step = step.Index
		v.Region = step.Region
		hap0.Add(v)
	}
	for _, v := range bucketB {
		v.Hap = 1
		v.Step = step.Index
		v.Region = step.Region
		hap1.Add(v)
	}
	return swapped
}
