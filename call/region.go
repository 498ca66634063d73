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
	"context"
	"errors"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hapcall/window"
)

// RegionResult is one region's collapsed call set: one representative
// variant per identity, genotyped from the two haplotype buckets, all
// sharing the region's phase set until cross-region reconciliation
// rewrites it.
type RegionResult struct {
	Region   window.Region
	Variants map[variant.Key]*variant.Variant
	// PhaseSet is the region's current phase set identifier.  It starts as
	// region.Start+1 and is overwritten when the region inherits phase from
	// its predecessor.
	PhaseSet int
}

// AggregateRegion runs every step of one region, folding each step's
// buckets into the region's haplotype state, then collapses the buckets
// into genotyped representatives.  Steps with insufficient depth are
// skipped; any other step error aborts the whole region, since a partially
// aggregated region would bias the cross-region swap decision.
func (c *Caller) AggregateRegion(ctx context.Context, region window.Region) (*RegionResult, error) {
	hap0 := variant.Bucket{}
	hap1 := variant.Bucket{}
	steps := window.Steps(region, c.Opts.StepWidth, c.Opts.StepStride)
	for steps.Scan() {
		step := steps.Step()
		bucketA, bucketB, err := c.CallStep(ctx, step)
		if err != nil {
			if errors.Is(err, ErrInsufficientDepth) {
				log.Debug.Printf("region %d: step %s:%d-%d: %v", region.Index, step.Chrom, step.Start, step.End, err)
				continue
			}
			return nil, err
		}
		MergeStep(hap0, hap1, bucketA, bucketB, step)
	}
	return c.collapseRegion(region, hap0, hap1), nil
}

// collapseRegion flattens the two buckets into one representative per
// identity.  An identity present in both buckets becomes a homozygous-alt
// call; one present in a single bucket becomes a phased het on that
// haplotype.  The representative is the highest-confidence occurrence, and
// identities called fewer than MinOccurrences times are dropped.
func (c *Caller) collapseRegion(region window.Region, hap0, hap1 variant.Bucket) *RegionResult {
	res := &RegionResult{
		Region:   region,
		Variants: make(map[variant.Key]*variant.Variant),
		PhaseSet: region.Start + 1,
	}
	keys := make(map[variant.Key]bool)
	for k := range hap0 {
		keys[k] = true
	}
	for k := range hap1 {
		keys[k] = true
	}
	for k := range keys {
		occ0 := hap0.Occurrences(k)
		occ1 := hap1.Occurrences(k)
		if occ0+occ1 < c.Opts.MinOccurrences {
			continue
		}
		var rep *variant.Variant
		switch {
		case occ0 > 0 && occ1 > 0:
			rep = hap0.Best(k)
			if alt := hap1.Best(k); alt.Qual > rep.Qual {
				rep = alt
			}
			rep.Genotype = variant.HomAlt
			rep.Hap = 0
		case occ0 > 0:
			rep = hap0.Best(k)
			rep.Genotype = variant.Genotype{1, 0}
			rep.Hap = 0
		default:
			rep = hap1.Best(k)
			rep.Genotype = variant.Genotype{0, 1}
			rep.Hap = 1
		}
		rep.PhaseSet = res.PhaseSet
		res.Variants[k] = rep
	}
	return res
}
