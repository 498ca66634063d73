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
	"sync/atomic"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hapcall/interval"
	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hapcall/window"
)

// Call runs the full engine over targets and returns the final ordered,
// deduplicated call set.
//
// Region aggregation is embarrassingly parallel and runs under a bounded
// worker pool; each worker pulls the next unclaimed region ordinal.
// Reconciliation is order-dependent, so it runs afterwards as a single
// sequential pass over the results in region order.  A region whose
// aggregation failed is logged and skipped, and does not become the
// predecessor for the region after it; the run fails outright only on
// context cancellation.
func (c *Caller) Call(ctx context.Context, targets *interval.Set) ([]*variant.Variant, error) {
	entries := targets.Entries()
	var regions []window.Region
	it := window.Regions(entries, c.Opts.RegionStride, c.Opts.RegionOverlap)
	for it.Scan() {
		regions = append(regions, it.Region())
	}
	total := len(regions)
	log.Printf("calling %d regions over %d target intervals", total, len(entries))

	results := make([]*RegionResult, total)
	regionErrs := make([]error, total)
	parallelism := c.Opts.Parallelism
	if parallelism > total {
		parallelism = total
	}
	if parallelism < 1 {
		parallelism = 1
	}
	var nextRegion, nDone int32
	err := traverse.Each(parallelism, func(int) error {
		for {
			idx := int(atomic.AddInt32(&nextRegion, 1)) - 1
			if idx >= total {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.AggregateRegion(ctx, regions[idx])
			if err != nil {
				regionErrs[idx] = err
			} else {
				results[idx] = res
			}
			if n := atomic.AddInt32(&nDone, 1); n%1000 == 0 {
				log.Printf("aggregated %d/%d regions", n, total)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	var prev *RegionResult
	reconciled := make([]*RegionResult, 0, total)
	for i, res := range results {
		if res == nil {
			r := regions[i]
			log.Error.Printf("region %d %s:%d-%d failed, skipping: %v",
				r.Index, r.Chrom, r.Start, r.End, regionErrs[i])
			continue
		}
		ReconcilePair(prev, res)
		prev = res
		reconciled = append(reconciled, res)
	}
	calls := Assemble(reconciled, targets)
	log.Printf("assembled %d calls from %d regions (%d failed)",
		len(calls), len(reconciled), total-len(reconciled))
	return calls, nil
}
