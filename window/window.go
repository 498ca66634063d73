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

// Package window schedules the two granularities of calling windows over a
// set of target intervals: coarse regions (stride + right overlap, clipped
// to the target), and fine steps sliding inside each region.  Both
// sequences are finite and forward-only; downstream reconciliation depends
// on consuming them strictly in order.
package window

import (
	"github.com/grailbio/hapcall/interval"
)

// Region is a coarse calling window drawn from one target interval.  Index
// is the region's global ordinal across the whole run, in genomic order.
type Region struct {
	Chrom string
	Start int
	End   int
	Index int
}

// Step is a fine sliding window inside a region.  End = Start + width.
// Index is the step's ordinal within its region; Region is the owning
// region's global ordinal.
type Step struct {
	Chrom  string
	Start  int
	End    int
	Index  int
	Region int
}

// RegionIterator produces regions lazily, in genomic order.
type RegionIterator struct {
	targets []interval.Entry
	stride  int
	overlap int

	targetIdx int
	nextStart int
	regionIdx int
	cur       Region
}

// Regions returns an iterator over the regions covering targets.  Region k
// of a target [s, e) spans [s+k*stride, min(s+(k+1)*stride+overlap, e)); the
// last region per target is typically narrower.
func Regions(targets []interval.Entry, stride, overlap int) *RegionIterator {
	return &RegionIterator{targets: targets, stride: stride, overlap: overlap}
}

// Scan advances to the next region, returning false when exhausted.
func (it *RegionIterator) Scan() bool {
	for it.targetIdx < len(it.targets) {
		t := it.targets[it.targetIdx]
		start := t.Start + it.nextStart
		if start < t.End {
			end := start + it.stride + it.overlap
			if end > t.End {
				end = t.End
			}
			it.cur = Region{Chrom: t.Chrom, Start: start, End: end, Index: it.regionIdx}
			it.nextStart += it.stride
			it.regionIdx++
			return true
		}
		it.targetIdx++
		it.nextStart = 0
	}
	return false
}

// Region returns the current region.  Only valid after a true Scan.
func (it *RegionIterator) Region() Region { return it.cur }

// NumRegions returns the total number of regions Regions() will produce for
// targets, without consuming an iterator.  Used for progress reporting.
func NumRegions(targets []interval.Entry, stride int) int {
	n := 0
	for _, t := range targets {
		span := t.End - t.Start
		n += (span + stride - 1) / stride
	}
	return n
}

// StepIterator produces one region's steps lazily, in increasing-start
// order.
type StepIterator struct {
	region Region
	width  int
	stride int

	nextStart int
	stepIdx   int
	cur       Step
}

// Steps returns an iterator over r's fine windows.  The first step begins
// two strides upstream of the region start (clamped at 0) so calls near the
// left boundary get flanking context; stepping continues while
// start <= region.end - stride.
func Steps(r Region, width, stride int) *StepIterator {
	start := r.Start - 2*stride
	if start < 0 {
		start = 0
	}
	return &StepIterator{region: r, width: width, stride: stride, nextStart: start}
}

// Scan advances to the next step, returning false when exhausted.
func (it *StepIterator) Scan() bool {
	if it.nextStart > it.region.End-it.stride {
		return false
	}
	it.cur = Step{
		Chrom:  it.region.Chrom,
		Start:  it.nextStart,
		End:    it.nextStart + it.width,
		Index:  it.stepIdx,
		Region: it.region.Index,
	}
	it.nextStart += it.stride
	it.stepIdx++
	return true
}

// Step returns the current step.  Only valid after a true Scan.
func (it *StepIterator) Step() Step { return it.cur }
