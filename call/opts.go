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

import "runtime"

// Opts holds the scalar engine configuration for one invocation.
type Opts struct {
	// RegionStride is the distance between coarse region starts.
	RegionStride int
	// RegionOverlap extends each region's right edge so adjacent regions
	// re-call the same boundary variants; region-level reconciliation
	// resolves the resulting duplicates.
	RegionOverlap int
	// StepWidth is the fine inference window size in bases.
	StepWidth int
	// StepStride is the fine window slide distance.
	StepStride int
	// RetentionWidth bounds which candidates a step keeps: only those with
	// pos < step.start + RetentionWidth.  Must be below StepWidth so a
	// variant past the retention edge is recalled more centrally by a
	// later step instead of being double-counted.
	RetentionWidth int
	// MinReads is the read count below which a step is treated as having
	// no variants.
	MinReads int
	// MinOccurrences is the number of per-region repeat calls required to
	// keep an identity at region collapse.
	MinOccurrences int
	// Parallelism bounds concurrent region aggregation; 0 means NumCPU.
	Parallelism int
}

// DefaultOpts are the standard engine settings.
var DefaultOpts = Opts{
	RegionStride:   5000,
	RegionOverlap:  150,
	StepWidth:      300,
	StepStride:     50,
	RetentionWidth: 250,
	MinReads:       5,
	MinOccurrences: 1,
	Parallelism:    0,
}

func (o Opts) withDefaults() Opts {
	d := DefaultOpts
	if o.RegionStride <= 0 {
		o.RegionStride = d.RegionStride
	}
	if o.RegionOverlap <= 0 {
		o.RegionOverlap = d.RegionOverlap
	}
	if o.StepWidth <= 0 {
		o.StepWidth = d.StepWidth
	}
	if o.StepStride <= 0 {
		o.StepStride = d.StepStride
	}
	if o.RetentionWidth <= 0 || o.RetentionWidth >= o.StepWidth {
		o.RetentionWidth = d.RetentionWidth
		if o.RetentionWidth >= o.StepWidth {
			o.RetentionWidth = o.StepWidth - o.StepStride
		}
	}
	if o.MinReads <= 0 {
		o.MinReads = d.MinReads
	}
	if o.MinOccurrences <= 0 {
		o.MinOccurrences = d.MinOccurrences
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	return o
}
