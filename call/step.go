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

	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hapcall/window"
)

// CallStep runs one fine window: gather spanning reads, encode, infer, and
// diff both predicted alleles against the reference, keeping only
// candidates inside the retention window.  Returns ErrInsufficientDepth
// when fewer than Opts.MinReads reads span the window; that is a soft
// outcome the caller must treat as "no variants for this step".
//
// CallStep is purely functional given its collaborators: it does not touch
// the region's accumulated state.
func (c *Caller) CallStep(ctx context.Context, step window.Step) (bucketA, bucketB []*variant.Variant, err error) {
	reads, err := c.Reads.SpanningReads(ctx, step.Chrom, step.Start, step.End)
	if err != nil {
		return nil, nil, err
	}
	if len(reads) < c.Opts.MinReads {
		return nil, nil, ErrInsufficientDepth
	}
	ref, refStart, err := c.Ref.Window(step.Chrom, step.Start, step.End)
	if err != nil {
		return nil, nil, err
	}
	if len(ref) == 0 {
		return nil, nil, ErrInsufficientDepth
	}
	input, err := c.Enc.Encode(reads, ref, step.Chrom, refStart)
	if err != nil {
		return nil, nil, err
	}
	if input.Width() != len(ref) {
		return nil, nil, &ShapeMismatchError{What: "encoded pileup", Want: len(ref), Got: input.Width()}
	}
	pred, err := c.Inf.Infer(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if len(pred.Conf0) != 0 && len(pred.Conf0) != len(pred.Hap0) {
		return nil, nil, &ShapeMismatchError{What: "hap0 confidence", Want: len(pred.Hap0), Got: len(pred.Conf0)}
	}
	if len(pred.Conf1) != 0 && len(pred.Conf1) != len(pred.Hap1) {
		return nil, nil, &ShapeMismatchError{What: "hap1 confidence", Want: len(pred.Hap1), Got: len(pred.Conf1)}
	}
	if bucketA, err = c.diffRetained(step, ref, pred.Hap0, refStart, pred.Conf0); err != nil {
		return nil, nil, err
	}
	if bucketB, err = c.diffRetained(step, ref, pred.Hap1, refStart, pred.Conf1); err != nil {
		return nil, nil, err
	}
	return bucketA, bucketB, nil
}

// diffRetained diffs one predicted allele and applies the retention-window
// filter: a candidate is kept only if its position lies before
// step.start + RetentionWidth, so variants near the right edge wait for a
// later step that sees them with more context.
func (c *Caller) diffRetained(step window.Step, ref, pred string, offset int, conf []float64) ([]*variant.Variant, error) {
	if len(conf) == 0 {
		conf = nil
	}
	vars, err := c.Diff.Diff(step.Chrom, ref, pred, offset, conf)
	if err != nil {
		return nil, err
	}
	retainLimit := step.Start + c.Opts.RetentionWidth
	retained := vars[:0]
	for _, v := range vars {
		if v.Pos < retainLimit {
			retained = append(retained, v)
		}
	}
	return retained, nil
}
