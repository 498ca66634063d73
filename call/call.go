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

// Package call implements the windowed haplotype aggregation and
// reconciliation engine: it slides fine inference windows across coarse
// regions, accumulates candidate variants per haplotype bucket, resolves
// the arbitrary hap0/hap1 labeling within and across regions, and flattens
// the result into one ordered, deduplicated, phased call set.
//
// The model that predicts allele sequences, the pileup encoder feeding it,
// and the alignment diff that turns predictions into discrete variants are
// external collaborators, consumed through the interfaces below.
package call

import (
	"context"

	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hts/sam"
)

// ModelInput is the encoded pileup for one step window.  The engine treats
// it as opaque apart from its width, which must match the reference window.
type ModelInput interface {
	Width() int
}

// Prediction is the inference output for one step: two predicted allele
// sequences with per-position confidences.  The hap0/hap1 labeling is
// arbitrary per step; reconciliation is this package's job.
type Prediction struct {
	Hap0  string
	Hap1  string
	Conf0 []float64
	Conf1 []float64
}

// ReadSource produces the aligned reads overlapping a window.  It may
// return fewer reads than exist (downsampling above a depth cap is the
// source's concern).
type ReadSource interface {
	SpanningReads(ctx context.Context, chrom string, start, end int) ([]*sam.Record, error)
}

// RefSource produces reference bases.  Window clamps the requested range to
// the sequence boundaries and returns the clamped window plus its actual
// start position.
type RefSource interface {
	Window(chrom string, start, end int) (seq string, actualStart int, err error)
}

// Encoder turns reads plus the reference window into model input.  The
// output width must equal len(refWindow).
type Encoder interface {
	Encode(reads []*sam.Record, refWindow string, chrom string, start int) (ModelInput, error)
}

// Inferrer predicts two allele sequences from encoded input.
type Inferrer interface {
	Infer(ctx context.Context, input ModelInput) (Prediction, error)
}

// Differ converts one predicted allele sequence into candidate variants by
// comparison against the reference window starting at offset.
type Differ interface {
	Diff(chrom, ref, pred string, offset int, conf []float64) ([]*variant.Variant, error)
}

// Caller runs the engine.  All fields must be set; NewCaller applies
// defaulted options.
type Caller struct {
	Opts  Opts
	Reads ReadSource
	Ref   RefSource
	Enc   Encoder
	Inf   Inferrer
	Diff  Differ
}

// NewCaller returns a Caller over the given collaborators with opts
// normalized against DefaultOpts.
func NewCaller(opts Opts, reads ReadSource, ref RefSource, enc Encoder, inf Inferrer, diff Differ) *Caller {
	return &Caller{
		Opts:  opts.withDefaults(),
		Reads: reads,
		Ref:   ref,
		Enc:   enc,
		Inf:   inf,
		Diff:  diff,
	}
}
