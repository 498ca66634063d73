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
package pileup

import (
	"context"

	"github.com/grailbio/hapcall/call"
	"github.com/pkg/errors"
)

// Consensus is a per-position majority predictor over Columns.  The
// majority base becomes the first allele; a runner-up base whose count
// reaches HetFraction of the position's depth becomes the second allele,
// otherwise the second allele copies the first.  Positions with no counted
// bases predict the reference.  It emits one base per window position, so
// only substitutions are predicted.
type Consensus struct {
	// HetFraction is the minimum fraction of a position's depth the
	// runner-up base needs to be called as a second allele.
	HetFraction float64
}

// NewConsensus returns a Consensus with the given het threshold.
func NewConsensus(hetFraction float64) *Consensus {
	return &Consensus{HetFraction: hetFraction}
}

// Infer implements the prediction over a Columns input.
func (c *Consensus) Infer(ctx context.Context, input call.ModelInput) (call.Prediction, error) {
	cols, ok := input.(*Columns)
	if !ok {
		return call.Prediction{}, errors.Errorf("pileup.Consensus: unsupported input type %T", input)
	}
	width := cols.Width()
	hap0 := make([]byte, width)
	hap1 := make([]byte, width)
	conf0 := make([]float64, width)
	conf1 := make([]float64, width)
	for i := 0; i < width; i++ {
		depth := cols.Depth[i]
		best, second := BaseX, BaseX
		var bestN, secondN int32
		for b := byte(0); b < NBase; b++ {
			n := cols.Counts[i][b]
			if n > bestN {
				second, secondN = best, bestN
				best, bestN = b, n
			} else if n > secondN {
				second, secondN = b, n
			}
		}
		if bestN == 0 {
			hap0[i] = cols.Ref[i]
			hap1[i] = cols.Ref[i]
			continue
		}
		hap0[i] = EnumToASCIITable[best]
		conf0[i] = float64(bestN) / float64(depth)
		if secondN > 0 && float64(secondN) >= c.HetFraction*float64(depth) {
			hap1[i] = EnumToASCIITable[second]
			conf1[i] = float64(secondN) / float64(depth)
		} else {
			hap1[i] = hap0[i]
			conf1[i] = conf0[i]
		}
	}
	return call.Prediction{
		Hap0:  string(hap0),
		Hap1:  string(hap1),
		Conf0: conf0,
		Conf1: conf1,
	}, nil
}
