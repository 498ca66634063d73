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
	"github.com/grailbio/hapcall/call"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// Columns is the per-position encoding of a read pileup over one reference
// window.  Counts[i][b] is the number of read bases with enum value b
// aligned to window position i; Depth[i] is their sum.
type Columns struct {
	Chrom  string
	Start  int
	Ref    string
	Depth  []int32
	Counts [][NBaseEnum]int32
}

// Width returns the window width in bases.
func (c *Columns) Width() int { return len(c.Ref) }

// Encoder builds Columns from aligned reads.  Bases with quality below
// MinBaseQual are not counted.
type Encoder struct {
	MinBaseQual byte
}

// NewEncoder returns an Encoder with the given base-quality floor.
func NewEncoder(minBaseQual byte) *Encoder {
	return &Encoder{MinBaseQual: minBaseQual}
}

// Encode walks each read's CIGAR and accumulates match-op bases that land
// inside [start, start+len(refWindow)).  Insertions consume read bases
// only, deletions and skips consume reference only, and clips are handled
// per the SAM spec; any other CIGAR op is an error.
func (e *Encoder) Encode(reads []*sam.Record, refWindow string, chrom string, start int) (call.ModelInput, error) {
	width := len(refWindow)
	cols := &Columns{
		Chrom:  chrom,
		Start:  start,
		Ref:    refWindow,
		Depth:  make([]int32, width),
		Counts: make([][NBaseEnum]int32, width),
	}
	var seq8 []byte
	for _, samr := range reads {
		seq8 = UnpackSeq(seq8[:0], samr.Seq)
		posInRef := samr.Pos
		posInRead := 0
		for _, co := range samr.Cigar {
			cLen := co.Len()
			switch co.Type() {
			case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
				for offset := 0; offset < cLen; offset++ {
					refPos := posInRef + offset
					if refPos < start || refPos >= start+width {
						continue
					}
					readPos := posInRead + offset
					if len(samr.Qual) > readPos && samr.Qual[readPos] < e.MinBaseQual {
						continue
					}
					base := Seq8ToEnumTable[seq8[readPos]&0xf]
					cols.Counts[refPos-start][base]++
					cols.Depth[refPos-start]++
				}
				posInRef += cLen
				posInRead += cLen
			case sam.CigarInsertion:
				posInRead += cLen
			case sam.CigarSkipped, sam.CigarDeletion:
				posInRef += cLen
			case sam.CigarSoftClipped:
				posInRead += cLen
			case sam.CigarHardClipped, sam.CigarPadded:
				// do nothing
			default:
				return nil, errors.Errorf("pileup.Encode: unexpected CIGAR code %v in read %s", co, samr.Name)
			}
		}
	}
	return cols, nil
}
