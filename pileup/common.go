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

// Package pileup encodes aligned reads over a reference window into
// per-position base counts, and provides a count-threshold consensus
// predictor over that encoding.
package pileup

import (
	"github.com/grailbio/hts/sam"
)

const (
	// BaseA represents an A base.
	BaseA byte = iota
	// BaseC represents an C base.
	BaseC
	// BaseG represents an G base.
	BaseG
	// BaseT represents an T base.
	BaseT
	// BaseX is a catch-all.
	BaseX
)

const (
	// NBase is the number of regular base types.
	NBase = 4
	// NBaseEnum counts BaseX as well as the regular base types.
	NBaseEnum = 5
)

// Seq8ToEnumTable is the .bam seq nibble -> A/C/G/T/X enum mapping.
var Seq8ToEnumTable = [...]byte{BaseX, BaseA, BaseC, BaseX, BaseG, BaseX, BaseX, BaseX, BaseT, BaseX, BaseX, BaseX, BaseX, BaseX, BaseX, BaseX}

// EnumToASCIITable is the A/C/G/T/X -> ASCII mapping, with X rendered as 'N'.
var EnumToASCIITable = [...]byte{'A', 'C', 'G', 'T', 'N'}

// ASCIIToEnumTable maps ASCII bases to the A/C/G/T/X enum; every other byte
// maps to BaseX.
var ASCIIToEnumTable = func() (t [256]byte) {
	for i := range t {
		t[i] = BaseX
	}
	t['A'], t['C'], t['G'], t['T'] = BaseA, BaseC, BaseG, BaseT
	t['a'], t['c'], t['g'], t['t'] = BaseA, BaseC, BaseG, BaseT
	return
}()

// UnpackSeq appends the 4-bit-per-base .bam sequence to dst, one nibble per
// byte, and returns the extended slice.
func UnpackSeq(dst []byte, seq sam.Seq) []byte {
	for i := 0; i < seq.Length; i++ {
		d := byte(seq.Seq[i>>1])
		if i&1 == 0 {
			dst = append(dst, d>>4)
		} else {
			dst = append(dst, d&0xf)
		}
	}
	return dst
}
