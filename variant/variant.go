// Package variant defines the variant records produced by the calling
// engine, the value-typed identity key used to aggregate repeat calls, and
// the per-haplotype accumulation buckets.
package variant

import (
	"fmt"
	"sort"
)

// Key uniquely identifies a variant call within one chromosome: the 0-based
// reference position plus the ref/alt allele pair.  Two calls with equal
// keys describe the same event, regardless of which window produced them.
type Key struct {
	Pos int
	Ref string
	Alt string
}

// Less imposes a total order on keys: position first, then ref, then alt.
func (k Key) Less(other Key) bool {
	if k.Pos != other.Pos {
		return k.Pos < other.Pos
	}
	if k.Ref != other.Ref {
		return k.Ref < other.Ref
	}
	return k.Alt < other.Alt
}

// Genotype is an ordered allele pair.  The order is significant: {1, 0} and
// {0, 1} describe the same zygosity on opposite haplotypes, and region-level
// reconciliation may reverse the order wholesale.
type Genotype [2]uint8

// HomAlt is the genotype of a call present in both haplotype buckets.
var HomAlt = Genotype{1, 1}

// Het reports whether the two alleles differ.
func (g Genotype) Het() bool { return g[0] != g[1] }

// Reversed returns the genotype with the allele order flipped.
func (g Genotype) Reversed() Genotype { return Genotype{g[1], g[0]} }

// String renders the genotype in VCF GT syntax.  Heterozygous calls are
// rendered phased ('|') since the engine tracks their haplotype; homozygous
// calls are rendered unphased.
func (g Genotype) String() string {
	if g.Het() {
		return fmt.Sprintf("%d|%d", g[0], g[1])
	}
	return fmt.Sprintf("%d/%d", g[0], g[1])
}

// Variant is one candidate or reconciled call.  Identity fields (Pos, Ref,
// Alt) are immutable after creation; Hap, Genotype, PhaseSet, and Duplicate
// are rewritten only by the reconciliation stages.
type Variant struct {
	Chrom string
	// Pos is the 0-based reference position of the first ref base.
	Pos int
	Ref string
	Alt string
	// Qual is the model's probability-like confidence in [0, 1].
	Qual float64
	// Hap is the haplotype bucket (0 or 1) currently assigned to the call.
	// Meaningful for heterozygous calls only.
	Hap      int
	Genotype Genotype
	// PhaseSet groups co-phased calls; 0 means unassigned.
	PhaseSet  int
	Duplicate bool
	// Step and Region record which fine window and coarse region produced
	// the call, for auditing.
	Step   int
	Region int
}

// Key returns the call's identity key.
func (v *Variant) Key() Key { return Key{Pos: v.Pos, Ref: v.Ref, Alt: v.Alt} }

// Het reports whether the call's genotype is heterozygous.
func (v *Variant) Het() bool { return v.Genotype.Het() }

func (v *Variant) String() string {
	return fmt.Sprintf("%s:%d %s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

// Bucket accumulates one haplotype's calls for a region.  Each identity maps
// to every occurrence observed across the region's steps, in step order;
// repeat calls append, they never replace.
type Bucket map[Key][]*Variant

// Add appends one occurrence.
func (b Bucket) Add(v *Variant) {
	k := v.Key()
	b[k] = append(b[k], v)
}

// Occurrences returns the number of accumulated calls for the identity.
func (b Bucket) Occurrences(k Key) int { return len(b[k]) }

// SortedKeys returns the bucket's identities in key order.
func (b Bucket) SortedKeys() []Key {
	keys := make([]Key, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Best returns the highest-confidence occurrence for the identity, or nil.
func (b Bucket) Best(k Key) *Variant {
	var best *Variant
	for _, v := range b[k] {
		if best == nil || v.Qual > best.Qual {
			best = v
		}
	}
	return best
}
